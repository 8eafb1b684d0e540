package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrNotConfigured means one of the three delivery identifiers is missing.
	ErrNotConfigured = errors.New("contact: email service is not configured")
	// ErrDelivery covers transport failures and rejected sends.
	ErrDelivery = errors.New("contact: delivery failed")
)

// UserMessage returns the text shown to the visitor for a Submit error.
func UserMessage(err error) string {
	var verr *ValidationError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return "Please fix the highlighted fields."
	case errors.Is(err, ErrNotConfigured):
		return "Email service is not configured. Please contact the administrator."
	default:
		return "Something went wrong. Please try again or reach us through social media."
	}
}

const (
	sendPath       = "/api/v1.0/email/send"
	defaultBaseURL = "https://api.emailjs.com"
)

// Credentials identify the EmailJS account, service and template.
type Credentials struct {
	PublicKey  string
	ServiceID  string
	TemplateID string
}

// Complete reports whether all three identifiers are present.
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.PublicKey) != "" &&
		strings.TrimSpace(c.ServiceID) != "" &&
		strings.TrimSpace(c.TemplateID) != ""
}

// Receipt confirms a delivered submission.
type Receipt struct {
	Reference string
	SentAt    time.Time
}

// Option customizes Submitter construction.
type Option func(*Submitter)

// WithBaseURL points the submitter at a different API host.
func WithBaseURL(base string) Option {
	return func(s *Submitter) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			s.baseURL = base
		}
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Submitter) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Submitter) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock allows tests to control receipt timestamps.
func WithClock(clock func() time.Time) Option {
	return func(s *Submitter) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// Submitter validates contact forms and forwards them to EmailJS.
type Submitter struct {
	creds      Credentials
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	clock      func() time.Time
}

// NewSubmitter prepares a submitter for the given credentials.
func NewSubmitter(creds Credentials, opts ...Option) *Submitter {
	s := &Submitter{
		creds:      creds,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     zap.NewNop(),
		clock:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

type sendRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams templateParams `json:"template_params"`
}

type templateParams struct {
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	Message   string `json:"message"`
}

// Submit validates form and sends it. Invalid forms return a
// *ValidationError without contacting the service. Nothing is retried.
func (s *Submitter) Submit(ctx context.Context, form Form) (Receipt, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return Receipt{}, &ValidationError{Fields: errs}
	}
	if !s.creds.Complete() {
		s.logger.Warn("contact delivery not configured")
		return Receipt{}, ErrNotConfigured
	}

	clean := form.Sanitized()
	body, err := json.Marshal(sendRequest{
		ServiceID:  s.creds.ServiceID,
		TemplateID: s.creds.TemplateID,
		UserID:     s.creds.PublicKey,
		TemplateParams: templateParams{
			FromName:  clean.Name,
			FromEmail: clean.Email,
			Message:   clean.Message,
		},
	})
	if err != nil {
		return Receipt{}, fmt.Errorf("%w: encode request: %w", ErrDelivery, err)
	}

	if err := s.send(ctx, body); err != nil {
		s.logger.Warn("contact delivery failed", zap.Error(err))
		return Receipt{}, fmt.Errorf("%w: %w", ErrDelivery, err)
	}
	receipt := Receipt{Reference: uuid.NewString(), SentAt: s.clock()}
	s.logger.Info("contact delivered", zap.String("reference", receipt.Reference))
	return receipt, nil
}

func (s *Submitter) send(ctx context.Context, body []byte) error {
	url := s.baseURL + sendPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}
	return nil
}
