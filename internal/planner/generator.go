package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kingrea/aib-club/internal/site"
)

var (
	// ErrNotConfigured means no credentials are available for the backend.
	ErrNotConfigured = errors.New("gemini API key not configured; set AIBCLUB_GEMINI_API_KEY")
	// ErrAccount means the provider rejected the request for quota, billing
	// or key reasons.
	ErrAccount = errors.New("account error")
	// ErrEmptyIdea is returned for a blank idea.
	ErrEmptyIdea = errors.New("project idea is required")
)

// accountMarkers are substrings of a backend error or reply that identify a
// quota, billing or authorization problem.
var accountMarkers = []string{
	"quota",
	"billing",
	"insufficient",
	"exceeded",
	"401",
	"403",
	"Unauthorized",
	"invalid",
	"API key",
}

// ErrorClass groups generator failures for display.
type ErrorClass int

const (
	ClassGeneric ErrorClass = iota
	ClassConfig
	ClassAccount
)

// Classify maps an error returned by Generate to its display class.
func Classify(err error) ErrorClass {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return ClassConfig
	case errors.Is(err, ErrAccount):
		return ClassAccount
	default:
		return ClassGeneric
	}
}

// TextGenerator sends a prompt to a hosted text-generation model and returns
// the reply text.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Option customizes Generator construction.
type Option func(*Generator)

// WithLogger overrides the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithTools replaces the directory listed in the prompt.
func WithTools(tools []site.Tool) Option {
	return func(g *Generator) {
		g.tools = tools
	}
}

// Generator turns a free-text idea into a Plan.
type Generator struct {
	backend TextGenerator
	logger  *zap.Logger
	tools   []site.Tool
}

// New wires a generator to a backend. A nil backend yields a generator that
// reports ErrNotConfigured on every call.
func New(backend TextGenerator, opts ...Option) *Generator {
	g := &Generator{
		backend: backend,
		logger:  zap.NewNop(),
		tools:   site.Tools,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Configured reports whether a backend is available.
func (g *Generator) Configured() bool {
	return g != nil && g.backend != nil
}

// Generate requests a plan for idea. Errors are terminal for the request and
// are never retried.
func (g *Generator) Generate(ctx context.Context, idea string) (Plan, error) {
	idea = strings.TrimSpace(idea)
	if idea == "" {
		return Plan{}, ErrEmptyIdea
	}
	if !g.Configured() {
		return Plan{}, ErrNotConfigured
	}

	g.logger.Info("generating plan", zap.Int("idea_len", len(idea)))
	reply, err := g.backend.GenerateText(ctx, BuildPrompt(idea, g.tools))
	if err != nil {
		g.logger.Warn("plan request failed", zap.Error(err))
		if hasAccountMarker(err.Error()) {
			return Plan{}, fmt.Errorf("%w: %w", ErrAccount, err)
		}
		return Plan{}, fmt.Errorf("planner: generate: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return Plan{}, errors.New("planner: no response content from Gemini API")
	}

	raw, ok := ExtractObject(reply)
	if !ok {
		err := fmt.Errorf("planner: could not parse project plan from response. Response was: %s", preview(reply, 100))
		return Plan{}, g.replyError(reply, err)
	}
	var plan Plan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return Plan{}, g.replyError(reply, fmt.Errorf("planner: decode plan: %w", err))
	}
	if strings.TrimSpace(plan.Title) == "" && len(plan.Steps) == 0 {
		return Plan{}, errors.New("planner: reply did not contain a plan")
	}
	g.logger.Info("plan generated", zap.String("title", plan.Title), zap.Int("steps", len(plan.Steps)))
	return plan, nil
}

// replyError marks a parse failure as an account problem when the reply
// itself reports one, as providers sometimes answer in prose.
func (g *Generator) replyError(reply string, err error) error {
	if !hasAccountMarker(reply) {
		return err
	}
	g.logger.Warn("plan reply reports an account problem", zap.String("reply", preview(reply, 100)))
	return fmt.Errorf("%w: %w", ErrAccount, err)
}

func hasAccountMarker(text string) bool {
	for _, marker := range accountMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return false
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
