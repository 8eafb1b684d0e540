package contact

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

// Field names used as keys in validation results.
const (
	FieldName    = "name"
	FieldEmail   = "email"
	FieldMessage = "message"
)

const (
	nameMin    = 2
	nameMax    = 100
	emailMax   = 254
	messageMin = 10
	messageMax = 2000
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form is one contact submission.
type Form struct {
	Name    string
	Email   string
	Message string
}

// FieldErrors maps a field name to its validation message.
type FieldErrors map[string]string

// ValidationError reports every invalid field of a form.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "contact: invalid form: " + strings.Join(parts, "; ")
}

// Validate checks the trimmed fields and returns a message per invalid field.
// An empty result means the form is valid.
func (f Form) Validate() FieldErrors {
	errs := FieldErrors{}

	name := strings.TrimSpace(f.Name)
	switch n := utf8.RuneCountInString(name); {
	case n == 0:
		errs[FieldName] = "Name is required."
	case n < nameMin:
		errs[FieldName] = "Name must be at least 2 characters."
	case n > nameMax:
		errs[FieldName] = "Name must be under 100 characters."
	}

	email := strings.TrimSpace(f.Email)
	switch {
	case email == "":
		errs[FieldEmail] = "Email is required."
	case !emailPattern.MatchString(email):
		errs[FieldEmail] = "Please enter a valid email address."
	case utf8.RuneCountInString(email) > emailMax:
		errs[FieldEmail] = "Email address is too long."
	}

	message := strings.TrimSpace(f.Message)
	switch n := utf8.RuneCountInString(message); {
	case n == 0:
		errs[FieldMessage] = "Message is required."
	case n < messageMin:
		errs[FieldMessage] = "Message must be at least 10 characters."
	case n > messageMax:
		errs[FieldMessage] = "Message must be under 2000 characters."
	}

	return errs
}

var (
	strict = bluemonday.StrictPolicy()
	angles = strings.NewReplacer("<", "&lt;", ">", "&gt;")
)

// Sanitized returns a copy with markup stripped from every field and
// surrounding whitespace removed. The fields feed a plain-text template, so
// only angle brackets stay escaped.
func (f Form) Sanitized() Form {
	return Form{
		Name:    sanitize(f.Name),
		Email:   sanitize(f.Email),
		Message: sanitize(f.Message),
	}
}

func sanitize(s string) string {
	return strings.TrimSpace(angles.Replace(html.UnescapeString(strict.Sanitize(s))))
}
