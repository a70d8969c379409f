package validator

import (
	"regexp"

	"github.com/angel-coaching/site-api/internal/form"
)

var (
	nonDigitRe = regexp.MustCompile(`\D`)
	emailRe    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	handleRe   = regexp.MustCompile(`^@?[\w.]+$`)
)

// Check reports whether a decoded submission value passes one rule.
type Check func(v any) bool

// Rule is one entry of an endpoint's ordered validation list.
type Rule struct {
	Field   string
	Check   Check
	Message string
}

// FieldError carries the first failing rule's field and human-readable
// message. Rules short-circuit, so the caller sees exactly one.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return e.Message
}

// Rules is evaluated in declaration order; the order decides which message a
// caller sees when multiple fields are bad.
type Rules []Rule

func (rs Rules) Validate(sub form.Submission) error {
	for _, r := range rs {
		if !r.Check(sub[r.Field]) {
			return &FieldError{Field: r.Field, Message: r.Message}
		}
	}
	return nil
}

// Present accepts any value that is non-blank after trimming. For list
// fields it accepts a non-empty array, or a single non-empty scalar that the
// shaper later coerces into a one-element list.
func Present(v any) bool {
	if arr, ok := v.([]any); ok {
		return len(arr) > 0
	}
	return form.Coerce(v) != ""
}

// Phone accepts values with at least 7 digits after stripping everything
// that is not a digit.
func Phone(v any) bool {
	digits := nonDigitRe.ReplaceAllString(form.Coerce(v), "")
	return len(digits) >= 7
}

// Email accepts a permissive local@domain.tld shape.
func Email(v any) bool {
	return emailRe.MatchString(form.Coerce(v))
}

// Contact accepts an email address, an @handle, or a phone number; any one
// match suffices.
func Contact(v any) bool {
	s := form.Coerce(v)
	if s == "" {
		return false
	}
	return emailRe.MatchString(s) || handleRe.MatchString(s) || Phone(s)
}
