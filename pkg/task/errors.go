package task

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports user input that was rejected without changing state.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ValidateText trims s and checks it is non-empty and within MaxTextLength.
func ValidateText(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", &ValidationError{Field: "text", Reason: "please enter a task"}
	}
	if utf8.RuneCountInString(s) > MaxTextLength {
		return "", &ValidationError{
			Field:  "text",
			Reason: fmt.Sprintf("must be at most %d characters", MaxTextLength),
		}
	}
	return s, nil
}

// TruncateText trims s and cuts it to MaxTextLength runes. It reports
// whether anything was cut.
func TruncateText(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= MaxTextLength {
		return s, false
	}
	return strings.TrimSpace(string([]rune(s)[:MaxTextLength])), true
}
