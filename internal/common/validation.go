package common

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries per-field validation messages so callers can render
// field-level feedback. It is recoverable: the caller corrects the input and
// retries.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready to collect
// field messages.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a message for a field. The first message per field wins.
func (e *ValidationError) Add(field, message string) {
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = message
	}
}

// Empty reports whether no field messages were collected.
func (e *ValidationError) Empty() bool { return len(e.Fields) == 0 }

// ErrOrNil returns the error itself if any field message was collected,
// or nil so it can be returned directly from validation helpers.
func (e *ValidationError) ErrOrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("validation failed")
	for _, f := range fields {
		fmt.Fprintf(&b, "; %s: %s", f, e.Fields[f])
	}
	return b.String()
}
