package service

import "fmt"

// ValidationError reports a request that is well-formed JSON but violates a
// business rule not expressible as a field check.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func invalidf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
