package core

import "github.com/pkg/errors"

// FieldError is one rejected field of a request, keyed by its wire name.
type FieldError struct {
	Field string
	Error string
}

// ValidationError carries per-field rejections for a request that could not
// be processed. The HTTP layer renders Fields as a field→message map.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(msg string, flds ...FieldError) error {
	return &ValidationError{Err: errors.New(msg), Fields: flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}
