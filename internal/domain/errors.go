package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict is a unique-constraint clash (duplicate slug or email).
	ErrConflict = errors.New("conflict")
	// ErrAdminExists rejects a second admin bootstrap.
	ErrAdminExists = errors.New("an admin account already exists")
)

// ValidationError is returned before any write when input is missing or malformed.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(field, msg string) error { return &ValidationError{Field: field, Msg: msg} }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
