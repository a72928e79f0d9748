package leads

import "errors"

var (
	// ErrMissingFields is returned when nombre or email is absent
	ErrMissingFields = errors.New("nombre y email son requeridos")

	// ErrInvalidEmail is returned when the email does not look like an address
	ErrInvalidEmail = errors.New("email inválido")

	// ErrDuplicateEmail is returned when a lead already exists for the email
	ErrDuplicateEmail = errors.New("email already registered")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")
)
