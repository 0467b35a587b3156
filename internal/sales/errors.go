package sales

import "errors"

// ErrNotFound is returned by the storage layer when a lookup has no match.
var ErrNotFound = errors.New("registro no encontrado")

// ValidationError signals malformed or missing client input. Handlers map it
// to HTTP 400 with the message as-is.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError signals an unresolved catalog reference. Depending on context
// it surfaces as 400 (product lookup) or 403 (proxy-seller code).
type NotFoundError struct {
	Resource string // "producto" or "vendedor"
	Message  string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// AuthorizationError signals a caller that is not allowed to perform the
// operation, e.g. a proxy sale under a name outside the caller's team.
type AuthorizationError struct {
	Message string
}

func (e *AuthorizationError) Error() string {
	return e.Message
}
