package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden indicates a missing capability.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries a user-correctable input problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Invalid builds a ValidationError for a field.
func Invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// UserSafeMessage maps an error to a message safe to show the user.
func UserSafeMessage(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, ErrNotFound):
		return "record not found"
	case errors.Is(err, ErrInvalidCredentials):
		return "incorrect username or password"
	case errors.Is(err, ErrForbidden):
		return "operation not permitted"
	}
	return "operation failed"
}
