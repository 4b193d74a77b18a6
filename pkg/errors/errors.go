package errors

import "fmt"

var (
	// Tokens
	ErrInvalidSigningMethod = fmt.Errorf("invalid token signing method")
	ErrInvalidToken         = fmt.Errorf("invalid token")
	ErrTokenExpired         = fmt.Errorf("token has expired")
	ErrTokenNotYetValid     = fmt.Errorf("token is not active yet")
	ErrTokenIsNotRefresh    = fmt.Errorf("token is not a refresh token")
	ErrTokenIsNotAccess     = fmt.Errorf("token is not an access token")

	// Authorization
	ErrEmptyAuthHeader    = fmt.Errorf("authorization header is missing")
	ErrInvalidAuthHeader  = fmt.Errorf("malformed authorization header")
	ErrInvalidCredentials = fmt.Errorf("invalid credentials")
	ErrUnauthorized       = fmt.Errorf("unauthorized")
	ErrForbidden          = fmt.Errorf("forbidden")

	// Context
	ErrActorNotFoundInContext = fmt.Errorf("actor identity not found in request context")

	// Workflow
	ErrIllegalTransition        = fmt.Errorf("illegal status transition")
	ErrInsufficientAvailability = fmt.Errorf("insufficient available equipment")

	// Generic
	ErrNotFound   = fmt.Errorf("record not found")
	ErrBadRequest = fmt.Errorf("bad request")
)

type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string { return e.Message }

func NewInvalidInputError(format string, args ...interface{}) error {
	return &InvalidInputError{Message: fmt.Sprintf(format, args...)}
}

// HttpError carries an explicit HTTP status with the underlying cause.
type HttpError struct {
	Code    int
	Message string
	Err     error
}

func (e *HttpError) Error() string { return e.Message }

func (e *HttpError) Unwrap() error { return e.Err }

func NewHttpError(code int, message string, err error) *HttpError {
	return &HttpError{Code: code, Message: message, Err: err}
}
