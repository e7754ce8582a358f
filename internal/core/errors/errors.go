package errors

import "errors"

// Domain errors - these represent delivery-pipeline rule violations
var (
	// Credentials & session
	ErrMissingCredentials = errors.New("recipient identity or access credential missing")
	ErrCredentialExpired  = errors.New("access credential expired")
	ErrMissingIdentity    = errors.New("credential carries no user identity")

	// Push channel frames
	ErrControlFrame   = errors.New("administrative control frame")
	ErrMalformedFrame = errors.New("malformed frame")

	// Side effects
	ErrPermissionDenied = errors.New("os notification permission denied")
	ErrNoCuePlayed      = errors.New("no audio cue strategy succeeded")

	// Diagnostics
	ErrTestRateLimited = errors.New("test event rate limited")

	// Generic
	ErrBadRequest = errors.New("bad request")
)

// AppError wraps errors with additional context for control API responses
type AppError struct {
	Err        error  // The underlying error
	Message    string // User-friendly message
	Code       string // Machine-readable error code
	StatusCode int    // HTTP status code
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Err.Error()
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Error constructors for common cases
func NewBadRequestError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "BAD_REQUEST",
		StatusCode: 400,
	}
}

func NewBadGatewayError(err error, message string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		Code:       "UPSTREAM_ERROR",
		StatusCode: 502,
	}
}
