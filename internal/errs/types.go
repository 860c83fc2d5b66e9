package errs

import (
	"net/http"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// Parameters:
//   - message: text sent to the client
//   - override: whether the message is safe to show as-is
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors (validation errors)
//   - action: optional client instruction
//
// This is the error for "the request itself is wrong": field validation,
// malformed JSON, constraint violations reported by the database.
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	// http.StatusText(400) => "Bad Request" => "BAD_REQUEST"
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))

	// A custom code is used verbatim; the caller formats it.
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
//
// Supports optional custom code override similar to NewBadRequestError.
// Unknown users are not reported with it (they are UNPROCESSABLE_ENTITY);
// it covers unknown routes and rows missing behind sqlerr.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	// Default code: "NOT_FOUND"
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewTooManyRequestsError creates a 429 HTTPError for rate-limited clients.
//
// Override is true: the client should see why it was rejected.
func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		// http.StatusText(429) => "Too Many Requests" => "TOO_MANY_REQUESTS"
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusTooManyRequests)),
		Message:  message,
		Status:   http.StatusTooManyRequests,
		Override: true,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// Note:
//   - the message is the generic status text, never the real internal error.
//   - the real error is logged by the global error handler, not sent.
//   - Override is false: a generic 500 message is never replaced.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// ValidationError converts a generic validation error into a 400 Bad Request HTTPError.
//
// It is the fallback for validation failures that carry no per-field
// detail, so callers can do:
//
//	return errs.ValidationError(err)
//
// and the client still gets the usual error shape.
func ValidationError(err error) *HTTPError {
	// "Validation failed: <validator message>"
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}
