package errs

import (
	"errors"
	"net/http"
)

// Kind is the closed set of domain error kinds raised by the user
// handlers. The kind doubles as the machine-readable response code.
type Kind string

const (
	// InvalidPassword: password and its confirmation differ, or the new
	// password equals the old one.
	InvalidPassword Kind = "INVALID_PASSWORD"

	// EmailAlreadyTaken: another user is registered with the email.
	EmailAlreadyTaken Kind = "EMAIL_ALREADY_TAKEN"

	// UnprocessableEntity: unknown resource or a failure reported by the
	// user service.
	UnprocessableEntity Kind = "UNPROCESSABLE_ENTITY"

	// EmailCheckFailed: the duplicate-email lookup itself failed, so
	// availability is unknown.
	EmailCheckFailed Kind = "EMAIL_CHECK_FAILED"
)

// Kinds lists every Kind.
var Kinds = []Kind{InvalidPassword, EmailAlreadyTaken, UnprocessableEntity, EmailCheckFailed}

// Status returns the HTTP status a Kind is reported with.
func (k Kind) Status() int {
	switch k {
	case InvalidPassword, EmailAlreadyTaken, UnprocessableEntity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	return string(k)
}

// New creates an HTTPError of the given kind.
//
// Messages of client-caused kinds are safe to show as-is, so Override is
// set for every kind except EmailCheckFailed.
func New(kind Kind, message string) *HTTPError {
	return &HTTPError{
		Code:     kind.String(),
		Message:  message,
		Status:   kind.Status(),
		Override: kind != EmailCheckFailed,
	}
}

// KindOf returns the Kind carried by err, or "" when err is not an
// HTTPError built from a Kind.
func KindOf(err error) Kind {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return ""
	}
	for _, k := range Kinds {
		if httpErr.Code == k.String() {
			return k
		}
	}
	return ""
}
