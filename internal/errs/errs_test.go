package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind_Status(t *testing.T) {
	testCases := []struct {
		kind Kind
		want int
	}{
		{InvalidPassword, http.StatusUnprocessableEntity},
		{EmailAlreadyTaken, http.StatusUnprocessableEntity},
		{UnprocessableEntity, http.StatusUnprocessableEntity},
		{EmailCheckFailed, http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.kind.String(), func(t *testing.T) {
			assert.Equal(t, tc.want, tc.kind.Status())
		})
	}
}

func TestNew(t *testing.T) {
	err := New(EmailAlreadyTaken, "Email already taken")

	assert.Equal(t, "EMAIL_ALREADY_TAKEN", err.Code)
	assert.Equal(t, "Email already taken", err.Error())
	assert.Equal(t, http.StatusUnprocessableEntity, err.Status)
	assert.True(t, err.Override)

	assert.False(t, New(EmailCheckFailed, "x").Override)
}

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", New(InvalidPassword, "mismatch"))
	assert.Equal(t, InvalidPassword, KindOf(wrapped))

	assert.Equal(t, Kind(""), KindOf(NewInternalServerError()))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(nil))
}

func TestHTTPError_WithCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := New(EmailCheckFailed, "Failed to check email").WithCause(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed to check email", err.Error())

	var httpErr *HTTPError
	require.ErrorAs(t, fmt.Errorf("wrap: %w", err), &httpErr)
	assert.Equal(t, EmailCheckFailed.String(), httpErr.Code)
}

func TestHTTPError_WithMessage(t *testing.T) {
	base := NewNotFoundError("Resource not found", false, nil)
	custom := base.WithMessage("User not found")

	assert.Equal(t, "Resource not found", base.Message)
	assert.Equal(t, "User not found", custom.Message)
	assert.Equal(t, base.Code, custom.Code)
	assert.Equal(t, base.Status, custom.Status)
}

func TestNewBadRequestError_CustomCode(t *testing.T) {
	code := "USER_ALREADY_EXISTS"
	err := NewBadRequestError("exists", true, &code, nil, nil)
	assert.Equal(t, code, err.Code)

	assert.Equal(t, "BAD_REQUEST", NewBadRequestError("bad", false, nil, nil, nil).Code)
}

func TestMakeUpperCaseWithUnderscores(t *testing.T) {
	assert.Equal(t, "UNPROCESSABLE_ENTITY", MakeUpperCaseWithUnderscores("Unprocessable Entity"))
}
