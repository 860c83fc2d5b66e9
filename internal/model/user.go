package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered user.
//
// PasswordHash is write-only: it is never serialized.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListUsersRequest carries no input; it exists so the list endpoint runs
// through the same bind/validate pipeline as the others.
type ListUsersRequest struct{}

func (r *ListUsersRequest) Validate() error {
	return nil
}

// GetUserRequest is GET /users/:id.
type GetUserRequest struct {
	ID string `param:"id" json:"-" validate:"required"`
}

func (r *GetUserRequest) Validate() error {
	return validate.Struct(r)
}

// CreateUserRequest is POST /users.
//
// Equality of Password and PasswordConfirm is checked by the handler, not
// here, so a mismatch is reported as INVALID_PASSWORD instead of a field
// error.
type CreateUserRequest struct {
	Name            string `json:"name" validate:"required,min=1,max=100"`
	Email           string `json:"email" validate:"required,max=255,email"`
	Password        string `json:"password" validate:"required,min=6,max=32"`
	PasswordConfirm string `json:"password_confirm" validate:"required,min=6,max=32"`
}

func (r *CreateUserRequest) Validate() error {
	return validate.Struct(r)
}

// CreateUserResponse echoes the created user's public fields.
type CreateUserResponse struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateUserRequest is PUT /users/:id.
type UpdateUserRequest struct {
	ID    string `param:"id" json:"-" validate:"required"`
	Name  string `json:"name" validate:"required,min=1,max=100"`
	Email string `json:"email" validate:"required,max=255,email"`
}

func (r *UpdateUserRequest) Validate() error {
	return validate.Struct(r)
}

// ChangePasswordRequest is PUT /users/:id/change-password.
type ChangePasswordRequest struct {
	ID                 string `param:"id" json:"-" validate:"required"`
	OldPassword        string `json:"oldPassword" validate:"required,min=6,max=32"`
	NewPassword        string `json:"newPassword" validate:"required,min=6,max=32"`
	NewPasswordConfirm string `json:"newPasswordConfirm" validate:"required,min=6,max=32"`
}

func (r *ChangePasswordRequest) Validate() error {
	return validate.Struct(r)
}

// ChangePasswordResponse echoes the submitted fields.
type ChangePasswordResponse struct {
	ID                 string `json:"id"`
	OldPassword        string `json:"oldPassword"`
	NewPassword        string `json:"newPassword"`
	NewPasswordConfirm string `json:"newPasswordConfirm"`
}

// DeleteUserRequest is DELETE /users/:id.
type DeleteUserRequest struct {
	ID string `param:"id" json:"-" validate:"required"`
}

func (r *DeleteUserRequest) Validate() error {
	return validate.Struct(r)
}

// IDResponse is returned by update and delete.
type IDResponse struct {
	ID string `json:"id"`
}
