package handler

import (
	"context"

	"github.com/deppfellow/users-api/internal/errs"
	"github.com/deppfellow/users-api/internal/model"
	"github.com/deppfellow/users-api/internal/server"
	"github.com/deppfellow/users-api/internal/service"
	"github.com/labstack/echo/v4"
)

// UserService is what the user endpoints need from the business layer.
type UserService interface {
	GetUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	PreventDuplicateEmail(ctx context.Context, email string) (service.EmailStatus, error)
	CreateUser(ctx context.Context, name, email, password string) (bool, error)
	UpdateUser(ctx context.Context, id, name, email string) (bool, error)
	CheckOldPassword(ctx context.Context, id, oldPassword, newPassword, newPasswordConfirm string) (bool, error)
	DeleteUser(ctx context.Context, id string) (bool, error)
}

// UserHandler serves the /users resource.
type UserHandler struct {
	Handler
	users UserService
}

func NewUserHandler(s *server.Server, users UserService) *UserHandler {
	return &UserHandler{
		Handler: NewHandler(s),
		users:   users,
	}
}

// ensureEmailAvailable fails with EMAIL_ALREADY_TAKEN when the email is
// registered and with EMAIL_CHECK_FAILED when the lookup itself fails.
func (h *UserHandler) ensureEmailAvailable(ctx context.Context, email string) error {
	status, err := h.users.PreventDuplicateEmail(ctx, email)
	if err != nil {
		return errs.New(errs.EmailCheckFailed, "Failed to check email").WithCause(err)
	}

	switch status {
	case service.EmailAvailable:
		return nil
	case service.EmailTaken:
		return errs.New(errs.EmailAlreadyTaken, "Email already taken")
	default:
		return errs.New(errs.EmailCheckFailed, "Failed to check email")
	}
}

// ListUsers returns every user.
func (h *UserHandler) ListUsers(c echo.Context, _ *model.ListUsersRequest) ([]model.User, error) {
	return h.users.GetUsers(c.Request().Context())
}

// GetUser returns a single user.
func (h *UserHandler) GetUser(c echo.Context, req *model.GetUserRequest) (*model.User, error) {
	user, err := h.users.GetUser(c.Request().Context(), req.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.New(errs.UnprocessableEntity, "Unknown user")
	}
	return user, nil
}

// CreateUser registers a user and echoes its name and email.
func (h *UserHandler) CreateUser(c echo.Context, req *model.CreateUserRequest) (model.CreateUserResponse, error) {
	ctx := c.Request().Context()

	if req.Password != req.PasswordConfirm {
		return model.CreateUserResponse{}, errs.New(errs.InvalidPassword, "Passwords do not match")
	}

	if err := h.ensureEmailAvailable(ctx, req.Email); err != nil {
		return model.CreateUserResponse{}, err
	}

	ok, err := h.users.CreateUser(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		return model.CreateUserResponse{}, err
	}
	if !ok {
		return model.CreateUserResponse{}, errs.New(errs.UnprocessableEntity, "Failed to create user")
	}

	return model.CreateUserResponse{Name: req.Name, Email: req.Email}, nil
}

// UpdateUser changes a user's name and email.
func (h *UserHandler) UpdateUser(c echo.Context, req *model.UpdateUserRequest) (model.IDResponse, error) {
	ctx := c.Request().Context()

	if err := h.ensureEmailAvailable(ctx, req.Email); err != nil {
		return model.IDResponse{}, err
	}

	ok, err := h.users.UpdateUser(ctx, req.ID, req.Name, req.Email)
	if err != nil {
		return model.IDResponse{}, err
	}
	if !ok {
		return model.IDResponse{}, errs.New(errs.UnprocessableEntity, "Failed to update user")
	}

	return model.IDResponse{ID: req.ID}, nil
}

// ChangePassword replaces a user's password after checking the old one.
// The old/new comparison runs first, independent of the confirmation.
func (h *UserHandler) ChangePassword(c echo.Context, req *model.ChangePasswordRequest) (model.ChangePasswordResponse, error) {
	if req.OldPassword == req.NewPassword {
		return model.ChangePasswordResponse{}, errs.New(errs.InvalidPassword, "New password must differ from the old password")
	}
	if req.NewPassword != req.NewPasswordConfirm {
		return model.ChangePasswordResponse{}, errs.New(errs.InvalidPassword, "Passwords do not match")
	}

	ok, err := h.users.CheckOldPassword(c.Request().Context(), req.ID, req.OldPassword, req.NewPassword, req.NewPasswordConfirm)
	if err != nil {
		return model.ChangePasswordResponse{}, err
	}
	if !ok {
		return model.ChangePasswordResponse{}, errs.New(errs.UnprocessableEntity, "Failed to change password")
	}

	return model.ChangePasswordResponse{
		ID:                 req.ID,
		OldPassword:        req.OldPassword,
		NewPassword:        req.NewPassword,
		NewPasswordConfirm: req.NewPasswordConfirm,
	}, nil
}

// DeleteUser removes a user.
func (h *UserHandler) DeleteUser(c echo.Context, req *model.DeleteUserRequest) (model.IDResponse, error) {
	ok, err := h.users.DeleteUser(c.Request().Context(), req.ID)
	if err != nil {
		return model.IDResponse{}, err
	}
	if !ok {
		return model.IDResponse{}, errs.New(errs.UnprocessableEntity, "Failed to delete user")
	}

	return model.IDResponse{ID: req.ID}, nil
}
