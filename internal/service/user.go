package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/users-api/internal/lib/job"
	"github.com/deppfellow/users-api/internal/lib/utils"
	"github.com/deppfellow/users-api/internal/model"
	"github.com/deppfellow/users-api/internal/repository"
	"github.com/deppfellow/users-api/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// EmailStatus is the outcome of a duplicate-email check.
type EmailStatus int

const (
	// EmailAvailable means no user has the email.
	EmailAvailable EmailStatus = iota + 1
	// EmailTaken means some user already has the email.
	EmailTaken
)

func (s EmailStatus) String() string {
	switch s {
	case EmailAvailable:
		return "available"
	case EmailTaken:
		return "taken"
	default:
		return fmt.Sprintf("EmailStatus(%d)", int(s))
	}
}

// UserStore is the persistence the user service needs.
type UserStore interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *model.User) error
	UpdateUser(ctx context.Context, id uuid.UUID, name, email string) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// UserCache is an optional read-through cache keyed by user id.
//
// Delete invalidates an entry by bumping its version; SetIfVersion only
// writes while the version read before the database load is current.
type UserCache interface {
	Get(ctx context.Context, id string) (*model.User, error)
	Version(ctx context.Context, id string) (int64, error)
	SetIfVersion(ctx context.Context, u *model.User, version int64) (bool, error)
	Delete(ctx context.Context, id string) error
}

// TaskEnqueuer schedules background jobs. *asynq.Client satisfies it.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// UserService holds the business rules for users.
//
// cache and jobs may be nil. Their failures are logged and never fail
// the operation.
type UserService struct {
	store      UserStore
	cache      UserCache
	jobs       TaskEnqueuer
	bcryptCost int
	logger     *zerolog.Logger
}

// NewUserService wires a UserService.
func NewUserService(store UserStore, cache UserCache, jobs TaskEnqueuer, bcryptCost int, logger *zerolog.Logger) *UserService {
	return &UserService{
		store:      store,
		cache:      cache,
		jobs:       jobs,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// log prefers the request-scoped logger carried by ctx.
func (s *UserService) log(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return s.logger
}

// GetUsers returns all users, oldest first.
func (s *UserService) GetUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// GetUser returns the user with id, or nil when id is malformed or
// unknown.
func (s *UserService) GetUser(ctx context.Context, id string) (*model.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	// Only a cache that answered the lookup and the version read is
	// written back.
	fill := false
	var version int64
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, uid.String())
		switch {
		case err != nil:
			s.log(ctx).Warn().Err(err).Str("user_id", id).Msg("user cache read failed")
		case cached != nil:
			return cached, nil
		default:
			version, err = s.cache.Version(ctx, uid.String())
			if err != nil {
				s.log(ctx).Warn().Err(err).Str("user_id", id).Msg("user cache version read failed")
			} else {
				fill = true
			}
		}
	}

	user, err := s.store.GetUserByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if fill {
		stored, err := s.cache.SetIfVersion(ctx, user, version)
		switch {
		case err != nil:
			s.log(ctx).Warn().Err(err).Str("user_id", id).Msg("user cache write failed")
		case !stored:
			s.log(ctx).Debug().Str("user_id", id).Msg("user changed during read, not cached")
		}
	}
	return user, nil
}

// PreventDuplicateEmail reports whether email is already registered,
// ignoring case.
func (s *UserService) PreventDuplicateEmail(ctx context.Context, email string) (EmailStatus, error) {
	exists, err := s.store.EmailExists(ctx, email)
	if err != nil {
		return 0, err
	}
	if exists {
		return EmailTaken, nil
	}
	return EmailAvailable, nil
}

// CreateUser hashes the password and stores a new user. It returns false
// when the email was taken between the duplicate check and the insert.
func (s *UserService) CreateUser(ctx context.Context, name, email, password string) (bool, error) {
	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return false, err
	}

	user := &model.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if sqlerr.IsUniqueViolation(err) {
			s.log(ctx).Info().Str("email", email).Msg("email registered concurrently")
			return false, nil
		}
		return false, err
	}

	s.log(ctx).Info().Str("user_id", user.ID.String()).Msg("user created")
	s.enqueue(ctx, user.ID.String(), job.NewWelcomeEmailTask, email, name)
	return true, nil
}

// UpdateUser changes name and email. It returns false when id is
// malformed or unknown, or when the email belongs to another user.
func (s *UserService) UpdateUser(ctx context.Context, id, name, email string) (bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}

	err = s.store.UpdateUser(ctx, uid, name, email)
	switch {
	case errors.Is(err, repository.ErrNotFound), sqlerr.IsUniqueViolation(err):
		return false, nil
	case err != nil:
		return false, err
	}

	s.evict(ctx, uid)
	return true, nil
}

// CheckOldPassword verifies oldPassword against the stored hash and, when
// it matches and the new password is confirmed, stores the new one. It
// returns false when the user is unknown or a check fails.
func (s *UserService) CheckOldPassword(ctx context.Context, id, oldPassword, newPassword, newPasswordConfirm string) (bool, error) {
	if newPassword != newPasswordConfirm {
		return false, nil
	}

	uid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}

	// the cached copy has no hash; always read the store
	user, err := s.store.GetUserByID(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !utils.CheckPasswordHash(oldPassword, user.PasswordHash) {
		s.log(ctx).Info().Str("user_id", id).Msg("old password mismatch")
		return false, nil
	}

	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return false, err
	}

	err = s.store.UpdatePassword(ctx, uid, hash)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.evict(ctx, uid)
	s.enqueue(ctx, id, job.NewPasswordChangedEmailTask, user.Email, user.Name)
	return true, nil
}

// DeleteUser removes a user. It returns false when id is malformed or
// unknown.
func (s *UserService) DeleteUser(ctx context.Context, id string) (bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}

	err = s.store.DeleteUser(ctx, uid)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	s.evict(ctx, uid)
	return true, nil
}

func (s *UserService) evict(ctx context.Context, id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, id.String()); err != nil {
		s.log(ctx).Warn().Err(err).Str("user_id", id.String()).Msg("user cache eviction failed")
	}
}

func (s *UserService) enqueue(ctx context.Context, userID string, newTask func(to, name string) (*asynq.Task, error), to, name string) {
	if s.jobs == nil {
		return
	}

	task, err := newTask(to, name)
	if err != nil {
		s.log(ctx).Error().Err(err).Str("user_id", userID).Msg("failed to build email task")
		return
	}

	info, err := s.jobs.EnqueueContext(ctx, task)
	if err != nil {
		s.log(ctx).Error().Err(err).Str("user_id", userID).Str("task", task.Type()).Msg("failed to enqueue email task")
		return
	}

	s.log(ctx).Debug().Str("user_id", userID).Str("task", task.Type()).Str("task_id", info.ID).Msg("email task enqueued")
}
