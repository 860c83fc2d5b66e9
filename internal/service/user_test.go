package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/deppfellow/users-api/internal/lib/job"
	"github.com/deppfellow/users-api/internal/lib/utils"
	"github.com/deppfellow/users-api/internal/model"
	"github.com/deppfellow/users-api/internal/repository"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) ListUsers(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]model.User)
	return users, args.Error(1)
}

func (m *mockStore) GetUserByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockStore) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockStore) CreateUser(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockStore) UpdateUser(ctx context.Context, id uuid.UUID, name, email string) error {
	return m.Called(ctx, id, name, email).Error(0)
}

func (m *mockStore) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *mockStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockCache) Version(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCache) SetIfVersion(ctx context.Context, u *model.User, version int64) (bool, error) {
	args := m.Called(ctx, u, version)
	return args.Bool(0), args.Error(1)
}

func (m *mockCache) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}

func taskOfType(taskType string) any {
	return mock.MatchedBy(func(t *asynq.Task) bool { return t.Type() == taskType })
}

func newTestService(store UserStore, cache UserCache, jobs TaskEnqueuer) *UserService {
	logger := zerolog.Nop()
	return NewUserService(store, cache, jobs, bcrypt.MinCost, &logger)
}

var errDB = errors.New("db down")

func TestGetUsers_EmptyIsNotNil(t *testing.T) {
	store := &mockStore{}
	store.On("ListUsers", mock.Anything).Return(nil, nil)

	users, err := newTestService(store, nil, nil).GetUsers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	user := &model.User{ID: id, Name: "A", Email: "a@x.com"}

	t.Run("malformed id", func(t *testing.T) {
		store := &mockStore{}
		got, err := newTestService(store, nil, nil).GetUser(ctx, "5")
		require.NoError(t, err)
		assert.Nil(t, got)
		store.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown id", func(t *testing.T) {
		store := &mockStore{}
		store.On("GetUserByID", ctx, id).Return(nil, repository.ErrNotFound)
		got, err := newTestService(store, nil, nil).GetUser(ctx, id.String())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("cache hit skips store", func(t *testing.T) {
		store := &mockStore{}
		cache := &mockCache{}
		cache.On("Get", ctx, id.String()).Return(user, nil)

		got, err := newTestService(store, cache, nil).GetUser(ctx, id.String())
		require.NoError(t, err)
		assert.Same(t, user, got)
		store.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})

	t.Run("cache miss fills cache", func(t *testing.T) {
		store := &mockStore{}
		store.On("GetUserByID", ctx, id).Return(user, nil)
		cache := &mockCache{}
		cache.On("Get", ctx, id.String()).Return(nil, nil)
		cache.On("Version", ctx, id.String()).Return(int64(3), nil)
		cache.On("SetIfVersion", ctx, user, int64(3)).Return(true, nil)

		got, err := newTestService(store, cache, nil).GetUser(ctx, id.String())
		require.NoError(t, err)
		assert.Same(t, user, got)
		cache.AssertExpectations(t)
	})

	t.Run("version is taken before the store read", func(t *testing.T) {
		var order []string
		store := &mockStore{}
		store.On("GetUserByID", ctx, id).Return(user, nil).
			Run(func(mock.Arguments) { order = append(order, "store") })
		cache := &mockCache{}
		cache.On("Get", ctx, id.String()).Return(nil, nil)
		cache.On("Version", ctx, id.String()).Return(int64(0), nil).
			Run(func(mock.Arguments) { order = append(order, "version") })
		cache.On("SetIfVersion", ctx, user, int64(0)).Return(true, nil).
			Run(func(mock.Arguments) { order = append(order, "set") })

		_, err := newTestService(store, cache, nil).GetUser(ctx, id.String())
		require.NoError(t, err)
		assert.Equal(t, []string{"version", "store", "set"}, order)
	})

	t.Run("invalidated during read still returns user", func(t *testing.T) {
		store := &mockStore{}
		store.On("GetUserByID", ctx, id).Return(user, nil)
		cache := &mockCache{}
		cache.On("Get", ctx, id.String()).Return(nil, nil)
		cache.On("Version", ctx, id.String()).Return(int64(0), nil)
		cache.On("SetIfVersion", ctx, user, int64(0)).Return(false, nil)

		got, err := newTestService(store, cache, nil).GetUser(ctx, id.String())
		require.NoError(t, err)
		assert.Same(t, user, got)
	})

	t.Run("cache failure falls back to store without writing", func(t *testing.T) {
		store := &mockStore{}
		store.On("GetUserByID", ctx, id).Return(user, nil)
		cache := &mockCache{}
		cache.On("Get", ctx, id.String()).Return(nil, errors.New("redis down"))

		got, err := newTestService(store, cache, nil).GetUser(ctx, id.String())
		require.NoError(t, err)
		assert.Same(t, user, got)
		cache.AssertNotCalled(t, "SetIfVersion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("version failure skips cache write", func(t *testing.T) {
		store := &mockStore{}
		store.On("GetUserByID", ctx, id).Return(user, nil)
		cache := &mockCache{}
		cache.On("Get", ctx, id.String()).Return(nil, nil)
		cache.On("Version", ctx, id.String()).Return(int64(0), errors.New("redis down"))

		got, err := newTestService(store, cache, nil).GetUser(ctx, id.String())
		require.NoError(t, err)
		assert.Same(t, user, got)
		cache.AssertNotCalled(t, "SetIfVersion", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("store error", func(t *testing.T) {
		store := &mockStore{}
		store.On("GetUserByID", ctx, id).Return(nil, errDB)
		_, err := newTestService(store, nil, nil).GetUser(ctx, id.String())
		assert.ErrorIs(t, err, errDB)
	})
}

func TestPreventDuplicateEmail(t *testing.T) {
	ctx := context.Background()

	store := &mockStore{}
	store.On("EmailExists", ctx, "taken@x.com").Return(true, nil)
	store.On("EmailExists", ctx, "free@x.com").Return(false, nil)
	store.On("EmailExists", ctx, "err@x.com").Return(false, errDB)
	svc := newTestService(store, nil, nil)

	status, err := svc.PreventDuplicateEmail(ctx, "taken@x.com")
	require.NoError(t, err)
	assert.Equal(t, EmailTaken, status)

	status, err = svc.PreventDuplicateEmail(ctx, "free@x.com")
	require.NoError(t, err)
	assert.Equal(t, EmailAvailable, status)

	_, err = svc.PreventDuplicateEmail(ctx, "err@x.com")
	assert.ErrorIs(t, err, errDB)
}

func TestCreateUser(t *testing.T) {
	ctx := context.Background()

	t.Run("stores hash and enqueues welcome email", func(t *testing.T) {
		store := &mockStore{}
		store.On("CreateUser", ctx, mock.MatchedBy(func(u *model.User) bool {
			return u.Name == "A" && u.Email == "a@x.com" && utils.CheckPasswordHash("secret1", u.PasswordHash)
		})).Run(func(args mock.Arguments) {
			args.Get(1).(*model.User).ID = uuid.New()
		}).Return(nil)
		jobs := &mockEnqueuer{}
		jobs.On("EnqueueContext", ctx, taskOfType(job.TaskWelcome)).Return(&asynq.TaskInfo{ID: "t1"}, nil)

		ok, err := newTestService(store, nil, jobs).CreateUser(ctx, "A", "a@x.com", "secret1")
		require.NoError(t, err)
		assert.True(t, ok)
		store.AssertExpectations(t)
		jobs.AssertExpectations(t)
	})

	t.Run("multibyte password longer than bcrypt input", func(t *testing.T) {
		password := strings.Repeat("密", 32)
		store := &mockStore{}
		store.On("CreateUser", ctx, mock.MatchedBy(func(u *model.User) bool {
			return utils.CheckPasswordHash(password, u.PasswordHash)
		})).Return(nil)

		ok, err := newTestService(store, nil, nil).CreateUser(ctx, "A", "a@x.com", password)
		require.NoError(t, err)
		assert.True(t, ok)
		store.AssertExpectations(t)
	})

	t.Run("unique violation reports failure", func(t *testing.T) {
		store := &mockStore{}
		store.On("CreateUser", ctx, mock.Anything).Return(&pgconn.PgError{Code: "23505"})
		jobs := &mockEnqueuer{}

		ok, err := newTestService(store, nil, jobs).CreateUser(ctx, "A", "a@x.com", "secret1")
		require.NoError(t, err)
		assert.False(t, ok)
		jobs.AssertNotCalled(t, "EnqueueContext", mock.Anything, mock.Anything)
	})

	t.Run("enqueue failure is not fatal", func(t *testing.T) {
		store := &mockStore{}
		store.On("CreateUser", ctx, mock.Anything).Return(nil)
		jobs := &mockEnqueuer{}
		jobs.On("EnqueueContext", ctx, mock.Anything).Return(nil, errors.New("redis down"))

		ok, err := newTestService(store, nil, jobs).CreateUser(ctx, "A", "a@x.com", "secret1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("store error propagates", func(t *testing.T) {
		store := &mockStore{}
		store.On("CreateUser", ctx, mock.Anything).Return(errDB)

		_, err := newTestService(store, nil, nil).CreateUser(ctx, "A", "a@x.com", "secret1")
		assert.ErrorIs(t, err, errDB)
	})
}

func TestUpdateUser(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("success evicts cache", func(t *testing.T) {
		store := &mockStore{}
		store.On("UpdateUser", ctx, id, "B", "b@x.com").Return(nil)
		cache := &mockCache{}
		cache.On("Delete", ctx, id.String()).Return(nil)

		ok, err := newTestService(store, cache, nil).UpdateUser(ctx, id.String(), "B", "b@x.com")
		require.NoError(t, err)
		assert.True(t, ok)
		cache.AssertExpectations(t)
	})

	t.Run("failures", func(t *testing.T) {
		store := &mockStore{}
		store.On("UpdateUser", ctx, id, "B", "missing@x.com").Return(repository.ErrNotFound)
		store.On("UpdateUser", ctx, id, "B", "dup@x.com").Return(&pgconn.PgError{Code: "23505"})
		svc := newTestService(store, nil, nil)

		for _, tc := range []struct{ id, email string }{
			{"5", "b@x.com"},
			{id.String(), "missing@x.com"},
			{id.String(), "dup@x.com"},
		} {
			ok, err := svc.UpdateUser(ctx, tc.id, "B", tc.email)
			require.NoError(t, err)
			assert.False(t, ok, tc.email)
		}
	})
}

func TestCheckOldPassword(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	hash, err := utils.HashPassword("oldpass", bcrypt.MinCost)
	require.NoError(t, err)
	user := &model.User{ID: id, Name: "A", Email: "a@x.com", PasswordHash: hash}

	t.Run("success", func(t *testing.T) {
		store := &mockStore{}
		store.On("GetUserByID", ctx, id).Return(user, nil)
		store.On("UpdatePassword", ctx, id, mock.MatchedBy(func(h string) bool {
			return utils.CheckPasswordHash("newpass", h)
		})).Return(nil)
		cache := &mockCache{}
		cache.On("Delete", ctx, id.String()).Return(nil)
		jobs := &mockEnqueuer{}
		jobs.On("EnqueueContext", ctx, taskOfType(job.TaskPasswordChanged)).Return(&asynq.TaskInfo{ID: "t2"}, nil)

		ok, err := newTestService(store, cache, jobs).CheckOldPassword(ctx, id.String(), "oldpass", "newpass", "newpass")
		require.NoError(t, err)
		assert.True(t, ok)
		store.AssertExpectations(t)
		cache.AssertExpectations(t)
		jobs.AssertExpectations(t)
	})

	t.Run("multibyte new password longer than bcrypt input", func(t *testing.T) {
		newPassword := strings.Repeat("密", 32)
		store := &mockStore{}
		store.On("GetUserByID", ctx, id).Return(user, nil)
		store.On("UpdatePassword", ctx, id, mock.MatchedBy(func(h string) bool {
			return utils.CheckPasswordHash(newPassword, h)
		})).Return(nil)

		ok, err := newTestService(store, nil, nil).CheckOldPassword(ctx, id.String(), "oldpass", newPassword, newPassword)
		require.NoError(t, err)
		assert.True(t, ok)
		store.AssertExpectations(t)
	})

	t.Run("wrong old password", func(t *testing.T) {
		store := &mockStore{}
		store.On("GetUserByID", ctx, id).Return(user, nil)

		ok, err := newTestService(store, nil, nil).CheckOldPassword(ctx, id.String(), "nope12", "newpass", "newpass")
		require.NoError(t, err)
		assert.False(t, ok)
		store.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unconfirmed new password", func(t *testing.T) {
		store := &mockStore{}

		ok, err := newTestService(store, nil, nil).CheckOldPassword(ctx, id.String(), "oldpass", "newpass", "other12")
		require.NoError(t, err)
		assert.False(t, ok)
		store.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown user", func(t *testing.T) {
		store := &mockStore{}
		store.On("GetUserByID", ctx, id).Return(nil, repository.ErrNotFound)

		ok, err := newTestService(store, nil, nil).CheckOldPassword(ctx, id.String(), "oldpass", "newpass", "newpass")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDeleteUser(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	store := &mockStore{}
	store.On("DeleteUser", ctx, id).Return(nil).Once()
	cache := &mockCache{}
	cache.On("Delete", ctx, id.String()).Return(errors.New("redis down"))
	svc := newTestService(store, cache, nil)

	ok, err := svc.DeleteUser(ctx, id.String())
	require.NoError(t, err)
	assert.True(t, ok)

	store.On("DeleteUser", ctx, id).Return(repository.ErrNotFound)
	ok, err = svc.DeleteUser(ctx, id.String())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.DeleteUser(ctx, "not-a-uuid")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEmailStatus_String(t *testing.T) {
	assert.Equal(t, "taken", EmailTaken.String())
	assert.Equal(t, "EmailStatus(0)", EmailStatus(0).String())
}
