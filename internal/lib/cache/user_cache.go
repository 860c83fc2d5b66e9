// Package cache keeps read-through copies of users in Redis.
package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/deppfellow/users-api/internal/model"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const (
	userKeyPrefix = "users:"

	// versionTTL bounds how long an invalidation is remembered. It only
	// has to outlive a single database read.
	versionTTL = time.Hour
)

// UserCache stores users as JSON under "users:<id>".
//
// PasswordHash is excluded from the JSON form of model.User, so cached
// users never carry it; callers needing the hash must read the database.
//
// Every Delete bumps a per-user version under "users:<id>:version".
// Readers take the version before loading the user from the database and
// store it with SetIfVersion, which refuses to write once the version
// moved, so a read racing an update or delete cannot resurrect old data.
type UserCache struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewUserCache returns a cache writing entries with the given TTL.
func NewUserCache(client redis.UniversalClient, ttl time.Duration) *UserCache {
	return &UserCache{client: client, ttl: ttl}
}

func userKey(id string) string {
	return userKeyPrefix + id
}

func versionKey(id string) string {
	return userKeyPrefix + id + ":version"
}

// Get returns the cached user, or nil and no error on a miss.
func (c *UserCache) Get(ctx context.Context, id string) (*model.User, error) {
	raw, err := c.client.Get(ctx, userKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read cached user %s", id)
	}

	var u model.User
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, errors.Wrapf(err, "failed to decode cached user %s", id)
	}
	return &u, nil
}

// Version returns the invalidation counter of id, zero when it was never
// invalidated.
func (c *UserCache) Version(ctx context.Context, id string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrapf(err, "failed to read cache version of user %s", id)
	}
	return v, nil
}

// SetIfVersion stores u only while its invalidation counter still equals
// version. It reports whether the entry was written.
func (c *UserCache) SetIfVersion(ctx context.Context, u *model.User, version int64) (bool, error) {
	raw, err := json.Marshal(u)
	if err != nil {
		return false, errors.Wrap(err, "failed to encode user")
	}

	id := u.ID.String()
	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey(id)).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, userKey(id), raw, c.ttl)
			return nil
		})
		stored = err == nil
		return err
	}, versionKey(id))

	// The version changed between WATCH and EXEC.
	if errors.Is(err, redis.TxFailedErr) {
		return false, nil
	}
	if err != nil {
		return false, errors.Wrapf(err, "failed to cache user %s", id)
	}
	return stored, nil
}

// Delete drops the entry for id and bumps its version. Missing entries
// are not an error.
func (c *UserCache) Delete(ctx context.Context, id string) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, userKey(id))
		pipe.Incr(ctx, versionKey(id))
		pipe.Expire(ctx, versionKey(id), versionTTL)
		return nil
	})
	if err != nil {
		return errors.Wrapf(err, "failed to evict cached user %s", id)
	}
	return nil
}
