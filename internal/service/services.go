// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/deppfellow/users-api/internal/lib/cache"
	"github.com/deppfellow/users-api/internal/lib/job"
	"github.com/deppfellow/users-api/internal/repository"
	"github.com/deppfellow/users-api/internal/server"
)

type Services struct {
	User *UserService
	Job  *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var userCache UserCache
	if s.Config.Cache.Enabled {
		userCache = cache.NewUserCache(s.Redis, s.Config.Cache.TTL)
	}

	var jobs TaskEnqueuer
	if s.Job != nil {
		jobs = s.Job.Client
	}

	userService := NewUserService(repos.User, userCache, jobs, s.Config.Auth.BcryptCost, s.Logger)

	return &Services{
		User: userService,
		Job:  s.Job,
	}, nil
}
