package repository

import (
	"github.com/deppfellow/users-api/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	User *UserRepository
}

// NewRepositories builds every repository on the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		User: NewUserRepository(s.DB.Pool),
	}
}
