package repository

import (
	"github.com/deppfellow/yelpcamp/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Users       *UsersRepository
	Campgrounds *CampgroundsRepository
	Reviews     *ReviewsRepository
}

// NewRepositories constructs the repository container. Repositories
// share the pool on s.DB and the logger on s.Logger.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Users:       NewUsersRepository(s),
		Campgrounds: NewCampgroundsRepository(s),
		Reviews:     NewReviewsRepository(s),
	}
}
