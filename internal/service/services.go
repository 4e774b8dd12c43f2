package service

import (
	"github.com/deppfellow/yelpcamp/internal/lib/job"
	"github.com/deppfellow/yelpcamp/internal/repository"
	"github.com/deppfellow/yelpcamp/internal/server"
)

type Services struct {
	Auth        *AuthService
	Campgrounds *CampgroundsService
	Reviews     *ReviewsService
	Job         *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	return &Services{
		Auth:        NewAuthService(s, repos),
		Campgrounds: NewCampgroundsService(s, repos),
		Reviews:     NewReviewsService(s, repos),
		Job:         s.Job,
	}, nil
}
