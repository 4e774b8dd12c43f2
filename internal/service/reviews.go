package service

import (
	"context"

	"github.com/deppfellow/yelpcamp/internal/models"
	"github.com/deppfellow/yelpcamp/internal/repository"
	"github.com/deppfellow/yelpcamp/internal/server"
)

// ReviewsService manages reviews attached to campgrounds.
type ReviewsService struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewReviewsService(s *server.Server, repos *repository.Repositories) *ReviewsService {
	return &ReviewsService{
		server: s,
		repos:  repos,
	}
}

// Create attaches a review to a campground on behalf of authorID.
func (s *ReviewsService) Create(ctx context.Context, campgroundID, authorID, body string, rating int) (*models.Review, error) {
	return s.repos.Reviews.Create(ctx, campgroundID, authorID, body, rating)
}

// Delete removes a review from its campground.
func (s *ReviewsService) Delete(ctx context.Context, campgroundID, reviewID string) error {
	return s.repos.Reviews.Delete(ctx, campgroundID, reviewID)
}
