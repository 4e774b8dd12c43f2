package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/yelpcamp/internal/models"
	"github.com/deppfellow/yelpcamp/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// ReviewsRepository persists campground reviews.
type ReviewsRepository struct {
	server *server.Server
}

func NewReviewsRepository(s *server.Server) *ReviewsRepository {
	return &ReviewsRepository{server: s}
}

// Create inserts a review for a campground. A missing campground
// surfaces as a foreign key violation.
func (r *ReviewsRepository) Create(ctx context.Context, campgroundID, authorID, body string, rating int) (*models.Review, error) {
	query := `
		INSERT INTO reviews (campground_id, author_id, body, rating)
		VALUES ($1, $2, $3, $4)
		RETURNING id, campground_id, author_id, body, rating, created_at
	`

	var review models.Review
	err := r.server.DB.Pool.QueryRow(ctx, query, campgroundID, authorID, body, rating).Scan(
		&review.ID,
		&review.CampgroundID,
		&review.AuthorID,
		&review.Body,
		&review.Rating,
		&review.CreatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create review")
	}

	return &review, nil
}

// GetByID fetches a review, used by ownership checks.
func (r *ReviewsRepository) GetByID(ctx context.Context, id string) (*models.Review, error) {
	query := `
		SELECT id, campground_id, author_id, body, rating, created_at
		FROM reviews
		WHERE id = $1
	`

	var review models.Review
	err := r.server.DB.Pool.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.CampgroundID,
		&review.AuthorID,
		&review.Body,
		&review.Rating,
		&review.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:reviews: %w", err)
		}
		return nil, errors.Wrap(err, "failed to get review")
	}

	return &review, nil
}

// Delete removes a review from its campground.
func (r *ReviewsRepository) Delete(ctx context.Context, campgroundID, id string) error {
	tag, err := r.server.DB.Pool.Exec(ctx,
		`DELETE FROM reviews WHERE id = $1 AND campground_id = $2`, id, campgroundID)
	if err != nil {
		return errors.Wrap(err, "failed to delete review")
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table:reviews: %w", pgx.ErrNoRows)
	}

	return nil
}
