package repository

import (
	"context"
	"fmt"

	"github.com/deppfellow/yelpcamp/internal/models"
	"github.com/deppfellow/yelpcamp/internal/server"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

// CampgroundsRepository persists campground records and their images.
type CampgroundsRepository struct {
	server *server.Server
}

func NewCampgroundsRepository(s *server.Server) *CampgroundsRepository {
	return &CampgroundsRepository{server: s}
}

// CreateCampgroundParams carries the fields for a new campground plus
// its already-uploaded images (url + storage public id).
type CreateCampgroundParams struct {
	Title       string
	Price       float64
	Description string
	Location    string
	AuthorID    string
	Images      []models.Image
}

// Create inserts a campground and its image rows in one transaction.
func (r *CampgroundsRepository) Create(ctx context.Context, params CreateCampgroundParams) (*models.Campground, error) {
	tx, err := r.server.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO campgrounds (title, price, description, location, author_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, title, price, description, location, author_id, created_at, updated_at
	`

	var campground models.Campground
	err = tx.QueryRow(ctx, query,
		params.Title,
		params.Price,
		params.Description,
		params.Location,
		params.AuthorID,
	).Scan(
		&campground.ID,
		&campground.Title,
		&campground.Price,
		&campground.Description,
		&campground.Location,
		&campground.AuthorID,
		&campground.CreatedAt,
		&campground.UpdatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create campground")
	}

	if err := insertImages(ctx, tx, campground.ID, 0, params.Images); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	return &campground, nil
}

// List returns every campground with its author and images, newest
// first. Two queries: one for the records + authors, one for all
// images, merged in memory.
func (r *CampgroundsRepository) List(ctx context.Context) ([]models.CampgroundSummary, error) {
	query := `
		SELECT c.id, c.title, c.price, c.description, c.location, c.author_id,
		       c.created_at, c.updated_at, u.username
		FROM campgrounds c
		JOIN users u ON u.id = c.author_id
		ORDER BY c.created_at DESC
	`

	rows, err := r.server.DB.Pool.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list campgrounds")
	}
	defer rows.Close()

	summaries := []models.CampgroundSummary{}
	index := map[string]int{}

	for rows.Next() {
		var s models.CampgroundSummary
		err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.Price,
			&s.Description,
			&s.Location,
			&s.AuthorID,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.Author.Username,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan campground")
		}
		s.Author.ID = s.AuthorID
		s.Images = []models.Image{}

		index[s.ID] = len(summaries)
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate campgrounds")
	}

	imageQuery := `
		SELECT id, campground_id, url, filename, position
		FROM campground_images
		ORDER BY campground_id, position
	`

	imageRows, err := r.server.DB.Pool.Query(ctx, imageQuery)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list campground images")
	}
	defer imageRows.Close()

	for imageRows.Next() {
		var img models.Image
		err := imageRows.Scan(&img.ID, &img.CampgroundID, &img.URL, &img.Filename, &img.Position)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan campground image")
		}
		if i, ok := index[img.CampgroundID]; ok {
			summaries[i].Images = append(summaries[i].Images, img)
		}
	}
	if err := imageRows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate campground images")
	}

	return summaries, nil
}

// GetByID fetches the bare campground record, used by ownership checks
// and edit forms.
func (r *CampgroundsRepository) GetByID(ctx context.Context, id string) (*models.Campground, error) {
	query := `
		SELECT id, title, price, description, location, author_id, created_at, updated_at
		FROM campgrounds
		WHERE id = $1
	`

	var campground models.Campground
	err := r.server.DB.Pool.QueryRow(ctx, query, id).Scan(
		&campground.ID,
		&campground.Title,
		&campground.Price,
		&campground.Description,
		&campground.Location,
		&campground.AuthorID,
		&campground.CreatedAt,
		&campground.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:campgrounds: %w", err)
		}
		return nil, errors.Wrap(err, "failed to get campground")
	}

	return &campground, nil
}

// GetDetail fetches a campground populated with its author, images,
// and reviews (each with their author), reviews newest first.
func (r *CampgroundsRepository) GetDetail(ctx context.Context, id string) (*models.CampgroundDetail, error) {
	query := `
		SELECT c.id, c.title, c.price, c.description, c.location, c.author_id,
		       c.created_at, c.updated_at, u.username
		FROM campgrounds c
		JOIN users u ON u.id = c.author_id
		WHERE c.id = $1
	`

	var detail models.CampgroundDetail
	err := r.server.DB.Pool.QueryRow(ctx, query, id).Scan(
		&detail.ID,
		&detail.Title,
		&detail.Price,
		&detail.Description,
		&detail.Location,
		&detail.AuthorID,
		&detail.CreatedAt,
		&detail.UpdatedAt,
		&detail.Author.Username,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:campgrounds: %w", err)
		}
		return nil, errors.Wrap(err, "failed to get campground detail")
	}
	detail.Author.ID = detail.AuthorID
	detail.Images = []models.Image{}
	detail.Reviews = []models.ReviewWithAuthor{}

	imageQuery := `
		SELECT id, campground_id, url, filename, position
		FROM campground_images
		WHERE campground_id = $1
		ORDER BY position
	`

	imageRows, err := r.server.DB.Pool.Query(ctx, imageQuery, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get campground images")
	}
	defer imageRows.Close()

	for imageRows.Next() {
		var img models.Image
		err := imageRows.Scan(&img.ID, &img.CampgroundID, &img.URL, &img.Filename, &img.Position)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan campground image")
		}
		detail.Images = append(detail.Images, img)
	}
	if err := imageRows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate campground images")
	}

	reviewQuery := `
		SELECT r.id, r.campground_id, r.author_id, r.body, r.rating, r.created_at, u.username
		FROM reviews r
		JOIN users u ON u.id = r.author_id
		WHERE r.campground_id = $1
		ORDER BY r.created_at DESC
	`

	reviewRows, err := r.server.DB.Pool.Query(ctx, reviewQuery, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get campground reviews")
	}
	defer reviewRows.Close()

	for reviewRows.Next() {
		var review models.ReviewWithAuthor
		err := reviewRows.Scan(
			&review.ID,
			&review.CampgroundID,
			&review.AuthorID,
			&review.Body,
			&review.Rating,
			&review.CreatedAt,
			&review.Author.Username,
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan review")
		}
		review.Author.ID = review.AuthorID
		detail.Reviews = append(detail.Reviews, review)
	}
	if err := reviewRows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate reviews")
	}

	return &detail, nil
}

// UpdateCampgroundParams carries the replaceable fields of a
// campground. Images are managed separately via AddImages and
// DeleteImages.
type UpdateCampgroundParams struct {
	Title       string
	Price       float64
	Description string
	Location    string
}

// Update replaces the campground's scalar fields.
func (r *CampgroundsRepository) Update(ctx context.Context, id string, params UpdateCampgroundParams) (*models.Campground, error) {
	query := `
		UPDATE campgrounds
		SET title = $2, price = $3, description = $4, location = $5, updated_at = now()
		WHERE id = $1
		RETURNING id, title, price, description, location, author_id, created_at, updated_at
	`

	var campground models.Campground
	err := r.server.DB.Pool.QueryRow(ctx, query, id,
		params.Title,
		params.Price,
		params.Description,
		params.Location,
	).Scan(
		&campground.ID,
		&campground.Title,
		&campground.Price,
		&campground.Description,
		&campground.Location,
		&campground.AuthorID,
		&campground.CreatedAt,
		&campground.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("table:campgrounds: %w", err)
		}
		return nil, errors.Wrap(err, "failed to update campground")
	}

	return &campground, nil
}

// AddImages appends uploaded images after the campground's current
// highest position.
func (r *CampgroundsRepository) AddImages(ctx context.Context, campgroundID string, images []models.Image) error {
	if len(images) == 0 {
		return nil
	}

	tx, err := r.server.DB.Pool.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var base int
	err = tx.QueryRow(ctx,
		`SELECT coalesce(max(position) + 1, 0) FROM campground_images WHERE campground_id = $1`,
		campgroundID,
	).Scan(&base)
	if err != nil {
		return errors.Wrap(err, "failed to get image position")
	}

	if err := insertImages(ctx, tx, campgroundID, base, images); err != nil {
		return err
	}

	return errors.Wrap(tx.Commit(ctx), "failed to commit transaction")
}

// DeleteImages removes the campground's images matching the given
// storage filenames and returns the deleted rows so the caller can
// destroy the stored objects. Filenames belonging to other campgrounds
// are ignored.
func (r *CampgroundsRepository) DeleteImages(ctx context.Context, campgroundID string, filenames []string) ([]models.Image, error) {
	if len(filenames) == 0 {
		return nil, nil
	}

	query := `
		DELETE FROM campground_images
		WHERE campground_id = $1 AND filename = ANY($2)
		RETURNING id, campground_id, url, filename, position
	`

	rows, err := r.server.DB.Pool.Query(ctx, query, campgroundID, filenames)
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete campground images")
	}
	defer rows.Close()

	deleted := []models.Image{}
	for rows.Next() {
		var img models.Image
		err := rows.Scan(&img.ID, &img.CampgroundID, &img.URL, &img.Filename, &img.Position)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan deleted image")
		}
		deleted = append(deleted, img)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate deleted images")
	}

	return deleted, nil
}

// Delete removes a campground together with its reviews and image rows
// in one transaction, and returns the storage filenames of the removed
// images so the caller can destroy the stored objects.
func (r *CampgroundsRepository) Delete(ctx context.Context, id string) ([]string, error) {
	tx, err := r.server.DB.Pool.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM reviews WHERE campground_id = $1`, id); err != nil {
		return nil, errors.Wrap(err, "failed to delete campground reviews")
	}

	rows, err := tx.Query(ctx,
		`DELETE FROM campground_images WHERE campground_id = $1 RETURNING filename`, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete campground images")
	}

	filenames := []string{}
	for rows.Next() {
		var filename string
		if err := rows.Scan(&filename); err != nil {
			rows.Close()
			return nil, errors.Wrap(err, "failed to scan image filename")
		}
		filenames = append(filenames, filename)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate image filenames")
	}

	tag, err := tx.Exec(ctx, `DELETE FROM campgrounds WHERE id = $1`, id)
	if err != nil {
		return nil, errors.Wrap(err, "failed to delete campground")
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("table:campgrounds: %w", pgx.ErrNoRows)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}

	return filenames, nil
}

func insertImages(ctx context.Context, tx pgx.Tx, campgroundID string, base int, images []models.Image) error {
	for i, img := range images {
		_, err := tx.Exec(ctx,
			`INSERT INTO campground_images (campground_id, url, filename, position) VALUES ($1, $2, $3, $4)`,
			campgroundID, img.URL, img.Filename, base+i,
		)
		if err != nil {
			return errors.Wrap(err, "failed to insert campground image")
		}
	}
	return nil
}
