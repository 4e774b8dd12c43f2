package service

import (
	"context"
	"mime/multipart"

	"github.com/deppfellow/yelpcamp/internal/lib/job"
	"github.com/deppfellow/yelpcamp/internal/models"
	"github.com/deppfellow/yelpcamp/internal/repository"
	"github.com/deppfellow/yelpcamp/internal/server"
	"github.com/pkg/errors"
)

// CampgroundsService coordinates campground persistence with image
// storage: uploads go to Cloudinary before rows are written, removals
// delete rows first and destroy the stored objects asynchronously.
type CampgroundsService struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewCampgroundsService(s *server.Server, repos *repository.Repositories) *CampgroundsService {
	return &CampgroundsService{
		server: s,
		repos:  repos,
	}
}

// CampgroundInput carries the validated scalar fields for create and
// update.
type CampgroundInput struct {
	Title       string
	Price       float64
	Description string
	Location    string
}

// List returns all campgrounds with authors and images.
func (s *CampgroundsService) List(ctx context.Context) ([]models.CampgroundSummary, error) {
	return s.repos.Campgrounds.List(ctx)
}

// Get returns one campground populated with author, images, and
// reviews.
func (s *CampgroundsService) Get(ctx context.Context, id string) (*models.CampgroundDetail, error) {
	return s.repos.Campgrounds.GetDetail(ctx, id)
}

// Create uploads the attached images and inserts the campground with
// its image rows. If the insert fails, the freshly uploaded objects
// are scheduled for destruction so storage doesn't leak.
func (s *CampgroundsService) Create(ctx context.Context, authorID string, input CampgroundInput, files []*multipart.FileHeader) (*models.Campground, error) {
	images, err := s.uploadFiles(ctx, files)
	if err != nil {
		return nil, err
	}

	campground, err := s.repos.Campgrounds.Create(ctx, repository.CreateCampgroundParams{
		Title:       input.Title,
		Price:       input.Price,
		Description: input.Description,
		Location:    input.Location,
		AuthorID:    authorID,
		Images:      images,
	})
	if err != nil {
		s.scheduleDestroy(images)
		return nil, err
	}

	return campground, nil
}

// Update replaces the campground's fields, appends any newly uploaded
// images, and removes the images named in deleteFilenames (rows first,
// stored objects asynchronously).
func (s *CampgroundsService) Update(ctx context.Context, id string, input CampgroundInput, files []*multipart.FileHeader, deleteFilenames []string) (*models.Campground, error) {
	campground, err := s.repos.Campgrounds.Update(ctx, id, repository.UpdateCampgroundParams{
		Title:       input.Title,
		Price:       input.Price,
		Description: input.Description,
		Location:    input.Location,
	})
	if err != nil {
		return nil, err
	}

	images, err := s.uploadFiles(ctx, files)
	if err != nil {
		return nil, err
	}
	if err := s.repos.Campgrounds.AddImages(ctx, id, images); err != nil {
		s.scheduleDestroy(images)
		return nil, err
	}

	deleted, err := s.repos.Campgrounds.DeleteImages(ctx, id, deleteFilenames)
	if err != nil {
		return nil, err
	}
	s.scheduleDestroy(deleted)

	return campground, nil
}

// Delete removes the campground with its reviews and images, then
// schedules the stored objects for destruction.
func (s *CampgroundsService) Delete(ctx context.Context, id string) error {
	filenames, err := s.repos.Campgrounds.Delete(ctx, id)
	if err != nil {
		return err
	}

	images := make([]models.Image, len(filenames))
	for i, filename := range filenames {
		images[i] = models.Image{Filename: filename}
	}
	s.scheduleDestroy(images)

	return nil
}

// uploadFiles streams each multipart file to storage and returns the
// resulting image records.
func (s *CampgroundsService) uploadFiles(ctx context.Context, files []*multipart.FileHeader) ([]models.Image, error) {
	images := make([]models.Image, 0, len(files))

	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open uploaded file %s", fh.Filename)
		}

		uploaded, err := s.server.Storage.Upload(ctx, fh.Filename, src)
		src.Close()
		if err != nil {
			// Earlier uploads from this batch are orphans now.
			s.scheduleDestroy(images)
			return nil, err
		}

		images = append(images, models.Image{
			URL:      uploaded.URL,
			Filename: uploaded.Filename,
		})
	}

	return images, nil
}

// scheduleDestroy enqueues a destroy task per image. Enqueue failures
// are logged, not returned: the row-level operation already succeeded
// and a leaked stored object must not fail the request.
func (s *CampgroundsService) scheduleDestroy(images []models.Image) {
	for _, img := range images {
		task, err := job.NewImageDestroyTask(img.Filename)
		if err == nil {
			_, err = s.server.Job.Client.Enqueue(task)
		}
		if err != nil {
			s.server.Logger.Error().Err(err).
				Str("filename", img.Filename).
				Msg("Failed to enqueue image destroy")
		}
	}
}
