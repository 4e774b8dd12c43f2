package handler

import (
	"mime/multipart"
	"net/http"

	"github.com/deppfellow/yelpcamp/internal/middleware"
	"github.com/deppfellow/yelpcamp/internal/server"
	"github.com/deppfellow/yelpcamp/internal/service"
	"github.com/deppfellow/yelpcamp/internal/session"
	"github.com/deppfellow/yelpcamp/internal/validation"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// CampgroundsHandler serves the campground pages and mutations.
type CampgroundsHandler struct {
	Handler
	services *service.Services
}

func NewCampgroundsHandler(s *server.Server, services *service.Services) *CampgroundsHandler {
	return &CampgroundsHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// imageUploadField is the multipart field carrying campground photos.
const imageUploadField = "image"

// uploadedFiles extracts the image files from the multipart form.
// A non-multipart request simply has no files.
func uploadedFiles(c echo.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[imageUploadField]
}

// redirectNotFound flashes the missing-campground message, redirects to
// the list, and commits the response so the pipeline writes nothing
// further. Always return immediately after calling it.
func (h *CampgroundsHandler) redirectNotFound(c echo.Context, message string) error {
	if err := h.flash(c, session.FlashError, message); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/campgrounds")
}

type ListCampgroundsRequest struct{}

func (r *ListCampgroundsRequest) Validate() error { return nil }

// List renders the campground index: every campground with its author
// and images.
func (h *CampgroundsHandler) List(c echo.Context, req *ListCampgroundsRequest) (*Page, error) {
	campgrounds, err := h.services.Campgrounds.List(c.Request().Context())
	if err != nil {
		return nil, err
	}

	return h.page(c, map[string]interface{}{
		"campgrounds": campgrounds,
	})
}

type NewCampgroundPageRequest struct{}

func (r *NewCampgroundPageRequest) Validate() error { return nil }

// GetNewPage renders the new-campground page envelope.
func (h *CampgroundsHandler) GetNewPage(c echo.Context, req *NewCampgroundPageRequest) (*Page, error) {
	return h.page(c, nil)
}

type ShowCampgroundRequest struct {
	ID string `param:"id"`
}

func (r *ShowCampgroundRequest) Validate() error { return nil }

// Show renders one campground with its author, images, and reviews.
// A malformed or unknown id flashes and redirects to the list.
func (h *CampgroundsHandler) Show(c echo.Context, req *ShowCampgroundRequest) (*Page, error) {
	if !validation.IsValidUUID(req.ID) {
		return nil, h.redirectNotFound(c, "Sorry, we can't find that campground!")
	}

	campground, err := h.services.Campgrounds.Get(c.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, h.redirectNotFound(c, "Sorry, we can't find that campground!")
		}
		return nil, err
	}

	return h.page(c, map[string]interface{}{
		"campground": campground,
	})
}

type EditCampgroundPageRequest struct {
	ID string `param:"id"`
}

func (r *EditCampgroundPageRequest) Validate() error { return nil }

// GetEditPage renders the edit page for one campground. The ownership
// guard has already verified the record exists and belongs to the
// requester.
func (h *CampgroundsHandler) GetEditPage(c echo.Context, req *EditCampgroundPageRequest) (*Page, error) {
	campground, err := h.services.Campgrounds.Get(c.Request().Context(), req.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, h.redirectNotFound(c, "Sorry, we can't find that campground!")
		}
		return nil, err
	}

	return h.page(c, map[string]interface{}{
		"campground": campground,
	})
}

// CreateCampgroundRequest carries the campground form fields. Price is
// a pointer so a submitted zero still satisfies required; gte=0
// rejects negative prices.
type CreateCampgroundRequest struct {
	Title       string   `json:"title" form:"title" validate:"required"`
	Location    string   `json:"location" form:"location" validate:"required"`
	Price       *float64 `json:"price" form:"price" validate:"required,gte=0"`
	Description string   `json:"description" form:"description" validate:"required"`
}

func (r *CreateCampgroundRequest) Validate() error { return validate.Struct(r) }

// Create persists a new campground owned by the session user, uploads
// any attached images, and redirects to the new detail page.
func (h *CampgroundsHandler) Create(c echo.Context, req *CreateCampgroundRequest) (string, error) {
	campground, err := h.services.Campgrounds.Create(
		c.Request().Context(),
		middleware.GetUserID(c),
		service.CampgroundInput{
			Title:       req.Title,
			Price:       *req.Price,
			Description: req.Description,
			Location:    req.Location,
		},
		uploadedFiles(c),
	)
	if err != nil {
		return "", err
	}

	if err := h.flash(c, session.FlashSuccess, "Successfully made a new campground!"); err != nil {
		return "", err
	}
	return "/campgrounds/" + campground.ID, nil
}

// UpdateCampgroundRequest carries the edit form fields plus the
// storage filenames of images to remove.
type UpdateCampgroundRequest struct {
	ID           string   `param:"id"`
	Title        string   `json:"title" form:"title" validate:"required"`
	Location     string   `json:"location" form:"location" validate:"required"`
	Price        *float64 `json:"price" form:"price" validate:"required,gte=0"`
	Description  string   `json:"description" form:"description" validate:"required"`
	DeleteImages []string `json:"deleteImages" form:"deleteImages"`
}

func (r *UpdateCampgroundRequest) Validate() error { return validate.Struct(r) }

// Update replaces the campground's fields, appends newly uploaded
// images, removes the selected ones, and redirects to the detail page.
func (h *CampgroundsHandler) Update(c echo.Context, req *UpdateCampgroundRequest) (string, error) {
	_, err := h.services.Campgrounds.Update(
		c.Request().Context(),
		req.ID,
		service.CampgroundInput{
			Title:       req.Title,
			Price:       *req.Price,
			Description: req.Description,
			Location:    req.Location,
		},
		uploadedFiles(c),
		req.DeleteImages,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", h.redirectNotFound(c, "Sorry, that campground does not exist!")
		}
		return "", err
	}

	if err := h.flash(c, session.FlashSuccess, "Successfully updated the campground!"); err != nil {
		return "", err
	}
	return "/campgrounds/" + req.ID, nil
}

type DeleteCampgroundRequest struct {
	ID string `param:"id"`
}

func (r *DeleteCampgroundRequest) Validate() error { return nil }

// Delete removes the campground with its reviews and images and
// redirects to the list.
func (h *CampgroundsHandler) Delete(c echo.Context, req *DeleteCampgroundRequest) (string, error) {
	if err := h.services.Campgrounds.Delete(c.Request().Context(), req.ID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", h.redirectNotFound(c, "Sorry, we can't find that campground!")
		}
		return "", err
	}

	if err := h.flash(c, session.FlashSuccess, "Successfully deleted the campground!"); err != nil {
		return "", err
	}
	return "/campgrounds", nil
}
