package handler

import (
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

// ReviewsHandler serves review creation and deletion, both nested
// under a campground.
type ReviewsHandler struct {
	Handler
	services *service.Services
}

func NewReviewsHandler(s *server.Server, services *service.Services) *ReviewsHandler {
	return &ReviewsHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// CreateReviewRequest carries the review form fields. Rating bounds
// mirror the database check constraint.
type CreateReviewRequest struct {
	CampgroundID string `param:"id"`
	Body         string `json:"body" form:"body" validate:"required"`
	Rating       int    `json:"rating" form:"rating" validate:"required,min=1,max=5"`
}

func (r *CreateReviewRequest) Validate() error { return validate.Struct(r) }

// Create attaches a review to the campground on behalf of the session
// user and redirects back to the detail page.
func (h *ReviewsHandler) Create(c echo.Context, req *CreateReviewRequest) (string, error) {
	if !validation.IsValidUUID(req.CampgroundID) {
		if err := h.flash(c, session.FlashError, "Sorry, we can't find that campground!"); err != nil {
			return "", err
		}
		return "", c.Redirect(http.StatusFound, "/campgrounds")
	}

	_, err := h.services.Reviews.Create(
		c.Request().Context(),
		req.CampgroundID,
		middleware.GetUserID(c),
		req.Body,
		req.Rating,
	)
	if err != nil {
		return "", err
	}

	if err := h.flash(c, session.FlashSuccess, "Successfully added the review!"); err != nil {
		return "", err
	}
	return "/campgrounds/" + req.CampgroundID, nil
}

type DeleteReviewRequest struct {
	CampgroundID string `param:"id"`
	ReviewID     string `param:"reviewId"`
}

func (r *DeleteReviewRequest) Validate() error { return nil }

// Delete removes the review (ownership already verified by the guard)
// and redirects back to the campground.
func (h *ReviewsHandler) Delete(c echo.Context, req *DeleteReviewRequest) (string, error) {
	err := h.services.Reviews.Delete(c.Request().Context(), req.CampgroundID, req.ReviewID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	if err := h.flash(c, session.FlashSuccess, "Successfully deleted the review!"); err != nil {
		return "", err
	}
	return "/campgrounds/" + req.CampgroundID, nil
}
