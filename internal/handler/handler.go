// Package handler is the first layer. The first entry point
// for business logic after the router.
//
// It parses requests, handles input validation using the
// validation package, and calls the appropriate service layer.
// It acts as the interface between the HTTP request and the core
// business logic.
package handler

import (
	"github.com/deppfellow/yelpcamp/internal/server"
	"github.com/deppfellow/yelpcamp/internal/service"
	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance used by the request types'
// Validate methods.
var validate = validator.New()

// Handlers is a container that groups all HTTP handlers.
type Handlers struct {
	Campgrounds *CampgroundsHandler
	Reviews     *ReviewsHandler
	Users       *UsersHandler
	Health      *HealthHandler
	OpenAPI     *OpenAPIHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Campgrounds: NewCampgroundsHandler(s, services),
		Reviews:     NewReviewsHandler(s, services),
		Users:       NewUsersHandler(s, services),
		Health:      NewHealthHandler(s),
		OpenAPI:     NewOpenAPIHandler(s),
	}
}
