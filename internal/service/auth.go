package service

import (
	"context"

	"github.com/deppfellow/yelpcamp/internal/lib/job"
	"github.com/deppfellow/yelpcamp/internal/models"
	"github.com/deppfellow/yelpcamp/internal/repository"
	"github.com/deppfellow/yelpcamp/internal/server"
	"golang.org/x/crypto/bcrypt"

	"github.com/deppfellow/yelpcamp/internal/errs"
)

// AuthService implements first-party credential auth: bcrypt password
// hashing on registration and hash comparison on login. Session state
// lives in the session manager, not here.
type AuthService struct {
	server *server.Server
	repos  *repository.Repositories
}

func NewAuthService(s *server.Server, repos *repository.Repositories) *AuthService {
	return &AuthService{
		server: s,
		repos:  repos,
	}
}

// invalidCredentials is deliberately identical for unknown-user and
// wrong-password so login failures don't reveal which part was wrong.
func invalidCredentials() *errs.HTTPError {
	return errs.NewUnauthorizedError("Invalid username or password", true)
}

// Register creates an account with a bcrypt password hash and enqueues
// the welcome email. Store errors (duplicate email/username) are
// returned unclassified for the handler to map.
func (s *AuthService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := s.repos.Users.Create(ctx, email, username, string(hash))
	if err != nil {
		return nil, err
	}

	// Email delivery failure must not fail registration; the task is
	// retried by the worker, and even enqueue failure is only logged.
	task, err := job.NewWelcomeEmailTask(user.Email, user.Username)
	if err == nil {
		_, err = s.server.Job.Client.Enqueue(task)
	}
	if err != nil {
		s.server.Logger.Error().Err(err).
			Str("user_id", user.ID).
			Msg("Failed to enqueue welcome email")
	}

	return user, nil
}

// Login verifies the credentials and returns the matching user.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repos.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, invalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, invalidCredentials()
	}

	return user, nil
}
