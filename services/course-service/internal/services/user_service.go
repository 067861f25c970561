package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/courseforge/backend/services/course-service/internal/models"
)

// UserRepository defines methods for user profile access
type UserRepository interface {
	// GetByID retrieves a user profile by ID
	//
	// "ctx" is the context for the request.
	// "id" is the auth-provider uid of the user.
	//
	// Returns the user and an error if any, models.ErrRecordNotFound when the profile does not exist.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// Upsert creates the profile or updates its mutable fields, keeping the original creation time
	//
	// "ctx" is the context for the request.
	// "user" is the profile to store.
	//
	// Returns an error if any.
	Upsert(ctx context.Context, user *models.User) error
}

// emailRegex validates the email format
var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

type userService struct {
	userRepo UserRepository
	now      func() time.Time
}

// NewUserService creates a new user profile service
func NewUserService(userRepo UserRepository) *userService {
	return &userService{
		userRepo: userRepo,
		now:      time.Now,
	}
}

// GetUser returns a user profile
func (s *userService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, validationError("user id is required")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, notFoundError("user")
		}
		return nil, storeError("get user", err)
	}
	return user, nil
}

// UpsertUser stores the profile reported by the client after sign-in
func (s *userService) UpsertUser(ctx context.Context, userID string, req *models.UpsertUserRequest) (*models.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, validationError("user id is required")
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, validationError("email is required")
	}
	if !emailRegex.MatchString(email) {
		return nil, validationError("invalid email format")
	}

	now := s.now().UTC()
	user := &models.User{
		ID:          userID,
		Email:       email,
		DisplayName: strings.TrimSpace(req.DisplayName),
		PhotoURL:    strings.TrimSpace(req.PhotoURL),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, storeError("upsert user", err)
	}

	// Re-read so the stored creation time is returned for existing profiles
	return s.GetUser(ctx, userID)
}
