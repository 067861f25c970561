package handlers

import (
	"context"
	"net/http"

	"github.com/courseforge/backend/libs/handlers"
	"github.com/courseforge/backend/services/course-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserService is the interface that wraps methods for user profiles
type UserService interface {
	// GetUser retrieves a user profile
	//
	// "ctx" is the context for the request.
	// "userID" is the auth-provider uid of the user.
	//
	// Returns the user and an error if any.
	GetUser(ctx context.Context, userID string) (*models.User, error)
	// UpsertUser creates or refreshes a user profile
	//
	// "ctx" is the context for the request.
	// "userID" is the auth-provider uid of the user.
	// "req" is the profile reported by the client.
	//
	// Returns the stored user and an error if any.
	UpsertUser(ctx context.Context, userID string, req *models.UpsertUserRequest) (*models.User, error)
}

// UserHandler handles HTTP requests for user profiles
type UserHandler struct {
	handlers.BaseHandler
	service UserService
}

// NewUserHandler creates a new user profile handler
func NewUserHandler(svc UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers the user profile routes
func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users/{id}", h.GetUser)
	r.Put("/users/{id}", h.UpsertUser)
}

// GetUser handles GET /users/{id}
// @Summary Get a user profile
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} models.User "User profile"
// @Failure 404 {object} map[string]string "User not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get user")
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}

// UpsertUser handles PUT /users/{id}
// @Summary Sync a user profile
// @Description Create or refresh the profile of a signed-in user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body models.UpsertUserRequest true "Profile"
// @Success 200 {object} models.User "Stored profile"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 403 {object} map[string]string "User ID does not match the session"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /users/{id} [put]
func (h *UserHandler) UpsertUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")
	if _, err := requesterID(r, userID); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to resolve requester")
		return
	}

	var req models.UpsertUserRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.UpsertUser(r.Context(), userID, &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to upsert user")
		return
	}

	h.RespondJSON(w, http.StatusOK, user)
}
