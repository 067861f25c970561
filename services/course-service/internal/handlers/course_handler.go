package handlers

import (
	"context"
	"net/http"

	"github.com/courseforge/backend/libs/handlers"
	"github.com/courseforge/backend/services/course-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CourseService is the interface that wraps methods for reading and editing courses
type CourseService interface {
	// GetCourse retrieves a course visible to the requester
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "requesterID" is the ID of the requester, empty for anonymous reads.
	//
	// Returns the course with its completeness ratio and an error if any.
	GetCourse(ctx context.Context, courseID, requesterID string) (*models.CourseDetailResponse, error)
	// UpdateCourse applies a manual edit to a course
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "req" is the partial update.
	//
	// Returns an error if any.
	UpdateCourse(ctx context.Context, courseID string, req *models.UpdateCourseRequest) error
	// ExploreCourses retrieves published courses matching the filter
	//
	// "ctx" is the context for the request.
	// "filter" holds the search and equality filters.
	//
	// Returns a list of courses and an error if any.
	ExploreCourses(ctx context.Context, filter models.CourseFilter) ([]models.CourseListItem, error)
	// GetUserCourses retrieves every course of an owner
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the owner.
	//
	// Returns a list of courses and an error if any.
	GetUserCourses(ctx context.Context, userID string) ([]models.CourseListItem, error)
}

// CourseHandler handles HTTP requests for reading and editing courses
type CourseHandler struct {
	handlers.BaseHandler
	service CourseService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(svc CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		service:     svc,
	}
}

// RegisterRoutes registers the course read and edit routes
func (h *CourseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/courses", h.GetUserCourses)
	r.Get("/courses/explore", h.ExploreCourses)
	r.Get("/courses/"+courseIDParam, h.GetCourse)
	r.Put("/courses/"+courseIDParam, h.UpdateCourse)
}

// GetCourse handles GET /courses/{id}
// @Summary Get a course
// @Description Get a course with its completeness ratio. Drafts are only visible to their owner.
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Param userId query string false "Requester ID, the session subject takes precedence"
// @Success 200 {object} models.CourseDetailResponse "Course"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")

	userID := readerID(r, r.URL.Query().Get("userId"))

	course, err := h.service.GetCourse(r.Context(), courseID, userID)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get course")
		return
	}

	h.RespondJSON(w, http.StatusOK, course)
}

// UpdateCourse handles PUT /courses/{id}
// @Summary Update a course
// @Description Apply a partial manual edit. Status, owner and timestamps cannot be changed.
// @Tags courses
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body models.UpdateCourseRequest true "Course update request"
// @Success 200 {object} models.UpdateCourseResponse "Course updated"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 403 {object} map[string]string "Not the course owner"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")

	var req models.UpdateCourseRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := requesterID(r, req.UserID)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to resolve requester")
		return
	}
	req.UserID = userID

	if err := h.service.UpdateCourse(r.Context(), courseID, &req); err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to update course")
		return
	}

	h.RespondJSON(w, http.StatusOK, models.UpdateCourseResponse{
		Success:  true,
		CourseID: courseID,
	})
}

// ExploreCourses handles GET /courses/explore
// @Summary Explore published courses
// @Description List published courses, newest first, with optional text search and equality filters
// @Tags courses
// @Produce json
// @Param search query string false "Case-insensitive search over name, description and topic"
// @Param category query string false "Category"
// @Param level query string false "Difficulty level"
// @Param duration query string false "Duration"
// @Success 200 {array} models.CourseListItem "Published courses"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses/explore [get]
func (h *CourseHandler) ExploreCourses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := models.CourseFilter{
		Search:   query.Get("search"),
		Category: query.Get("category"),
		Level:    query.Get("level"),
		Duration: query.Get("duration"),
	}

	courses, err := h.service.ExploreCourses(r.Context(), filter)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to explore courses")
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}

// GetUserCourses handles GET /courses
// @Summary List own courses
// @Description List every course of the requester, drafts included, most recently edited first
// @Tags courses
// @Produce json
// @Param userId query string false "Owner ID, the session subject takes precedence"
// @Success 200 {array} models.CourseListItem "Courses"
// @Failure 400 {object} map[string]string "Missing user ID"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /courses [get]
func (h *CourseHandler) GetUserCourses(w http.ResponseWriter, r *http.Request) {
	userID := readerID(r, r.URL.Query().Get("userId"))

	courses, err := h.service.GetUserCourses(r.Context(), userID)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to get user courses")
		return
	}

	h.RespondJSON(w, http.StatusOK, courses)
}
