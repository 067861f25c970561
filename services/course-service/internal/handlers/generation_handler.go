package handlers

import (
	"context"
	"net/http"

	"github.com/courseforge/backend/libs/handlers"
	"github.com/courseforge/backend/services/course-service/internal/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CourseGenerator is the interface that wraps course outline generation
type CourseGenerator interface {
	// GenerateCourse generates a course outline and stores it as a draft
	//
	// "ctx" is the context for the request.
	// "req" is the generation request.
	//
	// Returns the new course with its ID and an error if any.
	GenerateCourse(ctx context.Context, req *models.GenerateCourseRequest) (*models.GenerateCourseResponse, error)
}

// ChapterContentGenerator is the interface that wraps chapter content generation
type ChapterContentGenerator interface {
	// GenerateChapterContent generates the sections of one chapter and stores them
	//
	// "ctx" is the context for the request.
	// "req" is the chapter request.
	//
	// Returns the generated sections and an error if any.
	GenerateChapterContent(ctx context.Context, req *models.ChapterRequest) (*models.ChapterContentResponse, error)
}

// ChapterVideoFetcher is the interface that wraps chapter video enrichment
type ChapterVideoFetcher interface {
	// FetchChapterVideos searches videos for one chapter and replaces its list
	//
	// "ctx" is the context for the request.
	// "req" is the chapter request.
	//
	// Returns the new video IDs and an error if any.
	FetchChapterVideos(ctx context.Context, req *models.ChapterRequest) (*models.ChapterVideosResponse, error)
}

// CoursePublisher is the interface that wraps course publication
type CoursePublisher interface {
	// PublishCourse marks a course as published
	//
	// "ctx" is the context for the request.
	// "courseID" is the ID of the course.
	// "userID" is the ID of the requester, who must own the course.
	//
	// Returns the publication acknowledgement and an error if any.
	PublishCourse(ctx context.Context, courseID, userID string) (*models.PublishCourseResponse, error)
}

// GenerationHandler handles HTTP requests of the course creation workflow
type GenerationHandler struct {
	handlers.BaseHandler
	generator CourseGenerator
	content   ChapterContentGenerator
	videos    ChapterVideoFetcher
	publisher CoursePublisher
}

// NewGenerationHandler creates a new generation workflow handler
func NewGenerationHandler(
	generator CourseGenerator,
	content ChapterContentGenerator,
	videos ChapterVideoFetcher,
	publisher CoursePublisher,
	logger *zap.Logger,
) *GenerationHandler {
	return &GenerationHandler{
		BaseHandler: handlers.BaseHandler{Logger: logger},
		generator:   generator,
		content:     content,
		videos:      videos,
		publisher:   publisher,
	}
}

// RegisterRoutes registers the workflow routes
func (h *GenerationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/courses/generate", h.GenerateCourse)
	r.Post("/courses/chapters/content", h.GenerateChapterContent)
	r.Post("/courses/chapters/videos", h.FetchChapterVideos)
	r.Post("/courses/"+courseIDParam+"/publish", h.PublishCourse)
}

// GenerateCourse handles POST /courses/generate
// @Summary Generate a course
// @Description Generate a course outline from a topic and store it as a draft owned by the requester
// @Tags generation
// @Accept json
// @Produce json
// @Param request body models.GenerateCourseRequest true "Course generation request"
// @Success 201 {object} models.GenerateCourseResponse "Generated draft course"
// @Failure 400 {object} map[string]string "Missing required fields"
// @Failure 403 {object} map[string]string "User ID does not match the session"
// @Failure 500 {object} map[string]string "Generation or store failure"
// @Router /courses/generate [post]
func (h *GenerationHandler) GenerateCourse(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateCourseRequest
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

	resp, err := h.generator.GenerateCourse(r.Context(), &req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to generate course")
		return
	}

	h.RespondJSON(w, http.StatusCreated, resp)
}

// GenerateChapterContent handles POST /courses/chapters/content
// @Summary Generate chapter content
// @Description Generate the explanation sections of one chapter and store them in the course
// @Tags generation
// @Accept json
// @Produce json
// @Param request body models.ChapterRequest true "Chapter request"
// @Success 200 {object} models.ChapterContentResponse "Generated sections"
// @Failure 400 {object} map[string]string "Missing required fields or invalid chapter index"
// @Failure 403 {object} map[string]string "Not the course owner"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Generation or store failure"
// @Router /courses/chapters/content [post]
func (h *GenerationHandler) GenerateChapterContent(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeChapterRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.content.GenerateChapterContent(r.Context(), req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to generate chapter content")
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}

// FetchChapterVideos handles POST /courses/chapters/videos
// @Summary Fetch chapter videos
// @Description Search tutorial videos for one chapter and replace its video list
// @Tags generation
// @Accept json
// @Produce json
// @Param request body models.ChapterRequest true "Chapter request"
// @Success 200 {object} models.ChapterVideosResponse "Video IDs in ranking order"
// @Failure 400 {object} map[string]string "Missing required fields or invalid chapter index"
// @Failure 403 {object} map[string]string "Not the course owner"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Search or store failure"
// @Router /courses/chapters/videos [post]
func (h *GenerationHandler) FetchChapterVideos(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeChapterRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.videos.FetchChapterVideos(r.Context(), req)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to fetch chapter videos")
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}

// PublishCourse handles POST /courses/{id}/publish
// @Summary Publish a course
// @Description Mark a course as published; publishing again re-stamps the publication time
// @Tags generation
// @Accept json
// @Produce json
// @Param id path string true "Course ID"
// @Param request body models.PublishCourseRequest true "Publish request"
// @Success 200 {object} models.PublishCourseResponse "Course published"
// @Failure 400 {object} map[string]string "Missing user ID"
// @Failure 403 {object} map[string]string "Not the course owner"
// @Failure 404 {object} map[string]string "Course not found"
// @Failure 500 {object} map[string]string "Store failure"
// @Router /courses/{id}/publish [post]
func (h *GenerationHandler) PublishCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "id")

	var req models.PublishCourseRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	userID, err := requesterID(r, req.UserID)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to resolve requester")
		return
	}

	resp, err := h.publisher.PublishCourse(r.Context(), courseID, userID)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to publish course")
		return
	}

	h.RespondJSON(w, http.StatusOK, resp)
}

// decodeChapterRequest reads a chapter request and resolves its requester, responding on failure
func (h *GenerationHandler) decodeChapterRequest(w http.ResponseWriter, r *http.Request) (*models.ChapterRequest, bool) {
	var req models.ChapterRequest
	if err := h.DecodeJSON(r, &req); err != nil {
		h.RespondError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	userID, err := requesterID(r, req.UserID)
	if err != nil {
		respondServiceError(&h.BaseHandler, w, err, "failed to resolve requester")
		return nil, false
	}
	req.UserID = userID

	return &req, true
}
