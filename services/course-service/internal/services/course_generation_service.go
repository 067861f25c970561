package services

import (
	"context"
	"strings"
	"time"

	"github.com/courseforge/backend/services/course-service/internal/models"
	"go.uber.org/zap"
)

// TextGenerator defines the generative content client used by the workflow
type TextGenerator interface {
	// Generate sends a prompt and returns the raw generated text
	//
	// "ctx" is the context for the request.
	// "prompt" is the instruction for the model.
	//
	// Returns the generated text and an error if any.
	Generate(ctx context.Context, prompt string) (string, error)
}

type courseGenerationService struct {
	courseRepo CourseRepository
	generator  TextGenerator
	logger     *zap.Logger
	now        func() time.Time
}

// NewCourseGenerationService creates a new course generation service
func NewCourseGenerationService(courseRepo CourseRepository, generator TextGenerator, logger *zap.Logger) *courseGenerationService {
	return &courseGenerationService{
		courseRepo: courseRepo,
		generator:  generator,
		logger:     logger,
		now:        time.Now,
	}
}

// GenerateCourse asks the model for a course outline and stores it as a new draft.
// The chapter list is stored exactly as generated, even when its length differs from the requested count.
func (s *courseGenerationService) GenerateCourse(ctx context.Context, req *models.GenerateCourseRequest) (*models.GenerateCourseResponse, error) {
	if err := validateGenerateCourse(req); err != nil {
		return nil, err
	}

	text, err := s.generator.Generate(ctx, BuildCoursePrompt(req))
	if err != nil {
		return nil, upstreamError("generate course outline", err)
	}

	outline, err := ParseCourseOutline(text)
	if err != nil {
		s.logger.Warn("failed to parse generated course outline",
			zap.String("user_id", req.UserID),
			zap.String("topic", req.Topic),
			zap.String("raw_text", text),
			zap.Error(err),
		)
		return nil, err
	}

	course := s.buildCourse(req, outline)
	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, storeError("create course", err)
	}

	s.logger.Info("course generated",
		zap.String("course_id", course.ID),
		zap.String("user_id", course.UserID),
		zap.Int("chapters", len(course.Chapters)),
		zap.Int("requested_chapters", req.ChapterCount),
	)

	return &models.GenerateCourseResponse{
		CourseID: course.ID,
		Course:   course,
	}, nil
}

func (s *courseGenerationService) buildCourse(req *models.GenerateCourseRequest, outline *models.CourseOutline) *models.Course {
	courseName := strings.TrimSpace(outline.CourseName)
	if courseName == "" {
		courseName = req.Topic
	}
	description := strings.TrimSpace(outline.Description)
	if description == "" {
		description = req.Description
	}

	now := s.now().UTC()
	return &models.Course{
		UserID:         req.UserID,
		CourseName:     courseName,
		Description:    description,
		Category:       req.Category,
		Topic:          req.Topic,
		Level:          req.Difficulty,
		Duration:       req.Duration,
		NoOfChapters:   req.ChapterCount,
		IncludeYoutube: req.IncludeYoutube,
		Chapters:       outline.Chapters,
		Status:         models.CourseStatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func validateGenerateCourse(req *models.GenerateCourseRequest) error {
	required := []struct {
		name  string
		value string
	}{
		{"userId", req.UserID},
		{"category", req.Category},
		{"topic", req.Topic},
		{"difficulty", req.Difficulty},
		{"duration", req.Duration},
	}

	var missing []string
	for _, field := range required {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return validationError("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}
