package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/courseforge/backend/services/course-service/internal/models"
	"go.uber.org/zap"
)

type chapterContentService struct {
	courseRepo CourseRepository
	generator  TextGenerator
	logger     *zap.Logger
	now        func() time.Time
}

// NewChapterContentService creates a new chapter content service
func NewChapterContentService(courseRepo CourseRepository, generator TextGenerator, logger *zap.Logger) *chapterContentService {
	return &chapterContentService{
		courseRepo: courseRepo,
		generator:  generator,
		logger:     logger,
		now:        time.Now,
	}
}

// GenerateChapterContent generates the sections of one chapter and stores them in place.
// The whole chapters array is written back, so concurrent writers on the same course overwrite each other.
func (s *chapterContentService) GenerateChapterContent(ctx context.Context, req *models.ChapterRequest) (*models.ChapterContentResponse, error) {
	if err := validateChapterRequest(req, true); err != nil {
		return nil, err
	}

	course, err := loadOwnedCourse(ctx, s.courseRepo, req.CourseID, req.UserID)
	if err != nil {
		return nil, err
	}

	index := *req.ChapterIndex
	if err := checkChapterIndex(course, index); err != nil {
		return nil, err
	}

	text, err := s.generator.Generate(ctx, BuildChapterContentPrompt(req))
	if err != nil {
		return nil, upstreamError("generate chapter content", err)
	}

	sections, err := ParseChapterSections(text)
	if err != nil {
		s.logger.Warn("failed to parse generated chapter content",
			zap.String("course_id", req.CourseID),
			zap.Int("chapter_index", index),
			zap.String("raw_text", text),
			zap.Error(err),
		)
		return nil, err
	}

	chapters := slices.Clone(course.Chapters)
	chapters[index].Content = sections
	if err := s.courseRepo.UpdateChapters(ctx, course.ID, chapters, s.now().UTC()); err != nil {
		return nil, storeError("update chapters", err)
	}

	return &models.ChapterContentResponse{
		CourseID:     course.ID,
		ChapterIndex: index,
		Content:      sections,
	}, nil
}

// validateChapterRequest checks the fields shared by the chapter operations
func validateChapterRequest(req *models.ChapterRequest, difficultyRequired bool) error {
	var missing []string
	if strings.TrimSpace(req.UserID) == "" {
		missing = append(missing, "userId")
	}
	if strings.TrimSpace(req.CourseID) == "" {
		missing = append(missing, "courseId")
	}
	if req.ChapterIndex == nil {
		missing = append(missing, "chapterIndex")
	}
	if strings.TrimSpace(req.ChapterName) == "" {
		missing = append(missing, "chapterName")
	}
	if strings.TrimSpace(req.CourseTopic) == "" {
		missing = append(missing, "courseTopic")
	}
	if difficultyRequired && strings.TrimSpace(req.Difficulty) == "" {
		missing = append(missing, "difficulty")
	}
	if len(missing) > 0 {
		return validationError("missing required fields: %s", strings.Join(missing, ", "))
	}
	return nil
}

// checkChapterIndex rejects indices outside the stored chapters array
func checkChapterIndex(course *models.Course, index int) error {
	if index < 0 || index >= len(course.Chapters) {
		return validationError("chapterIndex %d is out of range, course has %d chapters", index, len(course.Chapters))
	}
	return nil
}
