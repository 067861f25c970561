package services

import (
	"context"
	"strings"
	"time"

	"github.com/courseforge/backend/services/course-service/internal/models"
	"go.uber.org/zap"
)

type publicationService struct {
	courseRepo CourseRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewPublicationService creates a new publication service
func NewPublicationService(courseRepo CourseRepository, logger *zap.Logger) *publicationService {
	return &publicationService{
		courseRepo: courseRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// PublishCourse marks a course as published.
// Publishing an already published course succeeds and stamps the timestamps again.
func (s *publicationService) PublishCourse(ctx context.Context, courseID, userID string) (*models.PublishCourseResponse, error) {
	if strings.TrimSpace(courseID) == "" {
		return nil, validationError("courseId is required")
	}
	if strings.TrimSpace(userID) == "" {
		return nil, validationError("userId is required")
	}

	course, err := loadOwnedCourse(ctx, s.courseRepo, courseID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.courseRepo.SetPublished(ctx, course.ID, s.now().UTC()); err != nil {
		return nil, storeError("publish course", err)
	}

	s.logger.Info("course published",
		zap.String("course_id", course.ID),
		zap.String("user_id", userID),
		zap.Bool("republished", course.Status == models.CourseStatusPublished),
	)

	return &models.PublishCourseResponse{
		Success:  true,
		Message:  "Course published successfully",
		CourseID: course.ID,
	}, nil
}
