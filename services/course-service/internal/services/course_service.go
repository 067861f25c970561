package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/courseforge/backend/services/course-service/internal/models"
	"go.uber.org/zap"
)

// CourseRepository defines methods for course document access
type CourseRepository interface {
	// Create stores a new course and assigns its ID
	//
	// "ctx" is the context for the request.
	// "course" is the course to create, its ID field is set on success.
	//
	// Returns an error if any.
	Create(ctx context.Context, course *models.Course) error
	// GetByID retrieves a course by ID
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	//
	// Returns the course and an error if any, models.ErrRecordNotFound when the course does not exist.
	GetByID(ctx context.Context, id string) (*models.Course, error)
	// UpdateChapters replaces the whole chapters array of a course
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	// "chapters" is the new chapters array.
	// "updatedAt" is the modification timestamp.
	//
	// Returns an error if any.
	UpdateChapters(ctx context.Context, id string, chapters []models.Chapter, updatedAt time.Time) error
	// Update applies a partial manual edit to a course
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	// "req" is the partial update, nil fields are left untouched.
	// "updatedAt" is the modification timestamp.
	//
	// Returns an error if any.
	Update(ctx context.Context, id string, req *models.UpdateCourseRequest, updatedAt time.Time) error
	// SetPublished marks a course as published
	//
	// "ctx" is the context for the request.
	// "id" is the ID of the course.
	// "publishedAt" is stamped both as the publication and the modification time.
	//
	// Returns an error if any.
	SetPublished(ctx context.Context, id string, publishedAt time.Time) error
	// ListByStatus retrieves courses with the given status ordered by creation time, newest first
	//
	// "ctx" is the context for the request.
	// "status" is the status to match.
	//
	// Returns a list of courses and an error if any.
	ListByStatus(ctx context.Context, status models.CourseStatus) ([]models.Course, error)
	// ListByUser retrieves the courses owned by a user ordered by modification time, newest first
	//
	// "ctx" is the context for the request.
	// "userID" is the ID of the owner.
	//
	// Returns a list of courses and an error if any.
	ListByUser(ctx context.Context, userID string) ([]models.Course, error)
	// Ping checks that the store is reachable
	Ping(ctx context.Context) error
}

type courseService struct {
	courseRepo CourseRepository
	logger     *zap.Logger
	now        func() time.Time
}

// NewCourseService creates a new course read/edit service
func NewCourseService(courseRepo CourseRepository, logger *zap.Logger) *courseService {
	return &courseService{
		courseRepo: courseRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// GetCourse returns a course with its completeness ratio.
// Drafts are reported as not found to anyone but their owner.
func (s *courseService) GetCourse(ctx context.Context, courseID, requesterID string) (*models.CourseDetailResponse, error) {
	course, err := loadCourse(ctx, s.courseRepo, courseID)
	if err != nil {
		return nil, err
	}

	if !course.IsVisibleTo(requesterID) {
		return nil, notFoundError("course")
	}

	return &models.CourseDetailResponse{
		Course:       course,
		Completeness: Completeness(course),
	}, nil
}

// UpdateCourse applies a manual edit; an explicit userId must match the owner
func (s *courseService) UpdateCourse(ctx context.Context, courseID string, req *models.UpdateCourseRequest) error {
	if strings.TrimSpace(courseID) == "" {
		return validationError("courseId is required")
	}
	if req.IsEmpty() {
		return validationError("no fields to update")
	}
	if req.CourseName != nil && strings.TrimSpace(*req.CourseName) == "" {
		return validationError("courseName cannot be empty")
	}

	course, err := loadCourse(ctx, s.courseRepo, courseID)
	if err != nil {
		return err
	}

	if req.UserID != "" && !course.IsOwnedBy(req.UserID) {
		return ErrForbidden
	}

	if err := s.courseRepo.Update(ctx, courseID, req, s.now().UTC()); err != nil {
		return storeError("update course", err)
	}
	return nil
}

// ExploreCourses lists published courses, newest first, narrowed by the filter
func (s *courseService) ExploreCourses(ctx context.Context, filter models.CourseFilter) ([]models.CourseListItem, error) {
	courses, err := s.courseRepo.ListByStatus(ctx, models.CourseStatusPublished)
	if err != nil {
		return nil, storeError("list published courses", err)
	}

	return toListItems(FilterCourses(courses, filter)), nil
}

// GetUserCourses lists every course of an owner, most recently edited first
func (s *courseService) GetUserCourses(ctx context.Context, userID string) ([]models.CourseListItem, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, validationError("userId is required")
	}

	courses, err := s.courseRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, storeError("list user courses", err)
	}
	return toListItems(courses), nil
}

// Ping reports whether the course store is reachable
func (s *courseService) Ping(ctx context.Context) error {
	return s.courseRepo.Ping(ctx)
}

func toListItems(courses []models.Course) []models.CourseListItem {
	items := make([]models.CourseListItem, 0, len(courses))
	for i := range courses {
		items = append(items, courses[i].ToListItem())
	}
	return items
}

// loadCourse fetches a course and translates store failures into service errors
func loadCourse(ctx context.Context, repo CourseRepository, courseID string) (*models.Course, error) {
	course, err := repo.GetByID(ctx, courseID)
	if err != nil {
		if errors.Is(err, models.ErrRecordNotFound) {
			return nil, notFoundError("course")
		}
		return nil, storeError("get course", err)
	}
	return course, nil
}

// loadOwnedCourse fetches a course and checks that the requester owns it
func loadOwnedCourse(ctx context.Context, repo CourseRepository, courseID, userID string) (*models.Course, error) {
	course, err := loadCourse(ctx, repo, courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsOwnedBy(userID) {
		return nil, ErrForbidden
	}
	return course, nil
}
