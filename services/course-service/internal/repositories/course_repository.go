package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/courseforge/backend/services/course-service/internal/models"
	"github.com/google/uuid"
)

const courseColumns = `id, user_id, course_name, description, category, topic, level, duration,
	no_of_chapters, include_youtube, chapters, status, created_at, updated_at, published_at`

type courseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new MySQL course repository.
// Chapters are embedded in the course row as a JSON document.
func NewCourseRepository(db *sql.DB) *courseRepository {
	return &courseRepository{
		db: db,
	}
}

// Create inserts a new course and assigns it a UUID
func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	chapters, err := marshalChapters(course.Chapters)
	if err != nil {
		return err
	}

	id := uuid.New().String()
	query := `
		INSERT INTO courses (` + courseColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.ExecContext(ctx, query,
		id,
		course.UserID,
		course.CourseName,
		course.Description,
		course.Category,
		course.Topic,
		course.Level,
		course.Duration,
		course.NoOfChapters,
		course.IncludeYoutube,
		chapters,
		course.Status,
		course.CreatedAt,
		course.UpdatedAt,
		course.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}

	course.ID = id
	return nil
}

// GetByID retrieves a course by its ID
func (r *courseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE id = ? LIMIT 1`

	course, err := scanCourse(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrRecordNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get course by id: %w", err)
	}

	return course, nil
}

// UpdateChapters replaces the chapters document of a course
func (r *courseRepository) UpdateChapters(ctx context.Context, id string, chapters []models.Chapter, updatedAt time.Time) error {
	data, err := marshalChapters(chapters)
	if err != nil {
		return err
	}

	query := `UPDATE courses SET chapters = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, data, updatedAt, id); err != nil {
		return fmt.Errorf("failed to update chapters: %w", err)
	}
	return nil
}

// Update applies the non-nil fields of a manual edit
func (r *courseRepository) Update(ctx context.Context, id string, req *models.UpdateCourseRequest, updatedAt time.Time) error {
	var setClauses []string
	var args []any

	stringFields := []struct {
		column string
		value  *string
	}{
		{"course_name", req.CourseName},
		{"description", req.Description},
		{"category", req.Category},
		{"topic", req.Topic},
		{"level", req.Level},
		{"duration", req.Duration},
	}
	for _, field := range stringFields {
		if field.value != nil {
			setClauses = append(setClauses, field.column+" = ?")
			args = append(args, *field.value)
		}
	}

	if req.Chapters != nil {
		data, err := marshalChapters(*req.Chapters)
		if err != nil {
			return err
		}
		setClauses = append(setClauses, "chapters = ?")
		args = append(args, data)
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, updatedAt, id)

	query := fmt.Sprintf("UPDATE courses SET %s WHERE id = ?", strings.Join(setClauses, ", "))
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	return nil
}

// SetPublished marks a course as published, stamping publication and modification time
func (r *courseRepository) SetPublished(ctx context.Context, id string, publishedAt time.Time) error {
	query := `UPDATE courses SET status = ?, published_at = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, models.CourseStatusPublished, publishedAt, publishedAt, id); err != nil {
		return fmt.Errorf("failed to publish course: %w", err)
	}
	return nil
}

// ListByStatus retrieves courses with the given status, newest first
func (r *courseRepository) ListByStatus(ctx context.Context, status models.CourseStatus) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE status = ? ORDER BY created_at DESC`
	return r.list(ctx, query, status)
}

// ListByUser retrieves the courses of an owner, most recently updated first
func (r *courseRepository) ListByUser(ctx context.Context, userID string) ([]models.Course, error) {
	query := `SELECT ` + courseColumns + ` FROM courses WHERE user_id = ? ORDER BY updated_at DESC`
	return r.list(ctx, query, userID)
}

// Ping checks the database connection
func (r *courseRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *courseRepository) list(ctx context.Context, query string, args ...any) ([]models.Course, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []models.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		courses = append(courses, *course)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*models.Course, error) {
	var course models.Course
	var chapters []byte
	var publishedAt sql.NullTime

	err := row.Scan(
		&course.ID,
		&course.UserID,
		&course.CourseName,
		&course.Description,
		&course.Category,
		&course.Topic,
		&course.Level,
		&course.Duration,
		&course.NoOfChapters,
		&course.IncludeYoutube,
		&chapters,
		&course.Status,
		&course.CreatedAt,
		&course.UpdatedAt,
		&publishedAt,
	)
	if err != nil {
		return nil, err
	}

	course.Chapters = []models.Chapter{}
	if len(chapters) > 0 {
		if err := json.Unmarshal(chapters, &course.Chapters); err != nil {
			return nil, fmt.Errorf("failed to decode chapters: %w", err)
		}
	}
	if publishedAt.Valid {
		course.PublishedAt = &publishedAt.Time
	}

	return &course, nil
}

func marshalChapters(chapters []models.Chapter) ([]byte, error) {
	if chapters == nil {
		chapters = []models.Chapter{}
	}
	data, err := json.Marshal(chapters)
	if err != nil {
		return nil, fmt.Errorf("failed to encode chapters: %w", err)
	}
	return data, nil
}
