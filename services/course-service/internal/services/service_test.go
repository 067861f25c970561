package services

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/courseforge/backend/services/course-service/internal/clients"
	"github.com/courseforge/backend/services/course-service/internal/models"
)

var fixedNow = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time {
	return fixedNow
}

// mockCourseRepository is an in-memory implementation of CourseRepository
type mockCourseRepository struct {
	courses     map[string]*models.Course
	nextID      int
	err         error
	createErr   error
	updateErr   error
	listErr     error
	writeCalls  int
	lastUpdate  *models.UpdateCourseRequest
	lastWriteAt time.Time
}

func newMockCourseRepository(courses ...*models.Course) *mockCourseRepository {
	m := &mockCourseRepository{courses: make(map[string]*models.Course)}
	for _, c := range courses {
		m.courses[c.ID] = cloneCourse(c)
	}
	return m
}

func (m *mockCourseRepository) Create(ctx context.Context, course *models.Course) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.nextID++
	course.ID = fmt.Sprintf("course-%d", m.nextID)
	m.courses[course.ID] = cloneCourse(course)
	return nil
}

func (m *mockCourseRepository) GetByID(ctx context.Context, id string) (*models.Course, error) {
	if m.err != nil {
		return nil, m.err
	}
	course, ok := m.courses[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	return cloneCourse(course), nil
}

func (m *mockCourseRepository) UpdateChapters(ctx context.Context, id string, chapters []models.Chapter, updatedAt time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.writeCalls++
	m.lastWriteAt = updatedAt
	course := m.courses[id]
	course.Chapters = cloneChapters(chapters)
	course.UpdatedAt = updatedAt
	return nil
}

func (m *mockCourseRepository) Update(ctx context.Context, id string, req *models.UpdateCourseRequest, updatedAt time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.writeCalls++
	m.lastUpdate = req
	m.lastWriteAt = updatedAt
	course := m.courses[id]
	if req.CourseName != nil {
		course.CourseName = *req.CourseName
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Category != nil {
		course.Category = *req.Category
	}
	if req.Topic != nil {
		course.Topic = *req.Topic
	}
	if req.Level != nil {
		course.Level = *req.Level
	}
	if req.Duration != nil {
		course.Duration = *req.Duration
	}
	if req.Chapters != nil {
		course.Chapters = cloneChapters(*req.Chapters)
	}
	course.UpdatedAt = updatedAt
	return nil
}

func (m *mockCourseRepository) SetPublished(ctx context.Context, id string, publishedAt time.Time) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.writeCalls++
	m.lastWriteAt = publishedAt
	course := m.courses[id]
	course.Status = models.CourseStatusPublished
	stamp := publishedAt
	course.PublishedAt = &stamp
	course.UpdatedAt = publishedAt
	return nil
}

func (m *mockCourseRepository) ListByStatus(ctx context.Context, status models.CourseStatus) ([]models.Course, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var courses []models.Course
	for _, c := range m.courses {
		if c.Status == status {
			courses = append(courses, *cloneCourse(c))
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.After(courses[j].CreatedAt) })
	return courses, nil
}

func (m *mockCourseRepository) ListByUser(ctx context.Context, userID string) ([]models.Course, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var courses []models.Course
	for _, c := range m.courses {
		if c.UserID == userID {
			courses = append(courses, *cloneCourse(c))
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].UpdatedAt.After(courses[j].UpdatedAt) })
	return courses, nil
}

func (m *mockCourseRepository) Ping(ctx context.Context) error {
	return m.err
}

func cloneCourse(c *models.Course) *models.Course {
	clone := *c
	clone.Chapters = cloneChapters(c.Chapters)
	if c.PublishedAt != nil {
		stamp := *c.PublishedAt
		clone.PublishedAt = &stamp
	}
	return &clone
}

func cloneChapters(chapters []models.Chapter) []models.Chapter {
	if chapters == nil {
		return nil
	}
	clone := make([]models.Chapter, len(chapters))
	for i, ch := range chapters {
		clone[i] = ch
		clone[i].Content = slices.Clone(ch.Content)
		clone[i].YoutubeVideos = slices.Clone(ch.YoutubeVideos)
	}
	return clone
}

// mockTextGenerator is a mock implementation of TextGenerator
type mockTextGenerator struct {
	text    string
	err     error
	calls   int
	prompts []string
}

func (m *mockTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	m.calls++
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

// mockVideoSearcher is a mock implementation of VideoSearcher, answering calls in sequence
type mockVideoSearcher struct {
	responses  [][]clients.VideoResult
	err        error
	calls      int
	queries    []string
	maxResults int
}

func (m *mockVideoSearcher) Search(ctx context.Context, query string, maxResults int) ([]clients.VideoResult, error) {
	m.calls++
	m.queries = append(m.queries, query)
	m.maxResults = maxResults
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return nil, nil
	}
	idx := min(m.calls-1, len(m.responses)-1)
	return m.responses[idx], nil
}

// mockUserRepository is a mock implementation of UserRepository
type mockUserRepository struct {
	users     map[string]*models.User
	err       error
	upsertErr error
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	user, ok := m.users[id]
	if !ok {
		return nil, models.ErrRecordNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *mockUserRepository) Upsert(ctx context.Context, user *models.User) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	if m.users == nil {
		m.users = make(map[string]*models.User)
	}
	stored := *user
	if existing, ok := m.users[user.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	m.users[user.ID] = &stored
	return nil
}

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

func sampleCourse(id, userID string, status models.CourseStatus) *models.Course {
	return &models.Course{
		ID:           id,
		UserID:       userID,
		CourseName:   "Sorting Algorithms 101",
		Description:  "Learn to sort",
		Category:     "Programming",
		Topic:        "Sorting Algorithms",
		Level:        "Beginner",
		Duration:     "2 hours",
		NoOfChapters: 3,
		Chapters: []models.Chapter{
			{ChapterName: "Bubble Sort", About: "Swapping neighbours", Duration: "20 minutes"},
			{ChapterName: "Merge Sort", About: "Divide and conquer", Duration: "30 minutes"},
			{ChapterName: "Quick Sort", About: "Partitioning", Duration: "30 minutes"},
		},
		Status:    status,
		CreatedAt: fixedNow.Add(-time.Hour),
		UpdatedAt: fixedNow.Add(-time.Hour),
	}
}
