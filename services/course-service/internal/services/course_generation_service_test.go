package services

import (
	"context"
	"errors"
	"testing"

	"github.com/courseforge/backend/services/course-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const twoChapterOutline = "Here is your course:\n```json\n" +
	`{"courseName":"Sorting Made Simple","description":"","chapters":[` +
	`{"chapterName":"Bubble Sort","about":"Swaps","duration":"20 minutes"},` +
	`{"chapterName":"Merge Sort","about":"Merges","duration":"30 minutes"}]}` +
	"\n```"

func validGenerateRequest() *models.GenerateCourseRequest {
	return &models.GenerateCourseRequest{
		UserID:       "user-1",
		Category:     "Programming",
		Topic:        "Sorting Algorithms",
		Description:  "Learn how to sort",
		Difficulty:   "Beginner",
		Duration:     "2 hours",
		ChapterCount: 5,
	}
}

func newTestGenerationService(repo *mockCourseRepository, generator *mockTextGenerator) *courseGenerationService {
	svc := NewCourseGenerationService(repo, generator, zap.NewNop())
	svc.now = fixedClock
	return svc
}

func TestCourseGenerationService_GenerateCourse(t *testing.T) {
	tests := []struct {
		name           string
		modify         func(req *models.GenerateCourseRequest)
		generator      *mockTextGenerator
		createErr      error
		expectedError  error
		errorContains  string
		expectedCalls  int
		expectedStored int
	}{
		{
			name:           "success with chapter count mismatch",
			generator:      &mockTextGenerator{text: twoChapterOutline},
			expectedCalls:  1,
			expectedStored: 1,
		},
		{
			name:          "missing user id",
			modify:        func(req *models.GenerateCourseRequest) { req.UserID = "" },
			generator:     &mockTextGenerator{text: twoChapterOutline},
			expectedError: ErrValidation,
			errorContains: "userId",
		},
		{
			name: "several blank fields",
			modify: func(req *models.GenerateCourseRequest) {
				req.Topic = "  "
				req.Difficulty = ""
				req.Duration = ""
			},
			generator:     &mockTextGenerator{text: twoChapterOutline},
			expectedError: ErrValidation,
			errorContains: "topic, difficulty, duration",
		},
		{
			name:          "missing category",
			modify:        func(req *models.GenerateCourseRequest) { req.Category = "" },
			generator:     &mockTextGenerator{text: twoChapterOutline},
			expectedError: ErrValidation,
			errorContains: "category",
		},
		{
			name:          "generator failure",
			generator:     &mockTextGenerator{err: errors.New("quota exceeded")},
			expectedError: ErrUpstream,
			errorContains: "quota exceeded",
			expectedCalls: 1,
		},
		{
			name:          "prose only response",
			generator:     &mockTextGenerator{text: "I can't produce JSON today."},
			expectedError: ErrGenerationParse,
			expectedCalls: 1,
		},
		{
			name:          "store failure",
			generator:     &mockTextGenerator{text: twoChapterOutline},
			createErr:     errors.New("connection refused"),
			expectedError: ErrStore,
			errorContains: "connection refused",
			expectedCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockCourseRepository()
			repo.createErr = tt.createErr
			svc := newTestGenerationService(repo, tt.generator)
			req := validGenerateRequest()
			if tt.modify != nil {
				tt.modify(req)
			}

			resp, err := svc.GenerateCourse(context.Background(), req)

			assert.Equal(t, tt.expectedCalls, tt.generator.calls)
			assert.Len(t, repo.courses, tt.expectedStored)
			if tt.expectedError != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.expectedError))
				if tt.errorContains != "" {
					assert.Contains(t, err.Error(), tt.errorContains)
				}
				assert.Nil(t, resp)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, "course-1", resp.CourseID)
			assert.Equal(t, resp.CourseID, resp.Course.ID)
			assert.Equal(t, models.CourseStatusDraft, resp.Course.Status)
			assert.Len(t, resp.Course.Chapters, 2)
			assert.Equal(t, 5, resp.Course.NoOfChapters)
			assert.Equal(t, "Sorting Made Simple", resp.Course.CourseName)
			assert.Equal(t, "Learn how to sort", resp.Course.Description)
			assert.Equal(t, "Beginner", resp.Course.Level)
			assert.Equal(t, fixedNow, resp.Course.CreatedAt)
			assert.Equal(t, fixedNow, resp.Course.UpdatedAt)
			assert.Nil(t, resp.Course.PublishedAt)
			assert.Equal(t, models.CourseStatusDraft, repo.courses["course-1"].Status)
		})
	}
}

func TestCourseGenerationService_GenerateCourseFallbacks(t *testing.T) {
	t.Run("model description wins over user description", func(t *testing.T) {
		repo := newMockCourseRepository()
		svc := newTestGenerationService(repo, &mockTextGenerator{
			text: `{"courseName":"Sorting","description":"Generated description","chapters":[]}`,
		})

		resp, err := svc.GenerateCourse(context.Background(), validGenerateRequest())

		require.NoError(t, err)
		assert.Equal(t, "Generated description", resp.Course.Description)
		assert.Empty(t, resp.Course.Chapters)
	})

	t.Run("missing course name falls back to topic", func(t *testing.T) {
		repo := newMockCourseRepository()
		svc := newTestGenerationService(repo, &mockTextGenerator{
			text: `{"chapters":[{"chapterName":"Intro","about":"a","duration":"5m"}]}`,
		})

		resp, err := svc.GenerateCourse(context.Background(), validGenerateRequest())

		require.NoError(t, err)
		assert.Equal(t, "Sorting Algorithms", resp.Course.CourseName)
		assert.Len(t, resp.Course.Chapters, 1)
	})

	t.Run("prompt carries the request parameters", func(t *testing.T) {
		generator := &mockTextGenerator{text: twoChapterOutline}
		svc := newTestGenerationService(newMockCourseRepository(), generator)

		_, err := svc.GenerateCourse(context.Background(), validGenerateRequest())

		require.NoError(t, err)
		require.Len(t, generator.prompts, 1)
		assert.Contains(t, generator.prompts[0], "Sorting Algorithms")
		assert.Contains(t, generator.prompts[0], "Number of chapters: 5")
	})
}
