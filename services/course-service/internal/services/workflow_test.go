package services

import (
	"context"
	"testing"

	"github.com/courseforge/backend/services/course-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const fiveChapterOutline = `{"courseName":"Sorting Algorithms for Beginners","description":"From bubble to quick sort","chapters":[
{"chapterName":"Why Sort","about":"Motivation","duration":"10 minutes"},
{"chapterName":"Bubble Sort","about":"Swaps","duration":"20 minutes"},
{"chapterName":"Insertion Sort","about":"Shifts","duration":"20 minutes"},
{"chapterName":"Merge Sort","about":"Merging","duration":"30 minutes"},
{"chapterName":"Quick Sort","about":"Partitioning","duration":"30 minutes"}]}`

func TestWorkflow_GeneratePublishExplore(t *testing.T) {
	ctx := context.Background()
	repo := newMockCourseRepository()
	logger := zap.NewNop()

	generation := NewCourseGenerationService(repo, &mockTextGenerator{text: fiveChapterOutline}, logger)
	generation.now = fixedClock
	publication := NewPublicationService(repo, logger)
	publication.now = fixedClock
	courses := NewCourseService(repo, logger)

	generated, err := generation.GenerateCourse(ctx, &models.GenerateCourseRequest{
		UserID:       "owner",
		Category:     "Programming",
		Topic:        "Sorting Algorithms",
		Difficulty:   "Beginner",
		Duration:     "3 hours",
		ChapterCount: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusDraft, generated.Course.Status)
	assert.Len(t, generated.Course.Chapters, 5)

	explored, err := courses.ExploreCourses(ctx, models.CourseFilter{})
	require.NoError(t, err)
	assert.Empty(t, explored)

	_, err = courses.GetCourse(ctx, generated.CourseID, "someone-else")
	assert.ErrorIs(t, err, ErrNotFound)

	published, err := publication.PublishCourse(ctx, generated.CourseID, "owner")
	require.NoError(t, err)
	assert.True(t, published.Success)

	stored := repo.courses[generated.CourseID]
	assert.Equal(t, models.CourseStatusPublished, stored.Status)
	require.NotNil(t, stored.PublishedAt)

	explored, err = courses.ExploreCourses(ctx, models.CourseFilter{Category: "Programming", Level: "Beginner"})
	require.NoError(t, err)
	require.Len(t, explored, 1)
	assert.Equal(t, generated.CourseID, explored[0].ID)

	detail, err := courses.GetCourse(ctx, generated.CourseID, "")
	require.NoError(t, err)
	assert.Equal(t, "Sorting Algorithms for Beginners", detail.CourseName)
	assert.Equal(t, 0.0, detail.Completeness)
}
