package services

import (
	"strings"

	"github.com/courseforge/backend/services/course-service/internal/models"
)

// FilterCourses applies the explore filters to an already fetched course list, keeping its order.
// Search is a case-insensitive substring match over name, description and topic;
// category, level and duration are exact matches; empty filters match everything.
func FilterCourses(courses []models.Course, filter models.CourseFilter) []models.Course {
	search := strings.ToLower(strings.TrimSpace(filter.Search))

	filtered := make([]models.Course, 0, len(courses))
	for _, course := range courses {
		if search != "" && !matchesSearch(&course, search) {
			continue
		}
		if filter.Category != "" && course.Category != filter.Category {
			continue
		}
		if filter.Level != "" && course.Level != filter.Level {
			continue
		}
		if filter.Duration != "" && course.Duration != filter.Duration {
			continue
		}
		filtered = append(filtered, course)
	}
	return filtered
}

func matchesSearch(course *models.Course, search string) bool {
	return strings.Contains(strings.ToLower(course.CourseName), search) ||
		strings.Contains(strings.ToLower(course.Description), search) ||
		strings.Contains(strings.ToLower(course.Topic), search)
}

// Completeness returns the share of chapters that already have generated content.
// It is advisory and never gates publication.
func Completeness(course *models.Course) float64 {
	if len(course.Chapters) == 0 {
		return 0
	}
	withContent := 0
	for _, chapter := range course.Chapters {
		if len(chapter.Content) > 0 {
			withContent++
		}
	}
	return float64(withContent) / float64(len(course.Chapters))
}
