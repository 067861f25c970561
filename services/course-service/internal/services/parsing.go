package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/courseforge/backend/services/course-service/internal/models"
)

// ParseCourseOutline coerces raw model text into a course outline
func ParseCourseOutline(text string) (*models.CourseOutline, error) {
	raw, err := ExtractJSONObject(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGenerationParse, err)
	}

	var outline models.CourseOutline
	if err := json.Unmarshal(raw, &outline); err != nil {
		return nil, fmt.Errorf("%w: course outline: %w", ErrGenerationParse, err)
	}
	if strings.TrimSpace(outline.CourseName) == "" && len(outline.Chapters) == 0 {
		return nil, fmt.Errorf("%w: object does not describe a course outline", ErrGenerationParse)
	}
	if outline.Chapters == nil {
		outline.Chapters = []models.Chapter{}
	}
	return &outline, nil
}

// ParseChapterSections coerces raw model text into chapter sections.
// The sections are read from a {"sections": [...]} object, or from a bare array when no such object exists.
func ParseChapterSections(text string) ([]models.Section, error) {
	sections, err := sectionsFromObject(text)
	if err != nil {
		sections, err = sectionsFromArray(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrGenerationParse, err)
		}
	}

	if len(sections) == 0 {
		return nil, fmt.Errorf("%w: no sections generated", ErrGenerationParse)
	}
	for i, s := range sections {
		if strings.TrimSpace(s.Title) == "" || strings.TrimSpace(s.Explanation) == "" {
			return nil, fmt.Errorf("%w: section %d lacks title or explanation", ErrGenerationParse, i)
		}
	}
	return sections, nil
}

func sectionsFromObject(text string) ([]models.Section, error) {
	raw, err := ExtractJSONObject(text)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Sections []models.Section `json:"sections"`
		Content  []models.Section `json:"content"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}
	if len(wrapper.Sections) > 0 {
		return wrapper.Sections, nil
	}
	if len(wrapper.Content) > 0 {
		return wrapper.Content, nil
	}
	return nil, fmt.Errorf("object has no sections array")
}

func sectionsFromArray(text string) ([]models.Section, error) {
	raw, err := ExtractJSONArray(text)
	if err != nil {
		return nil, err
	}

	var sections []models.Section
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}
