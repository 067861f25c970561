package services

import (
	"fmt"
	"strings"

	"github.com/courseforge/backend/services/course-service/internal/models"
)

const (
	defaultChapterCount = 5
	videoResultsCount   = 5
)

// BuildCoursePrompt composes the instruction asking the model for a course outline
func BuildCoursePrompt(req *models.GenerateCourseRequest) string {
	chapterCount := req.ChapterCount
	if chapterCount <= 0 {
		chapterCount = defaultChapterCount
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = "No additional description provided."
	}

	var sb strings.Builder
	sb.WriteString("Generate a course outline as a JSON object.\n")
	fmt.Fprintf(&sb, "Category: %s\n", req.Category)
	fmt.Fprintf(&sb, "Topic: %s\n", req.Topic)
	fmt.Fprintf(&sb, "Description: %s\n", description)
	fmt.Fprintf(&sb, "Difficulty: %s\n", req.Difficulty)
	fmt.Fprintf(&sb, "Total duration: %s\n", req.Duration)
	fmt.Fprintf(&sb, "Number of chapters: %d\n\n", chapterCount)
	sb.WriteString("Respond with JSON only, using exactly this shape:\n")
	sb.WriteString(`{"courseName": "string", "description": "string", "chapters": [{"chapterName": "string", "about": "string", "duration": "string"}]}`)
	sb.WriteString("\n")
	return sb.String()
}

// BuildChapterContentPrompt composes the instruction asking for the sections of one chapter
func BuildChapterContentPrompt(req *models.ChapterRequest) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write the content of the chapter %q of a course about %s.\n", req.ChapterName, req.CourseTopic)
	fmt.Fprintf(&sb, "The audience level is %s, adapt depth and vocabulary to it.\n", req.Difficulty)
	sb.WriteString("Split the chapter into 3 to 5 sections. Each section has a title and a detailed explanation; ")
	sb.WriteString("add a codeExample only when code genuinely helps.\n\n")
	sb.WriteString("Respond with JSON only, using exactly this shape:\n")
	sb.WriteString(`{"sections": [{"title": "string", "explanation": "string", "codeExample": "string (optional)"}]}`)
	sb.WriteString("\n")
	return sb.String()
}

// BuildVideoQuery composes the video search query for a chapter, omitting a blank difficulty
func BuildVideoQuery(courseTopic, chapterName, difficulty string) string {
	parts := []string{strings.TrimSpace(courseTopic), strings.TrimSpace(chapterName)}
	if d := strings.TrimSpace(difficulty); d != "" {
		parts = append(parts, d)
	}
	parts = append(parts, "tutorial")
	return strings.Join(parts, " ")
}
