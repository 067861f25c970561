package models

import "time"

// CourseStatus represents the lifecycle state of a course
type CourseStatus string

const (
	CourseStatusDraft     CourseStatus = "draft"
	CourseStatusPublished CourseStatus = "published"
)

// Course represents a generated course document
type Course struct {
	ID             string       `json:"id" bson:"-"`
	UserID         string       `json:"userId" bson:"userId"`
	CourseName     string       `json:"courseName" bson:"courseName"`
	Description    string       `json:"description" bson:"description"`
	Category       string       `json:"category" bson:"category"`
	Topic          string       `json:"topic" bson:"topic"`
	Level          string       `json:"level" bson:"level"`
	Duration       string       `json:"duration" bson:"duration"`
	NoOfChapters   int          `json:"noOfChapters" bson:"noOfChapters"`
	IncludeYoutube bool         `json:"includeYoutube" bson:"includeYoutube"`
	Chapters       []Chapter    `json:"chapters" bson:"chapters"`
	Status         CourseStatus `json:"status" bson:"status"`
	CreatedAt      time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt" bson:"updatedAt"`
	PublishedAt    *time.Time   `json:"publishedAt,omitempty" bson:"publishedAt,omitempty"`
}

// Chapter is an ordered unit of a course, its index is its identity
type Chapter struct {
	ChapterName   string    `json:"chapterName" bson:"chapterName"`
	About         string    `json:"about" bson:"about"`
	Duration      string    `json:"duration" bson:"duration"`
	Content       []Section `json:"content,omitempty" bson:"content,omitempty"`
	YoutubeVideos []string  `json:"youtubeVideos,omitempty" bson:"youtubeVideos,omitempty"`
}

// Section is one explanation block of a chapter
type Section struct {
	Title       string `json:"title" bson:"title"`
	Explanation string `json:"explanation" bson:"explanation"`
	CodeExample string `json:"codeExample,omitempty" bson:"codeExample,omitempty"`
}

// IsOwnedBy reports whether the course belongs to the given user
func (c *Course) IsOwnedBy(userID string) bool {
	return userID != "" && c.UserID == userID
}

// IsVisibleTo reports whether the requester may read the course
func (c *Course) IsVisibleTo(userID string) bool {
	return c.Status == CourseStatusPublished || c.IsOwnedBy(userID)
}

// CourseOutline is the structure returned by the generative model for a new course
type CourseOutline struct {
	CourseName  string    `json:"courseName"`
	Description string    `json:"description"`
	Chapters    []Chapter `json:"chapters"`
}

// CourseFilter holds the in-process filters applied to the published listing
type CourseFilter struct {
	Search   string
	Category string
	Level    string
	Duration string
}

// GenerateCourseRequest represents a request to generate a new course
type GenerateCourseRequest struct {
	UserID         string `json:"userId"`
	Category       string `json:"category"`
	Topic          string `json:"topic"`
	Description    string `json:"description,omitempty"`
	Difficulty     string `json:"difficulty"`
	Duration       string `json:"duration"`
	IncludeYoutube bool   `json:"includeYoutube,omitempty"`
	ChapterCount   int    `json:"chapterCount,omitempty"`
}

// GenerateCourseResponse represents the result of course generation
type GenerateCourseResponse struct {
	CourseID string  `json:"courseId"`
	Course   *Course `json:"course"`
}

// ChapterRequest represents a request targeting one chapter of a course.
// ChapterIndex is a pointer so that a missing index can be told apart from index 0.
type ChapterRequest struct {
	UserID       string `json:"userId"`
	CourseID     string `json:"courseId"`
	ChapterIndex *int   `json:"chapterIndex"`
	ChapterName  string `json:"chapterName"`
	CourseTopic  string `json:"courseTopic"`
	Difficulty   string `json:"difficulty,omitempty"`
}

// ChapterContentResponse represents generated chapter content
type ChapterContentResponse struct {
	CourseID     string    `json:"courseId"`
	ChapterIndex int       `json:"chapterIndex"`
	Content      []Section `json:"content"`
}

// ChapterVideosResponse represents fetched chapter videos
type ChapterVideosResponse struct {
	CourseID     string   `json:"courseId"`
	ChapterIndex int      `json:"chapterIndex"`
	VideoIDs     []string `json:"videoIds"`
}

// PublishCourseRequest represents a request to publish a course
type PublishCourseRequest struct {
	UserID string `json:"userId"`
}

// PublishCourseResponse represents the publish acknowledgement
type PublishCourseResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	CourseID string `json:"courseId"`
}

// UpdateCourseRequest represents a partial manual edit of a course.
// Status, owner and timestamps are not editable through this request.
type UpdateCourseRequest struct {
	UserID      string     `json:"userId,omitempty"`
	CourseName  *string    `json:"courseName,omitempty"`
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Topic       *string    `json:"topic,omitempty"`
	Level       *string    `json:"level,omitempty"`
	Duration    *string    `json:"duration,omitempty"`
	Chapters    *[]Chapter `json:"chapters,omitempty"`
}

// IsEmpty reports whether the request carries no editable field
func (r *UpdateCourseRequest) IsEmpty() bool {
	return r.CourseName == nil && r.Description == nil && r.Category == nil &&
		r.Topic == nil && r.Level == nil && r.Duration == nil && r.Chapters == nil
}

// UpdateCourseResponse represents the update acknowledgement
type UpdateCourseResponse struct {
	Success  bool   `json:"success"`
	CourseID string `json:"courseId"`
}

// CourseDetailResponse is a course together with its advisory completeness ratio
type CourseDetailResponse struct {
	*Course
	Completeness float64 `json:"completeness"`
}

// CourseListItem represents a course in list responses
type CourseListItem struct {
	ID           string       `json:"id"`
	UserID       string       `json:"userId"`
	CourseName   string       `json:"courseName"`
	Description  string       `json:"description"`
	Category     string       `json:"category"`
	Topic        string       `json:"topic"`
	Level        string       `json:"level"`
	Duration     string       `json:"duration"`
	NoOfChapters int          `json:"noOfChapters"`
	Status       CourseStatus `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	PublishedAt  *time.Time   `json:"publishedAt,omitempty"`
}

// ToListItem converts a course into its list representation
func (c *Course) ToListItem() CourseListItem {
	return CourseListItem{
		ID:           c.ID,
		UserID:       c.UserID,
		CourseName:   c.CourseName,
		Description:  c.Description,
		Category:     c.Category,
		Topic:        c.Topic,
		Level:        c.Level,
		Duration:     c.Duration,
		NoOfChapters: c.NoOfChapters,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt,
		PublishedAt:  c.PublishedAt,
	}
}
