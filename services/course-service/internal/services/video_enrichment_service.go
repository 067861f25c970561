package services

import (
	"context"
	"slices"
	"time"

	"github.com/courseforge/backend/services/course-service/internal/clients"
	"github.com/courseforge/backend/services/course-service/internal/models"
	"go.uber.org/zap"
)

// VideoSearcher defines the video search client used by the workflow
type VideoSearcher interface {
	// Search returns videos matching the query in ranking order
	//
	// "ctx" is the context for the request.
	// "query" is the free-text search query.
	// "maxResults" is the maximum number of videos to return.
	//
	// Returns a list of videos and an error if any.
	Search(ctx context.Context, query string, maxResults int) ([]clients.VideoResult, error)
}

type videoEnrichmentService struct {
	courseRepo CourseRepository
	searcher   VideoSearcher
	logger     *zap.Logger
	now        func() time.Time
}

// NewVideoEnrichmentService creates a new video enrichment service
func NewVideoEnrichmentService(courseRepo CourseRepository, searcher VideoSearcher, logger *zap.Logger) *videoEnrichmentService {
	return &videoEnrichmentService{
		courseRepo: courseRepo,
		searcher:   searcher,
		logger:     logger,
		now:        time.Now,
	}
}

// FetchChapterVideos searches videos for a chapter and replaces its previous video list
func (s *videoEnrichmentService) FetchChapterVideos(ctx context.Context, req *models.ChapterRequest) (*models.ChapterVideosResponse, error) {
	if err := validateChapterRequest(req, false); err != nil {
		return nil, err
	}

	course, err := loadOwnedCourse(ctx, s.courseRepo, req.CourseID, req.UserID)
	if err != nil {
		return nil, err
	}

	index := *req.ChapterIndex
	if err := checkChapterIndex(course, index); err != nil {
		return nil, err
	}

	query := BuildVideoQuery(req.CourseTopic, req.ChapterName, req.Difficulty)
	results, err := s.searcher.Search(ctx, query, videoResultsCount)
	if err != nil {
		return nil, upstreamError("search videos", err)
	}

	videoIDs := make([]string, 0, len(results))
	for _, result := range results {
		videoIDs = append(videoIDs, result.VideoID)
	}

	chapters := slices.Clone(course.Chapters)
	chapters[index].YoutubeVideos = videoIDs
	if err := s.courseRepo.UpdateChapters(ctx, course.ID, chapters, s.now().UTC()); err != nil {
		return nil, storeError("update chapters", err)
	}

	s.logger.Debug("chapter videos updated",
		zap.String("course_id", course.ID),
		zap.Int("chapter_index", index),
		zap.String("query", query),
		zap.Int("videos", len(videoIDs)),
	)

	return &models.ChapterVideosResponse{
		CourseID:     course.ID,
		ChapterIndex: index,
		VideoIDs:     videoIDs,
	}, nil
}
