package clients

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// VideoResult is one ranked hit of a video search
type VideoResult struct {
	VideoID string
	Title   string
}

// YouTubeClient searches videos through the YouTube Data API
type YouTubeClient struct {
	service *youtube.Service
}

// NewYouTubeClient creates a new video search client.
// Extra options (endpoint, HTTP client) are appended after the API key.
func NewYouTubeClient(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeClient, error) {
	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}
	return &YouTubeClient{service: svc}, nil
}

// Search returns up to maxResults videos for the query in the service's ranking order
func (c *YouTubeClient) Search(ctx context.Context, query string, maxResults int) ([]VideoResult, error) {
	resp, err := c.service.Search.List([]string{"id", "snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("video search failed: %w", err)
	}

	results := make([]VideoResult, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		result := VideoResult{VideoID: item.Id.VideoId}
		if item.Snippet != nil {
			result.Title = item.Snippet.Title
		}
		results = append(results, result)
	}
	return results, nil
}
