// YouTube Data API v3 implementation of [VideoSearcher]
package services

import (
	"context"
	"fmt"

	"github.com/nagavel/spottube/internal/models"
	"github.com/nagavel/spottube/internal/shared"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const watchURLFormat = "https://www.youtube.com/watch?v=%s"

// YouTubeService implements [VideoSearcher] over the YouTube Data API v3
// search endpoint, authenticated with an API key.
//
// Searches are paced with a client-side limiter so a long playlist batch does
// not hammer the quota in a burst.
type YouTubeService struct {
	service    *youtube.Service
	limiter    *rate.Limiter
	maxResults int64
}

// NewYouTubeService creates a video catalog client. Extra options are passed
// through to the API client (tests use them to point at a local server).
func NewYouTubeService(ctx context.Context, apiKey string, opts ...option.ClientOption) (*YouTubeService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("%w: missing youtube api_key", shared.ErrMissingCredentials)
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create youtube service: %w", err)
	}

	return &YouTubeService{
		service:    service,
		limiter:    rate.NewLimiter(rate.Limit(4), 1),
		maxResults: 5,
	}, nil
}

func (y *YouTubeService) Name() string {
	return "YouTube"
}

// Search issues a snippet search for the query and maps the results in the
// API's relevance order. Transport and auth failures (rejected key, exceeded
// quota, network) surface as [shared.ErrLookup]; an empty result set is a
// normal outcome, not an error.
func (y *YouTubeService) Search(ctx context.Context, query string) ([]models.MatchCandidate, error) {
	if err := y.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrLookup, err)
	}

	call := y.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(y.maxResults).
		Context(ctx)

	resp, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrLookup, err)
	}

	candidates := make([]models.MatchCandidate, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		candidates = append(candidates, models.MatchCandidate{
			VideoURL:     fmt.Sprintf(watchURLFormat, item.Id.VideoId),
			Title:        item.Snippet.Title,
			ChannelTitle: item.Snippet.ChannelTitle,
			ThumbnailURL: thumbnailURL(item.Snippet.Thumbnails),
		})
	}

	return candidates, nil
}

// thumbnailURL prefers the high-resolution thumbnail, falling back through
// medium to default when the API omits it.
func thumbnailURL(details *youtube.ThumbnailDetails) string {
	if details == nil {
		return ""
	}
	for _, thumb := range []*youtube.Thumbnail{details.High, details.Medium, details.Default} {
		if thumb != nil && thumb.Url != "" {
			return thumb.Url
		}
	}
	return ""
}
