package youtube

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"learnpath/backend/models"
)

// Searcher queries a video provider. Implementations return provider order.
type Searcher interface {
	Search(ctx context.Context, query string, max int) ([]models.VideoRef, error)
}

// Client searches the YouTube Data API v3 with an API key.
type Client struct {
	svc     *yt.Service
	limiter *rate.Limiter
}

// NewClient builds a client. qps bounds outgoing search calls to protect the daily quota.
func NewClient(ctx context.Context, apiKey string, qps float64, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := yt.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube service: %w", err)
	}
	burst := int(qps)
	if burst < 1 {
		burst = 1
	}
	return &Client{svc: svc, limiter: rate.NewLimiter(rate.Limit(qps), burst)}, nil
}

func (c *Client) Search(ctx context.Context, query string, max int) ([]models.VideoRef, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("youtube rate limit: %w", err)
	}
	resp, err := c.svc.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(max)).
		VideoEmbeddable("true").
		RelevanceLanguage("en").
		SafeSearch("moderate").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search %q: %w", query, err)
	}

	out := make([]models.VideoRef, 0, len(resp.Items))
	for _, item := range resp.Items {
		out = append(out, toVideoRef(item))
	}
	return out, nil
}

func toVideoRef(item *yt.SearchResult) models.VideoRef {
	ref := models.VideoRef{Title: "Untitled Video", Channel: "Unknown Channel"}
	if item.Id != nil {
		ref.VideoID = item.Id.VideoId
		ref.Href = WatchURL(item.Id.VideoId)
	}
	if s := item.Snippet; s != nil {
		if s.Title != "" {
			ref.Title = s.Title
		}
		if s.ChannelTitle != "" {
			ref.Channel = s.ChannelTitle
		}
		ref.Thumbnail = SecureURL(pickThumbnail(s.Thumbnails))
	}
	return ref
}

func pickThumbnail(t *yt.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*yt.Thumbnail{t.Medium, t.Default, t.High} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}
