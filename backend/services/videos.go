package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"learnpath/backend/cache"
	"learnpath/backend/config"
	"learnpath/backend/metrics"
	"learnpath/backend/models"
	"learnpath/backend/utils"
	"learnpath/backend/youtube"
)

// searchResults is how many results are requested from the provider before
// filtering down to models.MaxVideosPerTopic.
const searchResults = 8

type VideoService struct {
	cred     config.Credential
	searcher youtube.Searcher
	cache    cache.VideoCache
	timeout  time.Duration
	log      *utils.Logger
}

// NewVideoService wires the video lookup. searcher and videoCache may be nil.
func NewVideoService(cred config.Credential, searcher youtube.Searcher, videoCache cache.VideoCache, timeout time.Duration, log *utils.Logger) *VideoService {
	return &VideoService{
		cred:     cred,
		searcher: searcher,
		cache:    videoCache,
		timeout:  timeout,
		log:      log.With("service", "VideoService"),
	}
}

func (s *VideoService) Live() bool {
	return s.searcher != nil && s.cred.Usable()
}

// Search returns at most models.MaxVideosPerTopic references for topic. It never fails:
// without a credential it serves DemoVideos, and a failed or timed-out provider call is
// answered with FallbackVideos. Only a provider that finds nothing yields an empty list.
func (s *VideoService) Search(ctx context.Context, topic string) []models.VideoRef {
	topic = strings.TrimSpace(topic)
	if !s.Live() {
		metrics.VideoFallbacks.WithLabelValues("demo").Inc()
		return DemoVideos(topic)
	}

	if s.cache != nil {
		if refs, ok := s.cache.Get(ctx, topic); ok {
			return refs
		}
	}

	callCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	found, err := s.searcher.Search(callCtx, topic+" tutorial beginner", searchResults)
	metrics.ObserveProvider("youtube", start, err)
	if err != nil {
		reason := "provider_error"
		if errors.Is(err, context.DeadlineExceeded) {
			reason = "timeout"
		}
		s.log.Warn("video search failed, serving fallback", "topic", topic, "reason", reason, "error", err)
		metrics.VideoFallbacks.WithLabelValues(reason).Inc()
		return FallbackVideos(topic)
	}

	refs := normalizeRefs(found)
	if s.cache != nil && len(refs) > 0 {
		s.cache.Set(ctx, topic, refs)
	}
	return refs
}

// normalizeRefs fills missing ids and links, forces https thumbnails, drops
// unlinkable and duplicate entries, and caps the result.
func normalizeRefs(found []models.VideoRef) []models.VideoRef {
	out := make([]models.VideoRef, 0, models.MaxVideosPerTopic)
	seen := make(map[string]struct{}, len(found))
	for _, ref := range found {
		if ref.VideoID == "" {
			ref.VideoID = youtube.ExtractVideoID(ref.Href)
		}
		if ref.Href == "" {
			ref.Href = youtube.WatchURL(ref.VideoID)
		}
		if ref.Href == "" {
			continue
		}
		key := ref.VideoID
		if key == "" {
			key = ref.Href
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		ref.Thumbnail = youtube.SecureURL(ref.Thumbnail)
		out = append(out, ref)
		if len(out) == models.MaxVideosPerTopic {
			break
		}
	}
	return out
}
