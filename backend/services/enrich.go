package services

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"learnpath/backend/models"
)

// VideoLookup is the per-topic search the enricher fans out over.
type VideoLookup interface {
	Search(ctx context.Context, topic string) []models.VideoRef
}

type Enricher struct {
	videos      VideoLookup
	concurrency int
}

func NewEnricher(videos VideoLookup, concurrency int) *Enricher {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Enricher{videos: videos, concurrency: concurrency}
}

// Enrich looks up videos for every distinct topic title concurrently. Repeated titles
// are looked up once and the first occurrence wins; titles are keys as given, blank
// ones are skipped. On success the result has exactly
// one entry per distinct title. If ctx ends first, the lookups that finished are
// returned together with ctx.Err(); unfinished topics are absent.
func (e *Enricher) Enrich(ctx context.Context, topics []models.Topic) (models.VideoMap, error) {
	titles := distinctTitles(topics)
	results := make([][]models.VideoRef, len(titles))
	done := make([]bool, len(titles))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i, title := range titles {
		if ctx.Err() != nil {
			break
		}
		i, title := i, title
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			refs := e.videos.Search(gctx, title)
			if ctx.Err() != nil {
				return nil
			}
			if len(refs) > models.MaxVideosPerTopic {
				refs = refs[:models.MaxVideosPerTopic]
			}
			if refs == nil {
				refs = []models.VideoRef{}
			}
			results[i] = refs
			done[i] = true
			return nil
		})
	}
	_ = g.Wait()

	out := make(models.VideoMap, len(titles))
	for i, title := range titles {
		if done[i] {
			out[title] = results[i]
		}
	}
	return out, ctx.Err()
}

// EnrichPlan enriches every topic of plan.
func (e *Enricher) EnrichPlan(ctx context.Context, plan models.Plan) (models.VideoMap, error) {
	return e.Enrich(ctx, plan.Topics())
}

func distinctTitles(topics []models.Topic) []string {
	seen := make(map[string]struct{}, len(topics))
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		if strings.TrimSpace(t.Title) == "" {
			continue
		}
		if _, ok := seen[t.Title]; ok {
			continue
		}
		seen[t.Title] = struct{}{}
		out = append(out, t.Title)
	}
	return out
}
