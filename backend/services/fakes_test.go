package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"learnpath/backend/config"
	"learnpath/backend/llm"
	"learnpath/backend/models"
)

const liveKey = "sk-test-0123456789abcdefghijkl"

func liveOpenAI() config.Credential  { return config.NewCredential(liveKey, config.OpenAIPlaceholder) }
func liveYouTube() config.Credential { return config.NewCredential(liveKey, config.YouTubePlaceholder) }

type fakeCompleter struct {
	reply string
	err   error
	calls int32
	last  llm.Request
	mu    sync.Mutex
}

func (f *fakeCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.last = req
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeSearcher struct {
	refs  []models.VideoRef
	err   error
	block bool
	calls int32
	query string
	mu    sync.Mutex
}

func (f *fakeSearcher) Search(ctx context.Context, query string, max int) ([]models.VideoRef, error) {
	atomic.AddInt32(&f.calls, 1)
	f.mu.Lock()
	f.query = query
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.refs, f.err
}

type memCache struct {
	mu      sync.Mutex
	entries map[string][]models.VideoRef
}

func newMemCache() *memCache { return &memCache{entries: map[string][]models.VideoRef{}} }

func (m *memCache) Get(_ context.Context, topic string) ([]models.VideoRef, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	refs, ok := m.entries[topic]
	return refs, ok
}

func (m *memCache) Set(_ context.Context, topic string, refs []models.VideoRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[topic] = refs
}

// lookupFunc adapts a function to VideoLookup.
type lookupFunc func(ctx context.Context, topic string) []models.VideoRef

func (f lookupFunc) Search(ctx context.Context, topic string) []models.VideoRef { return f(ctx, topic) }

func sleepCtx(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// coversExactly reports whether m holds exactly one entry per distinct title.
func coversExactly(m models.VideoMap, titles []string) bool {
	distinct := make(map[string]struct{}, len(titles))
	for _, t := range titles {
		distinct[t] = struct{}{}
		if _, ok := m[t]; !ok {
			return false
		}
	}
	return len(distinct) == len(m)
}
