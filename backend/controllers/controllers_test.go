package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnpath/backend/config"
	"learnpath/backend/llm"
	"learnpath/backend/models"
	"learnpath/backend/routes"
	"learnpath/backend/store"
	"learnpath/backend/utils"
)

const liveKey = "sk-test-0123456789abcdefghijkl"

type stubCompleter struct {
	reply string
	err   error
}

func (s stubCompleter) Complete(context.Context, llm.Request) (string, error) { return s.reply, s.err }

type stubSearcher struct {
	refs []models.VideoRef
	err  error
}

func (s stubSearcher) Search(context.Context, string, int) ([]models.VideoRef, error) {
	return s.refs, s.err
}

// durableStore is a MemoryStore that reports itself as persistent.
type durableStore struct{ *store.MemoryStore }

func (durableStore) Persistent() bool { return true }

// blockingSearcher never answers before ctx ends.
type blockingSearcher struct{}

func (blockingSearcher) Search(ctx context.Context, _ string, _ int) ([]models.VideoRef, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// brokenStore claims durability but every course lookup fails like a dropped connection.
type brokenStore struct{ *store.MemoryStore }

func (brokenStore) Persistent() bool { return true }

func (brokenStore) FindCourseBySlug(context.Context, string) (*models.Course, error) {
	return nil, fmt.Errorf("%w: dial tcp 127.0.0.1:5432: connect: connection refused", store.ErrUnavailable)
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:         "testsecret",
		JWTTTL:            time.Hour,
		ProviderTimeout:   time.Second,
		EnrichConcurrency: 4,
		OpenAI:            config.NewCredential("", config.OpenAIPlaceholder),
		YouTube:           config.NewCredential("", config.YouTubePlaceholder),
	}
}

func newApp(t *testing.T, deps routes.Dependencies) *fiber.App {
	t.Helper()
	if deps.Store == nil {
		deps.Store = store.NewMemoryStore()
	}
	if deps.Cfg == nil {
		deps.Cfg = testConfig()
	}
	deps.Log = utils.NopLogger()
	app := fiber.New()
	routes.SetupRoutes(app, deps)
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) (int, map[string]interface{}) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	if resp.Header.Get("Content-Type") == fiber.MIMEApplicationJSON {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	}
	return resp.StatusCode, out
}

func register(t *testing.T, app *fiber.App, email, username string) string {
	t.Helper()
	status, body := do(t, app, "POST", "/api/auth/register", map[string]string{
		"email": email, "password": "password1", "fullName": "Test User", "username": username,
	}, "")
	require.Equal(t, fiber.StatusCreated, status, body)
	return body["token"].(string)
}

func TestGenerateDemoRoadmap(t *testing.T) {
	app := newApp(t, routes.Dependencies{})

	status, body := do(t, app, "POST", "/api/roadmap/generate", map[string]string{"courseName": "  Machine Learning "}, "")
	require.Equal(t, fiber.StatusOK, status)
	course := body["course"].(map[string]interface{})
	assert.Equal(t, "Machine Learning", course["name"])
	assert.Equal(t, "machine-learning", course["slug"])
	assert.Equal(t, false, body["persisted"])

	roadmap := body["roadmap"].(map[string]interface{})
	assert.Equal(t, float64(50), roadmap["totalHours"])
	levels := roadmap["levels"].([]interface{})
	require.Len(t, levels, 3)
	first := levels[0].(map[string]interface{})["topics"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Machine Learning Basics", first["title"])

	status, body = do(t, app, "GET", "/api/roadmap/machine-learning", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["roadmap"].(map[string]interface{})["id"])
}

func TestGenerateValidation(t *testing.T) {
	app := newApp(t, routes.Dependencies{})

	for _, name := range []string{"", "a", "   b   "} {
		status, body := do(t, app, "POST", "/api/roadmap/generate", map[string]string{"courseName": name}, "")
		assert.Equal(t, fiber.StatusBadRequest, status, name)
		assert.Equal(t, "validation_error", body["code"])
	}
}

func TestGenerateLiveFailureIsBadGateway(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAI = config.NewCredential(liveKey, config.OpenAIPlaceholder)
	app := newApp(t, routes.Dependencies{Cfg: cfg, Completer: stubCompleter{err: errors.New("upstream down")}})

	status, body := do(t, app, "POST", "/api/roadmap/generate", map[string]string{"courseName": "Go"}, "")
	assert.Equal(t, fiber.StatusBadGateway, status)
	assert.Equal(t, "provider_error", body["code"])
	assert.Equal(t, "Failed to generate roadmap", body["message"])
}

func TestGenerateLiveRoadmap(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAI = config.NewCredential(liveKey, config.OpenAIPlaceholder)
	reply := "```json\n{\"levels\":[{\"level\":\"Beginner\",\"topics\":[{\"title\":\"Goroutines\",\"estimatedHours\":4}]}],\"totalHours\":4}\n```"
	st := durableStore{store.NewMemoryStore()}
	app := newApp(t, routes.Dependencies{Cfg: cfg, Store: st, Completer: stubCompleter{reply: reply}})

	status, body := do(t, app, "POST", "/api/roadmap/generate", map[string]string{"courseName": "Go"}, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["persisted"])
	assert.NotEmpty(t, body["course"].(map[string]interface{})["id"])
}

func TestGetRoadmapUnknownCourse(t *testing.T) {
	app := newApp(t, routes.Dependencies{})

	status, body := do(t, app, "GET", "/api/roadmap/nothing-here", nil, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "not_found", body["code"])
}

func TestEnrichEndpoint(t *testing.T) {
	app := newApp(t, routes.Dependencies{})

	status, body := do(t, app, "POST", "/api/roadmap/enrich", map[string]interface{}{
		"topics": []map[string]string{{"title": "Closures"}, {"title": "Generics"}, {"title": "Closures"}},
	}, "")
	require.Equal(t, fiber.StatusOK, status)
	videos := body["videos"].(map[string]interface{})
	assert.Len(t, videos, 2)
	assert.Len(t, videos["Generics"], 2)
	assert.Equal(t, false, body["partial"])

	status, _ = do(t, app, "POST", "/api/roadmap/enrich", map[string]interface{}{"topics": []interface{}{}}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = do(t, app, "POST", "/api/roadmap/enrich", map[string]interface{}{
		"topics": []map[string]string{{"title": "x"}},
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
}

func TestVideoSearch(t *testing.T) {
	app := newApp(t, routes.Dependencies{})

	status, _ := do(t, app, "GET", "/api/videos/search?topic=a", nil, "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := do(t, app, "GET", "/api/videos/search?topic=React%20Hooks", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	videos := body["videos"].([]interface{})
	require.Len(t, videos, 2)
	assert.Equal(t, "React Hooks Tutorial", videos[0].(map[string]interface{})["title"])
}

func TestVideoSearchProviderFailureStillOK(t *testing.T) {
	cfg := testConfig()
	cfg.YouTube = config.NewCredential(liveKey, config.YouTubePlaceholder)
	app := newApp(t, routes.Dependencies{Cfg: cfg, Searcher: stubSearcher{err: errors.New("quota")}})

	status, body := do(t, app, "GET", "/api/videos/search?topic=Docker", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["videos"], 3)
}

func TestChat(t *testing.T) {
	app := newApp(t, routes.Dependencies{})

	status, _ := do(t, app, "POST", "/api/chat", map[string]string{"message": "   "}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, body := do(t, app, "POST", "/api/chat", map[string]string{"message": "How to start?"}, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body["response"], "demo AI assistant")
}

func TestHealthAndMetrics(t *testing.T) {
	app := newApp(t, routes.Dependencies{})

	status, body := do(t, app, "GET", "/health", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, false, body["persistent"])
	assert.Equal(t, map[string]interface{}{"openai": false, "youtube": false}, body["integrations"])

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAuthFlow(t *testing.T) {
	app := newApp(t, routes.Dependencies{})
	token := register(t, app, "learner@example.com", "learner")

	status, _ := do(t, app, "POST", "/api/auth/register", map[string]string{
		"email": "learner@example.com", "password": "password1", "fullName": "Again", "username": "again",
	}, "")
	assert.Equal(t, fiber.StatusConflict, status)

	status, body := do(t, app, "POST", "/api/auth/login", map[string]string{"email": "learner@example.com", "password": "password1"}, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.NotEmpty(t, body["token"])
	assert.Nil(t, body["user"].(map[string]interface{})["passwordHash"])

	status, _ = do(t, app, "POST", "/api/auth/login", map[string]string{"email": "learner@example.com", "password": "nope"}, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)

	status, body = do(t, app, "GET", "/api/auth/me", nil, token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "learner", body["user"].(map[string]interface{})["username"])

	status, _ = do(t, app, "GET", "/api/auth/me", nil, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestProfileEndpoints(t *testing.T) {
	app := newApp(t, routes.Dependencies{})
	token := register(t, app, "pat@example.com", "pat")
	register(t, app, "sam@example.com", "sam")

	status, body := do(t, app, "POST", "/api/profile", map[string]string{"fullName": "Pat Doe", "username": "sam"}, token)
	assert.Equal(t, fiber.StatusConflict, status)
	assert.NotEmpty(t, body["errors"])

	status, body = do(t, app, "POST", "/api/profile", map[string]string{"fullName": "Pat Doe", "username": "pat", "country": "Chile"}, token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["persisted"])
	assert.Contains(t, body["message"], "not persisted")

	status, body = do(t, app, "GET", "/api/profile/pat@example.com", nil, token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "Chile", body["data"].(map[string]interface{})["country"])

	status, _ = do(t, app, "GET", "/api/profile/not-an-email", nil, token)
	assert.Equal(t, fiber.StatusBadRequest, status)
	status, _ = do(t, app, "GET", "/api/profile/ghost@example.com", nil, token)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestProgressEndpoints(t *testing.T) {
	app := newApp(t, routes.Dependencies{})
	token := register(t, app, "kim@example.com", "kim")

	status, _ := do(t, app, "GET", "/api/progress", nil, token)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = do(t, app, "POST", "/api/progress", map[string]interface{}{"courseId": "rust", "topicId": "Rust Basics", "completed": true}, token)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = do(t, app, "POST", "/api/roadmap/generate", map[string]string{"courseName": "Rust"}, "")
	require.Equal(t, fiber.StatusOK, status)

	status, body := do(t, app, "POST", "/api/progress", map[string]interface{}{"courseId": "rust", "topicId": "Rust Basics", "completed": true}, token)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []interface{}{"Rust Basics"}, body["completedTopics"])

	status, body = do(t, app, "GET", "/api/progress?courseId=rust", nil, token)
	require.Equal(t, fiber.StatusOK, status)
	progress := body["progress"].(map[string]interface{})
	assert.Equal(t, float64(17), progress["overall"])
	assert.Equal(t, false, body["persisted"])
}

func TestAdminRequiresDurableStore(t *testing.T) {
	app := newApp(t, routes.Dependencies{})
	token := register(t, app, "root@example.com", "root")

	status, body := do(t, app, "GET", "/api/admin/roadmaps", nil, token)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "persistence_unavailable", body["code"])
}

func TestAdminRoadmaps(t *testing.T) {
	cfg := testConfig()
	cfg.AdminEmails = []string{"root@example.com"}
	app := newApp(t, routes.Dependencies{Cfg: cfg, Store: durableStore{store.NewMemoryStore()}})
	admin := register(t, app, "root@example.com", "root")
	user := register(t, app, "user@example.com", "user")

	_, gen := do(t, app, "POST", "/api/roadmap/generate", map[string]string{"courseName": "SQL"}, "")
	id := gen["roadmap"].(map[string]interface{})["id"].(string)

	status, _ := do(t, app, "GET", "/api/admin/roadmaps", nil, user)
	assert.Equal(t, fiber.StatusForbidden, status)

	status, body := do(t, app, "GET", "/api/admin/roadmaps", nil, admin)
	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, body["items"], 1)

	status, body = do(t, app, "POST", "/api/admin/roadmaps/"+id+"/approve", nil, admin)
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["roadmap"].(map[string]interface{})["approved"])

	status, _ = do(t, app, "POST", "/api/admin/roadmaps/missing/approve", nil, admin)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestCatalogue(t *testing.T) {
	app := newApp(t, routes.Dependencies{})
	do(t, app, "POST", "/api/roadmap/generate", map[string]string{"courseName": "Data Science"}, "")
	do(t, app, "POST", "/api/roadmap/generate", map[string]string{"courseName": "Web Design"}, "")

	status, body := do(t, app, "GET", "/api/courses?search=data", nil, "")
	require.Equal(t, fiber.StatusOK, status)
	courses := body["data"].([]interface{})
	require.Len(t, courses, 1)
	assert.Equal(t, "data-science", courses[0].(map[string]interface{})["slug"])
}

func TestStoreOutageIsServiceUnavailable(t *testing.T) {
	app := newApp(t, routes.Dependencies{Store: brokenStore{store.NewMemoryStore()}})
	token := register(t, app, "pat@example.com", "pat")

	status, body := do(t, app, "GET", "/api/progress?courseId=rust", nil, token)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "persistence_unavailable", body["code"])
	assert.Equal(t, "Database unavailable", body["message"])

	status, body = do(t, app, "GET", "/api/roadmap/rust", nil, "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Equal(t, "persistence_unavailable", body["code"])
}

func TestGenerateStillAnswersWhenSaveFails(t *testing.T) {
	app := newApp(t, routes.Dependencies{Store: brokenStore{store.NewMemoryStore()}})

	status, body := do(t, app, "POST", "/api/roadmap/generate", map[string]string{"courseName": "Rust"}, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, body["persisted"])
	assert.Equal(t, "rust", body["course"].(map[string]interface{})["slug"])
	roadmap := body["roadmap"].(map[string]interface{})
	assert.NotEmpty(t, roadmap["levels"])
	assert.Equal(t, float64(50), roadmap["totalHours"])
}

func TestRegisterRejectsOverlongPassword(t *testing.T) {
	app := newApp(t, routes.Dependencies{})

	status, body := do(t, app, "POST", "/api/auth/register", map[string]string{
		"email": "long@example.com", "password": strings.Repeat("x", 80), "fullName": "Long Pass", "username": "longpass",
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "validation_error", body["code"])
}

func TestEnrichDeadlineReturnsPartial(t *testing.T) {
	cfg := testConfig()
	cfg.YouTube = config.NewCredential(liveKey, config.YouTubePlaceholder)
	cfg.EnrichTimeout = 50 * time.Millisecond
	app := newApp(t, routes.Dependencies{Cfg: cfg, Searcher: blockingSearcher{}})

	status, body := do(t, app, "POST", "/api/roadmap/enrich", map[string]interface{}{
		"topics": []map[string]string{{"title": "Closures"}, {"title": "Generics"}},
	}, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["partial"])
	assert.Empty(t, body["videos"])
}
