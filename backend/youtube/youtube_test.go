package youtube

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func TestExtractVideoID(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ":           "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s":     "dQw4w9WgXcQ",
		"https://www.youtube.com/watch?feature=share&v=abc_-12": "abc_-12",
		"https://youtu.be/3GwjfUFyY6M":                          "3GwjfUFyY6M",
		"https://youtu.be/3GwjfUFyY6M?si=xyz":                   "3GwjfUFyY6M",
		"https://www.youtube.com/embed/Tn6-PIqc4UM":             "Tn6-PIqc4UM",
		"https://www.youtube.com/shorts/Tn6-PIqc4UM":            "Tn6-PIqc4UM",
		"https://www.youtube.com":                               "",
		"https://vimeo.com/12345":                               "",
		"":                                                      "",
	}
	for href, want := range cases {
		assert.Equal(t, want, ExtractVideoID(href), href)
	}
}

func TestSecureURL(t *testing.T) {
	assert.Equal(t, "https://i.ytimg.com/vi/x/mqdefault.jpg", SecureURL("http://i.ytimg.com/vi/x/mqdefault.jpg"))
	assert.Equal(t, "https://i.ytimg.com/a.jpg", SecureURL("//i.ytimg.com/a.jpg"))
	assert.Equal(t, "https://already.example/a.jpg", SecureURL("https://already.example/a.jpg"))
	assert.Equal(t, "", SecureURL(""))
}

func TestWatchURL(t *testing.T) {
	assert.Equal(t, "https://www.youtube.com/watch?v=abc", WatchURL("abc"))
	assert.Equal(t, "", WatchURL(""))
}

func TestClientSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/search"), r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "Rust Basics tutorial beginner", q.Get("q"))
		assert.Equal(t, "video", q.Get("type"))
		assert.Equal(t, "8", q.Get("maxResults"))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{
					"id": map[string]string{"kind": "youtube#video", "videoId": "vid1"},
					"snippet": map[string]interface{}{
						"title":        "Rust in 100 seconds",
						"channelTitle": "Fireship",
						"thumbnails": map[string]interface{}{
							"default": map[string]string{"url": "http://i.ytimg.com/vi/vid1/default.jpg"},
							"medium":  map[string]string{"url": "http://i.ytimg.com/vi/vid1/mqdefault.jpg"},
						},
					},
				},
				{
					"id":      map[string]string{"kind": "youtube#video", "videoId": "vid2"},
					"snippet": map[string]interface{}{},
				},
			},
		})
	}))
	defer srv.Close()

	c, err := NewClient(context.Background(), "test-key", 100, option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	refs, err := c.Search(context.Background(), "Rust Basics tutorial beginner", 8)
	require.NoError(t, err)
	require.Len(t, refs, 2)

	assert.Equal(t, "vid1", refs[0].VideoID)
	assert.Equal(t, "Rust in 100 seconds", refs[0].Title)
	assert.Equal(t, "Fireship", refs[0].Channel)
	assert.Equal(t, "https://i.ytimg.com/vi/vid1/mqdefault.jpg", refs[0].Thumbnail)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid1", refs[0].Href)

	assert.Equal(t, "Untitled Video", refs[1].Title)
	assert.Equal(t, "Unknown Channel", refs[1].Channel)
}

func TestClientSearchProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(context.Background(), "test-key", 100, option.WithEndpoint(srv.URL+"/"), option.WithHTTPClient(srv.Client()))
	require.NoError(t, err)

	_, err = c.Search(context.Background(), "anything", 8)
	assert.Error(t, err)
}
