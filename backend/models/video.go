package models

// MaxVideosPerTopic caps the references kept for one topic.
const MaxVideosPerTopic = 3

type VideoRef struct {
	VideoID   string `json:"videoId,omitempty"`
	Title     string `json:"title"`
	Channel   string `json:"channel"`
	Href      string `json:"href"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// VideoMap holds the enrichment result for a roadmap, keyed by topic title.
type VideoMap map[string][]VideoRef
