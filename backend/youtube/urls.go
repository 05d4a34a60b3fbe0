package youtube

import (
	"regexp"
	"strings"
)

var videoIDPattern = regexp.MustCompile(`(?:youtube\.com/(?:watch\?(?:[^#\s]*&)?v=|embed/|shorts/)|youtu\.be/)([^&?#/\s]+)`)

// ExtractVideoID pulls the video id out of the watch, short-link, embed and shorts URL
// forms. It returns "" when href is not a recognised video URL.
func ExtractVideoID(href string) string {
	m := videoIDPattern.FindStringSubmatch(href)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

func WatchURL(id string) string {
	if id == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + id
}

func ThumbnailURL(id string) string {
	return "https://i.ytimg.com/vi/" + id + "/mqdefault.jpg"
}

// SecureURL upgrades http and protocol-relative URLs to https.
func SecureURL(u string) string {
	switch {
	case strings.HasPrefix(u, "http://"):
		return "https://" + strings.TrimPrefix(u, "http://")
	case strings.HasPrefix(u, "//"):
		return "https:" + u
	default:
		return u
	}
}
