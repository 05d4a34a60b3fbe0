package config

import "strings"

const (
	OpenAIPlaceholder  = "your_openai_key"
	YouTubePlaceholder = "your_youtube_api_key"

	// minCredentialLength guards against empty or template secrets checked in by accident.
	minCredentialLength = 20
)

// Credential is an API key paired with the template value shipped in example env files.
type Credential struct {
	Key         string
	Placeholder string
}

func NewCredential(key, placeholder string) Credential {
	return Credential{Key: strings.TrimSpace(key), Placeholder: placeholder}
}

// Usable reports whether the key should be used for live provider calls.
func (c Credential) Usable() bool {
	return HasUsableCredential(c.Key, c.Placeholder)
}

// HasUsableCredential is true iff key is non-empty, does not contain placeholder
// and is longer than the minimum credential length.
func HasUsableCredential(key, placeholder string) bool {
	key = strings.TrimSpace(key)
	if key == "" {
		return false
	}
	if placeholder != "" && strings.Contains(key, placeholder) {
		return false
	}
	return len(key) > minCredentialLength
}
