package services

import (
	"fmt"

	"learnpath/backend/models"
	"learnpath/backend/youtube"
)

// DemoTotalHours is the fixed total of the demo roadmap.
const DemoTotalHours = 50

// DemoPlan is the roadmap served when no completion credential is configured. Only the
// first topic title depends on courseName.
func DemoPlan(courseName string) models.Plan {
	return models.Plan{
		Levels: []models.Level{
			{Level: "Beginner", Topics: []models.Topic{
				{Title: courseName + " Basics", Description: "Core concepts and terminology", EstimatedHours: 8},
				{Title: "Fundamentals", Description: "Hands-on intro", EstimatedHours: 10},
			}},
			{Level: "Intermediate", Topics: []models.Topic{
				{Title: "Projects", Description: "Build real features", EstimatedHours: 12},
				{Title: "Best Practices", Description: "Write better code", EstimatedHours: 8},
			}},
			{Level: "Advanced", Topics: []models.Topic{
				{Title: "Performance", Description: "Optimize and scale", EstimatedHours: 6},
				{Title: "Testing", Description: "Quality and CI", EstimatedHours: 6},
			}},
		},
		TotalHours: DemoTotalHours,
	}
}

type placeholder struct {
	id, title, channel string
}

func placeholderRefs(items []placeholder) []models.VideoRef {
	out := make([]models.VideoRef, 0, len(items))
	for _, p := range items {
		out = append(out, models.VideoRef{
			VideoID:   p.id,
			Title:     p.title,
			Channel:   p.channel,
			Href:      youtube.WatchURL(p.id),
			Thumbnail: youtube.ThumbnailURL(p.id),
		})
	}
	return out
}

// DemoVideos is served when no video credential is configured.
func DemoVideos(topic string) []models.VideoRef {
	return placeholderRefs([]placeholder{
		{"dQw4w9WgXcQ", topic + " Tutorial", "Demo Channel"},
		{"3GwjfUFyY6M", topic + " Crash Course", "Demo Academy"},
	})
}

// FallbackVideos replaces a failed or timed-out provider lookup.
func FallbackVideos(topic string) []models.VideoRef {
	return placeholderRefs([]placeholder{
		{"dQw4w9WgXcQ", topic + " Tutorial for Beginners", "Learn Academy"},
		{"3GwjfUFyY6M", topic + " Complete Course", "Code School"},
		{"Tn6-PIqc4UM", "Master " + topic + " in 1 Hour", "Tech Tutorials"},
	})
}

func demoChatReply(message string) string {
	return fmt.Sprintf("I'm a demo AI assistant. Here's some advice about %q: Start by learning the fundamentals, practice regularly, and build projects to solidify your knowledge. Feel free to explore our courses for structured learning paths!", message)
}

func emptyChatReply(message string) string {
	return fmt.Sprintf("I'd be happy to help! Regarding %q: Start with fundamentals, practice consistently, build projects, and join learning communities. Check out our courses for structured learning paths!", message)
}

func failedChatReply(message string) string {
	return fmt.Sprintf("I'm here to help you learn! About %q: Focus on understanding core concepts first, practice with real projects, and don't hesitate to explore our structured courses. What specific aspect would you like to know more about?", message)
}
