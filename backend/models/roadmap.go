package models

import "strings"

// CourseRequest is the body of a roadmap generation request.
type CourseRequest struct {
	CourseName string `json:"courseName" validate:"required,min=2"`
}

type Topic struct {
	Title          string  `json:"title" bson:"title"`
	Description    string  `json:"description,omitempty" bson:"description,omitempty"`
	EstimatedHours float64 `json:"estimatedHours,omitempty" bson:"estimated_hours,omitempty"`
}

type Level struct {
	Level  string  `json:"level" bson:"level"`
	Topics []Topic `json:"topics" bson:"topics"`
}

// Plan is a generated curriculum: ordered levels of ordered topics.
type Plan struct {
	Levels     []Level `json:"levels"`
	TotalHours float64 `json:"totalHours"`
}

// Topics flattens the plan in curriculum order.
func (p Plan) Topics() []Topic {
	out := make([]Topic, 0, p.TopicCount())
	for _, lvl := range p.Levels {
		out = append(out, lvl.Topics...)
	}
	return out
}

func (p Plan) TopicCount() int {
	n := 0
	for _, lvl := range p.Levels {
		n += len(lvl.Topics)
	}
	return n
}

// SumHours adds up the estimated hours of every topic.
func (p Plan) SumHours() float64 {
	var total float64
	for _, lvl := range p.Levels {
		for _, t := range lvl.Topics {
			total += t.EstimatedHours
		}
	}
	return total
}

// Clone returns a deep copy so stored plans never share slices with callers.
func (p Plan) Clone() Plan {
	out := Plan{TotalHours: p.TotalHours, Levels: make([]Level, len(p.Levels))}
	for i, lvl := range p.Levels {
		out.Levels[i] = Level{Level: lvl.Level, Topics: append([]Topic(nil), lvl.Topics...)}
	}
	return out
}

// Slugify lowercases name and collapses whitespace runs to single hyphens.
func Slugify(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
