package models

import (
	"math"
	"time"

	"gorm.io/datatypes"
)

// Progress stores the completed topic titles of one user for one course.
type Progress struct {
	ID              string                      `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	UserID          string                      `gorm:"uniqueIndex:idx_progress_user_course;size:36;not null" json:"userId" bson:"user_id"`
	CourseID        string                      `gorm:"uniqueIndex:idx_progress_user_course;size:36;not null" json:"courseId" bson:"course_id"`
	CompletedTopics datatypes.JSONSlice[string] `json:"completedTopics" bson:"completed_topics"`
	CreatedAt       time.Time                   `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time                   `json:"updatedAt" bson:"updated_at"`
}

type LevelProgress struct {
	Level     string `json:"level"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Percent   int    `json:"percent"`
}

type ProgressReport struct {
	Overall   int             `json:"overall"`
	Completed int             `json:"completed"`
	Total     int             `json:"total"`
	Levels    []LevelProgress `json:"levels"`
}

// Percent is round(100*k/total), 0 for an empty scope.
func Percent(k, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(k) / float64(total)))
}

func OverallProgress(plan Plan, done CompletionSet) int {
	completed, total := 0, 0
	for _, lvl := range plan.Levels {
		c, t := countCompleted(lvl, done)
		completed += c
		total += t
	}
	return Percent(completed, total)
}

func LevelPercent(lvl Level, done CompletionSet) int {
	return Percent(countCompleted(lvl, done))
}

// BuildProgressReport computes overall and per-level completion for plan.
// Titles in done that do not appear in plan are ignored.
func BuildProgressReport(plan Plan, done CompletionSet) ProgressReport {
	report := ProgressReport{Levels: make([]LevelProgress, 0, len(plan.Levels))}
	for _, lvl := range plan.Levels {
		c, t := countCompleted(lvl, done)
		report.Completed += c
		report.Total += t
		report.Levels = append(report.Levels, LevelProgress{
			Level:     lvl.Level,
			Completed: c,
			Total:     t,
			Percent:   Percent(c, t),
		})
	}
	report.Overall = Percent(report.Completed, report.Total)
	return report
}

func countCompleted(lvl Level, done CompletionSet) (int, int) {
	completed := 0
	for _, t := range lvl.Topics {
		if done.Has(t.Title) {
			completed++
		}
	}
	return completed, len(lvl.Topics)
}
