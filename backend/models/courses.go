package models

import (
	"time"

	"gorm.io/datatypes"
)

type Course struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id,omitempty" bson:"_id"`
	Name      string    `gorm:"not null" json:"name" bson:"name"`
	Slug      string    `gorm:"uniqueIndex;not null" json:"slug" bson:"slug"`
	CreatedAt time.Time `json:"createdAt,omitempty" bson:"created_at"`
	UpdatedAt time.Time `json:"updatedAt,omitempty" bson:"updated_at"`
}

// Roadmap is a stored Plan for a course. Admins approve roadmaps before they are
// promoted to the catalogue.
type Roadmap struct {
	ID         string                     `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	CourseID   string                     `gorm:"index;not null;size:36" json:"courseId" bson:"course_id"`
	Levels     datatypes.JSONSlice[Level] `json:"levels" bson:"levels"`
	TotalHours float64                    `json:"totalHours" bson:"total_hours"`
	Approved   bool                       `gorm:"default:false" json:"approved" bson:"approved"`
	CreatedAt  time.Time                  `gorm:"index" json:"createdAt" bson:"created_at"`
	UpdatedAt  time.Time                  `json:"updatedAt" bson:"updated_at"`
}

func NewRoadmap(courseID string, plan Plan) *Roadmap {
	p := plan.Clone()
	return &Roadmap{
		CourseID:   courseID,
		Levels:     datatypes.JSONSlice[Level](p.Levels),
		TotalHours: p.TotalHours,
	}
}

func (r Roadmap) Plan() Plan {
	return Plan{Levels: []Level(r.Levels), TotalHours: r.TotalHours}.Clone()
}
