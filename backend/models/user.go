package models

import "time"

type User struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id" bson:"_id"`
	Email        string      `gorm:"uniqueIndex;not null" json:"email" bson:"email"`
	PasswordHash string      `gorm:"not null" json:"-" bson:"password_hash"`
	FullName     string      `gorm:"not null" json:"fullName" bson:"full_name"`
	Username     string      `gorm:"uniqueIndex;not null" json:"username" bson:"username"`
	Phone        string      `json:"phone" bson:"phone"`
	Country      string      `json:"country" bson:"country"`
	ProfileImage string      `json:"profileImage" bson:"profile_image"`
	Preferences  Preferences `gorm:"embedded;embeddedPrefix:pref_" json:"preferences" bson:"preferences"`
	CreatedAt    time.Time   `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time   `json:"updatedAt" bson:"updated_at"`
}

type Preferences struct {
	LearningStyle string `json:"learningStyle,omitempty" bson:"learning_style,omitempty"`
	Level         string `json:"level,omitempty" bson:"level,omitempty"`
}
