package models

import (
	"time"

	"gorm.io/gorm"
)

// Certificate records a completion certificate that was actually issued.
// The serial goes onto the rendered document so it can be verified later.
type Certificate struct {
	gorm.Model
	Serial    string    `gorm:"unique;not null" json:"serial"`
	StudentID uint      `gorm:"not null;index" json:"student_id"`
	CourseID  uint      `gorm:"not null;index" json:"course_id"`
	IssuedAt  time.Time `json:"issued_at"`
}
