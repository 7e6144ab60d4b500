package models

import (
	"time"

	"gorm.io/gorm"
)

// Submission rows are append-only: a student may upload the same
// assignment more than once and every upload creates a new row.
type Submission struct {
	gorm.Model
	AssignmentID uint       `gorm:"not null;index" json:"assignment_id"`
	Assignment   Assignment `json:"-"`
	StudentID    uint       `gorm:"not null;index" json:"student_id"`
	Student      User       `json:"-"`
	FilePath     string     `gorm:"not null" json:"file_path"`
	SubmittedAt  time.Time  `json:"submitted_at"`
}

type Grade struct {
	gorm.Model
	SubmissionID uint       `gorm:"not null;index" json:"submission_id"`
	Submission   Submission `json:"-"`
	Marks        int        `json:"marks"`
	Feedback     string     `json:"feedback"`
}
