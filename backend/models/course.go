package models

import (
	"time"

	"gorm.io/gorm"
)

type Course struct {
	gorm.Model
	Title        string `gorm:"not null" json:"title"`
	Description  string `json:"description"`
	ImageURL     string `json:"image_url"`
	InstructorID uint   `gorm:"not null;index" json:"instructor_id"`
	Instructor   User   `json:"-"`
	Lessons      []Lesson     `json:"lessons,omitempty"`
	Assignments  []Assignment `json:"assignments,omitempty"`
}

type Lesson struct {
	gorm.Model
	CourseID uint   `gorm:"not null;index" json:"course_id"`
	Title    string `gorm:"not null" json:"title"`
	Content  string `json:"content"`
	VideoURL string `json:"video_url"`
}

type Assignment struct {
	gorm.Model
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
}
