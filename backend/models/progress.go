package models

import (
	"time"

	"gorm.io/gorm"
)

type Enrollment struct {
	gorm.Model
	StudentID uint   `gorm:"not null;uniqueIndex:idx_student_course" json:"student_id"`
	Student   User   `json:"-"`
	CourseID  uint   `gorm:"not null;uniqueIndex:idx_student_course" json:"course_id"`
	Course    Course `json:"-"`
}

// First write wins: the unique index on (student, lesson) is the real
// arbiter, so a duplicate insert is treated as a no-op success.
type LessonProgress struct {
	gorm.Model
	StudentID   uint      `gorm:"not null;uniqueIndex:idx_student_lesson" json:"student_id"`
	LessonID    uint      `gorm:"not null;uniqueIndex:idx_student_lesson" json:"lesson_id"`
	Completed   bool      `gorm:"default:true" json:"completed"`
	CompletedAt time.Time `json:"completed_at"`
}

// ProgressPercent is the completion ratio floored to a whole percent.
// A course with no lessons is 0% complete.
func ProgressPercent(completed, total int64) int {
	if total <= 0 {
		return 0
	}
	return int(completed * 100 / total)
}
