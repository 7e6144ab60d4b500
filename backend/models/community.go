package models

import (
	"time"

	"gorm.io/gorm"
)

type Discussion struct {
	gorm.Model
	UserID   uint      `gorm:"not null;index" json:"user_id"`
	UserName string    `json:"user_name"`
	CourseID uint      `gorm:"not null;index" json:"course_id"`
	Message  string    `gorm:"not null" json:"message"`
	PostedAt time.Time `json:"posted_at"`
}

// One rating per (user, course); rating the same course again updates
// the existing row.
type CourseRating struct {
	gorm.Model
	UserID   uint      `gorm:"not null;uniqueIndex:idx_user_course_rating" json:"user_id"`
	CourseID uint      `gorm:"not null;uniqueIndex:idx_user_course_rating" json:"course_id"`
	Rating   int       `gorm:"check:rating>=1 AND rating<=5" json:"rating"`
	Feedback string    `json:"feedback"`
	RatedAt  time.Time `json:"rated_at"`
}
