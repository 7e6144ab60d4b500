package models

import "gorm.io/gorm"

type Quiz struct {
	gorm.Model
	CourseID   uint       `gorm:"not null;index" json:"course_id"`
	Title      string     `gorm:"not null" json:"title"`
	TotalMarks int        `json:"total_marks"`
	Questions  []Question `json:"questions,omitempty"`
}

type Question struct {
	gorm.Model
	QuizID        uint   `gorm:"not null;index" json:"quiz_id"`
	QuestionText  string `gorm:"not null" json:"question_text"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	QuestionType  string `json:"question_type"` // e.g. MCQ, short_answer
}
