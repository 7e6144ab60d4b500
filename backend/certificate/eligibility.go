// Package certificate holds the completion-certificate eligibility gate
// and the document renderer that consumes an issued record.
package certificate

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// The gate fails with a distinct reason per condition so the caller can
// tell the student exactly what is missing.
var (
	ErrNotEnrolled        = errors.New("you are not enrolled in this course")
	ErrIncompleteLessons  = errors.New("you must complete all lessons")
	ErrMissingSubmissions = errors.New("you must submit all assignments")
)

// Eligibility carries the counts the gate is evaluated against.
type Eligibility struct {
	Enrolled             bool
	CompletedLessons     int64
	TotalLessons         int64
	SubmittedAssignments int64
	TotalAssignments     int64
}

// Check runs the gate: enrolled, all lessons completed, all assignments
// submitted. Conditions are checked in that order and the first failing
// one is reported.
func (e Eligibility) Check() error {
	if !e.Enrolled {
		return ErrNotEnrolled
	}
	if e.CompletedLessons < e.TotalLessons {
		return ErrIncompleteLessons
	}
	if e.SubmittedAssignments < e.TotalAssignments {
		return ErrMissingSubmissions
	}
	return nil
}

// Record is the data an issued certificate is rendered from.
type Record struct {
	Serial      string
	StudentName string
	CourseTitle string
	IssuedAt    time.Time
}

// Renderer turns a Record into a downloadable document.
type Renderer interface {
	Render(rec Record) ([]byte, error)
}

// Filename builds the content-disposition filename from the course title.
func Filename(courseTitle string) string {
	title := strings.ReplaceAll(courseTitle, " ", "_")
	return fmt.Sprintf("certificate_%s.pdf", title)
}
