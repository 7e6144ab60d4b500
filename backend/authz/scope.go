package authz

import (
	"project/backend/models"

	"gorm.io/gorm"
)

// Query scoping: narrow the record set before the store query runs, so a
// non-superuser instructor only ever sees rows whose foreign-key chain
// resolves to a course they own, and a student only their own rows.

// ScopeOwnCourses limits a Course query to the principal's courses.
// Superusers see everything.
func ScopeOwnCourses(p Principal, db *gorm.DB) *gorm.DB {
	if p.Superuser {
		return db
	}
	return db.Where("courses.instructor_id = ?", p.ID)
}

// ScopeSubmissions limits a Submission query. Instructors follow the
// submission -> assignment -> course chain; students see their own rows.
func ScopeSubmissions(p Principal, db *gorm.DB) *gorm.DB {
	if p.Superuser {
		return db
	}
	if p.IsInstructor() {
		return db.Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
			Joins("JOIN courses ON courses.id = assignments.course_id").
			Where("courses.instructor_id = ?", p.ID)
	}
	return db.Where("submissions.student_id = ?", p.ID)
}

// ScopeGrades limits a Grade query through the submission chain.
func ScopeGrades(p Principal, db *gorm.DB) *gorm.DB {
	if p.Superuser {
		return db
	}
	if p.IsInstructor() {
		return db.Joins("JOIN submissions ON submissions.id = grades.submission_id").
			Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
			Joins("JOIN courses ON courses.id = assignments.course_id").
			Where("courses.instructor_id = ?", p.ID)
	}
	return db.Joins("JOIN submissions ON submissions.id = grades.submission_id").
		Where("submissions.student_id = ?", p.ID)
}

// OwnedCourse loads a course and checks management rights in one step.
// The bool reports whether the course exists at all, so callers can keep
// 404 and 403 apart.
func OwnedCourse(p Principal, db *gorm.DB, courseID uint) (models.Course, bool, Decision) {
	var course models.Course
	if err := db.First(&course, courseID).Error; err != nil {
		return models.Course{}, false, Deny("course not found")
	}
	return course, true, CanManageCourse(p, course)
}
