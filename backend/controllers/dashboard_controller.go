package controllers

import (
	"project/backend/authz"
	"project/backend/config"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewDashboardController(db *gorm.DB, cfg *config.Config) *DashboardController {
	return &DashboardController{DB: db, Cfg: cfg}
}

// InstructorDashboard lists the principal's own courses with their average
// rating and enrolled-student count. Superusers see every course.
func (dc *DashboardController) InstructorDashboard(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	if !p.IsInstructor() && !p.Superuser {
		return utils.Forbidden(c, "instructor access required")
	}

	var courses []models.Course
	q := authz.ScopeOwnCourses(p, dc.DB.Model(&models.Course{}))
	if err := q.Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		var avgRating float64
		dc.DB.Model(&models.CourseRating{}).
			Where("course_id = ?", course.ID).
			Select("COALESCE(AVG(rating), 0)").
			Scan(&avgRating)

		var studentCount int64
		dc.DB.Model(&models.Enrollment{}).
			Where("course_id = ?", course.ID).
			Count(&studentCount)

		result = append(result, fiber.Map{
			"course":        course,
			"avg_rating":    avgRating,
			"student_count": studentCount,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// StudentDashboard lists the principal's enrolled courses with the lesson
// completion percentage for each.
func (dc *DashboardController) StudentDashboard(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	if !p.IsStudent() {
		return utils.Forbidden(c, "student access required")
	}

	var courses []models.Course
	err := dc.DB.
		Joins("JOIN enrollments ON enrollments.course_id = courses.id").
		Where("enrollments.student_id = ?", p.ID).
		Find(&courses).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		var total int64
		dc.DB.Model(&models.Lesson{}).Where("course_id = ?", course.ID).Count(&total)

		var completed int64
		dc.DB.Model(&models.LessonProgress{}).
			Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
			Where("lesson_progresses.student_id = ? AND lessons.course_id = ?", p.ID, course.ID).
			Count(&completed)

		result = append(result, fiber.Map{
			"course":   course,
			"progress": models.ProgressPercent(completed, total),
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}
