package controllers

import (
	"errors"
	"strconv"

	"project/backend/authz"
	"project/backend/config"
	"project/backend/metrics"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Fixed catalog page size.
const coursePageSize = 6

type CoursesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCoursesController(db *gorm.DB, cfg *config.Config) *CoursesController {
	return &CoursesController{DB: db, Cfg: cfg}
}

// ListCourses is the public catalog, six courses per page.
func (cc *CoursesController) ListCourses(c *fiber.Ctx) error {
	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	var total int64
	if err := cc.DB.Model(&models.Course{}).Count(&total).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var courses []models.Course
	if err := cc.DB.Order("id").
		Limit(coursePageSize).
		Offset((page - 1) * coursePageSize).
		Find(&courses).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Paginate(c, courses, total, page, coursePageSize)
}

// GetCourseDetails returns the course page payload: lessons, assignments,
// discussions, ratings with their average, and the caller's own progress
// and enrollment state.
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.Preload("Lessons").Preload("Assignments").First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var discussions []models.Discussion
	cc.DB.Where("course_id = ?", course.ID).Order("posted_at DESC").Find(&discussions)

	var ratings []models.CourseRating
	cc.DB.Where("course_id = ?", course.ID).Find(&ratings)

	var avgRating float64
	cc.DB.Model(&models.CourseRating{}).
		Where("course_id = ?", course.ID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avgRating)

	lessonIDs := make([]uint, 0, len(course.Lessons))
	for _, l := range course.Lessons {
		lessonIDs = append(lessonIDs, l.ID)
	}

	var completed int64
	if len(lessonIDs) > 0 {
		cc.DB.Model(&models.LessonProgress{}).
			Where("student_id = ? AND lesson_id IN ?", p.ID, lessonIDs).
			Count(&completed)
	}

	assignmentIDs := make([]uint, 0, len(course.Assignments))
	for _, a := range course.Assignments {
		assignmentIDs = append(assignmentIDs, a.ID)
	}

	var submitted int64
	if len(assignmentIDs) > 0 {
		cc.DB.Model(&models.Submission{}).
			Where("student_id = ? AND assignment_id IN ?", p.ID, assignmentIDs).
			Count(&submitted)
	}

	isEnrolled := false
	if p.IsStudent() {
		var n int64
		cc.DB.Model(&models.Enrollment{}).
			Where("student_id = ? AND course_id = ?", p.ID, course.ID).
			Count(&n)
		isEnrolled = n > 0
	}

	return c.JSON(fiber.Map{
		"course":            course,
		"discussions":       discussions,
		"ratings":           ratings,
		"avg_rating":        avgRating,
		"total_lessons":     len(course.Lessons),
		"completed_lessons": completed,
		"progress_percent":  models.ProgressPercent(completed, int64(len(course.Lessons))),
		"submissions_count": submitted,
		"is_enrolled":       isEnrolled,
	})
}

type CourseInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// CreateCourse auto-assigns the instructor from the principal; the field
// is not settable by the caller and never changes afterwards.
func (cc *CoursesController) CreateCourse(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	if d := authz.CanCreateCourse(p); d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("course_create").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	var input CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ValidationError(c, utils.ValidationMessages(err))
	}

	course := models.Course{
		Title:        input.Title,
		Description:  input.Description,
		ImageURL:     input.ImageURL,
		InstructorID: p.ID,
	}

	if err := cc.DB.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	return utils.Created(c, course)
}

func (cc *CoursesController) UpdateCourse(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	course, found, d := authz.OwnedCourse(p, cc.DB, uint(courseID))
	if !found {
		return utils.NotFound(c, "Course not found")
	}
	if d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("course_update").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	var input CourseInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ValidationError(c, utils.ValidationMessages(err))
	}

	course.Title = input.Title
	course.Description = input.Description
	course.ImageURL = input.ImageURL

	if err := cc.DB.Save(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not update course")
	}

	return utils.Message(c, "Course updated", course)
}

// DeleteCourse removes the course and everything hanging off it in a
// single transaction: lesson progress, lessons, grades, submissions,
// assignments, quiz questions, quizzes, enrollments, discussions, ratings
// and issued certificates.
func (cc *CoursesController) DeleteCourse(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	course, found, d := authz.OwnedCourse(p, cc.DB, uint(courseID))
	if !found {
		return utils.NotFound(c, "Course not found")
	}
	if d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("course_delete").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	err = cc.DB.Transaction(func(tx *gorm.DB) error {
		var lessonIDs []uint
		if err := tx.Model(&models.Lesson{}).Where("course_id = ?", course.ID).Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}
		if len(lessonIDs) > 0 {
			if err := tx.Unscoped().Where("lesson_id IN ?", lessonIDs).Delete(&models.LessonProgress{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&models.Lesson{}).Error; err != nil {
			return err
		}

		var assignmentIDs []uint
		if err := tx.Model(&models.Assignment{}).Where("course_id = ?", course.ID).Pluck("id", &assignmentIDs).Error; err != nil {
			return err
		}
		if len(assignmentIDs) > 0 {
			var submissionIDs []uint
			if err := tx.Model(&models.Submission{}).Where("assignment_id IN ?", assignmentIDs).Pluck("id", &submissionIDs).Error; err != nil {
				return err
			}
			if len(submissionIDs) > 0 {
				if err := tx.Unscoped().Where("submission_id IN ?", submissionIDs).Delete(&models.Grade{}).Error; err != nil {
					return err
				}
				if err := tx.Unscoped().Where("id IN ?", submissionIDs).Delete(&models.Submission{}).Error; err != nil {
					return err
				}
			}
		}
		if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&models.Assignment{}).Error; err != nil {
			return err
		}

		var quizIDs []uint
		if err := tx.Model(&models.Quiz{}).Where("course_id = ?", course.ID).Pluck("id", &quizIDs).Error; err != nil {
			return err
		}
		if len(quizIDs) > 0 {
			if err := tx.Unscoped().Where("quiz_id IN ?", quizIDs).Delete(&models.Question{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(&models.Quiz{}).Error; err != nil {
			return err
		}

		for _, m := range []interface{}{
			&models.Enrollment{},
			&models.Discussion{},
			&models.CourseRating{},
			&models.Certificate{},
		} {
			if err := tx.Unscoped().Where("course_id = ?", course.ID).Delete(m).Error; err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(&course).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete course")
	}

	return utils.Message(c, "Course deleted", nil)
}

// EnrollCourse is idempotent: the unique (student, course) index is the
// arbiter and a duplicate insert is reported as success.
func (cc *CoursesController) EnrollCourse(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	if d := authz.CanEnroll(p); d.Denied() {
		return utils.Forbidden(c, d.Reason)
	}

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	enrollment := models.Enrollment{StudentID: p.ID, CourseID: course.ID}
	if err := cc.DB.Create(&enrollment).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Message(c, "Already enrolled", nil)
		}
		return utils.InternalServerError(c, "Could not enroll")
	}

	metrics.EnrollmentsTotal.Inc()
	return utils.Message(c, "Enrolled successfully", enrollment)
}

// CourseStudents lists the enrollment roster for the owning instructor.
func (cc *CoursesController) CourseStudents(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if d := authz.CanViewRoster(p, course); d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("course_roster").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	var enrollments []models.Enrollment
	if err := cc.DB.Preload("Student").Where("course_id = ?", course.ID).Find(&enrollments).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	students := make([]fiber.Map, 0, len(enrollments))
	for _, e := range enrollments {
		students = append(students, fiber.Map{
			"id":        e.Student.ID,
			"username":  e.Student.Username,
			"full_name": e.Student.FullName(),
			"email":     e.Student.Email,
		})
	}

	return utils.Success(c, fiber.StatusOK, students)
}
