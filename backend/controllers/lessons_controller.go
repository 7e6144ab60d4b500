package controllers

import (
	"errors"
	"strconv"
	"time"

	"project/backend/authz"
	"project/backend/config"
	"project/backend/metrics"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LessonsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewLessonsController(db *gorm.DB, cfg *config.Config) *LessonsController {
	return &LessonsController{DB: db, Cfg: cfg}
}

type LessonInput struct {
	CourseID uint   `json:"course_id" validate:"required"`
	Title    string `json:"title" validate:"required"`
	Content  string `json:"content"`
	VideoURL string `json:"video_url"`
}

// CreateLesson requires the target course to resolve to the principal
// through the ownership chain; the course FK cannot point at another
// instructor's course.
func (lc *LessonsController) CreateLesson(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	var input LessonInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ValidationError(c, utils.ValidationMessages(err))
	}

	_, found, d := authz.OwnedCourse(p, lc.DB, input.CourseID)
	if !found {
		return utils.NotFound(c, "Course not found")
	}
	if d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("lesson_create").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	lesson := models.Lesson{
		CourseID: input.CourseID,
		Title:    input.Title,
		Content:  input.Content,
		VideoURL: input.VideoURL,
	}

	if err := lc.DB.Create(&lesson).Error; err != nil {
		return utils.InternalServerError(c, "Could not create lesson")
	}

	return utils.Created(c, lesson)
}

func (lc *LessonsController) GetLesson(c *fiber.Ctx) error {
	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var lesson models.Lesson
	if err := lc.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, lesson)
}

// UpdateLesson rejects edits on lessons of courses the principal does not
// own with an explicit 403. A non-owner never gets a success answer.
func (lc *LessonsController) UpdateLesson(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var lesson models.Lesson
	if err := lc.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	_, found, d := authz.OwnedCourse(p, lc.DB, lesson.CourseID)
	if !found {
		return utils.NotFound(c, "Course not found")
	}
	if d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("lesson_update").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	var input struct {
		Title    string `json:"title" validate:"required"`
		Content  string `json:"content"`
		VideoURL string `json:"video_url"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ValidationError(c, utils.ValidationMessages(err))
	}

	lesson.Title = input.Title
	lesson.Content = input.Content
	lesson.VideoURL = input.VideoURL

	if err := lc.DB.Save(&lesson).Error; err != nil {
		return utils.InternalServerError(c, "Could not update lesson")
	}

	return utils.Message(c, "Lesson updated", lesson)
}

func (lc *LessonsController) DeleteLesson(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var lesson models.Lesson
	if err := lc.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	_, found, d := authz.OwnedCourse(p, lc.DB, lesson.CourseID)
	if !found {
		return utils.NotFound(c, "Course not found")
	}
	if d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("lesson_delete").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	err = lc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("lesson_id = ?", lesson.ID).Delete(&models.LessonProgress{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&lesson).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete lesson")
	}

	return utils.Message(c, "Lesson deleted", nil)
}

// CompleteLesson marks a lesson done for the calling student. Marking it
// again is a no-op success, first write wins.
func (lc *LessonsController) CompleteLesson(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	if d := authz.CanMarkLesson(p); d.Denied() {
		return utils.Forbidden(c, d.Reason)
	}

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var lesson models.Lesson
	if err := lc.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	progress := models.LessonProgress{
		StudentID:   p.ID,
		LessonID:    lesson.ID,
		Completed:   true,
		CompletedAt: time.Now(),
	}
	if err := lc.DB.Create(&progress).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Message(c, "Lesson already completed", nil)
		}
		return utils.InternalServerError(c, "Could not save progress")
	}

	return utils.Message(c, "Lesson marked as completed", progress)
}
