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

type AssignmentsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAssignmentsController(db *gorm.DB, cfg *config.Config) *AssignmentsController {
	return &AssignmentsController{DB: db, Cfg: cfg}
}

type AssignmentInput struct {
	CourseID    uint      `json:"course_id" validate:"required"`
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

func (ac *AssignmentsController) CreateAssignment(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	var input AssignmentInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ValidationError(c, utils.ValidationMessages(err))
	}

	_, found, d := authz.OwnedCourse(p, ac.DB, input.CourseID)
	if !found {
		return utils.NotFound(c, "Course not found")
	}
	if d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("assignment_create").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	assignment := models.Assignment{
		CourseID:    input.CourseID,
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
	}

	if err := ac.DB.Create(&assignment).Error; err != nil {
		return utils.InternalServerError(c, "Could not create assignment")
	}

	return utils.Created(c, assignment)
}

func (ac *AssignmentsController) UpdateAssignment(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	assignmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid assignment ID")
	}

	var assignment models.Assignment
	if err := ac.DB.First(&assignment, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Assignment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	_, found, d := authz.OwnedCourse(p, ac.DB, assignment.CourseID)
	if !found {
		return utils.NotFound(c, "Course not found")
	}
	if d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("assignment_update").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	var input struct {
		Title       string    `json:"title" validate:"required"`
		Description string    `json:"description"`
		DueDate     time.Time `json:"due_date" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ValidationError(c, utils.ValidationMessages(err))
	}

	assignment.Title = input.Title
	assignment.Description = input.Description
	assignment.DueDate = input.DueDate

	if err := ac.DB.Save(&assignment).Error; err != nil {
		return utils.InternalServerError(c, "Could not update assignment")
	}

	return utils.Message(c, "Assignment updated", assignment)
}

func (ac *AssignmentsController) DeleteAssignment(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	assignmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid assignment ID")
	}

	var assignment models.Assignment
	if err := ac.DB.First(&assignment, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Assignment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	_, found, d := authz.OwnedCourse(p, ac.DB, assignment.CourseID)
	if !found {
		return utils.NotFound(c, "Course not found")
	}
	if d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("assignment_delete").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	err = ac.DB.Transaction(func(tx *gorm.DB) error {
		var submissionIDs []uint
		if err := tx.Model(&models.Submission{}).Where("assignment_id = ?", assignment.ID).Pluck("id", &submissionIDs).Error; err != nil {
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
		return tx.Unscoped().Delete(&assignment).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete assignment")
	}

	return utils.Message(c, "Assignment deleted", nil)
}

// ListAssignmentSubmissions shows an assignment's submissions to the
// owning instructor.
func (ac *AssignmentsController) ListAssignmentSubmissions(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	assignmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid assignment ID")
	}

	var assignment models.Assignment
	if err := ac.DB.First(&assignment, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Assignment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var course models.Course
	if err := ac.DB.First(&course, assignment.CourseID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if d := authz.CanManageCourse(p, course); d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("assignment_submissions").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	var submissions []models.Submission
	if err := ac.DB.Preload("Student").Where("assignment_id = ?", assignment.ID).Find(&submissions).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(submissions))
	for _, s := range submissions {
		result = append(result, fiber.Map{
			"id":           s.ID,
			"student":      s.Student.Username,
			"file_path":    s.FilePath,
			"submitted_at": s.SubmittedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}
