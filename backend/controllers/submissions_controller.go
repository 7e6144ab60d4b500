package controllers

import (
	"errors"
	"fmt"
	"path/filepath"
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

type SubmissionsController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewSubmissionsController(db *gorm.DB, cfg *config.Config) *SubmissionsController {
	return &SubmissionsController{DB: db, Cfg: cfg}
}

// UploadSubmission stores the uploaded file and records a Submission row.
// The stream is taken as-is; type and size are not checked. Submitting the
// same assignment again creates another row.
func (sc *SubmissionsController) UploadSubmission(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	if d := authz.CanSubmit(p); d.Denied() {
		return utils.Forbidden(c, d.Reason)
	}

	assignmentID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid assignment ID")
	}

	var assignment models.Assignment
	if err := sc.DB.First(&assignment, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Assignment not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return utils.BadRequest(c, "Missing file upload")
	}

	now := time.Now()
	stored := fmt.Sprintf("%d_%d_%d_%s", assignment.ID, p.ID, now.UnixNano(), file.Filename)
	dest := filepath.Join(sc.Cfg.UploadDir, stored)
	if err := c.SaveFile(file, dest); err != nil {
		return utils.InternalServerError(c, "Could not store file")
	}

	submission := models.Submission{
		AssignmentID: assignment.ID,
		StudentID:    p.ID,
		FilePath:     dest,
		SubmittedAt:  now,
	}
	if err := sc.DB.Create(&submission).Error; err != nil {
		return utils.InternalServerError(c, "Could not create submission")
	}

	metrics.SubmissionsTotal.Inc()
	return utils.Created(c, submission)
}

// ListSubmissions returns whatever the principal is allowed to see: an
// instructor gets every submission across their own courses, a student
// their own uploads.
func (sc *SubmissionsController) ListSubmissions(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	var submissions []models.Submission
	q := authz.ScopeSubmissions(p, sc.DB.Model(&models.Submission{}))
	if err := q.Preload("Student").Preload("Assignment").Find(&submissions).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(submissions))
	for _, s := range submissions {
		result = append(result, fiber.Map{
			"id":           s.ID,
			"assignment":   s.Assignment.Title,
			"student":      s.Student.Username,
			"file_path":    s.FilePath,
			"submitted_at": s.SubmittedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// MySubmissions lists only the caller's own uploads, whatever their role.
func (sc *SubmissionsController) MySubmissions(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	var submissions []models.Submission
	err := sc.DB.
		Preload("Assignment").
		Where("student_id = ?", p.ID).
		Order("submitted_at DESC").
		Find(&submissions).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(submissions))
	for _, s := range submissions {
		result = append(result, fiber.Map{
			"id":           s.ID,
			"assignment":   s.Assignment.Title,
			"file_path":    s.FilePath,
			"submitted_at": s.SubmittedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

type GradeInput struct {
	Marks    int    `json:"marks" validate:"min=0,max=100"`
	Feedback string `json:"feedback"`
}

// GradeSubmission checks the submission -> assignment -> course ->
// instructor chain before anything is written. A non-owning instructor is
// rejected and no Grade row is created.
func (sc *SubmissionsController) GradeSubmission(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	submissionID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid submission ID")
	}

	var submission models.Submission
	if err := sc.DB.Preload("Assignment").First(&submission, submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Submission not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var course models.Course
	if err := sc.DB.First(&course, submission.Assignment.CourseID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	if d := authz.CanGrade(p, course.InstructorID); d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("grade_create").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	var input GradeInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ValidationError(c, utils.ValidationMessages(err))
	}

	grade := models.Grade{
		SubmissionID: submission.ID,
		Marks:        input.Marks,
		Feedback:     input.Feedback,
	}
	if err := sc.DB.Create(&grade).Error; err != nil {
		return utils.InternalServerError(c, "Could not save grade")
	}

	return utils.Created(c, grade)
}

// MyGrades lists the calling student's grades.
func (sc *SubmissionsController) MyGrades(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	var grades []models.Grade
	q := authz.ScopeGrades(p, sc.DB.Model(&models.Grade{}))
	if err := q.Preload("Submission").Preload("Submission.Assignment").Find(&grades).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(grades))
	for _, g := range grades {
		result = append(result, fiber.Map{
			"id":           g.ID,
			"assignment":   g.Submission.Assignment.Title,
			"marks":        g.Marks,
			"feedback":     g.Feedback,
			"submitted_at": g.Submission.SubmittedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}
