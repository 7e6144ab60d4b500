package controllers

import (
	"errors"
	"strconv"
	"time"

	"project/backend/authz"
	"project/backend/certificate"
	"project/backend/config"
	"project/backend/metrics"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CertificatesController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Renderer certificate.Renderer
}

func NewCertificatesController(db *gorm.DB, cfg *config.Config, renderer certificate.Renderer) *CertificatesController {
	return &CertificatesController{DB: db, Cfg: cfg, Renderer: renderer}
}

// GenerateCertificate evaluates the eligibility gate and, when it passes,
// streams the rendered PDF and persists the issued record. Each gate
// failure returns its own reason so the student knows what is missing.
func (cc *CertificatesController) GenerateCertificate(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	if d := authz.CanRequestCertificate(p); d.Denied() {
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

	elig, err := cc.eligibility(p.ID, course.ID)
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if err := elig.Check(); err != nil {
		metrics.AuthzDenialsTotal.WithLabelValues("certificate").Inc()
		return utils.Forbidden(c, err.Error())
	}

	var student models.User
	if err := cc.DB.First(&student, p.ID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	// Reuse the issued record on re-download so the serial stays stable.
	var cert models.Certificate
	err = cc.DB.Where("student_id = ? AND course_id = ?", p.ID, course.ID).First(&cert).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cert = models.Certificate{
			Serial:    uuid.NewString(),
			StudentID: p.ID,
			CourseID:  course.ID,
			IssuedAt:  time.Now(),
		}
		if err := cc.DB.Create(&cert).Error; err != nil {
			return utils.InternalServerError(c, "Could not record certificate")
		}
		metrics.CertificatesIssued.Inc()
	} else if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	doc, err := cc.Renderer.Render(certificate.Record{
		Serial:      cert.Serial,
		StudentName: student.FullName(),
		CourseTitle: course.Title,
		IssuedAt:    cert.IssuedAt,
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not render certificate")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+certificate.Filename(course.Title)+`"`)
	return c.Send(doc)
}

func (cc *CertificatesController) eligibility(studentID, courseID uint) (certificate.Eligibility, error) {
	var elig certificate.Eligibility

	var enrolled int64
	if err := cc.DB.Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Count(&enrolled).Error; err != nil {
		return elig, err
	}
	elig.Enrolled = enrolled > 0

	if err := cc.DB.Model(&models.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&elig.TotalLessons).Error; err != nil {
		return elig, err
	}
	if err := cc.DB.Model(&models.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progresses.lesson_id").
		Where("lesson_progresses.student_id = ? AND lessons.course_id = ?", studentID, courseID).
		Count(&elig.CompletedLessons).Error; err != nil {
		return elig, err
	}

	if err := cc.DB.Model(&models.Assignment{}).
		Where("course_id = ?", courseID).
		Count(&elig.TotalAssignments).Error; err != nil {
		return elig, err
	}
	if err := cc.DB.Model(&models.Submission{}).
		Distinct("submissions.assignment_id").
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Where("submissions.student_id = ? AND assignments.course_id = ?", studentID, courseID).
		Count(&elig.SubmittedAssignments).Error; err != nil {
		return elig, err
	}

	return elig, nil
}
