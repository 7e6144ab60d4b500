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

type QuizzesController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewQuizzesController(db *gorm.DB, cfg *config.Config) *QuizzesController {
	return &QuizzesController{DB: db, Cfg: cfg}
}

type QuizInput struct {
	CourseID   uint   `json:"course_id" validate:"required"`
	Title      string `json:"title" validate:"required"`
	TotalMarks int    `json:"total_marks"`
}

func (qc *QuizzesController) CreateQuiz(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	var input QuizInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ValidationError(c, utils.ValidationMessages(err))
	}

	_, found, d := authz.OwnedCourse(p, qc.DB, input.CourseID)
	if !found {
		return utils.NotFound(c, "Course not found")
	}
	if d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("quiz_create").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	quiz := models.Quiz{
		CourseID:   input.CourseID,
		Title:      input.Title,
		TotalMarks: input.TotalMarks,
	}
	if err := qc.DB.Create(&quiz).Error; err != nil {
		return utils.InternalServerError(c, "Could not create quiz")
	}

	return utils.Created(c, quiz)
}

func (qc *QuizzesController) UpdateQuiz(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var quiz models.Quiz
	if err := qc.DB.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	_, found, d := authz.OwnedCourse(p, qc.DB, quiz.CourseID)
	if !found {
		return utils.NotFound(c, "Course not found")
	}
	if d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("quiz_update").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	var input struct {
		Title      string `json:"title" validate:"required"`
		TotalMarks int    `json:"total_marks"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ValidationError(c, utils.ValidationMessages(err))
	}

	quiz.Title = input.Title
	quiz.TotalMarks = input.TotalMarks

	if err := qc.DB.Save(&quiz).Error; err != nil {
		return utils.InternalServerError(c, "Could not update quiz")
	}

	return utils.Message(c, "Quiz updated", quiz)
}

func (qc *QuizzesController) DeleteQuiz(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var quiz models.Quiz
	if err := qc.DB.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	_, found, d := authz.OwnedCourse(p, qc.DB, quiz.CourseID)
	if !found {
		return utils.NotFound(c, "Course not found")
	}
	if d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("quiz_delete").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	err = qc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&quiz).Error
	})
	if err != nil {
		return utils.InternalServerError(c, "Could not delete quiz")
	}

	return utils.Message(c, "Quiz deleted", nil)
}

type QuestionInput struct {
	QuestionText  string `json:"question_text" validate:"required"`
	CorrectAnswer string `json:"correct_answer" validate:"required"`
	QuestionType  string `json:"question_type" validate:"required,oneof=MCQ short_answer"`
}

func (qc *QuizzesController) AddQuestion(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	quizID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid quiz ID")
	}

	var quiz models.Quiz
	if err := qc.DB.First(&quiz, quizID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Quiz not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	_, found, d := authz.OwnedCourse(p, qc.DB, quiz.CourseID)
	if !found {
		return utils.NotFound(c, "Course not found")
	}
	if d.Denied() {
		metrics.AuthzDenialsTotal.WithLabelValues("question_create").Inc()
		return utils.Forbidden(c, d.Reason)
	}

	var input QuestionInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ValidationError(c, utils.ValidationMessages(err))
	}

	question := models.Question{
		QuizID:        quiz.ID,
		QuestionText:  input.QuestionText,
		CorrectAnswer: input.CorrectAnswer,
		QuestionType:  input.QuestionType,
	}
	if err := qc.DB.Create(&question).Error; err != nil {
		return utils.InternalServerError(c, "Could not create question")
	}

	return utils.Created(c, question)
}

// ListCourseQuizzes returns a course's quizzes with questions. Correct
// answers are only included for the course owner; students get the
// questions with the answers stripped.
func (qc *QuizzesController) ListCourseQuizzes(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var course models.Course
	if err := qc.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	var quizzes []models.Quiz
	if err := qc.DB.Preload("Questions").Where("course_id = ?", course.ID).Find(&quizzes).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	if authz.CanManageCourse(p, course).Denied() {
		for qi := range quizzes {
			for i := range quizzes[qi].Questions {
				quizzes[qi].Questions[i].CorrectAnswer = ""
			}
		}
	}

	return utils.Success(c, fiber.StatusOK, quizzes)
}
