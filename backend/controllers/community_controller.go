package controllers

import (
	"errors"
	"strconv"
	"time"

	"project/backend/config"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CommunityController handles discussion posts and star ratings. Any
// authenticated user may post; the attribution always comes from the
// principal, never from the request body.
type CommunityController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewCommunityController(db *gorm.DB, cfg *config.Config) *CommunityController {
	return &CommunityController{DB: db, Cfg: cfg}
}

func (cc *CommunityController) courseOr404(c *fiber.Ctx) (models.Course, bool) {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return models.Course{}, false
	}
	var course models.Course
	if err := cc.DB.First(&course, courseID).Error; err != nil {
		return models.Course{}, false
	}
	return course, true
}

func (cc *CommunityController) ListDiscussions(c *fiber.Ctx) error {
	course, ok := cc.courseOr404(c)
	if !ok {
		return utils.NotFound(c, "Course not found")
	}

	var discussions []models.Discussion
	if err := cc.DB.Where("course_id = ?", course.ID).Order("posted_at DESC").Find(&discussions).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, discussions)
}

func (cc *CommunityController) PostDiscussion(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	course, ok := cc.courseOr404(c)
	if !ok {
		return utils.NotFound(c, "Course not found")
	}

	var input struct {
		Message string `json:"message" validate:"required"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ValidationError(c, utils.ValidationMessages(err))
	}

	var user models.User
	if err := cc.DB.First(&user, p.ID).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	discussion := models.Discussion{
		UserID:   p.ID,
		UserName: user.Username,
		CourseID: course.ID,
		Message:  input.Message,
		PostedAt: time.Now(),
	}
	if err := cc.DB.Create(&discussion).Error; err != nil {
		return utils.InternalServerError(c, "Could not post comment")
	}

	return utils.Created(c, discussion)
}

func (cc *CommunityController) ListRatings(c *fiber.Ctx) error {
	course, ok := cc.courseOr404(c)
	if !ok {
		return utils.NotFound(c, "Course not found")
	}

	var ratings []models.CourseRating
	if err := cc.DB.Where("course_id = ?", course.ID).Find(&ratings).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	var avg float64
	cc.DB.Model(&models.CourseRating{}).
		Where("course_id = ?", course.ID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg)

	return c.JSON(fiber.Map{
		"success":    true,
		"ratings":    ratings,
		"avg_rating": avg,
	})
}

type RatingInput struct {
	Rating   int    `json:"rating" validate:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

// RateCourse upserts on (user, course): rating the same course again
// updates the existing row instead of creating a second one.
func (cc *CommunityController) RateCourse(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	course, ok := cc.courseOr404(c)
	if !ok {
		return utils.NotFound(c, "Course not found")
	}

	var input RatingInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if err := utils.Validate.Struct(input); err != nil {
		return utils.ValidationError(c, utils.ValidationMessages(err))
	}

	var rating models.CourseRating
	err := cc.DB.Where("user_id = ? AND course_id = ?", p.ID, course.ID).First(&rating).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		rating = models.CourseRating{
			UserID:   p.ID,
			CourseID: course.ID,
			Rating:   input.Rating,
			Feedback: input.Feedback,
			RatedAt:  time.Now(),
		}
		if err := cc.DB.Create(&rating).Error; err != nil {
			// Lost a get-or-create race; the unique index arbitrates.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return cc.RateCourse(c)
			}
			return utils.InternalServerError(c, "Could not save rating")
		}
	case err != nil:
		return utils.InternalServerError(c, "Could not query database")
	default:
		rating.Rating = input.Rating
		rating.Feedback = input.Feedback
		rating.RatedAt = time.Now()
		if err := cc.DB.Save(&rating).Error; err != nil {
			return utils.InternalServerError(c, "Could not save rating")
		}
	}

	return utils.Message(c, "Rating submitted", rating)
}
