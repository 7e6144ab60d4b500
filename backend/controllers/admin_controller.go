package controllers

import (
	"errors"
	"strconv"

	"project/backend/authz"
	"project/backend/config"
	"project/backend/middleware"
	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type AdminController struct {
	DB  *gorm.DB
	Cfg *config.Config
}

func NewAdminController(db *gorm.DB, cfg *config.Config) *AdminController {
	return &AdminController{DB: db, Cfg: cfg}
}

// ListPendingInstructors shows instructor accounts awaiting approval.
func (ac *AdminController) ListPendingInstructors(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	if d := authz.CanApproveInstructors(p); d.Denied() {
		return utils.Forbidden(c, d.Reason)
	}

	var instructors []models.User
	err := ac.DB.
		Where("role = ? AND is_approved = ?", models.RoleInstructor, false).
		Find(&instructors).Error
	if err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	return utils.Success(c, fiber.StatusOK, instructors)
}

// ApproveInstructor flips the approval flag that gates content creation.
func (ac *AdminController) ApproveInstructor(c *fiber.Ctx) error {
	p := middleware.Principal(c)

	if d := authz.CanApproveInstructors(p); d.Denied() {
		return utils.Forbidden(c, d.Reason)
	}

	userID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid user ID")
	}

	var user models.User
	if err := ac.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "User not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if user.Role != models.RoleInstructor {
		return utils.BadRequest(c, "User is not an instructor")
	}

	user.IsApproved = true
	if err := ac.DB.Save(&user).Error; err != nil {
		return utils.InternalServerError(c, "Could not update user")
	}

	return utils.Message(c, "Instructor approved", user)
}
