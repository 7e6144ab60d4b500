package tests

import (
	"fmt"
	"testing"

	"project/backend/models"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPendingInstructors(t *testing.T) {
	resp := doJSON(t, "GET", "/api/admin/instructors/pending", adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	usernames := map[string]bool{}
	for _, row := range decode(t, resp)["data"].([]interface{}) {
		usernames[row.(map[string]interface{})["username"].(string)] = true
	}
	assert.True(t, usernames["profcarol"])
	assert.False(t, usernames["profalice"])
}

func TestAdminEndpointsAreSuperuserOnly(t *testing.T) {
	resp := doJSON(t, "GET", "/api/admin/instructors/pending", instructorToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, "PUT", fmt.Sprintf("/api/admin/instructors/%d/approve", unapproved.ID), studentToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestApproveInstructorUnlocksCourseCreation(t *testing.T) {
	resp := doJSON(t, "POST", "/api/auth/register", "", map[string]string{
		"username":   "profdave",
		"email":      "profdave@example.com",
		"password":   "password123",
		"first_name": "Dave",
		"last_name":  "Docent",
		"role":       "instructor",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var dave models.User
	require.NoError(t, db.Where("username = ?", "profdave").First(&dave).Error)
	require.False(t, dave.IsApproved)

	token, err := utils.GenerateJWTToken(dave.ID, cfg)
	require.NoError(t, err)

	resp = doJSON(t, "POST", "/api/courses", token, map[string]string{
		"title": "Premature Course",
	})
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, "PUT", fmt.Sprintf("/api/admin/instructors/%d/approve", dave.ID), adminToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, "POST", "/api/courses", token, map[string]string{
		"title": "Approved Course",
	})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}

func TestApproveNonInstructor(t *testing.T) {
	resp := doJSON(t, "PUT", fmt.Sprintf("/api/admin/instructors/%d/approve", student.ID), adminToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
