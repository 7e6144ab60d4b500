package tests

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	resp := doJSON(t, "POST", "/api/auth/register", "", map[string]string{
		"username":   "newstudent",
		"email":      "newstudent@example.com",
		"password":   "password123",
		"first_name": "New",
		"last_name":  "Student",
		"role":       "student",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	assert.NotEmpty(t, result["token"])
	user := result["user"].(map[string]interface{})
	assert.Equal(t, "newstudent", user["username"])
	assert.Equal(t, "student", user["role"])
}

func TestRegisterInstructorStartsUnapproved(t *testing.T) {
	resp := doJSON(t, "POST", "/api/auth/register", "", map[string]string{
		"username":   "newinstructor",
		"email":      "newinstructor@example.com",
		"password":   "password123",
		"first_name": "New",
		"last_name":  "Instructor",
		"role":       "instructor",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	user := decode(t, resp)["user"].(map[string]interface{})
	assert.Equal(t, "instructor", user["role"])
	assert.Equal(t, false, user["is_approved"])
}

func TestRegisterValidation(t *testing.T) {
	resp := doJSON(t, "POST", "/api/auth/register", "", map[string]string{
		"username": "x",
		"email":    "not-an-email",
		"password": "short",
		"role":     "wizard",
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	result := decode(t, resp)
	details := result["details"].(map[string]interface{})
	assert.Contains(t, details, "email")
	assert.Contains(t, details, "password")
	assert.Contains(t, details, "role")
}

func TestLogin(t *testing.T) {
	resp := doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "studenta",
		"password": "password123",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	result := decode(t, resp)
	assert.NotEmpty(t, result["token"])
}

func TestLoginWrongPassword(t *testing.T) {
	resp := doJSON(t, "POST", "/api/auth/login", "", map[string]string{
		"username": "studenta",
		"password": "wrongpassword",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestGetProfile(t *testing.T) {
	resp := doJSON(t, "GET", "/api/user/profile", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	user := decode(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, "studenta", user["username"])
}

func TestUnauthenticatedRequest(t *testing.T) {
	resp := doJSON(t, "GET", "/api/user/profile", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
