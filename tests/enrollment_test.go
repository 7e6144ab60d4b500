package tests

import (
	"fmt"
	"testing"

	"project/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnrollIsIdempotent(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Enroll Twice Course")

	enroll(t, studentToken, courseID)
	enroll(t, studentToken, courseID)

	var n int64
	db.Model(&models.Enrollment{}).
		Where("student_id = ? AND course_id = ?", student.ID, courseID).
		Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestInstructorCannotEnroll(t *testing.T) {
	courseID := createCourse(t, instructorToken, "No Self Enroll")

	resp := doJSON(t, "POST", fmt.Sprintf("/api/courses/%d/enroll", courseID), otherInstructorToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestEnrollMissingCourse(t *testing.T) {
	resp := doJSON(t, "POST", "/api/courses/999999/enroll", studentToken, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestCompleteLessonIsIdempotent(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Progress Course")
	lessonID := createLesson(t, instructorToken, courseID, "Only Lesson")
	enroll(t, studentToken, courseID)

	for i := 0; i < 2; i++ {
		resp := doJSON(t, "POST", fmt.Sprintf("/api/lessons/%d/complete", lessonID), studentToken, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	var n int64
	db.Model(&models.LessonProgress{}).
		Where("student_id = ? AND lesson_id = ?", student.ID, lessonID).
		Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestCompleteLessonAsInstructor(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Instructor Progress Course")
	lessonID := createLesson(t, instructorToken, courseID, "Untouchable Lesson")

	resp := doJSON(t, "POST", fmt.Sprintf("/api/lessons/%d/complete", lessonID), instructorToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestStudentDashboardProgress(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Dashboard Progress Course")
	first := createLesson(t, instructorToken, courseID, "Lesson One")
	createLesson(t, instructorToken, courseID, "Lesson Two")
	enroll(t, studentToken, courseID)

	resp := doJSON(t, "POST", fmt.Sprintf("/api/lessons/%d/complete", first), studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, "GET", "/api/dashboard/student", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var progress float64 = -1
	for _, row := range decode(t, resp)["data"].([]interface{}) {
		entry := row.(map[string]interface{})
		course := entry["course"].(map[string]interface{})
		if course["ID"].(float64) == float64(courseID) {
			progress = entry["progress"].(float64)
		}
	}
	assert.Equal(t, float64(50), progress)
}

func TestRateCourseUpserts(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Rated Course")
	enroll(t, studentToken, courseID)

	resp := doJSON(t, "PUT", fmt.Sprintf("/api/courses/%d/rating", courseID), studentToken, map[string]interface{}{
		"rating":   3,
		"feedback": "okay",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doJSON(t, "PUT", fmt.Sprintf("/api/courses/%d/rating", courseID), studentToken, map[string]interface{}{
		"rating":   5,
		"feedback": "got better",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var ratings []models.CourseRating
	require.NoError(t, db.Where("user_id = ? AND course_id = ?", student.ID, courseID).Find(&ratings).Error)
	require.Len(t, ratings, 1)
	assert.Equal(t, 5, ratings[0].Rating)
	assert.Equal(t, "got better", ratings[0].Feedback)
}

func TestRateCourseOutOfRange(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Strictly Rated Course")

	resp := doJSON(t, "PUT", fmt.Sprintf("/api/courses/%d/rating", courseID), studentToken, map[string]interface{}{
		"rating": 6,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestDiscussionAttribution(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Discussed Course")

	resp := doJSON(t, "POST", fmt.Sprintf("/api/courses/%d/discussions", courseID), studentToken, map[string]string{
		"message": "when is the first assignment due?",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := decode(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, "studenta", data["user_name"])
	assert.Equal(t, float64(student.ID), data["user_id"])
}
