package tests

import (
	"fmt"
	"testing"

	"project/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createQuiz(t *testing.T, token string, courseID uint, title string) uint {
	t.Helper()
	resp := doJSON(t, "POST", "/api/quizzes", token, map[string]interface{}{
		"course_id":   courseID,
		"title":       title,
		"total_marks": 20,
	})
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("createQuiz %q: status %d", title, resp.StatusCode)
	}
	data := decode(t, resp)["data"].(map[string]interface{})
	return uint(data["ID"].(float64))
}

func TestCreateQuizByNonOwner(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Quizless Course")

	resp := doJSON(t, "POST", "/api/quizzes", otherInstructorToken, map[string]interface{}{
		"course_id": courseID,
		"title":     "Not Yours",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUpdateQuizByNonOwner(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Revised Quiz Course")
	quizID := createQuiz(t, instructorToken, courseID, "Revised Quiz")

	resp := doJSON(t, "PUT", fmt.Sprintf("/api/quizzes/%d", quizID), otherInstructorToken, map[string]interface{}{
		"title": "Hijacked Quiz",
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doJSON(t, "PUT", fmt.Sprintf("/api/quizzes/%d", quizID), instructorToken, map[string]interface{}{
		"title":       "Revised Quiz v2",
		"total_marks": 30,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var quiz models.Quiz
	require.NoError(t, db.First(&quiz, quizID).Error)
	assert.Equal(t, "Revised Quiz v2", quiz.Title)
	assert.Equal(t, 30, quiz.TotalMarks)
}

func TestAddQuestionRejectsUnknownType(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Typed Quiz Course")
	quizID := createQuiz(t, instructorToken, courseID, "Typed Quiz")

	resp := doJSON(t, "POST", fmt.Sprintf("/api/quizzes/%d/questions", quizID), instructorToken, map[string]string{
		"question_text":  "What is idempotence?",
		"correct_answer": "same result on repeat",
		"question_type":  "essay",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestQuizAnswerVisibility(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Answer Key Course")
	quizID := createQuiz(t, instructorToken, courseID, "Answer Key Quiz")

	resp := doJSON(t, "POST", fmt.Sprintf("/api/quizzes/%d/questions", quizID), instructorToken, map[string]string{
		"question_text":  "Pick B",
		"correct_answer": "B",
		"question_type":  "MCQ",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	path := fmt.Sprintf("/api/courses/%d/quizzes", courseID)

	// The owner sees the answer key.
	resp = doJSON(t, "GET", path, instructorToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	quiz := decode(t, resp)["data"].([]interface{})[0].(map[string]interface{})
	question := quiz["questions"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "B", question["correct_answer"])

	// A student gets the question with the answer stripped.
	resp = doJSON(t, "GET", path, studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	quiz = decode(t, resp)["data"].([]interface{})[0].(map[string]interface{})
	question = quiz["questions"].([]interface{})[0].(map[string]interface{})
	_, present := question["correct_answer"]
	assert.False(t, present)
}

func TestDeleteQuizCascadesQuestions(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Short Lived Quiz Course")
	quizID := createQuiz(t, instructorToken, courseID, "Short Lived Quiz")

	resp := doJSON(t, "POST", fmt.Sprintf("/api/quizzes/%d/questions", quizID), instructorToken, map[string]string{
		"question_text":  "Will this survive?",
		"correct_answer": "no",
		"question_type":  "short_answer",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, "DELETE", fmt.Sprintf("/api/quizzes/%d", quizID), instructorToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var n int64
	db.Model(&models.Question{}).Where("quiz_id = ?", quizID).Count(&n)
	assert.Zero(t, n)
}
