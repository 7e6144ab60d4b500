package tests

import (
	"fmt"
	"testing"

	"project/backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitFile(t *testing.T, token string, assignmentID uint, name string) uint {
	t.Helper()
	resp := doUpload(t, fmt.Sprintf("/api/assignments/%d/submissions", assignmentID), token, name, []byte("my homework"))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("submitFile: status %d", resp.StatusCode)
	}
	data := decode(t, resp)["data"].(map[string]interface{})
	return uint(data["ID"].(float64))
}

func TestUploadSubmission(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Homework Course")
	assignmentID := createAssignment(t, instructorToken, courseID, "Essay One")
	enroll(t, studentToken, courseID)

	submitFile(t, studentToken, assignmentID, "essay.txt")

	// A second upload for the same assignment is a new attempt, not an
	// overwrite.
	submitFile(t, studentToken, assignmentID, "essay_v2.txt")

	var n int64
	db.Model(&models.Submission{}).
		Where("assignment_id = ? AND student_id = ?", assignmentID, student.ID).
		Count(&n)
	assert.Equal(t, int64(2), n)
}

func TestUploadSubmissionAsInstructor(t *testing.T) {
	courseID := createCourse(t, instructorToken, "No Instructor Uploads")
	assignmentID := createAssignment(t, instructorToken, courseID, "Essay Two")

	resp := doUpload(t, fmt.Sprintf("/api/assignments/%d/submissions", assignmentID), instructorToken, "a.txt", []byte("x"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestUploadSubmissionMissingFile(t *testing.T) {
	courseID := createCourse(t, instructorToken, "File Required Course")
	assignmentID := createAssignment(t, instructorToken, courseID, "Essay Three")

	resp := doJSON(t, "POST", fmt.Sprintf("/api/assignments/%d/submissions", assignmentID), studentToken, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestGradeSubmissionByOwner(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Graded Course")
	assignmentID := createAssignment(t, instructorToken, courseID, "Graded Essay")
	enroll(t, studentToken, courseID)
	submissionID := submitFile(t, studentToken, assignmentID, "graded.txt")

	resp := doJSON(t, "POST", fmt.Sprintf("/api/submissions/%d/grade", submissionID), instructorToken, map[string]interface{}{
		"marks":    87,
		"feedback": "solid work",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	data := decode(t, resp)["data"].(map[string]interface{})
	assert.Equal(t, float64(87), data["marks"])
}

func TestGradeSubmissionByNonOwner(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Protected Grades Course")
	assignmentID := createAssignment(t, instructorToken, courseID, "Protected Essay")
	enroll(t, studentToken, courseID)
	submissionID := submitFile(t, studentToken, assignmentID, "protected.txt")

	resp := doJSON(t, "POST", fmt.Sprintf("/api/submissions/%d/grade", submissionID), otherInstructorToken, map[string]interface{}{
		"marks": 100,
	})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// The ownership chain is checked before anything is written.
	var n int64
	db.Model(&models.Grade{}).Where("submission_id = ?", submissionID).Count(&n)
	assert.Zero(t, n)
}

func TestGradeMarksOutOfRange(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Strict Marks Course")
	assignmentID := createAssignment(t, instructorToken, courseID, "Strict Essay")
	enroll(t, studentToken, courseID)
	submissionID := submitFile(t, studentToken, assignmentID, "strict.txt")

	resp := doJSON(t, "POST", fmt.Sprintf("/api/submissions/%d/grade", submissionID), instructorToken, map[string]interface{}{
		"marks": 101,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestSubmissionListScoping(t *testing.T) {
	aliceCourse := createCourse(t, instructorToken, "Alice Submissions Course")
	aliceAssignment := createAssignment(t, instructorToken, aliceCourse, "Alice Essay")
	bobCourse := createCourse(t, otherInstructorToken, "Bob Submissions Course")
	bobAssignment := createAssignment(t, otherInstructorToken, bobCourse, "Bob Essay")

	enroll(t, studentToken, aliceCourse)
	enroll(t, studentToken, bobCourse)
	aliceSub := submitFile(t, studentToken, aliceAssignment, "for_alice.txt")
	bobSub := submitFile(t, studentToken, bobAssignment, "for_bob.txt")

	resp := doJSON(t, "GET", "/api/submissions", instructorToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	seen := map[float64]bool{}
	for _, row := range decode(t, resp)["data"].([]interface{}) {
		seen[row.(map[string]interface{})["id"].(float64)] = true
	}
	assert.True(t, seen[float64(aliceSub)])
	assert.False(t, seen[float64(bobSub)])

	// The student sees their own uploads across courses.
	resp = doJSON(t, "GET", "/api/submissions", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	seen = map[float64]bool{}
	for _, row := range decode(t, resp)["data"].([]interface{}) {
		seen[row.(map[string]interface{})["id"].(float64)] = true
	}
	assert.True(t, seen[float64(aliceSub)])
	assert.True(t, seen[float64(bobSub)])
}

func TestMySubmissions(t *testing.T) {
	courseID := createCourse(t, instructorToken, "My Uploads Course")
	assignmentID := createAssignment(t, instructorToken, courseID, "My Uploads Essay")
	enroll(t, studentToken, courseID)
	submissionID := submitFile(t, studentToken, assignmentID, "mine.txt")

	resp := doJSON(t, "GET", "/api/submissions/mine", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	found := false
	for _, row := range decode(t, resp)["data"].([]interface{}) {
		if row.(map[string]interface{})["id"].(float64) == float64(submissionID) {
			found = true
		}
	}
	assert.True(t, found)

	// An instructor has no uploads of their own.
	resp = doJSON(t, "GET", "/api/submissions/mine", instructorToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Empty(t, decode(t, resp)["data"])
}

func TestMyGrades(t *testing.T) {
	courseID := createCourse(t, instructorToken, "Transcript Course")
	assignmentID := createAssignment(t, instructorToken, courseID, "Transcript Essay")
	enroll(t, studentToken, courseID)
	submissionID := submitFile(t, studentToken, assignmentID, "transcript.txt")

	resp := doJSON(t, "POST", fmt.Sprintf("/api/submissions/%d/grade", submissionID), instructorToken, map[string]interface{}{
		"marks":    91,
		"feedback": "well argued",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = doJSON(t, "GET", "/api/grades/mine", studentToken, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	found := false
	for _, row := range decode(t, resp)["data"].([]interface{}) {
		grade := row.(map[string]interface{})
		if grade["assignment"] == "Transcript Essay" {
			found = true
			assert.Equal(t, float64(91), grade["marks"])
		}
	}
	assert.True(t, found)
}
