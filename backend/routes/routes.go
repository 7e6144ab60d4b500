package routes

import (
	"project/backend/certificate"
	"project/backend/config"
	"project/backend/controllers"
	"project/backend/metrics"
	"project/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	authMiddleware := middleware.AuthMiddleware(db, cfg)

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)
	app.Get("/api/user/profile", authMiddleware, authController.GetProfile)

	// Courses: the catalog listing is public, everything else carries a
	// principal.
	coursesController := controllers.NewCoursesController(db, cfg)
	app.Get("/api/courses", coursesController.ListCourses)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/:id", coursesController.GetCourseDetails)
	courses.Post("/", coursesController.CreateCourse)
	courses.Put("/:id", coursesController.UpdateCourse)
	courses.Delete("/:id", coursesController.DeleteCourse)
	courses.Post("/:id/enroll", coursesController.EnrollCourse)
	courses.Get("/:id/students", coursesController.CourseStudents)

	// Community: discussions and ratings
	communityController := controllers.NewCommunityController(db, cfg)
	courses.Get("/:id/discussions", communityController.ListDiscussions)
	courses.Post("/:id/discussions", communityController.PostDiscussion)
	courses.Get("/:id/ratings", communityController.ListRatings)
	courses.Put("/:id/rating", communityController.RateCourse)

	// Lessons
	lessonsController := controllers.NewLessonsController(db, cfg)
	lessons := app.Group("/api/lessons", authMiddleware)
	lessons.Post("/", lessonsController.CreateLesson)
	lessons.Get("/:id", lessonsController.GetLesson)
	lessons.Put("/:id", lessonsController.UpdateLesson)
	lessons.Delete("/:id", lessonsController.DeleteLesson)
	lessons.Post("/:id/complete", lessonsController.CompleteLesson)

	// Assignments & submissions
	assignmentsController := controllers.NewAssignmentsController(db, cfg)
	assignments := app.Group("/api/assignments", authMiddleware)
	assignments.Post("/", assignmentsController.CreateAssignment)
	assignments.Put("/:id", assignmentsController.UpdateAssignment)
	assignments.Delete("/:id", assignmentsController.DeleteAssignment)
	assignments.Get("/:id/submissions", assignmentsController.ListAssignmentSubmissions)

	submissionsController := controllers.NewSubmissionsController(db, cfg)
	assignments.Post("/:id/submissions", submissionsController.UploadSubmission)
	app.Get("/api/submissions", authMiddleware, submissionsController.ListSubmissions)
	app.Get("/api/submissions/mine", authMiddleware, submissionsController.MySubmissions)
	app.Post("/api/submissions/:id/grade", authMiddleware, submissionsController.GradeSubmission)
	app.Get("/api/grades/mine", authMiddleware, submissionsController.MyGrades)

	// Quizzes
	quizzesController := controllers.NewQuizzesController(db, cfg)
	quizzes := app.Group("/api/quizzes", authMiddleware)
	quizzes.Post("/", quizzesController.CreateQuiz)
	quizzes.Put("/:id", quizzesController.UpdateQuiz)
	quizzes.Delete("/:id", quizzesController.DeleteQuiz)
	quizzes.Post("/:id/questions", quizzesController.AddQuestion)
	courses.Get("/:id/quizzes", quizzesController.ListCourseQuizzes)

	// Dashboards
	dashboardController := controllers.NewDashboardController(db, cfg)
	app.Get("/api/dashboard/instructor", authMiddleware, dashboardController.InstructorDashboard)
	app.Get("/api/dashboard/student", authMiddleware, dashboardController.StudentDashboard)

	// Certificates
	certificatesController := controllers.NewCertificatesController(db, cfg, certificate.NewPDFRenderer())
	courses.Get("/:id/certificate", certificatesController.GenerateCertificate)

	// Admin
	adminController := controllers.NewAdminController(db, cfg)
	admin := app.Group("/api/admin", authMiddleware)
	admin.Get("/instructors/pending", adminController.ListPendingInstructors)
	admin.Put("/instructors/:id/approve", adminController.ApproveInstructor)

	// Metrics
	app.Get("/metrics", metrics.Handler())
}
