package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/services"
	"github.com/edutrack/exam-service/internal/utils"
	"github.com/edutrack/exam-service/internal/validator"
)

type HandlerManager struct {
	examHandler      *ExamHandler
	questionHandler  *QuestionHandler
	studentHandler   *StudentHandler
	resultHandler    *ResultHandler
	authHandler      *AuthHandler
	dashboardHandler *DashboardHandler
	authMiddleware   *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
) *HandlerManager {
	return &HandlerManager{
		examHandler:      NewExamHandler(serviceManager.Exam(), serviceManager.Result(), serviceManager.Export(), validator, logger),
		questionHandler:  NewQuestionHandler(serviceManager.Paper(), validator, logger),
		studentHandler:   NewStudentHandler(serviceManager.Student(), serviceManager.Result(), serviceManager.Exam(), validator, logger),
		resultHandler:    NewResultHandler(serviceManager.Result(), validator, logger),
		authHandler:      NewAuthHandler(serviceManager.Auth(), validator, logger),
		dashboardHandler: NewDashboardHandler(serviceManager.Dashboard(), logger),
		authMiddleware:   NewJWTAuthMiddleware(serviceManager.Auth()),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	// Login is the only unauthenticated API route
	v1.POST("/auth/login", hm.authHandler.Login)

	authed := v1.Group("")
	authed.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Auth routes
		auth := authed.Group("/auth")
		{
			auth.POST("/register", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.authHandler.Register)
			auth.GET("/me", hm.authHandler.Me)
			auth.PUT("/password", hm.authHandler.ChangePassword)
		}

		// Exam routes
		exams := authed.Group("/exams")
		{
			// Create/modify exams - Admins only
			exams.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.examHandler.CreateExam)
			exams.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.examHandler.UpdateExam)
			exams.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.examHandler.DeleteExam)
			exams.POST("/sweep-status", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.examHandler.SweepExamStatuses)

			// View exams - All authenticated users
			exams.GET("", hm.examHandler.ListExams)
			exams.GET("/search", hm.examHandler.SearchExams)
			exams.GET("/:id", hm.examHandler.GetExam)
			exams.GET("/:id/results", hm.examHandler.GetExamResults)
			exams.GET("/:id/export", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.examHandler.ExportExamResults)

			// Paper and question management - Admins only for writes
			exams.GET("/:id/papers", hm.questionHandler.ListPapers)
			exams.GET("/:id/papers/:paper_id/questions", hm.questionHandler.GetQuestions)
			exams.POST("/:id/papers/:paper_id/questions", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.questionHandler.AddQuestion)
			exams.PUT("/:id/papers/:paper_id/questions", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.questionHandler.ReplaceQuestions)
			exams.PUT("/:id/papers/:paper_id/questions/:question_id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.questionHandler.UpdateQuestion)
			exams.DELETE("/:id/papers/:paper_id/questions/:question_id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.questionHandler.DeleteQuestion)
			exams.DELETE("/:id/papers/:paper_id/questions", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.questionHandler.DeletePaper)
		}

		// Student routes
		students := authed.Group("/students")
		{
			// Self-service routes - the authenticated student
			students.GET("/me", hm.studentHandler.GetOwnProfile)
			students.GET("/me/exams", hm.studentHandler.GetOwnExams)
			students.GET("/me/results", hm.studentHandler.GetOwnResults)

			// Management routes - Admins only
			students.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.studentHandler.CreateStudent)
			students.GET("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.studentHandler.ListStudents)
			students.GET("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.studentHandler.GetStudent)
			students.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.studentHandler.UpdateStudent)
			students.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.studentHandler.DeleteStudent)
			students.GET("/:id/results", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.studentHandler.GetStudentResults)
		}

		// Result routes - Admins only
		results := authed.Group("/results")
		results.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			results.POST("", hm.resultHandler.RecordResult)
			results.GET("", hm.resultHandler.ListResults)
			results.GET("/:id", hm.resultHandler.GetResult)
			results.PUT("/:id", hm.resultHandler.UpdateResult)
			results.DELETE("/:id", hm.resultHandler.DeleteResult)
		}

		// Dashboard routes - Admins only
		dashboard := authed.Group("/dashboard")
		dashboard.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			dashboard.GET("/stats", hm.dashboardHandler.GetStats)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "exam-service",
		})
	})
}
