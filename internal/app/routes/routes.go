package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/qnaboard/internal/app/controllers"
	"github.com/yigit/qnaboard/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	catalogController *controllers.CatalogController,
	qnaController *controllers.QnAController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.GET("/departments", catalogController.GetAllDepartments)
	v1.GET("/courses", catalogController.GetCourses)
	v1.GET("/boards/:type/:name", qnaController.ListQuestions)

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		questions := authenticated.Group("/questions")
		{
			questions.POST("", qnaController.CreateQuestion)
			questions.GET("/:id", qnaController.GetQuestionDetail)
			questions.POST("/:id/answers", qnaController.CreateAnswer)
		}

		authenticated.POST("/answers/:id/recommend", qnaController.Recommend)

		me := authenticated.Group("/me")
		{
			me.GET("/questions", qnaController.ListMyQuestions)
			me.GET("/answers", qnaController.ListMyAnswers)
		}
	}
}
