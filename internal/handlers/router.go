package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/survey-portal/internal/services"
	"github.com/SAP-F-2025/survey-portal/internal/utils"
)

const healthTimeout = 2 * time.Second

type HandlerManager struct {
	publicHandler   *PublicHandler
	surveyHandler   *SurveyHandler
	questionHandler *QuestionHandler
	authHandler     *AuthHandler
	authMiddleware  *SessionAuthMiddleware
	serviceManager  services.ServiceManager
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	cookie CookieConfig,
) *HandlerManager {
	authMiddleware := NewSessionAuthMiddleware(serviceManager.Auth(), cookie, logger)

	return &HandlerManager{
		publicHandler:   NewPublicHandler(serviceManager.Public(), logger),
		surveyHandler:   NewSurveyHandler(serviceManager.Survey(), logger),
		questionHandler: NewQuestionHandler(serviceManager.Question(), logger),
		authHandler:     NewAuthHandler(serviceManager.Auth(), authMiddleware, logger),
		authMiddleware:  authMiddleware,
		serviceManager:  serviceManager,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")

	// Respondent routes, authorized by the share token
	public := v1.Group("/public/surveys/:id")
	{
		public.GET("", hm.publicHandler.GetSurvey)
		public.PUT("/answers/:question_id", hm.publicHandler.SaveAnswer)
		public.POST("/answers/:question_id/rows", hm.publicHandler.AddTableRow)
		public.DELETE("/answers/:question_id/rows/:row", hm.publicHandler.DeleteTableRow)
		public.PUT("/answers/:question_id/rows/:row/cells/:col", hm.publicHandler.SetTableCell)
		public.DELETE("/draft", hm.publicHandler.DiscardDraft)
		public.POST("/submit", hm.publicHandler.Submit)
	}

	auth := v1.Group("/auth")
	{
		auth.POST("/login", hm.authHandler.Login)
		auth.POST("/logout", hm.authHandler.Logout)
		auth.GET("/me", hm.authMiddleware.AuthMiddleware(), hm.authHandler.Me)
		auth.PUT("/profile", hm.authMiddleware.AuthMiddleware(), hm.authHandler.UpdateProfile)
	}

	// Admin routes with session authentication
	admin := v1.Group("")
	admin.Use(hm.authMiddleware.AuthMiddleware())
	{
		surveys := admin.Group("/surveys")
		{
			surveys.GET("", hm.surveyHandler.ListSurveys)
			surveys.POST("", hm.surveyHandler.CreateSurvey)
			surveys.GET("/:id", hm.surveyHandler.GetSurvey)
			surveys.PUT("/:id", hm.surveyHandler.UpdateSurvey)
			surveys.DELETE("/:id", hm.surveyHandler.DeleteSurvey)
			surveys.POST("/:id/publish", hm.surveyHandler.PublishSurvey)
			surveys.POST("/:id/share", hm.surveyHandler.ShareSurvey)

			// Responses
			surveys.GET("/:id/responses", hm.surveyHandler.GetResponses)
			surveys.GET("/:id/responses/table", hm.surveyHandler.GetResponseTable)
			surveys.GET("/:id/responses/sheet", hm.surveyHandler.DownloadResponseSheet)
			surveys.GET("/:id/statistics", hm.surveyHandler.GetStatistics)
			surveys.GET("/:id/export", hm.surveyHandler.ExportResponses)

			surveys.PUT("/:id/questions/reorder", hm.questionHandler.ReorderQuestions)
		}

		questions := admin.Group("/questions")
		{
			questions.POST("", hm.questionHandler.CreateQuestion)
			questions.PUT("/:id", hm.questionHandler.UpdateQuestion)
			questions.DELETE("/:id", hm.questionHandler.DeleteQuestion)
		}
	}

	// Health check endpoint
	router.GET("/health", hm.health)
}

func (hm *HandlerManager) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": "survey-portal",
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "survey-portal",
	})
}
