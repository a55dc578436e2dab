package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/services"
	"github.com/SAP-F-2025/academy-service/internal/utils"
)

type HandlerManager struct {
	authHandler      *AuthHandler
	learningHandler  *LearningHandler
	quizHandler      *QuizHandler
	communityHandler *CommunityHandler
	adminHandler     *AdminHandler
	authMiddleware   Authenticator
	serviceManager   services.ServiceManager
	serviceName      string
}

// NewHandlerManager wires every handler. store is nil when sessions are not
// used (external identity provider), which disables local login.
func NewHandlerManager(
	serviceManager services.ServiceManager,
	authMiddleware Authenticator,
	store sessions.Store,
	logger utils.Logger,
	serviceName string,
) *HandlerManager {
	return &HandlerManager{
		authHandler:      NewAuthHandler(serviceManager.Auth(), serviceManager.Profile(), store, logger),
		learningHandler:  NewLearningHandler(serviceManager.Course(), serviceManager.Progress(), serviceManager.Note(), logger),
		quizHandler:      NewQuizHandler(serviceManager.Quiz(), serviceManager.Certificate(), logger),
		communityHandler: NewCommunityHandler(serviceManager.Community(), logger),
		adminHandler:     NewAdminHandler(serviceManager.Admin(), serviceManager.Report(), logger),
		authMiddleware:   authMiddleware,
		serviceManager:   serviceManager,
		serviceName:      serviceName,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	router.GET("/health", hm.health)

	public := router.Group("/api/v1")
	if hm.authHandler.store != nil {
		public.POST("/auth/login", hm.authHandler.Login)
	}
	public.POST("/auth/logout", hm.authHandler.Logout)

	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		v1.GET("/me", hm.authHandler.Me)
		v1.GET("/me/profile", hm.authHandler.Profile)

		courses := v1.Group("/courses")
		{
			courses.GET("", hm.learningHandler.ListCatalog)
			courses.GET("/:slug/lessons/:lessonSlug", hm.learningHandler.GetLessonView)
		}

		lessons := v1.Group("/lessons")
		{
			lessons.POST("/:id/toggle-completion", hm.learningHandler.ToggleCompletion)
			lessons.GET("/:id/notes", hm.learningHandler.ListNotes)
			lessons.POST("/:id/notes", hm.learningHandler.CreateNote)
		}
		v1.DELETE("/notes/:id", hm.learningHandler.DeleteNote)

		quizzes := v1.Group("/quizzes")
		{
			quizzes.GET("/:id", hm.quizHandler.GetQuiz)
			quizzes.POST("/:id/attempts", hm.quizHandler.SubmitAttempt)
		}
		v1.GET("/certificates/:courseSlug", hm.quizHandler.GetCertificate)

		community := v1.Group("/community/posts")
		{
			community.GET("", hm.communityHandler.ListPosts)
			community.POST("", hm.communityHandler.CreatePost)
			community.POST("/:id/like", hm.communityHandler.ToggleLike)
			community.POST("/:id/comments", hm.communityHandler.CreateComment)
		}

		// Admin routes - services re-check the role
		admin := v1.Group("/admin")
		admin.Use(RequireRoleMiddleware(models.RoleAdmin))
		{
			admin.POST("/lessons", hm.adminHandler.CreateLesson)
			admin.POST("/enrollments", hm.adminHandler.Enroll)
			admin.GET("/reports/progress.xlsx", hm.adminHandler.ExportProgress)
		}
	}
}

func (hm *HandlerManager) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := hm.serviceManager.HealthCheck(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"service": hm.serviceName,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": hm.serviceName,
	})
}
