package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/services"
	"github.com/SAP-F-2025/academy-service/internal/utils"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps payloads that have no envelope of their own
type SuccessResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
}

type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs with the request scoped logger
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	l := utils.FromContext(c, h.logger)
	if userID, ok := c.Get("user_id"); ok {
		args = append(args, "user_id", userID)
	}
	l.Info(msg, args...)
}

// actor reads the authenticated caller set by the auth middleware.
// Writes a 401 and returns false when there is none.
func (h *BaseHandler) actor(c *gin.Context) (services.Actor, bool) {
	userID, err := GetUserIDFromContext(c)
	if err != nil || userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: services.ErrUnauthorized.Error()})
		return services.Actor{}, false
	}
	role, err := GetUserRoleFromContext(c)
	if err != nil {
		role = models.RoleStudent
	}
	return services.Actor{UserID: userID, Role: role}, true
}

func (h *BaseHandler) bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return false
	}
	return true
}

func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrors,
		})
		return
	}

	var businessRuleError *services.BusinessRuleError
	if errors.As(err, &businessRuleError) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: businessRuleError.Message,
			Details: map[string]interface{}{
				"rule":    businessRuleError.Rule,
				"context": businessRuleError.Context,
			},
		})
		return
	}

	var permissionError *services.PermissionError
	if errors.As(err, &permissionError) {
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: services.ErrForbidden.Error(),
			Details: map[string]interface{}{
				"resource": permissionError.Resource,
				"action":   permissionError.Action,
				"reason":   permissionError.Reason,
			},
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrUnauthorized),
		errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Message: services.ErrForbidden.Error()})
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, services.ErrLessonNotFound),
		errors.Is(err, services.ErrQuizNotFound),
		errors.Is(err, services.ErrCourseNotFound),
		errors.Is(err, services.ErrNoteNotFound),
		errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrUserNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrQuizWithoutQuestions),
		errors.Is(err, services.ErrAllQuestionsRequired),
		errors.Is(err, services.ErrInvalidAnswerPayload),
		errors.Is(err, services.ErrContentRequired),
		errors.Is(err, services.ErrMissingFields),
		errors.Is(err, services.ErrInvalidModule):
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: err.Error()})
	case errors.Is(err, services.ErrProgressUpdateFailed),
		errors.Is(err, services.ErrQuizSubmitFailed):
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: err.Error()})
	default:
		utils.FromContext(c, h.logger).Error("Unhandled service error", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "Internal server error"})
	}
}
