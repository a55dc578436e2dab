package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/academy-service/internal/services"
	"github.com/SAP-F-2025/academy-service/internal/utils"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

type QuizHandler struct {
	BaseHandler
	quizService        services.QuizService
	certificateService services.CertificateService
}

func NewQuizHandler(quizService services.QuizService, certificateService services.CertificateService, logger utils.Logger) *QuizHandler {
	return &QuizHandler{
		BaseHandler:        NewBaseHandler(logger),
		quizService:        quizService,
		certificateService: certificateService,
	}
}

// GetQuiz returns a quiz without its answer key
// @Summary Quiz view
// @Tags quizzes
// @Produce json
// @Param id path string true "Quiz ID"
// @Success 200 {object} models.QuizView
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id} [get]
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	view, err := h.quizService.GetQuizView(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SubmitAttempt grades a full set of answers
// @Summary Submit quiz attempt
// @Tags quizzes
// @Accept json
// @Produce json
// @Param id path string true "Quiz ID"
// @Param attempt body validator.SubmitAttemptRequest true "Answers"
// @Success 200 {object} services.SubmitAttemptResult
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quizzes/{id}/attempts [post]
func (h *QuizHandler) SubmitAttempt(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	quizID := c.Param("id")

	h.LogRequest(c, "Submitting quiz attempt", "quiz_id", quizID)

	var req validator.SubmitAttemptRequest
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.quizService.SubmitAttempt(c.Request.Context(), actor, quizID, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCertificate issues, or returns, the caller's certificate for a course
// @Summary Course certificate
// @Tags certificates
// @Produce json
// @Param courseSlug path string true "Course slug"
// @Success 200 {object} models.CertificateView
// @Failure 404 {object} ErrorResponse
// @Router /certificates/{courseSlug} [get]
func (h *QuizHandler) GetCertificate(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	view, err := h.certificateService.GetCertificateView(c.Request.Context(), actor, c.Param("courseSlug"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
