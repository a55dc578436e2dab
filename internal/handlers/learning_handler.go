package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/academy-service/internal/services"
	"github.com/SAP-F-2025/academy-service/internal/utils"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

type LearningHandler struct {
	BaseHandler
	courseService   services.CourseService
	progressService services.ProgressService
	noteService     services.NoteService
}

func NewLearningHandler(
	courseService services.CourseService,
	progressService services.ProgressService,
	noteService services.NoteService,
	logger utils.Logger,
) *LearningHandler {
	return &LearningHandler{
		BaseHandler:     NewBaseHandler(logger),
		courseService:   courseService,
		progressService: progressService,
		noteService:     noteService,
	}
}

// ListCatalog lists the courses the caller can study
// @Summary Course catalog
// @Tags courses
// @Produce json
// @Success 200 {array} models.CatalogCourse
// @Failure 401 {object} ErrorResponse
// @Router /courses [get]
func (h *LearningHandler) ListCatalog(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	courses, err := h.courseService.ListCatalog(c.Request.Context(), actor)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, courses)
}

// GetLessonView returns a lesson with its course outline, notes and quiz state
// @Summary Lesson view
// @Tags courses
// @Produce json
// @Param slug path string true "Course slug"
// @Param lessonSlug path string true "Lesson slug"
// @Success 200 {object} models.LessonView
// @Failure 404 {object} ErrorResponse
// @Router /courses/{slug}/lessons/{lessonSlug} [get]
func (h *LearningHandler) GetLessonView(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	view, err := h.courseService.GetLessonView(c.Request.Context(), actor, c.Param("slug"), c.Param("lessonSlug"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ToggleCompletion marks a lesson completed, or undoes it
// @Summary Toggle lesson completion
// @Tags progress
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param body body validator.ToggleCompletionRequest false "View path to refresh"
// @Success 200 {object} services.ToggleCompletionResult
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /lessons/{id}/toggle-completion [post]
func (h *LearningHandler) ToggleCompletion(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	lessonID := c.Param("id")

	h.LogRequest(c, "Toggling lesson completion", "lesson_id", lessonID)

	var req validator.ToggleCompletionRequest
	if c.Request.ContentLength != 0 && !h.bindJSON(c, &req) {
		return
	}

	result, err := h.progressService.ToggleCompletion(c.Request.Context(), actor, lessonID, req.Path)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ListNotes lists the caller's notes on a lesson
// @Summary List notes
// @Tags notes
// @Produce json
// @Param id path string true "Lesson ID"
// @Success 200 {array} models.Note
// @Router /lessons/{id}/notes [get]
func (h *LearningHandler) ListNotes(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	notes, err := h.noteService.List(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

// CreateNote adds a note to a lesson
// @Summary Create note
// @Tags notes
// @Accept json
// @Produce json
// @Param id path string true "Lesson ID"
// @Param note body validator.CreateNoteRequest true "Note"
// @Success 201 {object} models.Note
// @Failure 400 {object} ErrorResponse
// @Router /lessons/{id}/notes [post]
func (h *LearningHandler) CreateNote(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req validator.CreateNoteRequest
	if !h.bindJSON(c, &req) {
		return
	}

	note, err := h.noteService.Create(c.Request.Context(), actor, c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// DeleteNote removes one of the caller's notes
// @Summary Delete note
// @Tags notes
// @Param id path string true "Note ID"
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /notes/{id} [delete]
func (h *LearningHandler) DeleteNote(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	if err := h.noteService.Delete(c.Request.Context(), actor, c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Success: true})
}
