package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
	"github.com/SAP-F-2025/academy-service/internal/services"
	"github.com/SAP-F-2025/academy-service/internal/utils"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AdminHandler struct {
	BaseHandler
	adminService  services.AdminService
	reportService services.ReportService
}

func NewAdminHandler(adminService services.AdminService, reportService services.ReportService, logger utils.Logger) *AdminHandler {
	return &AdminHandler{
		BaseHandler:   NewBaseHandler(logger),
		adminService:  adminService,
		reportService: reportService,
	}
}

// CreateLesson appends a lesson to a module
// @Summary Create lesson
// @Tags admin
// @Accept json
// @Produce json
// @Param lesson body validator.CreateLessonRequest true "Lesson"
// @Success 201 {object} models.Lesson
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/lessons [post]
func (h *AdminHandler) CreateLesson(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req validator.CreateLessonRequest
	if !h.bindJSON(c, &req) {
		return
	}

	h.LogRequest(c, "Creating lesson", "module_id", req.ModuleID)

	lesson, err := h.adminService.CreateLesson(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, lesson)
}

// Enroll activates a user's enrollment in a course
// @Summary Enroll user
// @Tags admin
// @Accept json
// @Produce json
// @Param enrollment body validator.EnrollRequest true "Enrollment"
// @Success 200 {object} models.Enrollment
// @Failure 404 {object} ErrorResponse
// @Router /admin/enrollments [post]
func (h *AdminHandler) Enroll(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var req validator.EnrollRequest
	if !h.bindJSON(c, &req) {
		return
	}

	enrollment, err := h.adminService.Enroll(c.Request.Context(), actor, &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, enrollment)
}

// ExportProgress downloads the progress report as a spreadsheet
// @Summary Export progress report
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param course_id query string false "Course ID"
// @Param role query string false "User role"
// @Success 200 {file} file
// @Failure 403 {object} ErrorResponse
// @Router /admin/reports/progress.xlsx [get]
func (h *AdminHandler) ExportProgress(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}

	var filters repositories.ReportFilters
	if courseID := c.Query("course_id"); courseID != "" {
		filters.CourseID = &courseID
	}
	if role := models.UserRole(c.Query("role")); role != "" {
		if !role.IsValid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "Invalid role filter"})
			return
		}
		filters.Role = &role
	}

	h.LogRequest(c, "Exporting progress report")

	// Buffered so a failure can still produce a JSON error
	var buf bytes.Buffer
	if err := h.reportService.ExportProgressXLSX(c.Request.Context(), actor, filters, &buf); err != nil {
		h.handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("progress-%s.xlsx", time.Now().UTC().Format("20060102"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
