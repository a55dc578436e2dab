package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
)

const progressSheet = "Progress"

var progressHeader = []interface{}{
	"User", "Email", "Role", "Course", "Completed lessons", "Total lessons", "Completion %", "Points", "Certificate issued at",
}

type reportService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewReportService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) ReportService {
	return &reportService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

func (s *reportService) ProgressReport(ctx context.Context, actor Actor, filters repositories.ReportFilters) ([]models.ProgressReportRow, error) {
	if actor.Role != models.RoleAdmin {
		return nil, NewPermissionError(actor.UserID, "", "report", "read", "admin only")
	}
	return s.repo.Report().ProgressReport(ctx, s.db, filters)
}

func (s *reportService) ExportProgressXLSX(ctx context.Context, actor Actor, filters repositories.ReportFilters, w io.Writer) error {
	rows, err := s.ProgressReport(ctx, actor, filters)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Error("Failed to close workbook", "error", err)
		}
	}()

	if err := f.SetSheetName("Sheet1", progressSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(progressSheet, "A1", &progressHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(progressSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			row.UserName,
			row.Email,
			string(row.Role),
			row.CourseTitle,
			row.CompletedLessons,
			row.TotalLessons,
			completionPercent(row.CompletedLessons, row.TotalLessons),
			row.Points,
			"",
		}
		if row.CertificateAt != nil {
			values[8] = row.CertificateAt.UTC().Format("2006-01-02 15:04")
		}
		if err := f.SetSheetRow(progressSheet, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(progressSheet, "A", "D", 28); err != nil {
		return err
	}

	s.logger.Info("Progress report exported", "rows", len(rows), "admin_id", actor.UserID)
	return f.Write(w)
}

func completionPercent(completed, total int64) int {
	if total == 0 {
		return 0
	}
	return int((completed*100 + total/2) / total)
}
