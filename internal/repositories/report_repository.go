package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/models"
)

// ReportRepository serves admin analytics
type ReportRepository interface {
	// ProgressReport returns one row per (user, enrolled course)
	ProgressReport(ctx context.Context, tx *gorm.DB, filters ReportFilters) ([]models.ProgressReportRow, error)
}
