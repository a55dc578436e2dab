package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/models"
)

// UserRepository manages accounts and their point balance
type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*models.User, error)

	// LockByID loads the user row with a row-level write lock held until the
	// surrounding transaction ends.
	LockByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error)

	// Points
	AddPoints(ctx context.Context, tx *gorm.DB, id string, amount int) error
	// DeductPoints subtracts amount only if the balance stays non-negative.
	// Reports whether the deduction happened.
	DeductPoints(ctx context.Context, tx *gorm.DB, id string, amount int) (bool, error)
}
