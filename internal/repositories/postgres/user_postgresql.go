package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
)

type UserPostgreSQL struct {
	baseRepository
}

func NewUserPostgreSQL(db *gorm.DB) repositories.UserRepository {
	return &UserPostgreSQL{baseRepository{db: db}}
}

func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := u.getDB(tx)
	return db.WithContext(ctx).Create(user).Error
}

func (u *UserPostgreSQL) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	db := u.getDB(tx)
	return db.WithContext(ctx).
		Model(user).
		Select("name", "email", "role", "image", "external_id", "password_hash").
		Updates(user).Error
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) GetByExternalID(ctx context.Context, tx *gorm.DB, externalID string) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).First(&user, "external_id = ?", externalID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) LockByID(ctx context.Context, tx *gorm.DB, id string) (*models.User, error) {
	db := u.getDB(tx)
	var user models.User
	if err := db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (u *UserPostgreSQL) AddPoints(ctx context.Context, tx *gorm.DB, id string, amount int) error {
	db := u.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("points", gorm.Expr("points + ?", amount))
	if result.Error != nil {
		return fmt.Errorf("failed to add points: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (u *UserPostgreSQL) DeductPoints(ctx context.Context, tx *gorm.DB, id string, amount int) (bool, error) {
	db := u.getDB(tx)
	result := db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ? AND points >= ?", id, amount).
		UpdateColumn("points", gorm.Expr("points - ?", amount))
	if result.Error != nil {
		return false, fmt.Errorf("failed to deduct points: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}
