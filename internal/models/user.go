package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin    UserRole = "ADMIN"
	RoleGestor   UserRole = "GESTOR"
	RoleVendedor UserRole = "VENDEDOR"
	RoleStudent  UserRole = "STUDENT"
)

// IsValid reports whether r is one of the known roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleGestor, RoleVendedor, RoleStudent:
		return true
	}
	return false
}

type User struct {
	ID           string   `json:"id" gorm:"primaryKey;size:36"`
	Name         string   `json:"name" gorm:"size:100"`
	Email        string   `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash string   `json:"-" gorm:"size:255"`
	Role         UserRole `json:"role" gorm:"size:20;not null;default:STUDENT;index"`
	Points       int      `json:"points" gorm:"not null;default:0"`
	Image        *string  `json:"image" gorm:"size:500"`

	// External identity (Casdoor) when the account is federated
	ExternalID *string `json:"-" gorm:"size:255;uniqueIndex"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
	return nil
}
