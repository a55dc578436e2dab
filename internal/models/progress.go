package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Progress marks a lesson as completed by a user. Un-completing deletes the row.
type Progress struct {
	ID          string     `json:"id" gorm:"primaryKey;size:36"`
	UserID      string     `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_progress_user_lesson"`
	LessonID    string     `json:"lesson_id" gorm:"not null;size:36;uniqueIndex:idx_progress_user_lesson;index"`
	CompletedAt *time.Time `json:"completed_at" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Progress) TableName() string {
	return "progress"
}

func (p *Progress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (p *Progress) IsCompleted() bool {
	return p != nil && p.CompletedAt != nil
}

const (
	BadgeFirstSteps            = "Primeiros Passos"
	BadgeFirstStepsDescription = "Concluiu sua primeira aula na plataforma"

	BadgeFirstQuiz            = "Primeiro 10!"
	BadgeFirstQuizDescription = "Passou no seu primeiro Quiz de avaliação"
)

type GamificationBadge struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	UserID      string    `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_badge_user_name"`
	Name        string    `json:"name" gorm:"not null;size:100;uniqueIndex:idx_badge_user_name"`
	Description string    `json:"description" gorm:"size:255"`
	AwardedAt   time.Time `json:"awarded_at"`
}

func (GamificationBadge) TableName() string {
	return "gamification_badges"
}

func (b *GamificationBadge) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	if b.AwardedAt.IsZero() {
		b.AwardedAt = time.Now()
	}
	return nil
}

type Certificate struct {
	ID       string    `json:"id" gorm:"primaryKey;size:36"`
	UserID   string    `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_certificate_user_course"`
	CourseID string    `json:"course_id" gorm:"not null;size:36;uniqueIndex:idx_certificate_user_course"`
	IssuedAt time.Time `json:"issued_at"`

	// Relations
	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Certificate) TableName() string {
	return "certificates"
}

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
