package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type QuizAttempt struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	UserID      string    `json:"user_id" gorm:"not null;size:36;index:idx_attempt_user_quiz"`
	QuizID      string    `json:"quiz_id" gorm:"not null;size:36;index:idx_attempt_user_quiz"`
	Score       int       `json:"score" gorm:"not null"`
	Passed      bool      `json:"passed" gorm:"not null;index"`
	CompletedAt time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Answers []QuizAnswer `json:"answers,omitempty" gorm:"foreignKey:AttemptID"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

type QuizAnswer struct {
	ID               string `json:"id" gorm:"primaryKey;size:36"`
	AttemptID        string `json:"attempt_id" gorm:"not null;size:36;index"`
	QuestionID       string `json:"question_id" gorm:"not null;size:36;index"`
	SelectedOptionID string `json:"selected_option_id" gorm:"not null;size:64"`
	IsCorrect        bool   `json:"is_correct"`
}

func (QuizAnswer) TableName() string {
	return "quiz_answers"
}

func (a *QuizAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
