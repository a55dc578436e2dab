package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	// QuizPassingScore is the minimum percentage for a passing attempt
	QuizPassingScore = 70
	// QuizPassPoints is credited on the first passing attempt of a quiz
	QuizPassPoints = 50
	// LessonCompletionPoints is credited per completed lesson
	LessonCompletionPoints = 10
)

type Quiz struct {
	ID          string  `json:"id" gorm:"primaryKey;size:36"`
	LessonID    *string `json:"lesson_id" gorm:"size:36;uniqueIndex"`
	Title       string  `json:"title" gorm:"not null;size:200"`
	Description *string `json:"description" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Lesson    *Lesson    `json:"lesson,omitempty" gorm:"foreignKey:LessonID"`
	Questions []Question `json:"questions,omitempty" gorm:"foreignKey:QuizID"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// QuestionOption is one selectable answer of a question
type QuestionOption struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Question struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	QuizID string `json:"quiz_id" gorm:"not null;size:36;index"`
	Text   string `json:"text" gorm:"type:text;not null"`
	Order  int    `json:"order" gorm:"not null;default:0"`

	// []QuestionOption
	Options         datatypes.JSON `json:"options" gorm:"type:jsonb"`
	CorrectOptionID string         `json:"-" gorm:"not null;size:64"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Question) TableName() string {
	return "questions"
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	return nil
}

// ParseOptions decodes the stored option list
func (q *Question) ParseOptions() ([]QuestionOption, error) {
	if len(q.Options) == 0 {
		return nil, nil
	}
	var options []QuestionOption
	if err := json.Unmarshal(q.Options, &options); err != nil {
		return nil, fmt.Errorf("invalid options for question %s: %w", q.ID, err)
	}
	return options, nil
}

// SetOptions encodes opts into the JSON column
func (q *Question) SetOptions(opts []QuestionOption) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	q.Options = datatypes.JSON(data)
	return nil
}
