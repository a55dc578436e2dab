package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Note struct {
	ID        string `json:"id" gorm:"primaryKey;size:36"`
	UserID    string `json:"user_id" gorm:"not null;size:36;index:idx_note_user_lesson"`
	LessonID  string `json:"lesson_id" gorm:"not null;size:36;index:idx_note_user_lesson"`
	Content   string `json:"content" gorm:"type:text;not null"`
	Timestamp *int   `json:"timestamp"` // video position in seconds

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Lesson *Lesson `json:"-" gorm:"foreignKey:LessonID"`
}

func (Note) TableName() string {
	return "notes"
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}

type Post struct {
	ID      string `json:"id" gorm:"primaryKey;size:36"`
	UserID  string `json:"user_id" gorm:"not null;size:36;index"`
	Title   string `json:"title" gorm:"not null;size:100"`
	Content string `json:"content" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Likes    []Like    `json:"likes,omitempty" gorm:"foreignKey:PostID"`
	Comments []Comment `json:"comments,omitempty" gorm:"foreignKey:PostID"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

type Like struct {
	ID     string `json:"id" gorm:"primaryKey;size:36"`
	PostID string `json:"post_id" gorm:"not null;size:36;uniqueIndex:idx_like_post_user"`
	UserID string `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_like_post_user"`

	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string {
	return "likes"
}

func (l *Like) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

type Comment struct {
	ID      string `json:"id" gorm:"primaryKey;size:36"`
	PostID  string `json:"post_id" gorm:"not null;size:36;index"`
	UserID  string `json:"user_id" gorm:"not null;size:36;index"`
	Content string `json:"content" gorm:"type:text;not null"`

	CreatedAt time.Time `json:"created_at"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Comment) TableName() string {
	return "comments"
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// AllModels lists every persisted model in migration order
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Module{},
		&Lesson{},
		&Enrollment{},
		&Progress{},
		&Quiz{},
		&Question{},
		&QuizAttempt{},
		&QuizAnswer{},
		&GamificationBadge{},
		&Certificate{},
		&Note{},
		&Post{},
		&Like{},
		&Comment{},
	}
}
