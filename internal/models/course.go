package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SharedCourseSlug identifies the company-wide onboarding course
const SharedCourseSlug = "conheca-empresa"

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "ACTIVE"
	EnrollmentSuspended EnrollmentStatus = "SUSPENDED"
)

type Course struct {
	ID          string   `json:"id" gorm:"primaryKey;size:36"`
	Slug        string   `json:"slug" gorm:"uniqueIndex;not null;size:200"`
	Title       string   `json:"title" gorm:"not null;size:200"`
	Description *string  `json:"description" gorm:"type:text"`
	CoverImage  *string  `json:"cover_image" gorm:"size:500"`
	Audience    UserRole `json:"audience" gorm:"size:20;not null;index"`
	Published   bool     `json:"published" gorm:"default:false;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Modules []Module `json:"modules,omitempty" gorm:"foreignKey:CourseID"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

type Module struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	CourseID string `json:"course_id" gorm:"not null;size:36;uniqueIndex:idx_module_course_order"`
	Title    string `json:"title" gorm:"not null;size:200"`
	Order    int    `json:"order" gorm:"not null;uniqueIndex:idx_module_course_order"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Course  *Course  `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Lessons []Lesson `json:"lessons,omitempty" gorm:"foreignKey:ModuleID"`
}

func (Module) TableName() string {
	return "modules"
}

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

type Lesson struct {
	ID             string  `json:"id" gorm:"primaryKey;size:36"`
	ModuleID       string  `json:"module_id" gorm:"not null;size:36;index"`
	Slug           string  `json:"slug" gorm:"uniqueIndex;not null;size:200"`
	Title          string  `json:"title" gorm:"not null;size:200"`
	Description    *string `json:"description" gorm:"type:text"`
	YoutubeVideoID string  `json:"youtube_video_id" gorm:"not null;size:32"`
	DurationSec    *int    `json:"duration_sec"`
	Order          int     `json:"order" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Module *Module `json:"module,omitempty" gorm:"foreignKey:ModuleID"`
	Quiz   *Quiz   `json:"quiz,omitempty" gorm:"foreignKey:LessonID"`
}

func (Lesson) TableName() string {
	return "lessons"
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

type Enrollment struct {
	ID       string           `json:"id" gorm:"primaryKey;size:36"`
	UserID   string           `json:"user_id" gorm:"not null;size:36;uniqueIndex:idx_enrollment_user_course"`
	CourseID string           `json:"course_id" gorm:"not null;size:36;uniqueIndex:idx_enrollment_user_course"`
	Status   EnrollmentStatus `json:"status" gorm:"size:20;not null;default:ACTIVE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// LessonPath is the canonical view path of a lesson inside its course
func LessonPath(courseSlug, lessonSlug string) string {
	return "/app/cursos/" + courseSlug + "/aulas/" + lessonSlug
}

// CoursePath is the canonical view path of a course
func CoursePath(courseSlug string) string {
	return "/app/cursos/" + courseSlug
}

// QuizPath is the canonical view path of a quiz
func QuizPath(quizID string) string {
	return "/app/quiz/" + quizID
}

const (
	CommunityPath = "/app/comunidade"
	ProfilePath   = "/app/perfil"
	CatalogPath   = "/app/meus-cursos"
)
