package models

import (
	"time"
)

// ===== CATALOG =====

type CatalogCourse struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	CoverImage  *string   `json:"cover_image"`
	Audience    UserRole  `json:"audience"`
	ModuleCount int       `json:"module_count"`
	LessonCount int       `json:"lesson_count"`
	Completed   int       `json:"completed_lessons"`
	FirstLesson *string   `json:"first_lesson_slug"`
	EnrolledAt  time.Time `json:"enrolled_at"`
}

// ===== LESSON VIEW =====

type OutlineLesson struct {
	ID        string `json:"id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
	Order     int    `json:"order"`
	Completed bool   `json:"completed"`
	Active    bool   `json:"active"`
}

type OutlineModule struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	Order          int             `json:"order"`
	CompletedCount int             `json:"completed_count"`
	Lessons        []OutlineLesson `json:"lessons"`
}

type LessonLink struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
	Path  string `json:"path"`
}

type LessonQuizSummary struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	Attempts  int    `json:"attempts"`
	BestScore int    `json:"best_score"`
	Passed    bool   `json:"passed"`
}

type LessonView struct {
	Lesson       Lesson             `json:"lesson"`
	CourseID     string             `json:"course_id"`
	CourseSlug   string             `json:"course_slug"`
	CourseTitle  string             `json:"course_title"`
	Completed    bool               `json:"completed"`
	ModuleCount  int                `json:"module_count"`
	LessonCount  int                `json:"lesson_count"`
	Outline      []OutlineModule    `json:"outline"`
	Previous     *LessonLink        `json:"previous"`
	Next         *LessonLink        `json:"next"`
	Notes        []Note             `json:"notes"`
	Quiz         *LessonQuizSummary `json:"quiz"`
	TogglePath   string             `json:"toggle_path"`
	CourseIsDone bool               `json:"course_completed"`
}

// ===== QUIZ VIEW =====

type QuizViewQuestion struct {
	ID      string           `json:"id"`
	Text    string           `json:"text"`
	Order   int              `json:"order"`
	Options []QuestionOption `json:"options"`
}

type QuizView struct {
	ID            string             `json:"id"`
	Title         string             `json:"title"`
	Description   *string            `json:"description"`
	BackPath      string             `json:"back_path"`
	Questions     []QuizViewQuestion `json:"questions"`
	LatestPassing *QuizAttempt       `json:"latest_passing_attempt"`
}

// ===== PROFILE =====

type CertificateSummary struct {
	ID          string    `json:"id"`
	CourseSlug  string    `json:"course_slug"`
	CourseTitle string    `json:"course_title"`
	IssuedAt    time.Time `json:"issued_at"`
}

type ProfileView struct {
	User             User                 `json:"user"`
	Points           int                  `json:"points"`
	Badges           []GamificationBadge  `json:"badges"`
	Certificates     []CertificateSummary `json:"certificates"`
	CompletedLessons int64                `json:"completed_lessons"`
	StudySeconds     int64                `json:"study_seconds"`
	CoursesEnrolled  int                  `json:"courses_enrolled"`
	CoursesCompleted int                  `json:"courses_completed"`
	QuizzesPassed    int64                `json:"quizzes_passed"`
}

// ===== CERTIFICATE =====

type CertificateStatus string

const (
	CertificateIssued       CertificateStatus = "issued"
	CertificateNotCompleted CertificateStatus = "not_completed"
)

type CertificateView struct {
	Status           CertificateStatus `json:"status"`
	Certificate      *Certificate      `json:"certificate,omitempty"`
	UserName         string            `json:"user_name"`
	CourseSlug       string            `json:"course_slug"`
	CourseTitle      string            `json:"course_title"`
	TotalLessons     int64             `json:"total_lessons"`
	CompletedLessons int64             `json:"completed_lessons"`
	StudySeconds     int64             `json:"study_seconds"`
}

// CourseCompletion is the per-course lesson tally used by certificates and reports
type CourseCompletion struct {
	CourseID         string `json:"course_id"`
	TotalLessons     int64  `json:"total_lessons"`
	CompletedLessons int64  `json:"completed_lessons"`
}

// IsComplete reports whether every lesson of a non-empty course is done
func (c CourseCompletion) IsComplete() bool {
	return c.TotalLessons > 0 && c.CompletedLessons == c.TotalLessons
}

// ===== COMMUNITY =====

type FeedComment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	CreatedAt time.Time `json:"created_at"`
}

type FeedPost struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	UserID    string        `json:"user_id"`
	UserName  string        `json:"user_name"`
	UserImage *string       `json:"user_image"`
	LikeCount int           `json:"like_count"`
	LikedByMe bool          `json:"liked_by_me"`
	Comments  []FeedComment `json:"comments"`
	CreatedAt time.Time     `json:"created_at"`
}

// ===== REPORTS =====

type ProgressReportRow struct {
	UserID           string     `json:"user_id"`
	UserName         string     `json:"user_name"`
	Email            string     `json:"email"`
	Role             UserRole   `json:"role"`
	CourseSlug       string     `json:"course_slug"`
	CourseTitle      string     `json:"course_title"`
	TotalLessons     int64      `json:"total_lessons"`
	CompletedLessons int64      `json:"completed_lessons"`
	Points           int        `json:"points"`
	CertificateAt    *time.Time `json:"certificate_issued_at"`
}
