package services

import (
	"context"
	"io"
	"time"

	"github.com/SAP-F-2025/academy-service/internal/models"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

// Actor is the authenticated caller of an operation, as carried by the session
type Actor struct {
	UserID string          `json:"user_id"`
	Role   models.UserRole `json:"role"`
}

// ===== RESULTS =====

type ToggleCompletionResult struct {
	Success      bool     `json:"success"`
	Completed    bool     `json:"completed"`
	Points       int      `json:"points"`
	BadgeAwarded *string  `json:"badge_awarded,omitempty"`
	Revalidate   []string `json:"revalidate"`
}

type SubmitAttemptResult struct {
	Success       bool     `json:"success"`
	Score         int      `json:"score"`
	Passed        bool     `json:"passed"`
	AttemptID     string   `json:"attempt_id"`
	PointsAwarded int      `json:"points_awarded"`
	BadgeAwarded  *string  `json:"badge_awarded,omitempty"`
	Revalidate    []string `json:"revalidate"`
}

type ToggleLikeResult struct {
	Liked bool `json:"liked"`
}

type LoginResult struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// TokenClaims is what a verified session token carries
type TokenClaims struct {
	UserID string
	Role   models.UserRole
}

// ===== SERVICES =====

type ProgressService interface {
	ToggleCompletion(ctx context.Context, actor Actor, lessonID, pathHint string) (*ToggleCompletionResult, error)
}

type QuizService interface {
	SubmitAttempt(ctx context.Context, actor Actor, quizID string, req *validator.SubmitAttemptRequest) (*SubmitAttemptResult, error)
	GetQuizView(ctx context.Context, actor Actor, quizID string) (*models.QuizView, error)
}

type CertificateService interface {
	EnsureCertificate(ctx context.Context, userID, courseID string) (*models.Certificate, error)
	GetCertificateView(ctx context.Context, actor Actor, courseSlug string) (*models.CertificateView, error)
}

type CourseService interface {
	ListCatalog(ctx context.Context, actor Actor) ([]models.CatalogCourse, error)
	GetLessonView(ctx context.Context, actor Actor, courseSlug, lessonSlug string) (*models.LessonView, error)
}

type ProfileService interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	GetProfile(ctx context.Context, userID string) (*models.ProfileView, error)
}

type NoteService interface {
	Create(ctx context.Context, actor Actor, lessonID string, req *validator.CreateNoteRequest) (*models.Note, error)
	List(ctx context.Context, actor Actor, lessonID string) ([]models.Note, error)
	Delete(ctx context.Context, actor Actor, noteID string) error
}

type CommunityService interface {
	ListFeed(ctx context.Context, actor Actor) ([]models.FeedPost, error)
	CreatePost(ctx context.Context, actor Actor, req *validator.CreatePostRequest) (*models.Post, error)
	ToggleLike(ctx context.Context, actor Actor, postID string) (*ToggleLikeResult, error)
	CreateComment(ctx context.Context, actor Actor, postID string, req *validator.CreateCommentRequest) (*models.Comment, error)
}

type AdminService interface {
	CreateLesson(ctx context.Context, actor Actor, req *validator.CreateLessonRequest) (*models.Lesson, error)
	Enroll(ctx context.Context, actor Actor, req *validator.EnrollRequest) (*models.Enrollment, error)
}

type ReportService interface {
	ProgressReport(ctx context.Context, actor Actor, filters repositories.ReportFilters) ([]models.ProgressReportRow, error)
	// ExportProgressXLSX writes the progress report as an xlsx workbook
	ExportProgressXLSX(ctx context.Context, actor Actor, filters repositories.ReportFilters, w io.Writer) error
}

type AuthService interface {
	Login(ctx context.Context, req *validator.LoginRequest) (*LoginResult, error)
	IssueToken(user *models.User) (string, time.Time, error)
	ParseToken(token string) (*TokenClaims, error)
	// ResolveExternal maps an identity provider user onto a local account, creating it on first sight
	ResolveExternal(ctx context.Context, identity *repositories.ExternalIdentity) (*models.User, error)
	EnsureAdmin(ctx context.Context, email, password string) error
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Progress() ProgressService
	Quiz() QuizService
	Certificate() CertificateService
	Course() CourseService
	Profile() ProfileService
	Note() NoteService
	Community() CommunityService
	Admin() AdminService
	Report() ReportService
	Auth() AuthService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
