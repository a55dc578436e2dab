package repositories

import "context"

// Repository aggregates every repository of the academy
type Repository interface {
	// Identity
	User() UserRepository

	// Catalog: courses, modules, lessons, enrollments
	Course() CourseRepository

	// Learning
	Progress() ProgressRepository
	Quiz() QuizRepository

	// Rewards
	Gamification() GamificationRepository
	Certificate() CertificateRepository

	// Personal and social content
	Note() NoteRepository
	Community() CommunityRepository

	// Admin reporting
	Report() ReportRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
