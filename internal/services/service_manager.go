package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/SAP-F-2025/academy-service/internal/cache"
	"github.com/SAP-F-2025/academy-service/internal/events"
	"github.com/SAP-F-2025/academy-service/internal/repositories"
	"github.com/SAP-F-2025/academy-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	// Shared side effects
	Cache     *cache.CacheManager
	Publisher events.EventPublisher

	// Session tokens
	JWTSecret string
	TokenTTL  time.Duration

	DefaultTimeout time.Duration
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	db        *gorm.DB
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.Validator
	config    ServiceManagerConfig

	// Service instances
	progressService    ProgressService
	quizService        QuizService
	certificateService CertificateService
	courseService      CourseService
	profileService     ProfileService
	noteService        NoteService
	communityService   CommunityService
	adminService       AdminService
	reportService      ReportService
	authService        AuthService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, logger *slog.Logger, validator *validator.Validator, config ServiceManagerConfig) ServiceManager {
	if config.Cache == nil {
		config.Cache = cache.NewCacheManager(nil)
	}
	if config.Publisher == nil {
		config.Publisher = events.NewMockEventPublisher(logger)
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = 24 * time.Hour
	}
	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = 30 * time.Second
	}

	return &serviceManager{
		db:        db,
		repo:      repo,
		logger:    logger,
		validator: validator,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	if err := sm.initializeServices(ctx); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

func (sm *serviceManager) initializeServices(ctx context.Context) error {
	if sm.config.JWTSecret == "" {
		return fmt.Errorf("jwt secret is required")
	}

	cm, pub := sm.config.Cache, sm.config.Publisher

	sm.progressService = NewProgressService(sm.repo, sm.db, sm.logger, sm.validator, cm, pub)
	sm.quizService = NewQuizService(sm.repo, sm.db, sm.logger, sm.validator, cm, pub)
	sm.certificateService = NewCertificateService(sm.repo, sm.db, sm.logger, cm, pub)
	sm.logger.Info("Learning services initialized")

	sm.courseService = NewCourseService(sm.repo, sm.db, sm.logger, cm)
	sm.profileService = NewProfileService(sm.repo, sm.db, sm.logger, cm)
	sm.noteService = NewNoteService(sm.repo, sm.db, sm.logger, sm.validator, cm)
	sm.communityService = NewCommunityService(sm.repo, sm.db, sm.logger, sm.validator, cm, pub)
	sm.logger.Info("Content services initialized")

	sm.adminService = NewAdminService(sm.repo, sm.db, sm.logger, sm.validator, cm, pub)
	sm.reportService = NewReportService(sm.repo, sm.db, sm.logger)
	sm.authService = NewAuthService(sm.repo, sm.db, sm.logger, sm.validator, sm.config.JWTSecret, sm.config.TokenTTL)
	sm.logger.Info("Admin and auth services initialized")

	return nil
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// Service getters
func (sm *serviceManager) Progress() ProgressService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.progressService
}

func (sm *serviceManager) Quiz() QuizService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.quizService
}

func (sm *serviceManager) Certificate() CertificateService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.certificateService
}

func (sm *serviceManager) Course() CourseService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.courseService
}

func (sm *serviceManager) Profile() ProfileService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.profileService
}

func (sm *serviceManager) Note() NoteService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.noteService
}

func (sm *serviceManager) Community() CommunityService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.communityService
}

func (sm *serviceManager) Admin() AdminService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.adminService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.reportService
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.authService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}

	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	ctx, cancel := context.WithTimeout(ctx, sm.config.DefaultTimeout)
	defer cancel()

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.config.Publisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

// IsInitialized returns whether the service manager has been initialized
func (sm *serviceManager) IsInitialized() bool {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	return sm.initialized
}
