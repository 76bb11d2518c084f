package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/edutrack/exam-service/internal/documents"
	"github.com/edutrack/exam-service/internal/events"
	"github.com/edutrack/exam-service/internal/repositories"
	"github.com/edutrack/exam-service/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	JWTSecret string
	TokenTTL  time.Duration

	// StatusSweepInterval controls the background exam status reconciliation.
	StatusSweepInterval time.Duration
}

// serviceManager implements ServiceManager
type serviceManager struct {
	// Dependencies
	db             *gorm.DB
	repo           repositories.Repository
	paperStore     *documents.PaperStore
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
	config         ServiceManagerConfig

	// Service instances
	examService         ExamService
	paperService        PaperService
	resultService       ResultService
	studentService      StudentService
	authService         AuthService
	dashboardService    DashboardService
	exportService       ExportService
	notificationService NotificationEventService

	// Lifecycle management
	initialized bool
	shutdown    bool
	sweepDone   chan struct{}
	mu          sync.RWMutex
}

// NewServiceManager creates a service manager with all dependencies
func NewServiceManager(db *gorm.DB, repo repositories.Repository, paperStore *documents.PaperStore, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator, config ServiceManagerConfig) ServiceManager {
	if config.TokenTTL <= 0 {
		config.TokenTTL = 24 * time.Hour
	}
	if config.StatusSweepInterval <= 0 {
		config.StatusSweepInterval = time.Minute
	}
	return &serviceManager{
		db:             db,
		repo:           repo,
		paperStore:     paperStore,
		eventPublisher: publisher,
		logger:         logger,
		validator:      validator,
		config:         config,
	}
}

// Initialize wires all services and starts the status sweep loop.
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.logger.Info("Initializing service manager")

	sm.notificationService = NewNotificationEventService(sm.repo, sm.eventPublisher, sm.logger, sm.validator)
	sm.examService = NewExamService(sm.repo, sm.paperStore, sm.notificationService, sm.db, sm.logger, sm.validator)
	sm.paperService = NewPaperService(sm.repo, sm.paperStore, sm.logger, sm.validator)
	sm.resultService = NewResultService(sm.repo, sm.notificationService, sm.db, sm.logger, sm.validator)
	sm.studentService = NewStudentService(sm.repo, sm.db, sm.logger, sm.validator)
	sm.authService = NewAuthService(sm.repo, sm.db, sm.logger, sm.validator, sm.config.JWTSecret, sm.config.TokenTTL)
	sm.dashboardService = NewDashboardService(sm.repo, sm.db, sm.logger)
	sm.exportService = NewExportService(sm.repo, sm.resultService, sm.logger)

	sm.sweepDone = make(chan struct{})
	go sm.runStatusSweep()

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")
	return nil
}

// runStatusSweep periodically reconciles stored exam statuses with the
// derived ones until Shutdown closes sweepDone.
func (sm *serviceManager) runStatusSweep() {
	ticker := time.NewTicker(sm.config.StatusSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-sm.sweepDone:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if _, err := sm.examService.SweepStatuses(ctx); err != nil {
				sm.logger.Error("Status sweep failed", "error", err)
			}
			cancel()
		}
	}
}

// Service getters

func (sm *serviceManager) Exam() ExamService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.examService
}

func (sm *serviceManager) Paper() PaperService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.paperService
}

func (sm *serviceManager) Result() ResultService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.resultService
}

func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.studentService
}

func (sm *serviceManager) Auth() AuthService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.authService
}

func (sm *serviceManager) Dashboard() DashboardService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.dashboardService
}

func (sm *serviceManager) Export() ExportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.exportService
}

func (sm *serviceManager) Notification() NotificationEventService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	sm.mustBeInitialized()
	return sm.notificationService
}

func (sm *serviceManager) mustBeInitialized() {
	if !sm.initialized {
		panic("service manager not initialized")
	}
}

// HealthCheck verifies the repository connections behind the services.
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}
	return sm.repo.Ping(ctx)
}

// Shutdown stops the sweep loop and closes the event publisher.
func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized || sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")
	close(sm.sweepDone)

	if err := sm.eventPublisher.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}

	sm.shutdown = true
	return nil
}
