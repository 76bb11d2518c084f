package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/edutrack/exam-service/internal/models"
)

// Repository aggregates the per-entity repository interfaces.
type Repository interface {
	Exam() ExamRepository
	Student() StudentRepository
	User() UserRepository
	Result() ResultRepository
	Dashboard() DashboardRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager manages repository lifecycle.
type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// ExamRepository covers exam-specific operations. The tx parameter carries an
// open transaction; nil means the repository's own connection.
type ExamRepository interface {
	Create(ctx context.Context, tx *gorm.DB, exam *models.Exam) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error)
	Update(ctx context.Context, tx *gorm.DB, exam *models.Exam) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB, filters ExamFilters) ([]*models.Exam, int64, error)
	Search(ctx context.Context, tx *gorm.DB, query string, filters ExamFilters) ([]*models.Exam, int64, error)
	GetByStatus(ctx context.Context, tx *gorm.DB, status models.ExamStatus, limit, offset int) ([]*models.Exam, error)

	// Status sweep support
	GetAll(ctx context.Context, tx *gorm.DB) ([]*models.Exam, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.ExamStatus) error

	Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
}

type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Student, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Student, error)
	Update(ctx context.Context, tx *gorm.DB, student *models.Student) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB, filters StudentFilters) ([]*models.Student, int64, error)
	Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error)
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string, excludeID *uint) (bool, error)
}

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error)
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uint) (*models.User, error)
	Update(ctx context.Context, tx *gorm.DB, user *models.User) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error
}

type ResultRepository interface {
	Create(ctx context.Context, tx *gorm.DB, result *models.Result) error
	GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Result, error)
	GetByStudentAndExam(ctx context.Context, tx *gorm.DB, studentID, examID uint) (*models.Result, error)
	Update(ctx context.Context, tx *gorm.DB, result *models.Result) error
	Delete(ctx context.Context, tx *gorm.DB, id uint) error

	List(ctx context.Context, tx *gorm.DB, filters ResultFilters) ([]*models.Result, int64, error)
	GetByExam(ctx context.Context, tx *gorm.DB, examID uint) ([]*models.Result, error)
	GetByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Result, error)

	// Cascade and recompute support
	DeleteByExam(ctx context.Context, tx *gorm.DB, examID uint) error
	DeleteByStudent(ctx context.Context, tx *gorm.DB, studentID uint) error

	GetExamStats(ctx context.Context, tx *gorm.DB, examID uint) (*ExamStats, error)
}

type DashboardRepository interface {
	GetStats(ctx context.Context, tx *gorm.DB) (*DashboardStats, error)
}

// IsNotFoundError reports whether err is the ORM's record-not-found.
func IsNotFoundError(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
