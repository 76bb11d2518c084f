package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/edutrack/exam-service/internal/cache"
	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/repositories"
)

type ExamPostgreSQL struct {
	db           *gorm.DB
	helpers      *SharedHelpers
	cacheManager *cache.CacheManager
}

func NewExamPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.ExamRepository {
	return &ExamPostgreSQL{
		db:           db,
		helpers:      NewSharedHelpers(db),
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (e *ExamPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

func (e *ExamPostgreSQL) Create(ctx context.Context, tx *gorm.DB, exam *models.Exam) error {
	if err := e.getDB(tx).WithContext(ctx).Create(exam).Error; err != nil {
		return fmt.Errorf("failed to create exam: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, e.cacheManager.Exam, "list:*")
	return nil
}

// GetByID retrieves an exam by ID with caching.
func (e *ExamPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error) {
	cacheKey := fmt.Sprintf("id:%d", id)
	var exam models.Exam

	err := e.cacheManager.Exam.CacheOrExecute(ctx, cacheKey, &exam, cache.ExamCacheConfig.TTL, func() (interface{}, error) {
		var dbExam models.Exam
		if err := e.getDB(tx).WithContext(ctx).First(&dbExam, id).Error; err != nil {
			if repositories.IsNotFoundError(err) {
				return nil, err
			}
			return nil, fmt.Errorf("failed to get exam: %w", err)
		}
		return &dbExam, nil
	})
	if err != nil {
		return nil, err
	}

	return &exam, nil
}

func (e *ExamPostgreSQL) Update(ctx context.Context, tx *gorm.DB, exam *models.Exam) error {
	if err := e.getDB(tx).WithContext(ctx).Model(&models.Exam{}).Where("id = ?", exam.ID).Updates(map[string]interface{}{
		"name":        exam.Name,
		"subject":     exam.Subject,
		"description": exam.Description,
		"date":        exam.Date,
		"duration":    exam.Duration,
		"total_marks": exam.TotalMarks,
		"status":      exam.Status,
		"updated_at":  exam.UpdatedAt,
	}).Error; err != nil {
		return fmt.Errorf("failed to update exam: %w", err)
	}

	cache.InvalidateExamCache(ctx, e.cacheManager, exam.ID)
	return nil
}

// Delete hard deletes an exam. Results and paper documents are removed by the
// service-level cascade before this is called.
func (e *ExamPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if err := e.getDB(tx).WithContext(ctx).Unscoped().Delete(&models.Exam{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}
	cache.InvalidateExamCache(ctx, e.cacheManager, id)
	return nil
}

func (e *ExamPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	query := e.getDB(tx).WithContext(ctx).Model(&models.Exam{})
	query = e.helpers.ApplyExamFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = e.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var exams []*models.Exam
	if err := query.Find(&exams).Error; err != nil {
		return nil, 0, err
	}

	return exams, total, nil
}

// Search matches against exam name and subject.
func (e *ExamPostgreSQL) Search(ctx context.Context, tx *gorm.DB, searchQuery string, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	query := e.getDB(tx).WithContext(ctx).Model(&models.Exam{}).
		Where("name ILIKE ? OR subject ILIKE ?", "%"+searchQuery+"%", "%"+searchQuery+"%")
	query = e.helpers.ApplyExamFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = e.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var exams []*models.Exam
	if err := query.Find(&exams).Error; err != nil {
		return nil, 0, err
	}

	return exams, total, nil
}

func (e *ExamPostgreSQL) GetByStatus(ctx context.Context, tx *gorm.DB, status models.ExamStatus, limit, offset int) ([]*models.Exam, error) {
	var exams []*models.Exam
	err := e.getDB(tx).WithContext(ctx).
		Where("status = ?", status).
		Limit(limit).
		Offset(offset).
		Order("date ASC").
		Find(&exams).Error
	if err != nil {
		return nil, err
	}

	return exams, nil
}

// GetAll returns every exam without pagination; used by the status sweep.
func (e *ExamPostgreSQL) GetAll(ctx context.Context, tx *gorm.DB) ([]*models.Exam, error) {
	var exams []*models.Exam
	if err := e.getDB(tx).WithContext(ctx).Find(&exams).Error; err != nil {
		return nil, fmt.Errorf("failed to load exams: %w", err)
	}
	return exams, nil
}

// UpdateStatus persists only the status column; the sweep calls this for the
// exams whose stored status disagrees with the derived one.
func (e *ExamPostgreSQL) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.ExamStatus) error {
	if err := e.getDB(tx).WithContext(ctx).
		Model(&models.Exam{}).
		Where("id = ?", id).
		Update("status", status).Error; err != nil {
		return fmt.Errorf("failed to update exam status: %w", err)
	}
	cache.InvalidateExamCache(ctx, e.cacheManager, id)
	return nil
}

func (e *ExamPostgreSQL) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	var count int64
	err := e.getDB(tx).WithContext(ctx).
		Model(&models.Exam{}).
		Where("id = ?", id).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check exam existence: %w", err)
	}
	return count > 0, nil
}
