package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/repositories"
)

type ResultPostgreSQL struct {
	db      *gorm.DB
	helpers *SharedHelpers
}

func NewResultPostgreSQL(db *gorm.DB) repositories.ResultRepository {
	return &ResultPostgreSQL{
		db:      db,
		helpers: NewSharedHelpers(db),
	}
}

func (r *ResultPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *ResultPostgreSQL) Create(ctx context.Context, tx *gorm.DB, result *models.Result) error {
	if err := r.getDB(tx).WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}
	return nil
}

func (r *ResultPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Result, error) {
	var result models.Result
	err := r.getDB(tx).WithContext(ctx).
		Preload("Student").
		Preload("Exam").
		First(&result, id).Error
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return &result, nil
}

func (r *ResultPostgreSQL) GetByStudentAndExam(ctx context.Context, tx *gorm.DB, studentID, examID uint) (*models.Result, error) {
	var result models.Result
	err := r.getDB(tx).WithContext(ctx).
		Where("student_id = ? AND exam_id = ?", studentID, examID).
		First(&result).Error
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get result for student and exam: %w", err)
	}
	return &result, nil
}

func (r *ResultPostgreSQL) Update(ctx context.Context, tx *gorm.DB, result *models.Result) error {
	if err := r.getDB(tx).WithContext(ctx).Save(result).Error; err != nil {
		return fmt.Errorf("failed to update result: %w", err)
	}
	return nil
}

func (r *ResultPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, id uint) error {
	if err := r.getDB(tx).WithContext(ctx).Delete(&models.Result{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	return nil
}

func (r *ResultPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.ResultFilters) ([]*models.Result, int64, error) {
	query := r.getDB(tx).WithContext(ctx).Model(&models.Result{})
	query = r.helpers.ApplyResultFilters(query, filters)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.helpers.ApplyPaginationAndSort(query, filters.SortBy, filters.SortOrder, filters.Limit, filters.Offset)

	var results []*models.Result
	if err := query.Preload("Student").Preload("Exam").Find(&results).Error; err != nil {
		return nil, 0, err
	}

	return results, total, nil
}

// GetByExam returns all results for an exam ordered by score descending,
// which is the order ranking is computed in.
func (r *ResultPostgreSQL) GetByExam(ctx context.Context, tx *gorm.DB, examID uint) ([]*models.Result, error) {
	var results []*models.Result
	err := r.getDB(tx).WithContext(ctx).
		Where("exam_id = ?", examID).
		Order("score DESC, submitted_at ASC").
		Preload("Student").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get results for exam: %w", err)
	}
	return results, nil
}

func (r *ResultPostgreSQL) GetByStudent(ctx context.Context, tx *gorm.DB, studentID uint) ([]*models.Result, error) {
	var results []*models.Result
	err := r.getDB(tx).WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("submitted_at DESC").
		Preload("Exam").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get results for student: %w", err)
	}
	return results, nil
}

func (r *ResultPostgreSQL) DeleteByExam(ctx context.Context, tx *gorm.DB, examID uint) error {
	if err := r.getDB(tx).WithContext(ctx).
		Where("exam_id = ?", examID).
		Delete(&models.Result{}).Error; err != nil {
		return fmt.Errorf("failed to delete results for exam: %w", err)
	}
	return nil
}

func (r *ResultPostgreSQL) DeleteByStudent(ctx context.Context, tx *gorm.DB, studentID uint) error {
	if err := r.getDB(tx).WithContext(ctx).
		Where("student_id = ?", studentID).
		Delete(&models.Result{}).Error; err != nil {
		return fmt.Errorf("failed to delete results for student: %w", err)
	}
	return nil
}

func (r *ResultPostgreSQL) GetExamStats(ctx context.Context, tx *gorm.DB, examID uint) (*repositories.ExamStats, error) {
	var stats repositories.ExamStats
	err := r.getDB(tx).WithContext(ctx).
		Model(&models.Result{}).
		Select(`COUNT(*) as total_results,
			COALESCE(AVG(score), 0) as average_score,
			COALESCE(AVG(percentage), 0) as average_percentage,
			COALESCE(MAX(score), 0) as highest_score,
			COALESCE(MIN(score), 0) as lowest_score`).
		Where("exam_id = ?", examID).
		Scan(&stats).Error
	if err != nil {
		return nil, fmt.Errorf("failed to compute exam stats: %w", err)
	}
	return &stats, nil
}
