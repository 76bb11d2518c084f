package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/repositories"
)

type DashboardPostgreSQL struct {
	db *gorm.DB
}

func NewDashboardPostgreSQL(db *gorm.DB) repositories.DashboardRepository {
	return &DashboardPostgreSQL{db: db}
}

func (d *DashboardPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return d.db
}

// GetStats aggregates the admin dashboard counters in a handful of queries.
func (d *DashboardPostgreSQL) GetStats(ctx context.Context, tx *gorm.DB) (*repositories.DashboardStats, error) {
	db := d.getDB(tx).WithContext(ctx)
	stats := &repositories.DashboardStats{
		ExamsByStatus: make(map[models.ExamStatus]int64),
	}

	if err := db.Model(&models.Exam{}).Count(&stats.TotalExams).Error; err != nil {
		return nil, fmt.Errorf("failed to count exams: %w", err)
	}

	var statusCounts []struct {
		Status models.ExamStatus
		Count  int64
	}
	if err := db.Model(&models.Exam{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, fmt.Errorf("failed to count exams by status: %w", err)
	}
	for _, sc := range statusCounts {
		stats.ExamsByStatus[sc.Status] = sc.Count
	}

	if err := db.Model(&models.Student{}).Count(&stats.TotalStudents).Error; err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}

	if err := db.Model(&models.Result{}).Count(&stats.TotalResults).Error; err != nil {
		return nil, fmt.Errorf("failed to count results: %w", err)
	}

	if stats.TotalResults > 0 {
		if err := db.Model(&models.Result{}).
			Select("COALESCE(AVG(percentage), 0)").
			Scan(&stats.AveragePercent).Error; err != nil {
			return nil, fmt.Errorf("failed to compute average percentage: %w", err)
		}
	}

	if err := db.Model(&models.Result{}).
		Order("submitted_at DESC").
		Limit(5).
		Preload("Student").
		Preload("Exam").
		Find(&stats.RecentResults).Error; err != nil {
		return nil, fmt.Errorf("failed to load recent results: %w", err)
	}

	if err := db.Model(&models.Exam{}).
		Where("date > ?", time.Now()).
		Order("date ASC").
		Limit(5).
		Find(&stats.UpcomingExams).Error; err != nil {
		return nil, fmt.Errorf("failed to load upcoming exams: %w", err)
	}

	return stats, nil
}
