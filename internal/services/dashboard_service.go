package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/edutrack/exam-service/internal/repositories"
)

type dashboardService struct {
	repo   repositories.Repository
	db     *gorm.DB
	logger *slog.Logger
}

func NewDashboardService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger) DashboardService {
	return &dashboardService{
		repo:   repo,
		db:     db,
		logger: logger,
	}
}

// GetStats aggregates the admin dashboard: counts, per-status breakdown,
// recent results and the next upcoming exams. Statuses in the breakdown are
// re-derived from one clock read so the counters agree with what a listing
// at the same moment would show.
func (s *dashboardService) GetStats(ctx context.Context) (*repositories.DashboardStats, error) {
	stats, err := s.repo.Dashboard().GetStats(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load dashboard stats: %w", err)
	}

	now := time.Now()
	for _, exam := range stats.UpcomingExams {
		exam.Status = exam.StatusAt(now)
	}
	return stats, nil
}
