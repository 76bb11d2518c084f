package services

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/edutrack/exam-service/internal/events"
	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/validator"
)

func newTestExamService(examRepo *mockExamRepository) ExamService {
	logger := slog.New(slog.DiscardHandler)
	repo := &mockRepository{exam: examRepo}
	notify := NewNotificationEventService(repo, events.NewMockEventPublisher(logger), logger, validator.New())
	return NewExamService(repo, nil, notify, nil, logger, validator.New())
}

func TestSweepStatusesPersistsOnlyDrift(t *testing.T) {
	now := time.Now()

	exams := []*models.Exam{
		// Stored status already correct, must not be written.
		{ID: 1, Date: now.Add(time.Hour), Duration: 60, Status: models.ExamUpcoming},
		// Window passed but stored status stale.
		{ID: 2, Date: now.Add(-2 * time.Hour), Duration: 60, Status: models.ExamActive},
		// Window started but stored status stale.
		{ID: 3, Date: now.Add(-10 * time.Minute), Duration: 60, Status: models.ExamUpcoming},
	}

	var mu sync.Mutex
	updates := map[uint]models.ExamStatus{}

	examRepo := &mockExamRepository{
		getAllFn: func(ctx context.Context) ([]*models.Exam, error) {
			return exams, nil
		},
		updateStatusFn: func(ctx context.Context, id uint, status models.ExamStatus) error {
			mu.Lock()
			defer mu.Unlock()
			updates[id] = status
			return nil
		},
	}

	svc := newTestExamService(examRepo)

	updated, err := svc.SweepStatuses(context.Background())
	if err != nil {
		t.Fatalf("SweepStatuses: %v", err)
	}
	if updated != 2 {
		t.Fatalf("updated = %d, want 2", updated)
	}

	if _, ok := updates[1]; ok {
		t.Error("exam 1 was written despite matching status")
	}
	if got := updates[2]; got != models.ExamCompleted {
		t.Errorf("exam 2 status = %q, want completed", got)
	}
	if got := updates[3]; got != models.ExamActive {
		t.Errorf("exam 3 status = %q, want active", got)
	}
}

func TestGetByIDDerivesStatus(t *testing.T) {
	now := time.Now()
	examRepo := &mockExamRepository{
		getByIDFn: func(ctx context.Context, id uint) (*models.Exam, error) {
			// Stored status is stale on purpose.
			return &models.Exam{
				ID:       id,
				Date:     now.Add(-30 * time.Minute),
				Duration: 60,
				Status:   models.ExamUpcoming,
			}, nil
		},
	}

	svc := newTestExamService(examRepo)

	exam, err := svc.GetByID(context.Background(), 9)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if exam.Status != models.ExamActive {
		t.Errorf("status = %q, want active (derived, not stored)", exam.Status)
	}
}

func TestGetByIDNotFound(t *testing.T) {
	svc := newTestExamService(&mockExamRepository{})

	_, err := svc.GetByID(context.Background(), 404)
	if err != ErrExamNotFound {
		t.Fatalf("err = %v, want ErrExamNotFound", err)
	}
}
