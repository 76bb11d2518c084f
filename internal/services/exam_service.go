package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/edutrack/exam-service/internal/documents"
	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/repositories"
	"github.com/edutrack/exam-service/internal/validator"
)

type examService struct {
	repo       repositories.Repository
	paperStore *documents.PaperStore
	events     NotificationEventService
	db         *gorm.DB
	logger     *slog.Logger
	validator  *validator.Validator
}

func NewExamService(repo repositories.Repository, paperStore *documents.PaperStore, events NotificationEventService, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ExamService {
	return &examService{
		repo:       repo,
		paperStore: paperStore,
		events:     events,
		db:         db,
		logger:     logger,
		validator:  validator,
	}
}

// ===== CORE CRUD OPERATIONS =====

func (s *examService) Create(ctx context.Context, req *CreateExamRequest, createdBy string) (*models.Exam, error) {
	s.logger.Info("Creating exam", "name", req.Name, "created_by", createdBy)

	if errs := s.validator.GetBusinessValidator().ValidateExamCreate(req); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	now := time.Now()
	exam := &models.Exam{
		Name:        req.Name,
		Subject:     req.Subject,
		Description: req.Description,
		Date:        req.Date,
		Duration:    req.Duration,
		TotalMarks:  req.TotalMarks,
		CreatedBy:   createdBy,
	}
	// Stored status starts at the derived value, not a fixed default; an exam
	// scheduled in the past is active or completed from the moment it exists.
	exam.Status = exam.StatusAt(now)

	if err := s.repo.Exam().Create(ctx, nil, exam); err != nil {
		return nil, fmt.Errorf("failed to create exam: %w", err)
	}

	if err := s.events.PublishExamCreated(ctx, exam); err != nil {
		s.logger.Warn("Failed to publish exam created event", "exam_id", exam.ID, "error", err)
	}

	s.logger.Info("Exam created successfully", "exam_id", exam.ID)
	return exam, nil
}

func (s *examService) GetByID(ctx context.Context, id uint) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	s.resolveStatuses(time.Now(), exam)
	return exam, nil
}

func (s *examService) Update(ctx context.Context, id uint, req *UpdateExamRequest) (*models.Exam, error) {
	exam, err := s.repo.Exam().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	if errs := s.validator.GetBusinessValidator().ValidateExamUpdate(req, exam); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	marksChanged := false
	if req.Name != nil {
		exam.Name = *req.Name
	}
	if req.Subject != nil {
		exam.Subject = *req.Subject
	}
	if req.Description != nil {
		exam.Description = req.Description
	}
	if req.Date != nil {
		exam.Date = *req.Date
	}
	if req.Duration != nil {
		exam.Duration = *req.Duration
	}
	if req.TotalMarks != nil && *req.TotalMarks != exam.TotalMarks {
		exam.TotalMarks = *req.TotalMarks
		marksChanged = true
	}

	now := time.Now()
	exam.Status = exam.StatusAt(now)
	exam.UpdatedAt = now

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Exam().Update(ctx, nil, exam); err != nil {
			return err
		}
		// Changing the denominator invalidates every stored percentage for
		// this exam; recompute them in the same transaction.
		if marksChanged {
			return s.recomputePercentages(ctx, txRepo, exam)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update exam: %w", err)
	}

	if err := s.events.PublishExamUpdated(ctx, exam); err != nil {
		s.logger.Warn("Failed to publish exam updated event", "exam_id", exam.ID, "error", err)
	}

	return exam, nil
}

// Delete removes the exam together with its results and paper documents.
// Row deletes run inside one transaction; document removal follows, keyed by
// the immutable exam ID so renames never orphan files.
func (s *examService) Delete(ctx context.Context, id uint) error {
	exists, err := s.repo.Exam().Exists(ctx, nil, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrExamNotFound
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Result().DeleteByExam(ctx, nil, id); err != nil {
			return err
		}
		return txRepo.Exam().Delete(ctx, nil, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete exam: %w", err)
	}

	if err := s.paperStore.DeleteByExam(ctx, id); err != nil {
		// The exam row is gone; surface the orphaned documents loudly but do
		// not fail the delete.
		s.logger.Error("Failed to remove paper documents for deleted exam", "exam_id", id, "error", err)
	}

	if err := s.events.PublishExamDeleted(ctx, id); err != nil {
		s.logger.Warn("Failed to publish exam deleted event", "exam_id", id, "error", err)
	}

	s.logger.Info("Exam deleted", "exam_id", id)
	return nil
}

func (s *examService) List(ctx context.Context, filters repositories.ExamFilters) (*ExamListResponse, error) {
	exams, total, err := s.repo.Exam().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list exams: %w", err)
	}

	s.resolveStatuses(time.Now(), exams...)
	return &ExamListResponse{
		Exams: exams,
		Total: total,
		Page:  pageFromOffset(filters.Offset, filters.Limit),
		Size:  filters.Limit,
	}, nil
}

func (s *examService) Search(ctx context.Context, query string, filters repositories.ExamFilters) (*ExamListResponse, error) {
	exams, total, err := s.repo.Exam().Search(ctx, nil, query, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search exams: %w", err)
	}

	s.resolveStatuses(time.Now(), exams...)
	return &ExamListResponse{
		Exams: exams,
		Total: total,
		Page:  pageFromOffset(filters.Offset, filters.Limit),
		Size:  filters.Limit,
	}, nil
}

// ===== STATUS DERIVATION =====

// resolveStatuses overwrites each exam's stored status with the one derived
// from a single clock read, so every exam in one response agrees on "now".
func (s *examService) resolveStatuses(now time.Time, exams ...*models.Exam) {
	for _, exam := range exams {
		exam.Status = exam.StatusAt(now)
	}
}

// SweepStatuses reconciles the stored status column with the derived status
// for every exam, writing only the rows that disagree. The background ticker
// calls this so listings filtered by the indexed status column stay honest.
func (s *examService) SweepStatuses(ctx context.Context) (int, error) {
	exams, err := s.repo.Exam().GetAll(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("status sweep failed to load exams: %w", err)
	}

	now := time.Now()
	updated := 0
	for _, exam := range exams {
		derived := exam.StatusAt(now)
		if derived == exam.Status {
			continue
		}
		if err := s.repo.Exam().UpdateStatus(ctx, nil, exam.ID, derived); err != nil {
			s.logger.Error("Failed to persist derived status", "exam_id", exam.ID, "status", derived, "error", err)
			continue
		}
		s.logger.Debug("Exam status moved", "exam_id", exam.ID, "from", exam.Status, "to", derived)
		updated++
	}

	if updated > 0 {
		s.logger.Info("Status sweep completed", "updated", updated, "total", len(exams))
	}
	return updated, nil
}

// recomputePercentages rewrites every stored percentage for the exam after
// TotalMarks changed.
func (s *examService) recomputePercentages(ctx context.Context, txRepo repositories.Repository, exam *models.Exam) error {
	results, err := txRepo.Result().GetByExam(ctx, nil, exam.ID)
	if err != nil {
		return err
	}
	for _, result := range results {
		result.Percentage = models.Percent(result.Score, exam.TotalMarks)
		if err := txRepo.Result().Update(ctx, nil, result); err != nil {
			return fmt.Errorf("failed to recompute percentage for result %d: %w", result.ID, err)
		}
	}
	return nil
}

func pageFromOffset(offset, limit int) int {
	if limit <= 0 {
		return 1
	}
	return offset/limit + 1
}
