package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/repositories"
	"github.com/edutrack/exam-service/internal/validator"
)

type resultService struct {
	repo      repositories.Repository
	events    NotificationEventService
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewResultService(repo repositories.Repository, events NotificationEventService, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) ResultService {
	return &resultService{
		repo:      repo,
		events:    events,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// Record stores a new result. The percentage is computed here from the exam's
// TotalMarks at write time; one result per (student, exam) pair is enforced
// both here and by the unique index underneath.
func (s *resultService) Record(ctx context.Context, req *CreateResultRequest) (*models.Result, error) {
	exam, err := s.repo.Exam().GetByID(ctx, nil, req.ExamID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	if errs := s.validator.GetBusinessValidator().ValidateResultCreate(req, exam); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	exists, err := s.repo.Student().Exists(ctx, nil, req.StudentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrStudentNotFound
	}

	if _, err := s.repo.Result().GetByStudentAndExam(ctx, nil, req.StudentID, req.ExamID); err == nil {
		return nil, ErrDuplicateResult
	} else if !repositories.IsNotFoundError(err) {
		return nil, err
	}

	submittedAt := time.Now()
	if req.SubmittedAt != nil {
		submittedAt = *req.SubmittedAt
	}

	result := &models.Result{
		StudentID:   req.StudentID,
		ExamID:      req.ExamID,
		Score:       req.Score,
		Percentage:  models.Percent(req.Score, exam.TotalMarks),
		SubmittedAt: submittedAt,
	}

	if err := s.repo.Result().Create(ctx, nil, result); err != nil {
		return nil, fmt.Errorf("failed to record result: %w", err)
	}

	if err := s.events.PublishResultRecorded(ctx, result); err != nil {
		s.logger.Warn("Failed to publish result recorded event", "result_id", result.ID, "error", err)
	}

	s.logger.Info("Result recorded",
		"result_id", result.ID, "student_id", req.StudentID,
		"exam_id", req.ExamID, "score", req.Score)
	return result, nil
}

func (s *resultService) GetByID(ctx context.Context, id uint) (*models.Result, error) {
	result, err := s.repo.Result().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}

	if err := s.attachRank(ctx, result); err != nil {
		s.logger.Warn("Failed to compute rank", "result_id", id, "error", err)
	}
	return result, nil
}

// Update re-scores a result. The stored percentage is recomputed from the
// exam's current TotalMarks whenever the score changes.
func (s *resultService) Update(ctx context.Context, id uint, req *UpdateResultRequest) (*models.Result, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(FieldErrors(err))
	}

	result, err := s.repo.Result().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}

	if req.Score != nil {
		exam, err := s.repo.Exam().GetByID(ctx, nil, result.ExamID)
		if err != nil {
			return nil, err
		}
		result.Score = *req.Score
		result.Percentage = models.Percent(result.Score, exam.TotalMarks)
	}
	if req.SubmittedAt != nil {
		result.SubmittedAt = *req.SubmittedAt
	}

	if err := s.repo.Result().Update(ctx, nil, result); err != nil {
		return nil, fmt.Errorf("failed to update result: %w", err)
	}

	if req.Score != nil {
		if err := s.events.PublishResultRecorded(ctx, result); err != nil {
			s.logger.Warn("Failed to publish rescore event", "result_id", result.ID, "error", err)
		}
	}

	return result, nil
}

func (s *resultService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Result().GetByID(ctx, nil, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrResultNotFound
		}
		return err
	}
	if err := s.repo.Result().Delete(ctx, nil, id); err != nil {
		return fmt.Errorf("failed to delete result: %w", err)
	}
	s.logger.Info("Result deleted", "result_id", id)
	return nil
}

func (s *resultService) List(ctx context.Context, filters repositories.ResultFilters) (*ResultListResponse, error) {
	results, total, err := s.repo.Result().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return &ResultListResponse{
		Results: results,
		Total:   total,
		Page:    pageFromOffset(filters.Offset, filters.Limit),
		Size:    filters.Limit,
	}, nil
}

// GetExamResults returns the full ranked scoreboard for one exam.
func (s *resultService) GetExamResults(ctx context.Context, examID uint) (*ExamResultsResponse, error) {
	exists, err := s.repo.Exam().Exists(ctx, nil, examID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrExamNotFound
	}

	results, err := s.repo.Result().GetByExam(ctx, nil, examID)
	if err != nil {
		return nil, err
	}

	RankResults(results)

	stats, err := s.repo.Result().GetExamStats(ctx, nil, examID)
	if err != nil {
		return nil, err
	}

	return &ExamResultsResponse{
		ExamID:  examID,
		Results: results,
		Stats:   stats,
	}, nil
}

func (s *resultService) GetStudentPerformance(ctx context.Context, studentID uint) (*StudentPerformance, error) {
	exists, err := s.repo.Student().Exists(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrStudentNotFound
	}

	results, err := s.repo.Result().GetByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}

	perf := &StudentPerformance{
		StudentID:  studentID,
		Results:    results,
		ExamsTaken: len(results),
	}
	if len(results) > 0 {
		sum := 0.0
		for _, r := range results {
			sum += r.Percentage
		}
		perf.AveragePercentage = sum / float64(len(results))
	}
	return perf, nil
}

// attachRank fills the computed Rank and TotalParticipants fields for one
// result from its exam's peer set.
func (s *resultService) attachRank(ctx context.Context, result *models.Result) error {
	peers, err := s.repo.Result().GetByExam(ctx, nil, result.ExamID)
	if err != nil {
		return err
	}
	result.Rank = rankWithin(peers, result.Score)
	result.TotalParticipants = len(peers)
	return nil
}

// RankResults assigns competition ranking over a peer set: rank is one plus
// the number of strictly greater scores, so equal scores share a rank and the
// next distinct score skips the tied positions.
func RankResults(results []*models.Result) {
	for _, r := range results {
		r.Rank = rankWithin(results, r.Score)
		r.TotalParticipants = len(results)
	}
}

func rankWithin(peers []*models.Result, score float64) int {
	rank := 1
	for _, p := range peers {
		if p.Score > score {
			rank++
		}
	}
	return rank
}
