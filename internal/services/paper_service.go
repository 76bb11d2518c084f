package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/edutrack/exam-service/internal/documents"
	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/repositories"
	"github.com/edutrack/exam-service/internal/validator"
)

type paperService struct {
	repo       repositories.Repository
	paperStore *documents.PaperStore
	logger     *slog.Logger
	validator  *validator.Validator
}

func NewPaperService(repo repositories.Repository, paperStore *documents.PaperStore, logger *slog.Logger, validator *validator.Validator) PaperService {
	return &paperService{
		repo:       repo,
		paperStore: paperStore,
		logger:     logger,
		validator:  validator,
	}
}

func (s *paperService) GetPaper(ctx context.Context, examID, paperID uint) (*models.PaperDocument, error) {
	doc, err := s.paperStore.GetDocument(ctx, examID, paperID)
	if err != nil {
		return nil, mapDocumentError(err)
	}
	return doc, nil
}

func (s *paperService) ListPapers(ctx context.Context, examID uint) ([]*models.PaperDocument, error) {
	if err := s.requireExam(ctx, examID); err != nil {
		return nil, err
	}
	docs, err := s.paperStore.GetAllByExam(ctx, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to list papers: %w", err)
	}
	return docs, nil
}

// GetQuestions returns the paper's questions; a paper that has never been
// written yields an empty list rather than an error.
func (s *paperService) GetQuestions(ctx context.Context, examID, paperID uint) ([]models.QuestionRecord, error) {
	questions, err := s.paperStore.GetQuestions(ctx, examID, paperID)
	if err != nil {
		return nil, mapDocumentError(err)
	}
	return questions, nil
}

// ReplaceQuestions swaps the paper's entire question list under the version
// precondition carried in the request. The first write to a paper must carry
// version 0.
func (s *paperService) ReplaceQuestions(ctx context.Context, examID, paperID uint, req *ReplaceQuestionsRequest) (*models.PaperDocument, error) {
	if err := s.requireExam(ctx, examID); err != nil {
		return nil, err
	}

	var allErrs validator.ValidationErrors
	records := make([]models.QuestionRecord, 0, len(req.Questions))
	for i, qr := range req.Questions {
		q := qr
		if errs := s.validator.GetBusinessValidator().ValidateQuestionCreate(&q); len(errs) > 0 {
			for _, e := range errs {
				e.Field = fmt.Sprintf("questions[%d].%s", i, e.Field)
				allErrs = append(allErrs, e)
			}
			continue
		}
		records = append(records, s.toRecord(&q))
	}
	if len(allErrs) > 0 {
		return nil, NewValidationError(allErrs)
	}

	doc, err := s.paperStore.SaveQuestions(ctx, examID, paperID, records, req.Version)
	if err != nil {
		return nil, mapDocumentError(err)
	}

	s.logger.Info("Paper questions replaced",
		"exam_id", examID, "paper_id", paperID,
		"count", len(records), "version", doc.Version)
	return doc, nil
}

func (s *paperService) AddQuestion(ctx context.Context, examID, paperID uint, req *CreateQuestionRequest) (*models.QuestionRecord, error) {
	if err := s.requireExam(ctx, examID); err != nil {
		return nil, err
	}

	if errs := s.validator.GetBusinessValidator().ValidateQuestionCreate(req); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	rec, err := s.paperStore.AddQuestion(ctx, examID, paperID, s.toRecord(req))
	if err != nil {
		return nil, mapDocumentError(err)
	}

	s.logger.Info("Question added", "exam_id", examID, "paper_id", paperID, "question_id", rec.ID)
	return rec, nil
}

func (s *paperService) UpdateQuestion(ctx context.Context, examID, paperID uint, questionID string, req *UpdateQuestionRequest) (*models.QuestionRecord, error) {
	existing, err := s.findQuestion(ctx, examID, paperID, questionID)
	if err != nil {
		return nil, err
	}

	if errs := s.validator.GetBusinessValidator().ValidateQuestionUpdate(req, existing); len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	patch := documents.QuestionPatch{
		Question:      req.Question,
		Options:       req.Options,
		CorrectAnswer: req.CorrectAnswer,
		Marks:         req.Marks,
	}
	if req.Type != nil {
		// The validator already vouched for the type, including aliases.
		t, _ := models.NormalizeQuestionType(*req.Type)
		patch.Type = &t
	}

	rec, err := s.paperStore.UpdateQuestion(ctx, examID, paperID, questionID, patch)
	if err != nil {
		return nil, mapDocumentError(err)
	}
	return rec, nil
}

func (s *paperService) DeleteQuestion(ctx context.Context, examID, paperID uint, questionID string) error {
	if err := s.paperStore.DeleteQuestion(ctx, examID, paperID, questionID); err != nil {
		return mapDocumentError(err)
	}
	s.logger.Info("Question deleted", "exam_id", examID, "paper_id", paperID, "question_id", questionID)
	return nil
}

func (s *paperService) DeletePaper(ctx context.Context, examID, paperID uint) error {
	if err := s.paperStore.DeleteAll(ctx, examID, paperID); err != nil {
		return mapDocumentError(err)
	}
	s.logger.Info("Paper deleted", "exam_id", examID, "paper_id", paperID)
	return nil
}

// requireExam rejects writes against exams that do not exist, so documents
// can never outlive or precede their exam row.
func (s *paperService) requireExam(ctx context.Context, examID uint) error {
	exists, err := s.repo.Exam().Exists(ctx, nil, examID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrExamNotFound
	}
	return nil
}

func (s *paperService) findQuestion(ctx context.Context, examID, paperID uint, questionID string) (*models.QuestionRecord, error) {
	doc, err := s.paperStore.GetDocument(ctx, examID, paperID)
	if err != nil {
		if errors.Is(err, documents.ErrPaperNotFound) {
			return nil, ErrQuestionNotFound
		}
		return nil, mapDocumentError(err)
	}
	for i := range doc.Questions {
		if doc.Questions[i].ID == questionID {
			return &doc.Questions[i], nil
		}
	}
	return nil, ErrQuestionNotFound
}

func (s *paperService) toRecord(req *CreateQuestionRequest) models.QuestionRecord {
	qType, _ := models.NormalizeQuestionType(req.Type)
	rec := models.QuestionRecord{
		Question: req.Question,
		Type:     qType,
		Marks:    req.Marks,
	}
	if qType == models.MultipleChoice {
		rec.Options = req.Options
		rec.CorrectAnswer = req.CorrectAnswer
	}
	return rec
}

// mapDocumentError converts document-store sentinels to service sentinels.
func mapDocumentError(err error) error {
	switch {
	case errors.Is(err, documents.ErrPaperNotFound):
		return ErrPaperNotFound
	case errors.Is(err, documents.ErrQuestionNotFound):
		return ErrQuestionNotFound
	case errors.Is(err, documents.ErrVersionConflict):
		return ErrVersionConflict
	default:
		return err
	}
}
