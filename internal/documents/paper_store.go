// Package documents implements the paper document store: one JSON blob per
// (exam, paper) pair in object storage, holding the paper's metadata and its
// ordered question list. The document is the sole source of truth for its
// questions; the relational side only knows the exam.
package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edutrack/exam-service/internal/cache"
	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/storage"
)

// PaperStore persists paper documents in object storage. Paths are keyed by
// the immutable exam id, never the exam name, so renaming an exam cannot
// strand its documents.
//
// Read-modify-write operations are serialized per document with an in-process
// mutex; the document's version token guards against writers outside this
// process.
type PaperStore struct {
	storage      storage.ObjectStorage
	cacheManager *cache.CacheManager
	logger       *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewPaperStore(store storage.ObjectStorage, cacheManager *cache.CacheManager, logger *slog.Logger) *PaperStore {
	if cacheManager == nil {
		cacheManager = cache.NewCacheManager(nil)
	}
	return &PaperStore{
		storage:      store,
		cacheManager: cacheManager,
		logger:       logger,
		locks:        map[string]*sync.Mutex{},
	}
}

// DocumentPath returns the storage path for one paper document.
func DocumentPath(examID, paperID uint) string {
	return fmt.Sprintf("exams/%d/paper-%d-questions.json", examID, paperID)
}

// ExamPrefix returns the storage prefix holding all of an exam's documents.
func ExamPrefix(examID uint) string {
	return fmt.Sprintf("exams/%d/", examID)
}

func (s *PaperStore) lockFor(examID, paperID uint) *sync.Mutex {
	key := fmt.Sprintf("%d/%d", examID, paperID)
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// GetDocument loads one paper document. Returns ErrPaperNotFound when the
// document was never saved; callers that need the version token for a
// subsequent write go through here.
func (s *PaperStore) GetDocument(ctx context.Context, examID, paperID uint) (*models.PaperDocument, error) {
	cacheKey := fmt.Sprintf("doc:%d:%d", examID, paperID)
	var cached models.PaperDocument
	if err := s.cacheManager.Paper.Get(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	}

	doc, err := s.load(ctx, examID, paperID)
	if err != nil {
		return nil, err
	}

	if err := s.cacheManager.Paper.Set(ctx, cacheKey, doc, cache.PaperCacheConfig.TTL); err != nil {
		s.logger.Warn("Failed to cache paper document", "exam_id", examID, "paper_id", paperID, "error", err)
	}
	return doc, nil
}

// load reads and decodes the document straight from storage.
func (s *PaperStore) load(ctx context.Context, examID, paperID uint) (*models.PaperDocument, error) {
	data, err := s.storage.Download(ctx, DocumentPath(examID, paperID))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, ErrPaperNotFound
		}
		return nil, fmt.Errorf("failed to download paper document: %w", err)
	}

	var doc models.PaperDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode paper document: %w", err)
	}
	return &doc, nil
}

// GetQuestions returns the paper's ordered question list. A document that was
// never saved yields an empty list, not an error.
func (s *PaperStore) GetQuestions(ctx context.Context, examID, paperID uint) ([]models.QuestionRecord, error) {
	doc, err := s.GetDocument(ctx, examID, paperID)
	if err != nil {
		if errors.Is(err, ErrPaperNotFound) {
			return []models.QuestionRecord{}, nil
		}
		return nil, err
	}
	return doc.Questions, nil
}

// SaveQuestions overwrites the document's question list wholesale. The
// expectedVersion must match the stored document's version (0 for a document
// that does not exist yet); a mismatch returns ErrVersionConflict rather than
// silently dropping the concurrent writer's update.
func (s *PaperStore) SaveQuestions(ctx context.Context, examID, paperID uint, questions []models.QuestionRecord, expectedVersion int64) (*models.PaperDocument, error) {
	lock := s.lockFor(examID, paperID)
	lock.Lock()
	defer lock.Unlock()

	current, err := s.load(ctx, examID, paperID)
	switch {
	case errors.Is(err, ErrPaperNotFound):
		if expectedVersion != 0 {
			return nil, ErrVersionConflict
		}
		current = &models.PaperDocument{PaperID: paperID, ExamID: examID}
	case err != nil:
		return nil, err
	default:
		if current.Version != expectedVersion {
			return nil, ErrVersionConflict
		}
	}

	now := time.Now().UTC()
	for i := range questions {
		questions[i].OrderIndex = i
		if questions[i].ID == "" {
			questions[i].ID = uuid.NewString()
			questions[i].CreatedAt = now
		}
		questions[i].UpdatedAt = now
	}

	current.Questions = questions
	return s.write(ctx, current, now)
}

// AddQuestion appends one question: read, append at OrderIndex = previous
// length, recompute totals, write back.
func (s *PaperStore) AddQuestion(ctx context.Context, examID, paperID uint, rec models.QuestionRecord) (*models.QuestionRecord, error) {
	lock := s.lockFor(examID, paperID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.load(ctx, examID, paperID)
	if errors.Is(err, ErrPaperNotFound) {
		doc = &models.PaperDocument{PaperID: paperID, ExamID: examID}
	} else if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec.ID = uuid.NewString()
	rec.OrderIndex = len(doc.Questions)
	rec.CreatedAt = now
	rec.UpdatedAt = now
	doc.Questions = append(doc.Questions, rec)

	if _, err := s.write(ctx, doc, now); err != nil {
		return nil, err
	}
	return &rec, nil
}

// QuestionPatch holds the mutable fields of a question; nil fields are left
// untouched.
type QuestionPatch struct {
	Question      *string
	Type          *models.QuestionType
	Options       []string
	CorrectAnswer *string
	Marks         *int
}

// UpdateQuestion patches one question in place. Returns ErrQuestionNotFound
// when the id is not in the current list.
func (s *PaperStore) UpdateQuestion(ctx context.Context, examID, paperID uint, questionID string, patch QuestionPatch) (*models.QuestionRecord, error) {
	lock := s.lockFor(examID, paperID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.load(ctx, examID, paperID)
	if errors.Is(err, ErrPaperNotFound) {
		return nil, ErrQuestionNotFound
	} else if err != nil {
		return nil, err
	}

	idx := -1
	for i := range doc.Questions {
		if doc.Questions[i].ID == questionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrQuestionNotFound
	}

	now := time.Now().UTC()
	q := &doc.Questions[idx]
	if patch.Question != nil {
		q.Question = *patch.Question
	}
	if patch.Type != nil {
		q.Type = *patch.Type
	}
	if patch.Options != nil {
		q.Options = patch.Options
	}
	if patch.CorrectAnswer != nil {
		q.CorrectAnswer = *patch.CorrectAnswer
	}
	if patch.Marks != nil {
		q.Marks = *patch.Marks
	}
	if q.Type == models.Written {
		// Written questions never carry choice fields, even if an earlier
		// multiple-choice revision left them behind.
		q.Options = nil
		q.CorrectAnswer = ""
	}
	q.UpdatedAt = now

	if _, err := s.write(ctx, doc, now); err != nil {
		return nil, err
	}
	updated := doc.Questions[idx]
	return &updated, nil
}

// DeleteQuestion removes one question and closes the OrderIndex gap so
// indexes stay contiguous. Deleting an id that is not present returns
// ErrQuestionNotFound and leaves the document unchanged, so a repeated
// delete is a detectable no-op.
func (s *PaperStore) DeleteQuestion(ctx context.Context, examID, paperID uint, questionID string) error {
	lock := s.lockFor(examID, paperID)
	lock.Lock()
	defer lock.Unlock()

	doc, err := s.load(ctx, examID, paperID)
	if errors.Is(err, ErrPaperNotFound) {
		return ErrQuestionNotFound
	} else if err != nil {
		return err
	}

	idx := -1
	for i := range doc.Questions {
		if doc.Questions[i].ID == questionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrQuestionNotFound
	}

	doc.Questions = append(doc.Questions[:idx], doc.Questions[idx+1:]...)
	now := time.Now().UTC()
	for i := range doc.Questions {
		if doc.Questions[i].OrderIndex != i {
			doc.Questions[i].OrderIndex = i
			doc.Questions[i].UpdatedAt = now
		}
	}

	_, err = s.write(ctx, doc, now)
	return err
}

// DeleteAll removes the document entirely.
func (s *PaperStore) DeleteAll(ctx context.Context, examID, paperID uint) error {
	lock := s.lockFor(examID, paperID)
	lock.Lock()
	defer lock.Unlock()

	if err := s.storage.Remove(ctx, DocumentPath(examID, paperID)); err != nil {
		return fmt.Errorf("failed to remove paper document: %w", err)
	}
	cache.InvalidatePaperCache(ctx, s.cacheManager, examID, paperID)
	return nil
}

// DeleteByExam removes every document under the exam's folder. Used by the
// exam cascade delete.
func (s *PaperStore) DeleteByExam(ctx context.Context, examID uint) error {
	paths, err := s.storage.List(ctx, ExamPrefix(examID))
	if err != nil {
		return fmt.Errorf("failed to list exam documents: %w", err)
	}
	if len(paths) == 0 {
		return nil
	}
	if err := s.storage.Remove(ctx, paths...); err != nil {
		return fmt.Errorf("failed to remove exam documents: %w", err)
	}
	cache.SafeInvalidatePattern(ctx, s.cacheManager.Paper, fmt.Sprintf("exam:%d:*", examID))
	cache.SafeInvalidatePattern(ctx, s.cacheManager.Paper, fmt.Sprintf("doc:%d:*", examID))
	return nil
}

// GetAllByExam lists the exam's folder and loads every paper document in it.
// One storage round-trip per document; exams hold few papers so this is not
// paginated.
func (s *PaperStore) GetAllByExam(ctx context.Context, examID uint) ([]*models.PaperDocument, error) {
	paths, err := s.storage.List(ctx, ExamPrefix(examID))
	if err != nil {
		return nil, fmt.Errorf("failed to list exam documents: %w", err)
	}

	docs := make([]*models.PaperDocument, 0, len(paths))
	for _, p := range paths {
		paperID, ok := paperIDFromPath(p)
		if !ok {
			s.logger.Warn("Skipping unrecognized object in exam folder", "path", p)
			continue
		}
		doc, err := s.load(ctx, examID, paperID)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// write recomputes metadata, bumps the version and uploads the document.
func (s *PaperStore) write(ctx context.Context, doc *models.PaperDocument, now time.Time) (*models.PaperDocument, error) {
	doc.Version++
	doc.RecomputeMetadata(now)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode paper document: %w", err)
	}

	if err := s.storage.Upload(ctx, DocumentPath(doc.ExamID, doc.PaperID), data, true); err != nil {
		return nil, fmt.Errorf("failed to upload paper document: %w", err)
	}

	cache.InvalidatePaperCache(ctx, s.cacheManager, doc.ExamID, doc.PaperID)
	s.logger.Debug("Paper document saved",
		"exam_id", doc.ExamID,
		"paper_id", doc.PaperID,
		"version", doc.Version,
		"questions", doc.Metadata.TotalQuestions)
	return doc, nil
}

// paperIDFromPath extracts the paper id from "exams/<e>/paper-<p>-questions.json".
func paperIDFromPath(p string) (uint, bool) {
	base := p
	if i := strings.LastIndex(p, "/"); i >= 0 {
		base = p[i+1:]
	}
	if !strings.HasPrefix(base, "paper-") || !strings.HasSuffix(base, "-questions.json") {
		return 0, false
	}
	idStr := strings.TrimSuffix(strings.TrimPrefix(base, "paper-"), "-questions.json")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
