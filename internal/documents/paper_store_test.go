package documents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/spf13/afero"

	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/storage"
)

func newTestStore(t *testing.T) *PaperStore {
	t.Helper()

	fs := storage.NewFilesystemStorage(afero.NewMemMapFs())
	logger := slog.New(slog.DiscardHandler)
	return NewPaperStore(fs, nil, logger)
}

func mcQuestion(text string, marks int) models.QuestionRecord {
	return models.QuestionRecord{
		Question:      text,
		Type:          models.MultipleChoice,
		Options:       []string{"A", "B", "C"},
		CorrectAnswer: "B",
		Marks:         marks,
	}
}

func TestGetQuestionsMissingDocument(t *testing.T) {
	store := newTestStore(t)

	qs, err := store.GetQuestions(context.Background(), 1, 999)
	if err != nil {
		t.Fatalf("GetQuestions on missing document returned error: %v", err)
	}
	if len(qs) != 0 {
		t.Errorf("expected empty list, got %d questions", len(qs))
	}
}

func TestSaveQuestionsRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	in := []models.QuestionRecord{
		mcQuestion("What is 2+2?", 5),
		{Question: "Explain gravity.", Type: models.Written, Marks: 10},
	}

	doc, err := store.SaveQuestions(ctx, 3, 1, in, 0)
	if err != nil {
		t.Fatalf("SaveQuestions failed: %v", err)
	}
	if doc.Version != 1 {
		t.Errorf("first save produced version %d, want 1", doc.Version)
	}
	if doc.Metadata.TotalQuestions != 2 || doc.Metadata.TotalMarks != 15 {
		t.Errorf("metadata = %+v, want 2 questions / 15 marks", doc.Metadata)
	}

	got, err := store.GetQuestions(ctx, 3, 1)
	if err != nil {
		t.Fatalf("GetQuestions failed: %v", err)
	}
	if len(got) != len(in) {
		t.Fatalf("round-trip returned %d questions, want %d", len(got), len(in))
	}
	for i, q := range got {
		if q.OrderIndex != i {
			t.Errorf("question %d has OrderIndex %d, want %d", i, q.OrderIndex, i)
		}
		if q.ID == "" {
			t.Errorf("question %d has empty ID", i)
		}
		if q.Question != in[i].Question || q.Type != in[i].Type || q.Marks != in[i].Marks {
			t.Errorf("question %d = %+v, want fields of %+v", i, q, in[i])
		}
	}
}

func TestSaveQuestionsVersionConflict(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.SaveQuestions(ctx, 3, 1, []models.QuestionRecord{mcQuestion("q", 1)}, 0); err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	// A stale writer holding version 0 must be rejected, not silently win.
	_, err := store.SaveQuestions(ctx, 3, 1, nil, 0)
	if !errors.Is(err, ErrVersionConflict) {
		t.Errorf("stale save returned %v, want ErrVersionConflict", err)
	}

	// Re-read and retry succeeds.
	doc, err := store.GetDocument(ctx, 3, 1)
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if _, err := store.SaveQuestions(ctx, 3, 1, nil, doc.Version); err != nil {
		t.Errorf("retry with fresh version failed: %v", err)
	}
}

func TestSaveQuestionsCreateRequiresVersionZero(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveQuestions(context.Background(), 9, 9, nil, 4)
	if !errors.Is(err, ErrVersionConflict) {
		t.Errorf("create with non-zero version returned %v, want ErrVersionConflict", err)
	}
}

func TestAddQuestionAppendsContiguously(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	const n = 5
	for i := 0; i < n; i++ {
		rec, err := store.AddQuestion(ctx, 2, 7, mcQuestion(fmt.Sprintf("q%d", i), 2))
		if err != nil {
			t.Fatalf("AddQuestion %d failed: %v", i, err)
		}
		if rec.OrderIndex != i {
			t.Errorf("AddQuestion %d assigned OrderIndex %d, want %d", i, rec.OrderIndex, i)
		}
	}

	qs, err := store.GetQuestions(ctx, 2, 7)
	if err != nil {
		t.Fatalf("GetQuestions failed: %v", err)
	}
	if len(qs) != n {
		t.Fatalf("got %d questions, want %d", len(qs), n)
	}
	for i, q := range qs {
		if q.OrderIndex != i {
			t.Errorf("OrderIndex at position %d = %d, want %d", i, q.OrderIndex, i)
		}
	}
}

func TestUpdateQuestion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec, err := store.AddQuestion(ctx, 2, 7, mcQuestion("original", 2))
	if err != nil {
		t.Fatalf("AddQuestion failed: %v", err)
	}

	text := "rewritten"
	marks := 4
	updated, err := store.UpdateQuestion(ctx, 2, 7, rec.ID, QuestionPatch{Question: &text, Marks: &marks})
	if err != nil {
		t.Fatalf("UpdateQuestion failed: %v", err)
	}
	if updated.Question != "rewritten" || updated.Marks != 4 {
		t.Errorf("updated question = %+v", updated)
	}

	doc, err := store.GetDocument(ctx, 2, 7)
	if err != nil {
		t.Fatalf("GetDocument failed: %v", err)
	}
	if doc.Metadata.TotalMarks != 4 {
		t.Errorf("TotalMarks = %d after update, want 4", doc.Metadata.TotalMarks)
	}

	if _, err := store.UpdateQuestion(ctx, 2, 7, "no-such-id", QuestionPatch{Question: &text}); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("update of unknown id returned %v, want ErrQuestionNotFound", err)
	}
}

func TestUpdateQuestionToWrittenDropsChoiceFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec, err := store.AddQuestion(ctx, 2, 7, mcQuestion("q", 2))
	if err != nil {
		t.Fatalf("AddQuestion failed: %v", err)
	}

	written := models.Written
	updated, err := store.UpdateQuestion(ctx, 2, 7, rec.ID, QuestionPatch{Type: &written})
	if err != nil {
		t.Fatalf("UpdateQuestion failed: %v", err)
	}
	if updated.Options != nil || updated.CorrectAnswer != "" {
		t.Errorf("written question kept choice fields: %+v", updated)
	}
}

func TestDeleteQuestionIdempotence(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		rec, err := store.AddQuestion(ctx, 4, 1, mcQuestion(fmt.Sprintf("q%d", i), 1))
		if err != nil {
			t.Fatalf("AddQuestion failed: %v", err)
		}
		ids = append(ids, rec.ID)
	}

	if err := store.DeleteQuestion(ctx, 4, 1, ids[1]); err != nil {
		t.Fatalf("DeleteQuestion failed: %v", err)
	}

	// Second delete of the same id is a detectable no-op.
	if err := store.DeleteQuestion(ctx, 4, 1, ids[1]); !errors.Is(err, ErrQuestionNotFound) {
		t.Errorf("second delete returned %v, want ErrQuestionNotFound", err)
	}

	qs, err := store.GetQuestions(ctx, 4, 1)
	if err != nil {
		t.Fatalf("GetQuestions failed: %v", err)
	}
	if len(qs) != 2 {
		t.Fatalf("got %d questions after delete, want 2", len(qs))
	}
	// Indexes stay contiguous after removal.
	for i, q := range qs {
		if q.OrderIndex != i {
			t.Errorf("OrderIndex at position %d = %d, want %d", i, q.OrderIndex, i)
		}
	}
	if qs[0].ID != ids[0] || qs[1].ID != ids[2] {
		t.Errorf("surviving questions are %s,%s; want %s,%s", qs[0].ID, qs[1].ID, ids[0], ids[2])
	}
}

func TestDeleteAllAndGetAllByExam(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for paper := uint(1); paper <= 3; paper++ {
		if _, err := store.AddQuestion(ctx, 6, paper, mcQuestion("q", 1)); err != nil {
			t.Fatalf("AddQuestion failed: %v", err)
		}
	}
	// Another exam's document must not leak into exam 6's listing.
	if _, err := store.AddQuestion(ctx, 60, 1, mcQuestion("q", 1)); err != nil {
		t.Fatalf("AddQuestion failed: %v", err)
	}

	docs, err := store.GetAllByExam(ctx, 6)
	if err != nil {
		t.Fatalf("GetAllByExam failed: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("GetAllByExam returned %d documents, want 3", len(docs))
	}

	if err := store.DeleteAll(ctx, 6, 2); err != nil {
		t.Fatalf("DeleteAll failed: %v", err)
	}
	qs, err := store.GetQuestions(ctx, 6, 2)
	if err != nil || len(qs) != 0 {
		t.Errorf("deleted paper still has questions: %v, err=%v", qs, err)
	}

	if err := store.DeleteByExam(ctx, 6); err != nil {
		t.Fatalf("DeleteByExam failed: %v", err)
	}
	docs, err = store.GetAllByExam(ctx, 6)
	if err != nil {
		t.Fatalf("GetAllByExam after cascade failed: %v", err)
	}
	if len(docs) != 0 {
		t.Errorf("exam folder not empty after DeleteByExam: %d documents", len(docs))
	}

	// The other exam's document survives.
	other, err := store.GetQuestions(ctx, 60, 1)
	if err != nil || len(other) != 1 {
		t.Errorf("unrelated exam document affected: %v, err=%v", other, err)
	}
}

func TestPaperIDFromPath(t *testing.T) {
	tests := []struct {
		path string
		id   uint
		ok   bool
	}{
		{"exams/4/paper-12-questions.json", 12, true},
		{"paper-3-questions.json", 3, true},
		{"exams/4/readme.txt", 0, false},
		{"exams/4/paper-x-questions.json", 0, false},
	}
	for _, tt := range tests {
		id, ok := paperIDFromPath(tt.path)
		if id != tt.id || ok != tt.ok {
			t.Errorf("paperIDFromPath(%q) = (%d, %v), want (%d, %v)", tt.path, id, ok, tt.id, tt.ok)
		}
	}
}
