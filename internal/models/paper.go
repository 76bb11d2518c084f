package models

import (
	"time"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	Written        QuestionType = "written"
)

// Legacy type names that older clients still send. Divergent spellings from
// earlier iterations are folded into the two canonical types on input.
var legacyTypeAliases = map[string]QuestionType{
	"mcq":          MultipleChoice,
	"choice":       MultipleChoice,
	"short_answer": Written,
	"essay":        Written,
	"free_text":    Written,
}

// NormalizeQuestionType maps a raw type string to a canonical QuestionType.
// Unknown types (including true_false, which was never fully supported)
// return false.
func NormalizeQuestionType(raw string) (QuestionType, bool) {
	switch QuestionType(raw) {
	case MultipleChoice, Written:
		return QuestionType(raw), true
	}
	if t, ok := legacyTypeAliases[raw]; ok {
		return t, true
	}
	return "", false
}

// QuestionRecord is one question inside a paper document. Multiple-choice
// questions carry Options and CorrectAnswer; written questions carry neither.
type QuestionRecord struct {
	ID            string       `json:"id"`
	Question      string       `json:"question"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	Marks         int          `json:"marks"`
	OrderIndex    int          `json:"order_index"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type PaperMetadata struct {
	TotalQuestions int       `json:"total_questions"`
	TotalMarks     int       `json:"total_marks"`
	LastUpdated    time.Time `json:"last_updated"`
}

// PaperDocument is the file-backed source of truth for a paper's questions,
// one JSON blob per (exam, paper) pair. Version is a monotonic counter used
// as a write precondition; a stale writer is rejected instead of silently
// overwriting a concurrent update.
type PaperDocument struct {
	PaperID      uint             `json:"paper_id"`
	ExamID       uint             `json:"exam_id"`
	Title        string           `json:"title,omitempty"`
	Instructions string           `json:"instructions,omitempty"`
	Version      int64            `json:"version"`
	Questions    []QuestionRecord `json:"questions"`
	Metadata     PaperMetadata    `json:"metadata"`
}

// RecomputeMetadata refreshes the denormalized totals from the question list.
// Called on every save so the metadata can never drift from the questions.
func (d *PaperDocument) RecomputeMetadata(now time.Time) {
	total := 0
	for _, q := range d.Questions {
		total += q.Marks
	}
	d.Metadata = PaperMetadata{
		TotalQuestions: len(d.Questions),
		TotalMarks:     total,
		LastUpdated:    now,
	}
}
