package validator

import (
	"testing"
	"time"

	"github.com/edutrack/exam-service/internal/models"
)

func TestValidateExamCreate(t *testing.T) {
	bv := NewBusinessValidator()

	valid := &ExamCreateRequest{
		Name:       "Midterm Mathematics",
		Subject:    "Mathematics",
		Date:       time.Date(2026, 9, 15, 9, 0, 0, 0, time.UTC),
		Duration:   90,
		TotalMarks: 100,
	}
	if errs := bv.ValidateExamCreate(valid); errs.HasErrors() {
		t.Fatalf("expected valid request, got %v", errs)
	}

	tests := []struct {
		name   string
		mutate func(r *ExamCreateRequest)
		field  string
	}{
		{"empty name", func(r *ExamCreateRequest) { r.Name = "  " }, "name"},
		{"zero duration", func(r *ExamCreateRequest) { r.Duration = 0 }, "duration"},
		{"duration too long", func(r *ExamCreateRequest) { r.Duration = 601 }, "duration"},
		{"zero marks", func(r *ExamCreateRequest) { r.TotalMarks = 0 }, "total_marks"},
		{"zero date", func(r *ExamCreateRequest) { r.Date = time.Time{} }, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := *valid
			tt.mutate(&req)
			errs := bv.ValidateExamCreate(&req)
			if !errs.HasErrors() {
				t.Fatalf("expected validation error on %s", tt.field)
			}
		})
	}
}

func TestValidateQuestionCreateMultipleChoice(t *testing.T) {
	bv := NewBusinessValidator()

	valid := &QuestionCreateRequest{
		Question:      "What is 2 + 2?",
		Type:          "multiple_choice",
		Options:       []string{"3", "4", "5"},
		CorrectAnswer: "4",
		Marks:         5,
	}
	if errs := bv.ValidateQuestionCreate(valid); errs.HasErrors() {
		t.Fatalf("expected valid request, got %v", errs)
	}

	tests := []struct {
		name   string
		mutate func(r *QuestionCreateRequest)
	}{
		{"one option", func(r *QuestionCreateRequest) { r.Options = []string{"4"}; r.CorrectAnswer = "4" }},
		{"blank option", func(r *QuestionCreateRequest) { r.Options = []string{"4", "  "} }},
		{"missing correct answer", func(r *QuestionCreateRequest) { r.CorrectAnswer = "" }},
		{"answer not among options", func(r *QuestionCreateRequest) { r.CorrectAnswer = "6" }},
		{"zero marks", func(r *QuestionCreateRequest) { r.Marks = 0 }},
		{"unsupported type", func(r *QuestionCreateRequest) { r.Type = "true_false" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := *valid
			req.Options = append([]string(nil), valid.Options...)
			tt.mutate(&req)
			if errs := bv.ValidateQuestionCreate(&req); !errs.HasErrors() {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidateQuestionCreateWritten(t *testing.T) {
	bv := NewBusinessValidator()

	valid := &QuestionCreateRequest{
		Question: "Explain the water cycle.",
		Type:     "written",
		Marks:    10,
	}
	if errs := bv.ValidateQuestionCreate(valid); errs.HasErrors() {
		t.Fatalf("expected valid request, got %v", errs)
	}

	// Legacy aliases resolve to written and follow the same rules.
	alias := *valid
	alias.Type = "essay"
	if errs := bv.ValidateQuestionCreate(&alias); errs.HasErrors() {
		t.Fatalf("expected essay alias to validate, got %v", errs)
	}

	withOptions := *valid
	withOptions.Options = []string{"a", "b"}
	if errs := bv.ValidateQuestionCreate(&withOptions); !errs.HasErrors() {
		t.Fatal("expected error for options on written question")
	}

	withAnswer := *valid
	withAnswer.CorrectAnswer = "rain"
	if errs := bv.ValidateQuestionCreate(&withAnswer); !errs.HasErrors() {
		t.Fatal("expected error for correct answer on written question")
	}
}

func TestValidateQuestionUpdateEffectiveState(t *testing.T) {
	bv := NewBusinessValidator()

	existing := &models.QuestionRecord{
		ID:            "q1",
		Question:      "Pick one",
		Type:          models.MultipleChoice,
		Options:       []string{"a", "b"},
		CorrectAnswer: "a",
		Marks:         5,
	}

	// Patching only the answer must be checked against the stored options.
	bad := "c"
	errs := bv.ValidateQuestionUpdate(&QuestionUpdateRequest{CorrectAnswer: &bad}, existing)
	if !errs.HasErrors() {
		t.Fatal("expected error for answer outside stored options")
	}

	good := "b"
	errs = bv.ValidateQuestionUpdate(&QuestionUpdateRequest{CorrectAnswer: &good}, existing)
	if errs.HasErrors() {
		t.Fatalf("expected valid patch, got %v", errs)
	}

	// Converting to written drops the choice rules entirely.
	written := "written"
	errs = bv.ValidateQuestionUpdate(&QuestionUpdateRequest{Type: &written}, existing)
	if errs.HasErrors() {
		t.Fatalf("expected conversion to written to validate, got %v", errs)
	}
}

func TestValidateResultCreate(t *testing.T) {
	bv := NewBusinessValidator()

	exam := &models.Exam{
		Name:       "Final",
		Subject:    "Physics",
		Date:       time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC),
		Duration:   60,
		TotalMarks: 50,
	}

	valid := &ResultCreateRequest{StudentID: 1, ExamID: 2, Score: 42}
	if errs := bv.ValidateResultCreate(valid, exam); errs.HasErrors() {
		t.Fatalf("expected valid request, got %v", errs)
	}

	early := exam.Date.Add(-time.Hour)
	errs := bv.ValidateResultCreate(&ResultCreateRequest{
		StudentID: 1, ExamID: 2, Score: 10, SubmittedAt: &early,
	}, exam)
	if !errs.HasErrors() {
		t.Fatal("expected error for submission before exam start")
	}
}
