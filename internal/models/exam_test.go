package models

import (
	"testing"
	"time"
)

func TestExamStatusAt(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	exam := &Exam{Name: "Midterm", Date: start, Duration: 60}

	tests := []struct {
		name string
		now  time.Time
		want ExamStatus
	}{
		{name: "one second before start", now: start.Add(-time.Second), want: ExamUpcoming},
		{name: "exact start instant", now: start, want: ExamActive},
		{name: "mid window", now: start.Add(30 * time.Minute), want: ExamActive},
		{name: "exact end instant", now: start.Add(60 * time.Minute), want: ExamActive},
		{name: "one second past end", now: start.Add(60*time.Minute + time.Second), want: ExamCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exam.StatusAt(tt.now); got != tt.want {
				t.Errorf("StatusAt(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}

// The three predicates must partition the timeline: for any instant exactly
// one status holds.
func TestExamStatusAtPartition(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	exam := &Exam{Date: start, Duration: 45}

	for offset := -120; offset <= 120; offset++ {
		now := start.Add(time.Duration(offset) * time.Minute)
		got := exam.StatusAt(now)
		if got != ExamUpcoming && got != ExamActive && got != ExamCompleted {
			t.Fatalf("StatusAt(%v) returned unexpected status %q", now, got)
		}
	}
}

func TestNormalizeQuestionType(t *testing.T) {
	tests := []struct {
		raw  string
		want QuestionType
		ok   bool
	}{
		{"multiple_choice", MultipleChoice, true},
		{"written", Written, true},
		{"mcq", MultipleChoice, true},
		{"short_answer", Written, true},
		{"essay", Written, true},
		{"free_text", Written, true},
		{"true_false", "", false},
		{"", "", false},
		{"bogus", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeQuestionType(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("NormalizeQuestionType(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(85, 100); got != 85.0 {
		t.Errorf("Percent(85, 100) = %v, want 85.0", got)
	}
	// Lowering total marks after the fact is not clamped.
	if got := Percent(85, 50); got != 170.0 {
		t.Errorf("Percent(85, 50) = %v, want 170.0", got)
	}
	if got := Percent(10, 0); got != 0 {
		t.Errorf("Percent(10, 0) = %v, want 0", got)
	}
}

func TestPaperDocumentRecomputeMetadata(t *testing.T) {
	now := time.Now()
	doc := &PaperDocument{
		PaperID: 1,
		ExamID:  2,
		Questions: []QuestionRecord{
			{ID: "a", Marks: 5},
			{ID: "b", Marks: 10},
		},
	}
	doc.RecomputeMetadata(now)

	if doc.Metadata.TotalQuestions != 2 {
		t.Errorf("TotalQuestions = %d, want 2", doc.Metadata.TotalQuestions)
	}
	if doc.Metadata.TotalMarks != 15 {
		t.Errorf("TotalMarks = %d, want 15", doc.Metadata.TotalMarks)
	}
	if !doc.Metadata.LastUpdated.Equal(now) {
		t.Errorf("LastUpdated = %v, want %v", doc.Metadata.LastUpdated, now)
	}
}
