package models

import (
	"time"
)

// Result records one student's score for one exam. Percentage is computed at
// write time from the exam's TotalMarks and recomputed whenever either operand
// changes; it is deliberately not clamped, so lowering TotalMarks after the
// fact can push it past 100.
type Result struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	StudentID   uint      `json:"student_id" gorm:"not null;index;uniqueIndex:idx_results_student_exam" validate:"required"`
	ExamID      uint      `json:"exam_id" gorm:"not null;index;uniqueIndex:idx_results_student_exam" validate:"required"`
	Score       float64   `json:"score" gorm:"not null" validate:"min=0"`
	Percentage  float64   `json:"percentage" gorm:"not null"`
	SubmittedAt time.Time `json:"submitted_at" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Exam    Exam    `json:"exam,omitempty" gorm:"foreignKey:ExamID"`

	// Computed at query time from the peer set, never persisted.
	Rank              int `json:"rank,omitempty" gorm:"-"`
	TotalParticipants int `json:"total_participants,omitempty" gorm:"-"`
}

func (Result) TableName() string {
	return "results"
}

// Percent computes score/totalMarks*100. Zero total marks yields zero rather
// than a division panic; the validator rejects such exams before they exist.
func Percent(score float64, totalMarks int) float64 {
	if totalMarks == 0 {
		return 0
	}
	return score / float64(totalMarks) * 100
}
