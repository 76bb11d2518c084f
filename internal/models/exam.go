package models

import (
	"time"

	"gorm.io/gorm"
)

type ExamStatus string

const (
	ExamUpcoming  ExamStatus = "upcoming"
	ExamActive    ExamStatus = "active"
	ExamCompleted ExamStatus = "completed"
)

type Exam struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name" gorm:"not null;size:200;index" validate:"required,min=1,max=200"`
	Subject     string     `json:"subject" gorm:"not null;size:100;index" validate:"required,max=100"`
	Description *string    `json:"description" gorm:"type:text" validate:"omitempty,max=1000"`
	Date        time.Time  `json:"date" gorm:"not null;index"`
	Duration    int        `json:"duration" gorm:"not null" validate:"required,min=1,max=600"` // minutes
	TotalMarks  int        `json:"total_marks" gorm:"not null" validate:"required,min=1"`
	Status      ExamStatus `json:"status" gorm:"default:upcoming;index"`

	// Metadata
	CreatedBy string         `json:"created_by" gorm:"not null;index;size:255"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Results []Result `json:"results,omitempty" gorm:"foreignKey:ExamID"`
}

func (Exam) TableName() string {
	return "exams"
}

// EndsAt returns the instant at which the exam's window closes.
func (e *Exam) EndsAt() time.Time {
	return e.Date.Add(time.Duration(e.Duration) * time.Minute)
}

// StatusAt derives the lifecycle status of the exam at the given instant.
// The stored Status column is only a cache of this derivation. Both window
// boundaries are inclusive: the exam is active at exactly Date and at exactly
// Date+Duration. Callers must pass a single clock read when resolving multiple
// exams so one request cannot observe a boundary twice with different outcomes.
func (e *Exam) StatusAt(now time.Time) ExamStatus {
	if now.Before(e.Date) {
		return ExamUpcoming
	}
	if now.After(e.EndsAt()) {
		return ExamCompleted
	}
	return ExamActive
}
