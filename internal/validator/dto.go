package validator

import (
	"time"
)

// ExamCreateRequest represents the request structure for creating exams
type ExamCreateRequest struct {
	Name        string    `json:"name" validate:"required,exam_name"`
	Subject     string    `json:"subject" validate:"required,max=100"`
	Description *string   `json:"description" validate:"omitempty,exam_description"`
	Date        time.Time `json:"date" validate:"required"`
	Duration    int       `json:"duration" validate:"required,exam_duration"`
	TotalMarks  int       `json:"total_marks" validate:"required,min=1"`
}

// ExamUpdateRequest represents the request structure for updating exams.
// All fields are optional; absent fields keep their stored value.
type ExamUpdateRequest struct {
	Name        *string    `json:"name" validate:"omitempty,exam_name"`
	Subject     *string    `json:"subject" validate:"omitempty,max=100"`
	Description *string    `json:"description" validate:"omitempty,exam_description"`
	Date        *time.Time `json:"date"`
	Duration    *int       `json:"duration" validate:"omitempty,exam_duration"`
	TotalMarks  *int       `json:"total_marks" validate:"omitempty,min=1"`
}

// QuestionCreateRequest represents the request structure for adding a
// question to a paper document
type QuestionCreateRequest struct {
	Question      string   `json:"question" validate:"required,min=1,max=2000"`
	Type          string   `json:"type" validate:"required,question_type"`
	Options       []string `json:"options" validate:"omitempty,max=10,dive,max=500"`
	CorrectAnswer string   `json:"correct_answer" validate:"omitempty,max=500"`
	Marks         int      `json:"marks" validate:"required,min=1"`
}

// QuestionUpdateRequest represents a partial update of a single question
type QuestionUpdateRequest struct {
	Question      *string  `json:"question" validate:"omitempty,min=1,max=2000"`
	Type          *string  `json:"type" validate:"omitempty,question_type"`
	Options       []string `json:"options" validate:"omitempty,max=10,dive,max=500"`
	CorrectAnswer *string  `json:"correct_answer" validate:"omitempty,max=500"`
	Marks         *int     `json:"marks" validate:"omitempty,min=1"`
}

// QuestionsReplaceRequest replaces a paper's full question list. Version is
// the document version the client last read; the write is rejected if the
// document has moved on since.
type QuestionsReplaceRequest struct {
	Version   int64                   `json:"version" validate:"min=0"`
	Questions []QuestionCreateRequest `json:"questions" validate:"required,dive"`
}

// StudentCreateRequest represents the request structure for creating students
type StudentCreateRequest struct {
	Name           string     `json:"name" validate:"required,min=1,max=200"`
	Email          string     `json:"email" validate:"required,email,max=255"`
	Class          string     `json:"class" validate:"required,max=50"`
	EnrollmentDate *time.Time `json:"enrollment_date"`
	Phone          *string    `json:"phone" validate:"omitempty,max=20"`
	Address        *string    `json:"address" validate:"omitempty,max=500"`
	GuardianName   *string    `json:"guardian_name" validate:"omitempty,max=200"`
	GuardianPhone  *string    `json:"guardian_phone" validate:"omitempty,max=20"`
	Password       *string    `json:"password" validate:"omitempty,min=8,max=72"`
}

// StudentUpdateRequest represents the request structure for updating students
type StudentUpdateRequest struct {
	Name           *string    `json:"name" validate:"omitempty,min=1,max=200"`
	Email          *string    `json:"email" validate:"omitempty,email,max=255"`
	Class          *string    `json:"class" validate:"omitempty,max=50"`
	EnrollmentDate *time.Time `json:"enrollment_date"`
	Phone          *string    `json:"phone" validate:"omitempty,max=20"`
	Address        *string    `json:"address" validate:"omitempty,max=500"`
	GuardianName   *string    `json:"guardian_name" validate:"omitempty,max=200"`
	GuardianPhone  *string    `json:"guardian_phone" validate:"omitempty,max=20"`
}

// ResultCreateRequest records a score for a (student, exam) pair
type ResultCreateRequest struct {
	StudentID   uint       `json:"student_id" validate:"required"`
	ExamID      uint       `json:"exam_id" validate:"required"`
	Score       float64    `json:"score" validate:"min=0"`
	SubmittedAt *time.Time `json:"submitted_at"`
}

// ResultUpdateRequest re-scores an existing result
type ResultUpdateRequest struct {
	Score       *float64   `json:"score" validate:"omitempty,min=0"`
	SubmittedAt *time.Time `json:"submitted_at"`
}

// LoginRequest carries credentials for both admin and student logins
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// RegisterRequest creates an admin account
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// ChangePasswordRequest rotates the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}
