package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/edutrack/exam-service/internal/models"
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateExamCreate validates exam creation business rules
func (bv *BusinessValidator) ValidateExamCreate(req *ExamCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Date.IsZero() {
		errors = append(errors, ValidationError{
			Field:   "date",
			Message: "is required",
			Rule:    "required",
		})
	}

	return errors
}

// ValidateExamUpdate validates exam update business rules
func (bv *BusinessValidator) ValidateExamUpdate(req *ExamUpdateRequest, existing *models.Exam) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	// Shrinking total marks below what the papers already award would make
	// stored percentages exceed the new maximum silently; flag it instead.
	if req.TotalMarks != nil && *req.TotalMarks < 1 {
		errors = append(errors, ValidationError{
			Field:   "total_marks",
			Message: "must be at least 1",
			Value:   *req.TotalMarks,
			Rule:    "min",
		})
	}

	if req.Date != nil && req.Date.IsZero() {
		errors = append(errors, ValidationError{
			Field:   "date",
			Message: "cannot be the zero time",
			Rule:    "business_logic",
		})
	}

	return errors
}

// ValidateQuestionCreate validates question creation business rules.
// Multiple-choice questions need at least two non-empty options and a correct
// answer that is one of them; written questions must not carry either.
func (bv *BusinessValidator) ValidateQuestionCreate(req *QuestionCreateRequest) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	qType, ok := models.NormalizeQuestionType(req.Type)
	if !ok {
		// The struct rule already reported the bad type.
		return errors
	}

	switch qType {
	case models.MultipleChoice:
		errors = append(errors, bv.validateChoiceFields(req.Options, req.CorrectAnswer)...)
	case models.Written:
		if len(req.Options) > 0 {
			errors = append(errors, ValidationError{
				Field:   "options",
				Message: "not allowed for written questions",
				Value:   req.Options,
				Rule:    "business_logic",
			})
		}
		if req.CorrectAnswer != "" {
			errors = append(errors, ValidationError{
				Field:   "correct_answer",
				Message: "not allowed for written questions",
				Rule:    "business_logic",
			})
		}
	}

	return errors
}

// ValidateQuestionUpdate validates a partial question update against the
// question's effective state after the patch is applied.
func (bv *BusinessValidator) ValidateQuestionUpdate(req *QuestionUpdateRequest, existing *models.QuestionRecord) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	// Resolve the post-patch shape before checking choice rules.
	effectiveType := existing.Type
	if req.Type != nil {
		t, ok := models.NormalizeQuestionType(*req.Type)
		if !ok {
			return errors
		}
		effectiveType = t
	}

	if effectiveType == models.MultipleChoice {
		options := existing.Options
		if req.Options != nil {
			options = req.Options
		}
		answer := existing.CorrectAnswer
		if req.CorrectAnswer != nil {
			answer = *req.CorrectAnswer
		}
		errors = append(errors, bv.validateChoiceFields(options, answer)...)
	}

	return errors
}

// ValidateResultCreate validates result recording business rules
func (bv *BusinessValidator) ValidateResultCreate(req *ResultCreateRequest, exam *models.Exam) ValidationErrors {
	var errors ValidationErrors

	errors = append(errors, bv.Validate(req)...)

	if req.Score < 0 {
		errors = append(errors, ValidationError{
			Field:   "score",
			Message: "cannot be negative",
			Value:   req.Score,
			Rule:    "min",
		})
	}

	if req.SubmittedAt != nil && exam != nil && req.SubmittedAt.Before(exam.Date) {
		errors = append(errors, ValidationError{
			Field:   "submitted_at",
			Message: "cannot be before the exam starts",
			Value:   req.SubmittedAt,
			Rule:    "business_logic",
		})
	}

	return errors
}

func (bv *BusinessValidator) validateChoiceFields(options []string, correctAnswer string) ValidationErrors {
	var errors ValidationErrors

	nonEmpty := 0
	for i, opt := range options {
		if strings.TrimSpace(opt) == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("options[%d]", i),
				Message: "option cannot be empty",
				Rule:    "business_logic",
			})
			continue
		}
		nonEmpty++
	}

	if nonEmpty < 2 {
		errors = append(errors, ValidationError{
			Field:   "options",
			Message: "multiple choice questions need at least two options",
			Value:   len(options),
			Rule:    "business_logic",
		})
	}

	if correctAnswer == "" {
		errors = append(errors, ValidationError{
			Field:   "correct_answer",
			Message: "is required for multiple choice questions",
			Rule:    "business_logic",
		})
		return errors
	}

	found := false
	for _, opt := range options {
		if opt == correctAnswer {
			found = true
			break
		}
	}
	if !found {
		errors = append(errors, ValidationError{
			Field:   "correct_answer",
			Message: "must be one of the options",
			Value:   correctAnswer,
			Rule:    "business_logic",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Exam duration validation (1-600 minutes)
	bv.validate.RegisterValidation("exam_duration", func(fl validator.FieldLevel) bool {
		duration := fl.Field().Int()
		return duration >= 1 && duration <= 600
	})

	// Name validation (1-200 characters after trimming)
	bv.validate.RegisterValidation("exam_name", func(fl validator.FieldLevel) bool {
		name := strings.TrimSpace(fl.Field().String())
		return len(name) >= 1 && len(name) <= 200
	})

	// Description validation (max 1000 characters)
	bv.validate.RegisterValidation("exam_description", func(fl validator.FieldLevel) bool {
		desc := fl.Field().String()
		return len(desc) <= 1000
	})

	// Question type validation, accepting the legacy aliases too
	bv.validate.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
		_, ok := models.NormalizeQuestionType(fl.Field().String())
		return ok
	})

	// Exam status validation
	bv.validate.RegisterValidation("exam_status", func(fl validator.FieldLevel) bool {
		switch models.ExamStatus(fl.Field().String()) {
		case models.ExamUpcoming, models.ExamActive, models.ExamCompleted:
			return true
		}
		return false
	})
}
