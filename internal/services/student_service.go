package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/repositories"
	"github.com/edutrack/exam-service/internal/validator"
)

type studentService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewStudentService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, validator *validator.Validator) StudentService {
	return &studentService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: validator,
	}
}

// Create registers a new student. When a password is supplied a student-role
// login is provisioned in the same transaction.
func (s *studentService) Create(ctx context.Context, req *CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(FieldErrors(err))
	}

	taken, err := s.repo.Student().ExistsByEmail(ctx, nil, req.Email, nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicateEmail
	}

	enrollment := time.Now()
	if req.EnrollmentDate != nil {
		enrollment = *req.EnrollmentDate
	}

	student := &models.Student{
		Name:           req.Name,
		Email:          req.Email,
		Class:          req.Class,
		EnrollmentDate: enrollment,
		Phone:          req.Phone,
		Address:        req.Address,
		GuardianName:   req.GuardianName,
		GuardianPhone:  req.GuardianPhone,
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Student().Create(ctx, nil, student); err != nil {
			return err
		}
		if req.Password == nil {
			return nil
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		hashStr := string(hash)
		student.PasswordHash = &hashStr
		if err := txRepo.Student().Update(ctx, nil, student); err != nil {
			return err
		}

		user := &models.User{
			Email:        student.Email,
			PasswordHash: hashStr,
			Role:         models.RoleStudent,
			StudentID:    &student.ID,
		}
		return txRepo.User().Create(ctx, nil, user)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info("Student created", "student_id", student.ID, "class", student.Class)
	return student, nil
}

func (s *studentService) GetByID(ctx context.Context, id uint) (*models.Student, error) {
	student, err := s.repo.Student().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return student, nil
}

func (s *studentService) Update(ctx context.Context, id uint, req *UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, NewValidationError(FieldErrors(err))
	}

	student, err := s.repo.Student().GetByID(ctx, nil, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	if req.Email != nil && *req.Email != student.Email {
		taken, err := s.repo.Student().ExistsByEmail(ctx, nil, *req.Email, &id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicateEmail
		}
		student.Email = *req.Email
	}
	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.Class != nil {
		student.Class = *req.Class
	}
	if req.EnrollmentDate != nil {
		student.EnrollmentDate = *req.EnrollmentDate
	}
	if req.Phone != nil {
		student.Phone = req.Phone
	}
	if req.Address != nil {
		student.Address = req.Address
	}
	if req.GuardianName != nil {
		student.GuardianName = req.GuardianName
	}
	if req.GuardianPhone != nil {
		student.GuardianPhone = req.GuardianPhone
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Student().Update(ctx, nil, student); err != nil {
			return err
		}
		// Keep the login row's email in step with the student record.
		if req.Email == nil {
			return nil
		}
		user, err := txRepo.User().GetByStudentID(ctx, nil, id)
		if err != nil {
			if repositories.IsNotFoundError(err) {
				return nil
			}
			return err
		}
		user.Email = student.Email
		return txRepo.User().Update(ctx, nil, user)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	return student, nil
}

// Delete removes the student, their login and their results in one
// transaction.
func (s *studentService) Delete(ctx context.Context, id uint) error {
	exists, err := s.repo.Student().Exists(ctx, nil, id)
	if err != nil {
		return err
	}
	if !exists {
		return ErrStudentNotFound
	}

	err = s.repo.WithTransaction(ctx, func(txRepo repositories.Repository) error {
		if err := txRepo.Result().DeleteByStudent(ctx, nil, id); err != nil {
			return err
		}
		user, err := txRepo.User().GetByStudentID(ctx, nil, id)
		if err == nil {
			if err := txRepo.User().Delete(ctx, nil, user.ID); err != nil {
				return err
			}
		} else if !repositories.IsNotFoundError(err) {
			return err
		}
		return txRepo.Student().Delete(ctx, nil, id)
	})
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	s.logger.Info("Student deleted", "student_id", id)
	return nil
}

func (s *studentService) List(ctx context.Context, filters repositories.StudentFilters) (*StudentListResponse, error) {
	students, total, err := s.repo.Student().List(ctx, nil, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return &StudentListResponse{
		Students: students,
		Total:    total,
		Page:     pageFromOffset(filters.Offset, filters.Limit),
		Size:     filters.Limit,
	}, nil
}
