package services

import (
	"context"

	"gorm.io/gorm"

	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/repositories"
)

// mockRepository wires function-backed sub-repositories for unit tests.
type mockRepository struct {
	exam      repositories.ExamRepository
	student   repositories.StudentRepository
	user      repositories.UserRepository
	result    repositories.ResultRepository
	dashboard repositories.DashboardRepository
}

func (m *mockRepository) Exam() repositories.ExamRepository           { return m.exam }
func (m *mockRepository) Student() repositories.StudentRepository     { return m.student }
func (m *mockRepository) User() repositories.UserRepository           { return m.user }
func (m *mockRepository) Result() repositories.ResultRepository       { return m.result }
func (m *mockRepository) Dashboard() repositories.DashboardRepository { return m.dashboard }

func (m *mockRepository) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	return fn(m)
}
func (m *mockRepository) Ping(ctx context.Context) error { return nil }
func (m *mockRepository) Close() error                   { return nil }

// mockExamRepository lets each test override just the calls it needs.
type mockExamRepository struct {
	getAllFn       func(ctx context.Context) ([]*models.Exam, error)
	updateStatusFn func(ctx context.Context, id uint, status models.ExamStatus) error
	getByIDFn      func(ctx context.Context, id uint) (*models.Exam, error)
	existsFn       func(ctx context.Context, id uint) (bool, error)
}

func (m *mockExamRepository) Create(ctx context.Context, tx *gorm.DB, exam *models.Exam) error {
	return nil
}

func (m *mockExamRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.Exam, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockExamRepository) Update(ctx context.Context, tx *gorm.DB, exam *models.Exam) error {
	return nil
}

func (m *mockExamRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error { return nil }

func (m *mockExamRepository) List(ctx context.Context, tx *gorm.DB, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	return nil, 0, nil
}

func (m *mockExamRepository) Search(ctx context.Context, tx *gorm.DB, query string, filters repositories.ExamFilters) ([]*models.Exam, int64, error) {
	return nil, 0, nil
}

func (m *mockExamRepository) GetByStatus(ctx context.Context, tx *gorm.DB, status models.ExamStatus, limit, offset int) ([]*models.Exam, error) {
	return nil, nil
}

func (m *mockExamRepository) GetAll(ctx context.Context, tx *gorm.DB) ([]*models.Exam, error) {
	if m.getAllFn != nil {
		return m.getAllFn(ctx)
	}
	return nil, nil
}

func (m *mockExamRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, id uint, status models.ExamStatus) error {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return nil
}

func (m *mockExamRepository) Exists(ctx context.Context, tx *gorm.DB, id uint) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, id)
	}
	return true, nil
}

// mockUserRepository serves canned users by ID.
type mockUserRepository struct {
	users map[uint]*models.User
}

func (m *mockUserRepository) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, tx *gorm.DB, id uint) (*models.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uint) (*models.User, error) {
	for _, u := range m.users {
		if u.StudentID != nil && *u.StudentID == studentID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepository) Update(ctx context.Context, tx *gorm.DB, user *models.User) error {
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, tx *gorm.DB, id uint) error { return nil }
