package services

import (
	"context"
	"time"

	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/repositories"
	"github.com/edutrack/exam-service/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type CreateExamRequest = validator.ExamCreateRequest
type UpdateExamRequest = validator.ExamUpdateRequest
type CreateQuestionRequest = validator.QuestionCreateRequest
type UpdateQuestionRequest = validator.QuestionUpdateRequest
type ReplaceQuestionsRequest = validator.QuestionsReplaceRequest
type CreateStudentRequest = validator.StudentCreateRequest
type UpdateStudentRequest = validator.StudentUpdateRequest
type CreateResultRequest = validator.ResultCreateRequest
type UpdateResultRequest = validator.ResultUpdateRequest
type LoginRequest = validator.LoginRequest
type RegisterRequest = validator.RegisterRequest
type ChangePasswordRequest = validator.ChangePasswordRequest

type ExamListResponse struct {
	Exams []*models.Exam `json:"exams"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

type StudentListResponse struct {
	Students []*models.Student `json:"students"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	Size     int               `json:"size"`
}

type ResultListResponse struct {
	Results []*models.Result `json:"results"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	Size    int              `json:"size"`
}

// ExamResultsResponse is the ranked scoreboard for one exam.
type ExamResultsResponse struct {
	ExamID  uint                    `json:"exam_id"`
	Results []*models.Result        `json:"results"`
	Stats   *repositories.ExamStats `json:"stats"`
}

// StudentPerformance summarizes one student across all their exams.
type StudentPerformance struct {
	StudentID         uint             `json:"student_id"`
	Results           []*models.Result `json:"results"`
	AveragePercentage float64          `json:"average_percentage"`
	ExamsTaken        int              `json:"exams_taken"`
}

// LoginResponse carries the signed token and the authenticated identity.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

// NotificationRequest describes an outbound notification to fan out.
type NotificationRequest struct {
	Type     models.NotificationType     `json:"type" validate:"required"`
	Title    string                      `json:"title" validate:"required,max=200"`
	Message  string                      `json:"message" validate:"required,max=2000"`
	Priority models.NotificationPriority `json:"priority"`
}

// ===== SERVICE INTERFACES =====

type ExamService interface {
	Create(ctx context.Context, req *CreateExamRequest, createdBy string) (*models.Exam, error)
	GetByID(ctx context.Context, id uint) (*models.Exam, error)
	Update(ctx context.Context, id uint, req *UpdateExamRequest) (*models.Exam, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters repositories.ExamFilters) (*ExamListResponse, error)
	Search(ctx context.Context, query string, filters repositories.ExamFilters) (*ExamListResponse, error)

	// SweepStatuses persists the derived status for every exam whose stored
	// status has drifted; returns how many rows were corrected.
	SweepStatuses(ctx context.Context) (int, error)
}

type PaperService interface {
	GetPaper(ctx context.Context, examID, paperID uint) (*models.PaperDocument, error)
	ListPapers(ctx context.Context, examID uint) ([]*models.PaperDocument, error)
	GetQuestions(ctx context.Context, examID, paperID uint) ([]models.QuestionRecord, error)
	ReplaceQuestions(ctx context.Context, examID, paperID uint, req *ReplaceQuestionsRequest) (*models.PaperDocument, error)
	AddQuestion(ctx context.Context, examID, paperID uint, req *CreateQuestionRequest) (*models.QuestionRecord, error)
	UpdateQuestion(ctx context.Context, examID, paperID uint, questionID string, req *UpdateQuestionRequest) (*models.QuestionRecord, error)
	DeleteQuestion(ctx context.Context, examID, paperID uint, questionID string) error
	DeletePaper(ctx context.Context, examID, paperID uint) error
}

type ResultService interface {
	Record(ctx context.Context, req *CreateResultRequest) (*models.Result, error)
	GetByID(ctx context.Context, id uint) (*models.Result, error)
	Update(ctx context.Context, id uint, req *UpdateResultRequest) (*models.Result, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters repositories.ResultFilters) (*ResultListResponse, error)
	GetExamResults(ctx context.Context, examID uint) (*ExamResultsResponse, error)
	GetStudentPerformance(ctx context.Context, studentID uint) (*StudentPerformance, error)
}

type StudentService interface {
	Create(ctx context.Context, req *CreateStudentRequest) (*models.Student, error)
	GetByID(ctx context.Context, id uint) (*models.Student, error)
	Update(ctx context.Context, id uint, req *UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filters repositories.StudentFilters) (*StudentListResponse, error)
}

type AuthService interface {
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	RegisterAdmin(ctx context.Context, req *RegisterRequest) (*models.User, error)
	ChangePassword(ctx context.Context, userID uint, req *ChangePasswordRequest) error
	ValidateToken(ctx context.Context, token string) (*TokenClaims, error)
}

type DashboardService interface {
	GetStats(ctx context.Context) (*repositories.DashboardStats, error)
}

type ExportService interface {
	// ExportExamResults renders the ranked results of one exam as an xlsx
	// workbook; returns the file bytes and a suggested filename.
	ExportExamResults(ctx context.Context, examID uint) ([]byte, string, error)
}

type NotificationEventService interface {
	PublishExamCreated(ctx context.Context, exam *models.Exam) error
	PublishExamUpdated(ctx context.Context, exam *models.Exam) error
	PublishExamDeleted(ctx context.Context, examID uint) error
	PublishResultRecorded(ctx context.Context, result *models.Result) error
	SendBulkNotification(ctx context.Context, userIDs []uint, notification *NotificationRequest) error
}

// ServiceManager wires and owns all service instances.
type ServiceManager interface {
	Exam() ExamService
	Paper() PaperService
	Result() ResultService
	Student() StudentService
	Auth() AuthService
	Dashboard() DashboardService
	Export() ExportService
	Notification() NotificationEventService

	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
