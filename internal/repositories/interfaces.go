package repositories

import (
	"time"

	"github.com/edutrack/exam-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type ExamFilters struct {
	Status    *models.ExamStatus `json:"status"`
	Subject   *string            `json:"subject"`
	CreatedBy *string            `json:"created_by"`
	DateFrom  *time.Time         `json:"date_from"`
	DateTo    *time.Time         `json:"date_to"`
	Limit     int                `json:"limit"`
	Offset    int                `json:"offset"`
	SortBy    string             `json:"sort_by"`    // "date", "name", "created_at"
	SortOrder string             `json:"sort_order"` // "asc", "desc"
}

type StudentFilters struct {
	Class     *string `json:"class"`
	Search    *string `json:"search"` // matches name or email
	Limit     int     `json:"limit"`
	Offset    int     `json:"offset"`
	SortBy    string  `json:"sort_by"`
	SortOrder string  `json:"sort_order"`
}

type ResultFilters struct {
	ExamID    *uint      `json:"exam_id"`
	StudentID *uint      `json:"student_id"`
	DateFrom  *time.Time `json:"date_from"`
	DateTo    *time.Time `json:"date_to"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
	SortBy    string     `json:"sort_by"`
	SortOrder string     `json:"sort_order"`
}

// ===== SHARED STATISTICS STRUCTS =====

type ExamStats struct {
	TotalResults      int     `json:"total_results"`
	AverageScore      float64 `json:"average_score"`
	AveragePercentage float64 `json:"average_percentage"`
	HighestScore      float64 `json:"highest_score"`
	LowestScore       float64 `json:"lowest_score"`
}

type DashboardStats struct {
	TotalExams      int64                      `json:"total_exams"`
	ExamsByStatus   map[models.ExamStatus]int64 `json:"exams_by_status"`
	TotalStudents   int64                      `json:"total_students"`
	TotalResults    int64                      `json:"total_results"`
	AveragePercent  float64                    `json:"average_percent"`
	RecentResults   []*models.Result           `json:"recent_results"`
	UpcomingExams   []*models.Exam             `json:"upcoming_exams"`
}
