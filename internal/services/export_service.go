package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/edutrack/exam-service/internal/repositories"
)

type exportService struct {
	repo    repositories.Repository
	results ResultService
	logger  *slog.Logger
}

func NewExportService(repo repositories.Repository, results ResultService, logger *slog.Logger) ExportService {
	return &exportService{
		repo:    repo,
		results: results,
		logger:  logger,
	}
}

// ExportExamResults renders one exam's ranked scoreboard as an xlsx workbook.
func (s *exportService) ExportExamResults(ctx context.Context, examID uint) ([]byte, string, error) {
	exam, err := s.repo.Exam().GetByID(ctx, nil, examID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, "", ErrExamNotFound
		}
		return nil, "", err
	}

	scoreboard, err := s.results.GetExamResults(ctx, examID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Results"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create header style: %w", err)
	}

	headers := []string{"Rank", "Student", "Class", "Score", "Percentage", "Submitted At"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	f.SetCellStyle(sheet, "A1", "F1", headerStyle)

	for row, result := range scoreboard.Results {
		values := []interface{}{
			result.Rank,
			result.Student.Name,
			result.Student.Class,
			result.Score,
			fmt.Sprintf("%.1f%%", result.Percentage),
			result.SubmittedAt.Format(time.RFC3339),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	// Summary block under the table.
	if stats := scoreboard.Stats; stats != nil {
		base := len(scoreboard.Results) + 3
		f.SetCellValue(sheet, fmt.Sprintf("A%d", base), "Participants")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", base), stats.TotalResults)
		f.SetCellValue(sheet, fmt.Sprintf("A%d", base+1), "Average score")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", base+1), stats.AverageScore)
		f.SetCellValue(sheet, fmt.Sprintf("A%d", base+2), "Highest score")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", base+2), stats.HighestScore)
		f.SetCellValue(sheet, fmt.Sprintf("A%d", base+3), "Lowest score")
		f.SetCellValue(sheet, fmt.Sprintf("B%d", base+3), stats.LowestScore)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to render workbook: %w", err)
	}

	filename := fmt.Sprintf("exam-%d-results-%s.xlsx", examID, time.Now().Format("2006-01-02"))
	s.logger.Info("Exported exam results", "exam_id", examID, "exam", exam.Name, "rows", len(scoreboard.Results))
	return buf.Bytes(), filename, nil
}
