package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/edutrack/exam-service/internal/events"
	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/repositories"
	"github.com/edutrack/exam-service/internal/validator"
)

type notificationEventService struct {
	repo           repositories.Repository
	eventPublisher events.EventPublisher
	logger         *slog.Logger
	validator      *validator.Validator
}

func NewNotificationEventService(repo repositories.Repository, publisher events.EventPublisher, logger *slog.Logger, validator *validator.Validator) NotificationEventService {
	return &notificationEventService{
		repo:           repo,
		eventPublisher: publisher,
		logger:         logger,
		validator:      validator,
	}
}

// ===== EVENT PAYLOADS =====

type ExamEventData struct {
	ExamID     uint              `json:"exam_id"`
	Name       string            `json:"name"`
	Subject    string            `json:"subject"`
	Date       string            `json:"date"`
	Status     models.ExamStatus `json:"status"`
	TotalMarks int               `json:"total_marks"`
}

type ResultEventData struct {
	ResultID   uint    `json:"result_id"`
	StudentID  uint    `json:"student_id"`
	ExamID     uint    `json:"exam_id"`
	Score      float64 `json:"score"`
	Percentage float64 `json:"percentage"`
}

type BulkNotificationEvent struct {
	UserIDs  []uint                      `json:"user_ids"`
	Type     models.NotificationType     `json:"type"`
	Title    string                      `json:"title"`
	Message  string                      `json:"message"`
	Priority models.NotificationPriority `json:"priority"`
}

// ===== PUBLISHERS =====

func (s *notificationEventService) PublishExamCreated(ctx context.Context, exam *models.Exam) error {
	return s.publishExamEvent(ctx, events.EventExamCreated, exam)
}

func (s *notificationEventService) PublishExamUpdated(ctx context.Context, exam *models.Exam) error {
	return s.publishExamEvent(ctx, events.EventExamUpdated, exam)
}

func (s *notificationEventService) PublishExamDeleted(ctx context.Context, examID uint) error {
	event := events.NewEvent(events.EventExamDeleted, &ExamEventData{ExamID: examID})
	return s.eventPublisher.Publish(ctx, events.TopicExams, event)
}

func (s *notificationEventService) PublishResultRecorded(ctx context.Context, result *models.Result) error {
	event := events.NewEvent(events.EventResultRecorded, &ResultEventData{
		ResultID:   result.ID,
		StudentID:  result.StudentID,
		ExamID:     result.ExamID,
		Score:      result.Score,
		Percentage: result.Percentage,
	})
	return s.eventPublisher.Publish(ctx, events.TopicResults, event)
}

// SendBulkNotification fans a notification out to the given users, dropping
// recipients whose stored preferences opt out of this notification type.
func (s *notificationEventService) SendBulkNotification(ctx context.Context, userIDs []uint, notification *NotificationRequest) error {
	if err := s.validator.Validate(notification); err != nil {
		return NewValidationError(FieldErrors(err))
	}
	if notification.Priority == "" {
		notification.Priority = models.PriorityNormal
	}

	recipients := s.filterByPreferences(ctx, userIDs, notification.Type)
	if len(recipients) == 0 {
		s.logger.Debug("No recipients after preference filtering", "type", notification.Type)
		return nil
	}

	event := events.NewEvent(events.EventBulkNotification, &BulkNotificationEvent{
		UserIDs:  recipients,
		Type:     notification.Type,
		Title:    notification.Title,
		Message:  notification.Message,
		Priority: notification.Priority,
	})

	if err := s.eventPublisher.Publish(ctx, events.TopicNotifications, event); err != nil {
		return fmt.Errorf("failed to publish bulk notification: %w", err)
	}

	s.logger.Info("Bulk notification published",
		"type", notification.Type, "recipients", len(recipients))
	return nil
}

func (s *notificationEventService) publishExamEvent(ctx context.Context, eventType string, exam *models.Exam) error {
	event := events.NewEvent(eventType, &ExamEventData{
		ExamID:     exam.ID,
		Name:       exam.Name,
		Subject:    exam.Subject,
		Date:       exam.Date.Format("2006-01-02T15:04:05Z07:00"),
		Status:     exam.Status,
		TotalMarks: exam.TotalMarks,
	})
	return s.eventPublisher.Publish(ctx, events.TopicExams, event)
}

// filterByPreferences drops users whose notification preferences exclude the
// given type. Lookup failures keep the user in, missing prefs default to on.
func (s *notificationEventService) filterByPreferences(ctx context.Context, userIDs []uint, t models.NotificationType) []uint {
	if s.repo == nil || s.repo.User() == nil {
		return userIDs
	}

	out := make([]uint, 0, len(userIDs))
	for _, id := range userIDs {
		user, err := s.repo.User().GetByID(ctx, nil, id)
		if err != nil {
			out = append(out, id)
			continue
		}
		var prefs models.NotificationPreferences
		if len(user.NotificationPrefs) > 0 {
			if err := json.Unmarshal(user.NotificationPrefs, &prefs); err != nil {
				s.logger.Warn("Unreadable notification preferences", "user_id", id, "error", err)
			}
		}
		if prefs.Allows(t) {
			out = append(out, id)
		}
	}
	return out
}
