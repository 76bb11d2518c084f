package services

import (
	"context"
	"log/slog"
	"testing"

	"gorm.io/datatypes"

	"github.com/edutrack/exam-service/internal/events"
	"github.com/edutrack/exam-service/internal/models"
	"github.com/edutrack/exam-service/internal/validator"
)

func TestNotificationEventServicePublishEvents(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	mockPublisher := events.NewMockEventPublisher(logger)
	v := validator.New()

	optedOut := uint(2)
	repo := &mockRepository{
		user: &mockUserRepository{
			users: map[uint]*models.User{
				1: {ID: 1, Email: "a@school.test", Role: models.RoleStudent},
				2: {
					ID:    2,
					Email: "b@school.test",
					Role:  models.RoleStudent,
					NotificationPrefs: datatypes.JSON([]byte(
						`{"result_published": false}`,
					)),
				},
			},
		},
	}

	service := &notificationEventService{
		repo:           repo,
		eventPublisher: mockPublisher,
		logger:         logger,
		validator:      v,
	}

	ctx := context.Background()

	t.Run("SendBulkNotification", func(t *testing.T) {
		mockPublisher.ClearEvents()

		err := service.SendBulkNotification(ctx, []uint{1, 3}, &NotificationRequest{
			Type:     models.NotificationExamScheduled,
			Title:    "New exam scheduled",
			Message:  "Mathematics midterm on Monday",
			Priority: models.PriorityHigh,
		})
		if err != nil {
			t.Fatalf("SendBulkNotification: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}

		event := published[0]
		if event.Type != events.EventBulkNotification {
			t.Errorf("event type = %q, want %q", event.Type, events.EventBulkNotification)
		}
		if event.ID == "" {
			t.Error("event ID should not be empty")
		}
		if event.Source != "exam-service" {
			t.Errorf("event source = %q, want exam-service", event.Source)
		}
		if event.Version != "1.0" {
			t.Errorf("event version = %q, want 1.0", event.Version)
		}
		if event.Timestamp.IsZero() {
			t.Error("event timestamp should not be zero")
		}
	})

	t.Run("PreferenceFiltering", func(t *testing.T) {
		mockPublisher.ClearEvents()

		err := service.SendBulkNotification(ctx, []uint{1, optedOut}, &NotificationRequest{
			Type:    models.NotificationResultPublished,
			Title:   "Results posted",
			Message: "Your result is available",
		})
		if err != nil {
			t.Fatalf("SendBulkNotification: %v", err)
		}

		published := mockPublisher.GetPublishedEvents()
		if len(published) != 1 {
			t.Fatalf("expected 1 event, got %d", len(published))
		}

		data, ok := published[0].Data.(*BulkNotificationEvent)
		if !ok {
			t.Fatalf("unexpected data type %T", published[0].Data)
		}
		if len(data.UserIDs) != 1 || data.UserIDs[0] != 1 {
			t.Errorf("recipients = %v, want [1] (user 2 opted out)", data.UserIDs)
		}
		if data.Priority != models.PriorityNormal {
			t.Errorf("priority = %q, want default normal", data.Priority)
		}
	})

	t.Run("AllOptedOut", func(t *testing.T) {
		mockPublisher.ClearEvents()

		err := service.SendBulkNotification(ctx, []uint{optedOut}, &NotificationRequest{
			Type:    models.NotificationResultPublished,
			Title:   "Results posted",
			Message: "Your result is available",
		})
		if err != nil {
			t.Fatalf("SendBulkNotification: %v", err)
		}
		if got := mockPublisher.GetPublishedEvents(); len(got) != 0 {
			t.Fatalf("expected no events, got %d", len(got))
		}
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		err := service.SendBulkNotification(ctx, []uint{1}, &NotificationRequest{
			Type: models.NotificationExamScheduled,
		})
		if err == nil {
			t.Fatal("expected validation error for missing title and message")
		}
	})
}

func TestPublishResultRecorded(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	mockPublisher := events.NewMockEventPublisher(logger)
	service := NewNotificationEventService(&mockRepository{}, mockPublisher, logger, validator.New())

	result := &models.Result{ID: 11, StudentID: 5, ExamID: 3, Score: 42, Percentage: 84}
	if err := service.PublishResultRecorded(context.Background(), result); err != nil {
		t.Fatalf("PublishResultRecorded: %v", err)
	}

	published := mockPublisher.GetPublishedEvents()
	if len(published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(published))
	}
	if published[0].Type != events.EventResultRecorded {
		t.Errorf("event type = %q, want %q", published[0].Type, events.EventResultRecorded)
	}
	data := published[0].Data.(*ResultEventData)
	if data.ResultID != 11 || data.Percentage != 84 {
		t.Errorf("unexpected payload %+v", data)
	}
}
