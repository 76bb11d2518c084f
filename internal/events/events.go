package events

import (
	"time"

	"github.com/google/uuid"
)

// Event is the envelope published for every domain event. Consumers key on
// Type; Data carries the event-specific payload.
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// Event types published by the service.
const (
	EventExamCreated      = "exam.created"
	EventExamUpdated      = "exam.updated"
	EventExamDeleted      = "exam.deleted"
	EventExamStatusMoved  = "exam.status_changed"
	EventResultRecorded   = "result.recorded"
	EventResultRescored   = "result.rescored"
	EventBulkNotification = "system.bulk_notification"
)

// Topics events are routed to.
const (
	TopicExams         = "exam-service.exams"
	TopicResults       = "exam-service.results"
	TopicNotifications = "exam-service.notifications"
)

const (
	eventSource  = "exam-service"
	eventVersion = "1.0"
)

// NewEvent builds an envelope with a fresh ID and timestamp.
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}
