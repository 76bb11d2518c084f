package models

// NotificationType labels outbound notification events.
type NotificationType string

const (
	NotificationExamScheduled   NotificationType = "exam_scheduled"
	NotificationExamUpdated     NotificationType = "exam_updated"
	NotificationExamStarting    NotificationType = "exam_starting"
	NotificationResultPublished NotificationType = "result_published"
)

// NotificationPriority orders delivery urgency downstream.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

// NotificationPreferences is the shape stored in User.NotificationPrefs.
// A missing preference defaults to enabled.
type NotificationPreferences struct {
	ExamReminders   *bool `json:"exam_reminders,omitempty"`
	ResultPublished *bool `json:"result_published,omitempty"`
	ScheduleChanges *bool `json:"schedule_changes,omitempty"`
}

// Allows reports whether the preferences permit the given notification type.
func (p *NotificationPreferences) Allows(t NotificationType) bool {
	if p == nil {
		return true
	}
	enabled := func(b *bool) bool { return b == nil || *b }
	switch t {
	case NotificationExamStarting:
		return enabled(p.ExamReminders)
	case NotificationResultPublished:
		return enabled(p.ResultPublished)
	case NotificationExamScheduled, NotificationExamUpdated:
		return enabled(p.ScheduleChanges)
	}
	return true
}
