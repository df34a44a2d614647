package session

// NotificationLevel tells the presentation layer how to show a notification.
type NotificationLevel string

// Notification levels.
const (
	LevelInfo        NotificationLevel = "info"
	LevelSuccess     NotificationLevel = "success"
	LevelWarning     NotificationLevel = "warning"
	LevelCelebration NotificationLevel = "celebration"
)

// Notification is a message produced by Apply for the learner.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
	// Badge is set when the notification announces a new badge.
	Badge string `json:"badge,omitempty"`
	// XP is the experience awarded by the step that produced the notification.
	XP int `json:"xp,omitempty"`
}
