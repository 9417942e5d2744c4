package models

type NotificationLevel string

const (
	LevelSuccess NotificationLevel = "success"
	LevelInfo    NotificationLevel = "info"
	LevelError   NotificationLevel = "error"
)

// Notification is the transient message a client shows after an action.
type Notification struct {
	Level   NotificationLevel `json:"level"`
	Message string            `json:"message"`
}

func Success(msg string) Notification { return Notification{Level: LevelSuccess, Message: msg} }
func Info(msg string) Notification    { return Notification{Level: LevelInfo, Message: msg} }
func Failure(msg string) Notification { return Notification{Level: LevelError, Message: msg} }
