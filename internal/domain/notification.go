package domain

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is a transient, auto-dismissing message raised by an action.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}

func Success(msg string) Notification { return Notification{Kind: NotificationSuccess, Message: msg} }

func Failure(msg string) Notification { return Notification{Kind: NotificationError, Message: msg} }
