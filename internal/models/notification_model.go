package models

type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
	NotificationInfo    NotificationKind = "info"
)

// Notification is the single user-facing message shape: callback results,
// upload batch failures and publish outcomes all end up here.
type Notification struct {
	Kind     NotificationKind `json:"kind"`
	Title    string           `json:"title"`
	Message  string           `json:"message"`
	Platform Platform         `json:"platform,omitempty"`
}

func SuccessNotification(title, message string) *Notification {
	return &Notification{Kind: NotificationSuccess, Title: title, Message: message}
}

func ErrorNotification(title, message string) *Notification {
	return &Notification{Kind: NotificationError, Title: title, Message: message}
}
