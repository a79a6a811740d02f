package transfer

import "time"

// TextPost is the payload shared by the twitter and threads endpoints.
type TextPost struct {
	AccountID    string   `json:"account_id"`
	Content      string   `json:"content"`
	Media        []string `json:"media,omitempty"`
	CollectionID string   `json:"collection_id,omitempty"`
}

type LinkedInPost struct {
	AccountID    string `json:"account_id"`
	Content      string `json:"content"`
	CollectionID string `json:"collection_id,omitempty"`
}

type PublishResult struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}

type PlatformTarget struct {
	Platform    string `json:"platform"`
	AccountID   string `json:"account_id"`
	AccountName string `json:"account_name"`
	Status      string `json:"status,omitempty"`
}

type ScheduledPostCreation struct {
	Content       string           `json:"content"`
	Platforms     []PlatformTarget `json:"platforms"`
	ScheduledTime time.Time        `json:"scheduled_time"`
	TimeZone      string           `json:"timezone"`
	MediaType     string           `json:"media_type"`
	Media         []string         `json:"media,omitempty"`
	CollectionID  string           `json:"collection_id,omitempty"`
}

type ScheduledPost struct {
	ID            string           `json:"id"`
	Content       string           `json:"content"`
	Platforms     []PlatformTarget `json:"platforms"`
	Status        string           `json:"status"`
	ScheduledTime time.Time        `json:"scheduled_time"`
	TimeZone      string           `json:"timezone"`
	MediaType     string           `json:"media_type"`
	Media         []string         `json:"media"`
	CollectionID  string           `json:"collection_id"`
	CreatedAt     time.Time        `json:"created_at"`
}

type StatusUpdate struct {
	Status string `json:"status" validate:"required,oneof=scheduled published failed"`
}
