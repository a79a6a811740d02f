package models

import (
	"strings"
	"time"
)

// ScheduleLayout is the wall-clock layout the composer receives from the
// browser's datetime-local input.
const ScheduleLayout = "2006-01-02T15:04"

type Disposition string

const (
	DispositionPublished Disposition = "published"
	DispositionScheduled Disposition = "scheduled"
)

type DraftPost struct {
	ID           string                `json:"id"`
	Content      string                `json:"content"`
	Media        []*UploadedMediaAsset `json:"media"`
	AccountID    string                `json:"account_id"`
	CollectionID string                `json:"collection_id,omitempty"`
	Disposition  Disposition           `json:"disposition"`
	ScheduleAt   string                `json:"schedule_at,omitempty"`
	TimeZone     string                `json:"time_zone,omitempty"`
}

type PostStatus string

const (
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusPublished PostStatus = "published"
	PostStatusFailed    PostStatus = "failed"
)

func ParsePostStatus(s string) (PostStatus, bool) {
	switch PostStatus(strings.ToLower(strings.TrimSpace(s))) {
	case PostStatusScheduled:
		return PostStatusScheduled, true
	case PostStatusPublished, "posted", "completed":
		return PostStatusPublished, true
	case PostStatusFailed:
		return PostStatusFailed, true
	}
	return "", false
}

type PlatformTarget struct {
	Platform    Platform   `json:"platform"`
	AccountID   string     `json:"account_id"`
	AccountName string     `json:"account_name"`
	Status      PostStatus `json:"status"`
}

type ScheduledPost struct {
	ID            string           `json:"id"`
	Content       string           `json:"content"`
	Targets       []PlatformTarget `json:"platforms"`
	ScheduledTime time.Time        `json:"scheduled_time"`
	TimeZone      string           `json:"timezone"`
	MediaType     string           `json:"media_type"`
	Media         []string         `json:"media,omitempty"`
	CollectionID  string           `json:"collection_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}

// AggregateStatus derives the post status from its targets: any failed target
// fails the post, all published publishes it, anything else is still scheduled.
func (p *ScheduledPost) AggregateStatus() PostStatus {
	if len(p.Targets) == 0 {
		return PostStatusScheduled
	}
	published := 0
	for _, t := range p.Targets {
		switch t.Status {
		case PostStatusFailed:
			return PostStatusFailed
		case PostStatusPublished:
			published++
		}
	}
	if published == len(p.Targets) {
		return PostStatusPublished
	}
	return PostStatusScheduled
}
