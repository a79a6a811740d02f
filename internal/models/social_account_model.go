package models

import (
	"strings"
	"time"
)

type AccountStatus string

const (
	AccountStatusActive      AccountStatus = "active"
	AccountStatusExpired     AccountStatus = "expired"
	AccountStatusNeedsReauth AccountStatus = "needs_reauth"
)

// ParseAccountStatus maps the remote status string. Anything unrecognised is
// treated as needs_reauth so it can never be used as a publish target.
func ParseAccountStatus(s string) AccountStatus {
	switch AccountStatus(strings.ToLower(strings.TrimSpace(s))) {
	case AccountStatusActive:
		return AccountStatusActive
	case AccountStatusExpired:
		return AccountStatusExpired
	default:
		return AccountStatusNeedsReauth
	}
}

type SocialAccount struct {
	ID              string        `json:"id"`
	UserID          string        `json:"user_id"`
	Platform        Platform      `json:"platform"`
	AccountID       string        `json:"account_id"`
	AccountName     string        `json:"account_name"`
	AccountUsername string        `json:"account_username"`
	ProfilePicture  string        `json:"profile_picture"`
	Status          AccountStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

func (a *SocialAccount) CanPublish() bool {
	return a != nil && a.Status == AccountStatusActive
}

func (a *SocialAccount) NeedsReauthorization() bool {
	return a != nil && a.Status != AccountStatusActive
}

// FindAccount returns the account with the given id or nil.
func FindAccount(accounts []*SocialAccount, id string) *SocialAccount {
	for _, acc := range accounts {
		if acc != nil && acc.ID == id {
			return acc
		}
	}
	return nil
}
