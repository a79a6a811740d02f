package transfer

import "time"

type SocialAccount struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Platform        string    `json:"platform"`
	AccountID       string    `json:"account_id"`
	AccountName     string    `json:"account_name"`
	AccountUsername string    `json:"account_username"`
	ProfilePicture  string    `json:"profile_picture"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ConnectURL struct {
	URL string `json:"url"`
}

type TokenRefresh struct {
	AccountID string `json:"account_id"`
}
