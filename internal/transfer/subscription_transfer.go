package transfer

type SubscriptionStatus struct {
	Active       bool     `json:"active"`
	Plan         string   `json:"plan"`
	Capabilities []string `json:"capabilities"`
}

type Collection struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type UserInfo struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	ProfilePicture string `json:"profile_picture"`
}
