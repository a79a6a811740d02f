package transfer

type InstagramMedia struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

type InstagramPost struct {
	AccountID    string           `json:"account_id"`
	Caption      string           `json:"caption"`
	Media        []InstagramMedia `json:"media"`
	CollectionID string           `json:"collection_id,omitempty"`
}
