package transfer

type SignatureRequest struct {
	PublicID string `json:"public_id"`
	Folder   string `json:"folder"`
}

// UploadSignature is the short-lived authorization for one direct upload.
type UploadSignature struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	PublicID  string `json:"public_id"`
	Folder    string `json:"folder"`
}

type StorageUpload struct {
	PublicID     string `json:"public_id"`
	SecureURL    string `json:"secure_url"`
	URL          string `json:"url"`
	ResourceType string `json:"resource_type"`
}
