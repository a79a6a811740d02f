package transfer

type DraftUpdate struct {
	Content      *string `json:"content"`
	AccountID    *string `json:"account_id"`
	CollectionID *string `json:"collection_id"`
	Disposition  *string `json:"disposition" validate:"omitempty,oneof=published scheduled"`
	ScheduleAt   *string `json:"schedule_at"`
}

type MediaAttach struct {
	IDs []string `json:"ids" validate:"required,min=1,dive,required"`
}

type Confirmation struct {
	Token string `json:"token" validate:"required"`
}
