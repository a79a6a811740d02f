package models

type OutcomeKind string

const (
	OutcomeSuccess     OutcomeKind = "success"
	OutcomeFailed      OutcomeKind = "failed"
	OutcomeUnsupported OutcomeKind = "unsupported"
)

// PublishOutcome is what the dispatcher reports for one publish attempt.
type PublishOutcome struct {
	Kind         OutcomeKind   `json:"kind"`
	Platform     Platform      `json:"platform"`
	RemoteID     string        `json:"remote_id,omitempty"`
	Err          error         `json:"-"`
	Notification *Notification `json:"notification"`
}

func (o *PublishOutcome) OK() bool {
	return o != nil && o.Kind == OutcomeSuccess
}
