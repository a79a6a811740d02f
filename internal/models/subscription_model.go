package models

const (
	CapabilitySchedule = "schedule"
	CapabilityPublish  = "publish"
)

// Subscription is the billing view the composer consults: a yes/no per capability.
type Subscription struct {
	Active       bool     `json:"active"`
	Capabilities []string `json:"capabilities"`
}

func (s *Subscription) Allows(capability string) bool {
	if s == nil || !s.Active {
		return false
	}
	if len(s.Capabilities) == 0 {
		return true
	}
	for _, c := range s.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}
