package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/maheshrc27/postflow-studio/internal/models"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	ActionDeletePost        = "delete_post"
	ActionDisconnectAccount = "disconnect_account"
)

// PendingAction is an unconfirmed destructive action, the "are you sure"
// dialog state. Nothing remote happens until it is confirmed.
type PendingAction struct {
	Token     string    `json:"token"`
	Kind      string    `json:"kind"`
	Target    string    `json:"target"`
	ExpiresAt time.Time `json:"expires_at"`
}

type pendingEntry struct {
	userID   string
	action   PendingAction
	inFlight bool
}

type ConfirmGate struct {
	mu      sync.Mutex
	ttl     time.Duration
	pending map[string]pendingEntry
	now     func() time.Time
}

func NewConfirmGate(ttl time.Duration) *ConfirmGate {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ConfirmGate{
		ttl:     ttl,
		pending: make(map[string]pendingEntry),
		now:     time.Now,
	}
}

func (g *ConfirmGate) Request(userID, kind, target string) (*PendingAction, error) {
	token, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate confirmation token: %w", err)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	action := PendingAction{
		Token:     token,
		Kind:      kind,
		Target:    target,
		ExpiresAt: g.now().Add(g.ttl),
	}
	g.pending[token] = pendingEntry{userID: userID, action: action}
	return &action, nil
}

// Confirm runs fn for the target behind token. The token is spent only when fn
// succeeds, so a failed remote call can be retried from the same dialog. While
// fn runs, other confirms of the same token get ErrActionInFlight.
func (g *ConfirmGate) Confirm(userID, kind, token string, fn func(target string) error) error {
	action, err := g.claim(userID, kind, token)
	if err != nil {
		return err
	}

	err = fn(action.Target)

	g.mu.Lock()
	defer g.mu.Unlock()
	if err != nil {
		if e, ok := g.pending[token]; ok {
			e.inFlight = false
			g.pending[token] = e
		}
		return err
	}
	delete(g.pending, token)
	return nil
}

// Cancel dismisses the dialog. A confirmation already running is left alone.
func (g *ConfirmGate) Cancel(userID, token string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e, ok := g.pending[token]; ok && e.userID == userID && !e.inFlight {
		delete(g.pending, token)
	}
}

// Sweep drops expired confirmations and reports how many went.
func (g *ConfirmGate) Sweep() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	n := 0
	for token, e := range g.pending {
		if !e.inFlight && now.After(e.action.ExpiresAt) {
			delete(g.pending, token)
			n++
		}
	}
	return n
}

// claim marks the entry in flight.
func (g *ConfirmGate) claim(userID, kind, token string) (PendingAction, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.pending[token]
	if !ok || e.userID != userID || e.action.Kind != kind {
		return PendingAction{}, models.ErrConfirmationRequired
	}
	if e.inFlight {
		return PendingAction{}, models.ErrActionInFlight
	}
	if g.now().After(e.action.ExpiresAt) {
		delete(g.pending, token)
		return PendingAction{}, models.ErrConfirmationRequired
	}
	e.inFlight = true
	g.pending[token] = e
	return e.action, nil
}
