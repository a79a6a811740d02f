// Package session resolves the caller's credential for outbound calls. Every
// remote request receives a Credential explicitly; nothing mutates a shared
// client's headers.
package session

import (
	"context"
	"fmt"

	"github.com/maheshrc27/postflow-studio/internal/models"
	"golang.org/x/oauth2"
)

type Credential struct {
	UserID string
	Tokens oauth2.TokenSource
}

// Static wraps an already resolved bearer token.
func Static(userID, accessToken string) Credential {
	return Credential{
		UserID: userID,
		Tokens: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken, TokenType: "Bearer"}),
	}
}

func (c Credential) Valid() bool {
	return c.UserID != "" && c.Tokens != nil
}

// Token returns the bearer token or ErrNoSession.
func (c Credential) Token() (*oauth2.Token, error) {
	if !c.Valid() {
		return nil, models.ErrNoSession
	}
	tok, err := c.Tokens.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrNoSession, err)
	}
	if !tok.Valid() {
		return nil, models.ErrNoSession
	}
	return tok, nil
}

type ctxKey struct{}

func WithCredential(ctx context.Context, cred Credential) context.Context {
	return context.WithValue(ctx, ctxKey{}, cred)
}

// FromContext is the scoped accessor; ok is false when there is no session.
func FromContext(ctx context.Context) (Credential, bool) {
	cred, ok := ctx.Value(ctxKey{}).(Credential)
	if !ok || !cred.Valid() {
		return Credential{}, false
	}
	return cred, true
}
