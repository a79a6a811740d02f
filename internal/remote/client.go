// Package remote is the client contract against the scheduling API and the
// third-party storage host. Every call takes the caller's credential.
package remote

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/session"
)

type Options struct {
	BaseURL   string
	UploadURL string
	Timeout   time.Duration
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

type Client struct {
	api     *resty.Client
	storage *resty.Client
	upload  string
}

func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Client{
		api:     newResty(opts, opts.BaseURL),
		storage: newResty(opts, ""),
		upload:  strings.TrimRight(opts.UploadURL, "/"),
	}
}

func newResty(opts Options, baseURL string) *resty.Client {
	var c *resty.Client
	if opts.HTTPClient != nil {
		c = resty.NewWithClient(opts.HTTPClient)
	} else {
		c = resty.New()
	}
	c.SetTimeout(opts.Timeout).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetHeader("Accept", "application/json")
	if baseURL != "" {
		c.SetBaseURL(strings.TrimRight(baseURL, "/"))
	}
	return c
}

// request builds an authorized request. The credential is resolved here, per
// call; a missing session fails before anything is sent.
func (c *Client) request(ctx context.Context, cred session.Credential) (*resty.Request, error) {
	tok, err := cred.Token()
	if err != nil {
		return nil, err
	}
	return c.api.R().SetContext(ctx).SetAuthToken(tok.AccessToken), nil
}

// check converts transport failures and non-2xx responses into RemoteError.
func check(op, fallback string, resp *resty.Response, err error) error {
	if err != nil {
		slog.Info(err.Error(), "op", op)
		var ne net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
			return &models.RemoteError{Op: op, Message: "The request timed out, please try again", Err: err}
		}
		return &models.RemoteError{Op: op, Message: fallback, Err: err}
	}
	if resp.IsError() {
		msg := ExtractMessage(resp.Body())
		if msg == "" {
			msg = fallback
		}
		slog.Info("remote call failed", "op", op, "status", resp.StatusCode(), "message", msg)
		return &models.RemoteError{Op: op, Status: resp.StatusCode(), Message: msg}
	}
	return nil
}

// ExtractMessage finds a human-readable message in an error payload. It
// understands {"message": ...}, {"error": "..."} and {"error": {"message": ...}}.
func ExtractMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Message string          `json:"message"`
		Error   json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if payload.Message != "" {
		return payload.Message
	}
	if len(payload.Error) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(payload.Error, &s); err == nil {
		return s
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload.Error, &nested); err == nil {
		return nested.Message
	}
	return ""
}
