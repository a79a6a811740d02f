package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/maheshrc27/postflow-studio/internal/cache"
	"github.com/maheshrc27/postflow-studio/internal/models"
)

// Query parameters the remote API appends when it sends the browser back.
var callbackParams = []string{"success", "error", "status", "message", "error_description"}

// replayWindow absorbs double loads of the same callback URL.
const replayWindow = 30 * time.Second

// ParseCallback normalizes the three callback forms into one notification:
// success=true, error=<code>&message=<text>, status=failed&message=<text>.
// ok is false when q carries none of them.
func ParseCallback(platform models.Platform, q url.Values) (n *models.Notification, ok bool) {
	if !HasCallbackParams(q) {
		return nil, false
	}

	subject := "Account"
	if platform != "" {
		subject = platform.DisplayName() + " account"
	}

	success := strings.EqualFold(q.Get("success"), "true")
	status := strings.ToLower(q.Get("status"))
	message := decodeMessage(q.Get("message"))
	if message == "" {
		message = decodeMessage(q.Get("error_description"))
	}

	switch {
	case success && q.Get("error") == "", status == "success" || status == "connected":
		n = models.SuccessNotification("Account connected", subject+" connected successfully")
	default:
		if message == "" {
			if code := q.Get("error"); code != "" {
				message = fmt.Sprintf("Failed to connect account (%s)", code)
			} else {
				message = "Failed to connect account"
			}
		}
		n = models.ErrorNotification("Connection failed", message)
	}
	n.Platform = platform
	return n, true
}

func HasCallbackParams(q url.Values) bool {
	for _, k := range callbackParams {
		if q.Has(k) {
			return true
		}
	}
	return false
}

// StripCallbackParams returns q without the callback parameters.
func StripCallbackParams(q url.Values) url.Values {
	out := url.Values{}
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	for _, k := range callbackParams {
		out.Del(k)
	}
	return out
}

// Some providers encode the message twice; url.Values has already undone one layer.
func decodeMessage(s string) string {
	if strings.Contains(s, "%") {
		if dec, err := url.QueryUnescape(s); err == nil {
			return strings.TrimSpace(dec)
		}
	}
	return strings.TrimSpace(s)
}

type CallbackService interface {
	// Handle records the callback outcome for the user. It returns nil when q has
	// no callback parameters or the same callback was already handled.
	Handle(ctx context.Context, userID string, platform models.Platform, q url.Values) (*models.Notification, error)
	Notifications(ctx context.Context, userID string) ([]*models.Notification, error)
}

type callbackService struct {
	flash cache.FlashStore
}

func NewCallbackService(flash cache.FlashStore) CallbackService {
	return &callbackService{flash: flash}
}

func (s *callbackService) Handle(ctx context.Context, userID string, platform models.Platform, q url.Values) (*models.Notification, error) {
	n, ok := ParseCallback(platform, q)
	if !ok {
		return nil, nil
	}

	first, err := s.flash.MarkOnce(ctx, fingerprint(userID, platform, q), replayWindow)
	if err != nil {
		return nil, err
	}
	if !first {
		slog.Info("callback already handled", "user_id", userID, "platform", platform)
		return nil, nil
	}

	if err := s.flash.Push(ctx, userID, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *callbackService) Notifications(ctx context.Context, userID string) ([]*models.Notification, error) {
	return s.flash.Pop(ctx, userID)
}

func fingerprint(userID string, platform models.Platform, q url.Values) string {
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	fmt.Fprintf(h, "%s|%s", userID, platform)
	for _, k := range keys {
		fmt.Fprintf(h, "|%s=%s", k, strings.Join(q[k], ","))
	}
	return "callback:" + hex.EncodeToString(h.Sum(nil))
}
