package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/postflow-studio/configs"
	"github.com/maheshrc27/postflow-studio/internal/session"
	"github.com/maheshrc27/postflow-studio/pkg/utils"
)

const (
	LocalUserID     = "user_id"
	LocalCredential = "credential"
)

type AuthMiddleware struct {
	cfg config.Config
}

func NewAuthMiddleware(cfg config.Config) *AuthMiddleware {
	return &AuthMiddleware{cfg: cfg}
}

// AuthMiddleware resolves the session cookie (or a bearer session token) into
// the request credential. Requests without a valid session get 401.
func (m *AuthMiddleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString := c.Cookies(m.cfg.CookieName)
		if tokenString == "" {
			if h := c.Get(fiber.HeaderAuthorization); strings.HasPrefix(h, "Bearer ") {
				tokenString = strings.TrimPrefix(h, "Bearer ")
			}
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing session",
			})
		}

		cred, err := m.Resolve(tokenString)
		if err != nil {
			c.Cookie(&fiber.Cookie{
				Name:   m.cfg.CookieName,
				Value:  "",
				Path:   "/",
				MaxAge: -1, // Delete cookie
			})

			slog.Info("session validation failed", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired session",
			})
		}

		c.Locals(LocalUserID, cred.UserID)
		c.Locals(LocalCredential, cred)
		c.SetUserContext(session.WithCredential(c.UserContext(), cred))
		return c.Next()
	}
}

// Resolve turns a signed session token into a credential.
func (m *AuthMiddleware) Resolve(tokenString string) (session.Credential, error) {
	claims, err := utils.ValidateToken(m.cfg.SecretKey, tokenString)
	if err != nil {
		return session.Credential{}, err
	}
	upstream, err := utils.UpstreamToken(m.cfg.SecretKey, claims)
	if err != nil {
		return session.Credential{}, err
	}
	return session.Static(claims.UserID, upstream), nil
}
