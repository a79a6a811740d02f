package handlers

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/postflow-studio/configs"
	"github.com/maheshrc27/postflow-studio/internal/service"
	"github.com/maheshrc27/postflow-studio/pkg/utils"
)

const stateCookie = "postflow_oauth_state"

type AuthHandler struct {
	s   service.AuthService
	cfg config.Config
}

func NewAuthHandler(cfg config.Config, service service.AuthService) *AuthHandler {
	return &AuthHandler{s: service, cfg: cfg}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	state, err := utils.GenerateRandomKey(24)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	authURL, err := h.s.LoginURL(state)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Login is not configured",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     stateCookie,
		Value:    state,
		HTTPOnly: true,
		Secure:   h.cfg.Env == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/login",
		Expires:  time.Now().Add(10 * time.Minute),
	})
	return c.Redirect(authURL, fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) LoginCallbackHandler(c *fiber.Ctx) error {
	state := c.Query("state")
	if state == "" || state != c.Cookies(stateCookie) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to validate login state",
		})
	}
	c.ClearCookie(stateCookie)

	user, token, err := h.s.LoginCallback(c.UserContext(), c.Query("code"))
	if err != nil {
		return ErrorResponse(c, err, "something went wrong")
	}

	sessionToken, err := utils.GenerateToken(h.cfg.SecretKey, user.ID, token.AccessToken, h.cfg.SessionTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "something went wrong",
		})
	}

	c.Cookie(&fiber.Cookie{
		Name:     h.cfg.CookieName,
		Value:    sessionToken,
		HTTPOnly: true,
		Secure:   h.cfg.Env == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
		Path:     "/",
		Expires:  time.Now().Add(h.cfg.SessionTTL),
	})

	return c.Redirect(h.cfg.FrontendURL, fiber.StatusTemporaryRedirect)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:   h.cfg.CookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	return c.SendStatus(fiber.StatusNoContent)
}
