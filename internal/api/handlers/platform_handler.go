package handlers

import (
	"fmt"
	"log/slog"
	"net/url"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/postflow-studio/configs"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/service"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

type PlatformHandler struct {
	ps  service.PlatformService
	cb  service.CallbackService
	cfg config.Config
}

func NewPlatformHandler(ps service.PlatformService, cb service.CallbackService, cfg config.Config) *PlatformHandler {
	return &PlatformHandler{
		ps:  ps,
		cb:  cb,
		cfg: cfg,
	}
}

// AddSocialAccount sends the browser into the platform's authorization flow.
func (h *PlatformHandler) AddSocialAccount(c *fiber.Ctx) error {
	platform, err := models.ParsePlatform(param(c, "platform"))
	if err != nil {
		return ErrorResponse(c, err, "Unsupported platform")
	}

	authURL, err := h.ps.Connect(c.UserContext(), GetCredential(c), platform)
	if err != nil {
		return ErrorResponse(c, err, "Failed to connect account")
	}
	return c.Redirect(authURL, fiber.StatusTemporaryRedirect)
}

// ConnectURL is AddSocialAccount for clients that navigate themselves.
func (h *PlatformHandler) ConnectURL(c *fiber.Ctx) error {
	platform, err := models.ParsePlatform(param(c, "platform"))
	if err != nil {
		return ErrorResponse(c, err, "Unsupported platform")
	}

	authURL, err := h.ps.Connect(c.UserContext(), GetCredential(c), platform)
	if err != nil {
		return ErrorResponse(c, err, "Failed to connect account")
	}
	return c.JSON(transfer.ConnectURL{URL: authURL})
}

// CallbackHandler records the outcome of an authorization flow and redirects
// to the accounts page without the outcome parameters, so a reload shows nothing.
func (h *PlatformHandler) CallbackHandler(c *fiber.Ctx) error {
	platform, err := models.ParsePlatform(param(c, "platform"))
	if err != nil {
		platform = ""
		slog.Info(err.Error())
	}

	q, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		slog.Info(err.Error())
		q = url.Values{}
	}

	if _, err := h.cb.Handle(c.UserContext(), GetUserID(c), platform, q); err != nil {
		slog.Info(err.Error())
	}

	redirectURL := fmt.Sprintf("%s/dashboard/accounts", h.cfg.FrontendURL)
	if rest := service.StripCallbackParams(q); len(rest) > 0 {
		redirectURL += "?" + rest.Encode()
	}
	return c.Redirect(redirectURL, fiber.StatusSeeOther)
}

func (h *PlatformHandler) ListSocialAccounts(c *fiber.Ctx) error {
	accountList, err := h.ps.List(c.UserContext(), GetCredential(c))
	if err != nil {
		return ErrorResponse(c, err, "Failed to load accounts")
	}

	return c.Status(fiber.StatusOK).JSON(accountList)
}

func (h *PlatformHandler) Reauthorize(c *fiber.Ctx) error {
	cred := GetCredential(c)

	acc, err := h.ps.Find(c.UserContext(), cred, param(c, "id"))
	if err != nil {
		return ErrorResponse(c, err, "Failed to reauthorize account")
	}

	result, err := h.ps.Reauthorize(c.UserContext(), cred, acc)
	if err != nil {
		return ErrorResponse(c, err, "Failed to reauthorize account")
	}
	return c.JSON(result)
}

// DeleteSocialAccount only opens the confirmation; nothing is removed yet.
func (h *PlatformHandler) DeleteSocialAccount(c *fiber.Ctx) error {
	pending, err := h.ps.RequestDisconnect(c.UserContext(), GetCredential(c), param(c, "id"))
	if err != nil {
		return ErrorResponse(c, err, "Failed to disconnect account")
	}
	return c.Status(fiber.StatusAccepted).JSON(pending)
}

func (h *PlatformHandler) CancelDeleteSocialAccount(c *fiber.Ctx) error {
	var body transfer.Confirmation
	if err := parseBody(c, &body); err != nil {
		return ErrorResponse(c, err, "Invalid request body")
	}

	if err := h.ps.CancelDisconnect(c.UserContext(), GetCredential(c), body.Token); err != nil {
		return ErrorResponse(c, err, "Failed to cancel")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PlatformHandler) ConfirmDeleteSocialAccount(c *fiber.Ctx) error {
	var body transfer.Confirmation
	if err := parseBody(c, &body); err != nil {
		return ErrorResponse(c, err, "Invalid request body")
	}

	if err := h.ps.ConfirmDisconnect(c.UserContext(), GetCredential(c), body.Token); err != nil {
		return ErrorResponse(c, err, "Failed to disconnect account")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
