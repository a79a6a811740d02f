package handlers

import (
	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/postflow-studio/configs"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/service"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

type DraftHandler struct {
	drafts *service.DraftRegistry
	ps     service.PlatformService
	ms     service.MediaService
	cfg    config.Config
}

func NewDraftHandler(drafts *service.DraftRegistry, ps service.PlatformService, ms service.MediaService, cfg config.Config) *DraftHandler {
	return &DraftHandler{
		drafts: drafts,
		ps:     ps,
		ms:     ms,
		cfg:    cfg,
	}
}

func (h *DraftHandler) view(c *fiber.Ctx, composer *service.Composer) error {
	view, err := composer.View()
	if err != nil {
		return ErrorResponse(c, err, "Failed to load draft")
	}
	return c.JSON(view)
}

func (h *DraftHandler) GetDraft(c *fiber.Ctx) error {
	return h.view(c, h.drafts.Get(GetUserID(c)))
}

// UpdateDraft applies the fields present in the body, in a fixed order.
func (h *DraftHandler) UpdateDraft(c *fiber.Ctx) error {
	var body transfer.DraftUpdate
	if err := parseBody(c, &body); err != nil {
		return ErrorResponse(c, err, "Invalid request body")
	}

	cred := GetCredential(c)
	composer := h.drafts.Get(cred.UserID)

	if body.Content != nil {
		if err := composer.SetContent(*body.Content); err != nil {
			return ErrorResponse(c, err, "Failed to update draft")
		}
	}
	if body.AccountID != nil {
		acc, err := h.ps.Find(c.UserContext(), cred, *body.AccountID)
		if err != nil {
			return ErrorResponse(c, err, "Failed to load accounts")
		}
		if err := composer.SelectAccount(acc); err != nil {
			return ErrorResponse(c, err, "Failed to update draft")
		}
	}
	if body.CollectionID != nil {
		if err := composer.SelectCollection(*body.CollectionID); err != nil {
			return ErrorResponse(c, err, "Failed to update draft")
		}
	}
	if body.Disposition != nil {
		if err := composer.SetDisposition(models.Disposition(*body.Disposition)); err != nil {
			return ErrorResponse(c, err, "Failed to update draft")
		}
	}
	if body.ScheduleAt != nil {
		if err := composer.SetSchedule(*body.ScheduleAt); err != nil {
			return ErrorResponse(c, err, "Failed to update draft")
		}
	}
	return h.view(c, composer)
}

func (h *DraftHandler) AttachMedia(c *fiber.Ctx) error {
	var body transfer.MediaAttach
	if err := parseBody(c, &body); err != nil {
		return ErrorResponse(c, err, "Invalid request body")
	}

	userID := GetUserID(c)
	assets := make([]*models.UploadedMediaAsset, 0, len(body.IDs))
	for _, id := range body.IDs {
		asset, err := h.ms.Get(c.UserContext(), userID, id)
		if err != nil {
			return ErrorResponse(c, err, "Failed to attach media")
		}
		assets = append(assets, asset)
	}

	composer := h.drafts.Get(userID)
	if err := composer.AttachMedia(assets...); err != nil {
		return ErrorResponse(c, err, "Failed to attach media")
	}
	return h.view(c, composer)
}

func (h *DraftHandler) DetachMedia(c *fiber.Ctx) error {
	composer := h.drafts.Get(GetUserID(c))
	if err := composer.DetachMedia(c.UserContext(), param(c, "id")); err != nil {
		return ErrorResponse(c, err, "Failed to remove media")
	}
	return h.view(c, composer)
}

// Submit publishes or schedules the draft. The zone comes from the request
// so it is the freshest one the browser knows.
func (h *DraftHandler) Submit(c *fiber.Ctx) error {
	zone := c.Query("tz")
	if zone == "" {
		zone = c.Get(HeaderTimeZone)
	}

	cred := GetCredential(c)
	result, err := h.drafts.Get(cred.UserID).Submit(c.UserContext(), cred, zone)
	if err != nil {
		return ErrorResponse(c, err, "Failed to submit post")
	}

	status := fiber.StatusOK
	if result.State == service.StateFailed {
		status = fiber.StatusBadGateway
		if result.Outcome != nil && result.Outcome.Kind == models.OutcomeUnsupported {
			status = fiber.StatusUnprocessableEntity
		}
	}
	return c.Status(status).JSON(result)
}

func (h *DraftHandler) Reset(c *fiber.Ctx) error {
	composer := h.drafts.Get(GetUserID(c))
	if err := composer.Reset(c.UserContext()); err != nil {
		return ErrorResponse(c, err, "Failed to reset draft")
	}
	return h.view(c, composer)
}
