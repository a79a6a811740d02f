package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/service"
)

type UserHandler struct {
	s  service.UserService
	cb service.CallbackService
	bs service.SubscriptionService
}

func NewUserHandler(service service.UserService, cb service.CallbackService, bs service.SubscriptionService) *UserHandler {
	return &UserHandler{s: service, cb: cb, bs: bs}
}

func (h *UserHandler) GetUserInfo(c *fiber.Ctx) error {
	userInfo, err := h.s.GetUserInfo(c.UserContext(), GetCredential(c))
	if err != nil {
		return ErrorResponse(c, err, "Failed to load user")
	}

	return c.JSON(userInfo)
}

// Notifications pops pending notifications; each one is returned once.
func (h *UserHandler) Notifications(c *fiber.Ctx) error {
	notifications, err := h.cb.Notifications(c.UserContext(), GetUserID(c))
	if err != nil {
		return ErrorResponse(c, err, "Failed to load notifications")
	}
	if notifications == nil {
		notifications = []*models.Notification{}
	}
	return c.JSON(notifications)
}

func (h *UserHandler) Collections(c *fiber.Ctx) error {
	collections, err := h.s.Collections(c.UserContext(), GetCredential(c))
	if err != nil {
		return ErrorResponse(c, err, "Failed to load collections")
	}
	return c.JSON(collections)
}

func (h *UserHandler) Subscription(c *fiber.Ctx) error {
	sub, err := h.bs.Status(c.UserContext(), GetCredential(c))
	if err != nil {
		return ErrorResponse(c, err, "Failed to load subscription")
	}
	return c.JSON(sub)
}
