package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	config "github.com/maheshrc27/postflow-studio/configs"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/service"
	"github.com/maheshrc27/postflow-studio/internal/transfer"
)

type PostHandler struct {
	s   service.PostService
	cfg config.Config
	now func() time.Time
}

func NewPostHandler(service service.PostService, cfg config.Config) *PostHandler {
	return &PostHandler{s: service, cfg: cfg, now: time.Now}
}

// ListPosts returns the scheduled posts, optionally narrowed to one local
// date (?date=YYYY-MM-DD) or one derived status (?status=).
func (h *PostHandler) ListPosts(c *fiber.Ctx) error {
	loc, err := requestLocation(c, h.cfg.DefaultTimeZone)
	if err != nil {
		return ErrorResponse(c, err, "Invalid time zone")
	}

	posts, err := h.s.List(c.UserContext(), GetCredential(c))
	if err != nil {
		return ErrorResponse(c, err, "Failed to load scheduled posts")
	}

	if d := c.Query("date"); d != "" {
		date, err := service.ParseDateKey(d)
		if err != nil {
			return ErrorResponse(c, err, "Invalid date")
		}
		posts = service.FilterByDate(posts, date, loc)
	}
	if s := c.Query("status"); s != "" {
		status, ok := models.ParsePostStatus(s)
		if !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unknown status",
			})
		}
		posts = service.FilterByStatus(posts, status)
	}
	service.SortByInstant(posts)

	return c.JSON(posts)
}

// Calendar returns the month grid (?year=&month=) and, with ?date=, that day's posts.
func (h *PostHandler) Calendar(c *fiber.Ctx) error {
	loc, err := requestLocation(c, h.cfg.DefaultTimeZone)
	if err != nil {
		return ErrorResponse(c, err, "Invalid time zone")
	}

	now := h.now().In(loc)
	year := c.QueryInt("year", now.Year())
	month := c.QueryInt("month", int(now.Month()))
	if month < 1 || month > 12 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Month must be between 1 and 12",
		})
	}

	posts, err := h.s.List(c.UserContext(), GetCredential(c))
	if err != nil {
		return ErrorResponse(c, err, "Failed to load scheduled posts")
	}

	resp := fiber.Map{
		"month": service.CalendarMonthView(posts, year, time.Month(month), loc, h.now()),
	}
	if d := c.Query("date"); d != "" {
		date, err := service.ParseDateKey(d)
		if err != nil {
			return ErrorResponse(c, err, "Invalid date")
		}
		resp["day"] = service.DayView(posts, date, loc)
	}
	return c.JSON(resp)
}

func (h *PostHandler) Summary(c *fiber.Ctx) error {
	posts, err := h.s.List(c.UserContext(), GetCredential(c))
	if err != nil {
		return ErrorResponse(c, err, "Failed to load scheduled posts")
	}
	return c.JSON(service.SummarizeList(posts))
}

func (h *PostHandler) UpdateStatus(c *fiber.Ctx) error {
	var body transfer.StatusUpdate
	if err := parseBody(c, &body); err != nil {
		return ErrorResponse(c, err, "Invalid request body")
	}

	status, _ := models.ParsePostStatus(body.Status)
	if err := h.s.UpdateStatus(c.UserContext(), GetCredential(c), param(c, "id"), status); err != nil {
		return ErrorResponse(c, err, "Failed to update post status")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeletePost opens the delete confirmation. The post stays until it is confirmed.
func (h *PostHandler) DeletePost(c *fiber.Ctx) error {
	pending, err := h.s.RequestDelete(c.UserContext(), GetCredential(c), param(c, "id"))
	if err != nil {
		return ErrorResponse(c, err, "Failed to delete post")
	}
	return c.Status(fiber.StatusAccepted).JSON(pending)
}

func (h *PostHandler) CancelDeletePost(c *fiber.Ctx) error {
	var body transfer.Confirmation
	if err := parseBody(c, &body); err != nil {
		return ErrorResponse(c, err, "Invalid request body")
	}

	if err := h.s.CancelDelete(c.UserContext(), GetCredential(c), body.Token); err != nil {
		return ErrorResponse(c, err, "Failed to cancel")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PostHandler) ConfirmDeletePost(c *fiber.Ctx) error {
	var body transfer.Confirmation
	if err := parseBody(c, &body); err != nil {
		return ErrorResponse(c, err, "Invalid request body")
	}

	if err := h.s.ConfirmDelete(c.UserContext(), GetCredential(c), body.Token); err != nil {
		return ErrorResponse(c, err, "Failed to delete post")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
