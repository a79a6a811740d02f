package handlers

import (
	"io"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow-studio/internal/service"
)

// maxUploadFiles bounds one batch.
const maxUploadFiles = 10

type MediaHandler struct {
	ms service.MediaService
}

func NewMediaHandler(ms service.MediaService) *MediaHandler {
	return &MediaHandler{ms: ms}
}

// Upload uploads every file of the "files" form field. Failed files are left
// out of the result and reported through one notification in the response.
func (h *MediaHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse form",
		})
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No files selected",
		})
	}
	if len(headers) > maxUploadFiles {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Too many files selected",
		})
	}

	files := make([]service.MediaFile, 0, len(headers))
	var closers []io.Closer
	defer func() {
		for _, cl := range closers {
			cl.Close()
		}
	}()
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			slog.Info(err.Error())
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unable to read " + fh.Filename,
			})
		}
		closers = append(closers, f)
		files = append(files, service.MediaFile{
			Name:     fh.Filename,
			MIMEType: fh.Header.Get(fiber.HeaderContentType),
			Size:     fh.Size,
			Body:     f,
		})
	}

	result := h.ms.UploadAll(c.UserContext(), GetCredential(c), files, nil)

	status := fiber.StatusCreated
	if len(result.Assets) == 0 {
		status = fiber.StatusBadGateway
	}
	return c.Status(status).JSON(result)
}

func (h *MediaHandler) List(c *fiber.Ctx) error {
	assets, err := h.ms.List(c.UserContext(), GetUserID(c))
	if err != nil {
		return ErrorResponse(c, err, "Failed to load media")
	}
	return c.JSON(assets)
}

func (h *MediaHandler) Get(c *fiber.Ctx) error {
	asset, err := h.ms.Get(c.UserContext(), GetUserID(c), param(c, "id"))
	if err != nil {
		return ErrorResponse(c, err, "Failed to load media")
	}
	return c.JSON(asset)
}

func (h *MediaHandler) Release(c *fiber.Ctx) error {
	if err := h.ms.Release(c.UserContext(), GetUserID(c), param(c, "id")); err != nil {
		return ErrorResponse(c, err, "Failed to remove media")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
