package api

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/postflow-studio/internal/api/handlers"
	"github.com/maheshrc27/postflow-studio/internal/api/middleware"
)

type Handlers struct {
	Auth     *handlers.AuthHandler
	Platform *handlers.PlatformHandler
	User     *handlers.UserHandler
	Media    *handlers.MediaHandler
	Draft    *handlers.DraftHandler
	Post     *handlers.PostHandler
}

// NewApp builds the fiber app. Immutable is required: route params end up in
// pending confirmations and flashed notifications that outlive the request.
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		Immutable:    true,
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    100 * 1024 * 1024, // 100 MB
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})
}

func RegisterRoutes(app *fiber.App, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	app.Get("/login", h.Auth.Login)
	app.Get("/login/callback", h.Auth.LoginCallbackHandler)
	app.Post("/logout", h.Auth.Logout)

	authGroup := app.Group("/auth", authMiddleware.AuthMiddleware())
	authGroup.Get("/:platform", h.Platform.AddSocialAccount)
	authGroup.Get("/:platform/callback", h.Platform.CallbackHandler)

	api := app.Group("/api")
	api.Use(authMiddleware.AuthMiddleware())

	api.Get("/user/info", h.User.GetUserInfo)
	api.Get("/notifications", h.User.Notifications)
	api.Get("/collections", h.User.Collections)
	api.Get("/subscription", h.User.Subscription)

	// social accounts api routes
	api.Get("/accounts", h.Platform.ListSocialAccounts)
	api.Get("/accounts/connect/:platform", h.Platform.ConnectURL)
	api.Post("/accounts/:id/reauthorize", h.Platform.Reauthorize)
	api.Delete("/accounts/:id", h.Platform.DeleteSocialAccount)
	api.Post("/accounts/disconnect/confirm", h.Platform.ConfirmDeleteSocialAccount)
	api.Post("/accounts/disconnect/cancel", h.Platform.CancelDeleteSocialAccount)

	api.Post("/media", h.Media.Upload)
	api.Get("/media", h.Media.List)
	api.Get("/media/:id", h.Media.Get)
	api.Delete("/media/:id", h.Media.Release)

	api.Get("/draft", h.Draft.GetDraft)
	api.Put("/draft", h.Draft.UpdateDraft)
	api.Post("/draft/media", h.Draft.AttachMedia)
	api.Delete("/draft/media/:id", h.Draft.DetachMedia)
	api.Post("/draft/submit", h.Draft.Submit)
	api.Post("/draft/reset", h.Draft.Reset)

	api.Get("/scheduled", h.Post.ListPosts)
	api.Get("/scheduled/calendar", h.Post.Calendar)
	api.Get("/scheduled/summary", h.Post.Summary)
	api.Patch("/scheduled/:id/status", h.Post.UpdateStatus)
	api.Delete("/scheduled/:id", h.Post.DeletePost)
	api.Post("/scheduled/delete/confirm", h.Post.ConfirmDeletePost)
	api.Post("/scheduled/delete/cancel", h.Post.CancelDeletePost)
}
