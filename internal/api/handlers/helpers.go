package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
	"github.com/maheshrc27/postflow-studio/internal/api/middleware"
	"github.com/maheshrc27/postflow-studio/internal/models"
	"github.com/maheshrc27/postflow-studio/internal/repository"
	"github.com/maheshrc27/postflow-studio/internal/session"
)

// HeaderTimeZone carries the browser's IANA zone.
const HeaderTimeZone = "X-Time-Zone"

var validate = validator.New()

func GetUserID(c *fiber.Ctx) string {
	userID, _ := c.Locals(middleware.LocalUserID).(string)
	return userID
}

// GetCredential returns the request credential, or an invalid one when the
// route runs without a session.
func GetCredential(c *fiber.Ctx) session.Credential {
	if cred, ok := c.Locals(middleware.LocalCredential).(session.Credential); ok {
		return cred
	}
	cred, _ := session.FromContext(c.UserContext())
	return cred
}

// param copies the route parameter out of the request buffer.
func param(c *fiber.Ctx, key string) string {
	return fiberutils.CopyString(c.Params(key))
}

// parseBody decodes and validates the JSON body into out.
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		slog.Info(err.Error())
		return models.NewValidationError("body", "Invalid request body")
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return models.NewValidationError(strings.ToLower(fe.Field()), fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
		}
		return models.NewValidationError("body", err.Error())
	}
	return nil
}

// requestLocation picks the zone from the tz query parameter, then the
// X-Time-Zone header, then def.
func requestLocation(c *fiber.Ctx, def string) (*time.Location, error) {
	zone := c.Query("tz")
	if zone == "" {
		zone = c.Get(HeaderTimeZone)
	}
	if zone == "" {
		zone = def
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, models.NewValidationError("tz", fmt.Sprintf("unknown time zone %q", zone))
	}
	return loc, nil
}

func statusFor(err error) int {
	var ve *models.ValidationError
	var re *models.RemoteError
	switch {
	case errors.As(err, &ve), errors.Is(err, models.ErrUnsupportedPlatform):
		return fiber.StatusBadRequest
	case errors.Is(err, models.ErrNoSession):
		return fiber.StatusUnauthorized
	case errors.Is(err, models.ErrCapabilityDenied):
		return fiber.StatusForbidden
	case errors.Is(err, models.ErrAccountNotFound), errors.Is(err, repository.ErrAssetNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, models.ErrAccountNotActive), errors.Is(err, models.ErrSubmitInFlight), errors.Is(err, models.ErrDraftConsumed),
		errors.Is(err, models.ErrActionInFlight):
		return fiber.StatusConflict
	case errors.Is(err, models.ErrConfirmationRequired):
		return fiber.StatusPreconditionRequired
	case errors.As(err, &re):
		if re.Status == fiber.StatusUnauthorized {
			return fiber.StatusUnauthorized
		}
		return fiber.StatusBadGateway
	}
	return fiber.StatusInternalServerError
}

// ErrorResponse writes err as {"error": msg}. Unexpected errors show fallback.
func ErrorResponse(c *fiber.Ctx, err error, fallback string) error {
	status := statusFor(err)
	msg := fallback
	switch status {
	case fiber.StatusInternalServerError:
		slog.Info(err.Error())
	case fiber.StatusConflict, fiber.StatusPreconditionRequired, fiber.StatusForbidden, fiber.StatusNotFound:
		msg = errMessage(err)
	default:
		msg = models.UserMessage(err, fallback)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": msg,
	})
}

func errMessage(err error) string {
	msg := err.Error()
	if msg == "" {
		return "something went wrong"
	}
	r, size := utf8.DecodeRuneInString(msg)
	return string(unicode.ToUpper(r)) + msg[size:]
}
