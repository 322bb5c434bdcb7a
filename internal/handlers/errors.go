package handlers

import (
	"errors"

	"photoshare/internal/logging"
	"photoshare/internal/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// ErrorHandler renders failures with the error view. Errors that are not a
// *fiber.Error are logged and answered with a generic 500.
func ErrorHandler(logger logging.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = logging.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := utils.StatusMessage(code)

		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
			msg = fe.Message
		} else if errors.Is(err, store.ErrUnknownOwner) {
			logger.Error(c.UserContext(), "photo owner invariant violated", "path", c.Path(), "error", err)
		} else {
			logger.Error(c.UserContext(), "request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}

		c.Status(code)
		if rerr := c.Render("error", fiber.Map{
			"Title":   utils.StatusMessage(code),
			"Status":  code,
			"Message": msg,
		}); rerr != nil {
			c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
			return c.SendString(msg)
		}
		return nil
	}
}

// HealthHandler reports that the process is serving.
func HealthHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
