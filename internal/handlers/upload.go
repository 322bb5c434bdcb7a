package handlers

import (
	"errors"

	"photoshare/internal/auth"
	"photoshare/internal/metrics"
	"photoshare/internal/models"
	"photoshare/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UploadPageHandler renders the upload form. With a valid session it also
// lists the caller's photos.
func UploadPageHandler(photos *services.PhotoService, session *Session) fiber.Handler {
	return func(c *fiber.Ctx) error {
		bind := fiber.Map{"Title": "Upload"}

		state, claims := session.State(c)
		if state == auth.ValidToken {
			userID, err := claims.UserID()
			if err != nil {
				return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
			}
			list, err := photos.ListPhotos(c.UserContext(), userID)
			if err != nil {
				return err
			}
			bind["LoggedIn"] = true
			bind["CSRFToken"] = c.Cookies(auth.CSRFCookieName)
			bind["Photos"] = list
		}

		return c.Render("upload", bind)
	}
}

// UploadPhotoHandler handles uploading a photo for the authenticated user
func UploadPhotoHandler(photos *services.PhotoService, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals(LocalUserID).(int)

		var req models.UploadPhotoRequest
		if err := c.BodyParser(&req); err != nil {
			m.Upload("invalid")
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
		}

		// Expect a multipart form file named "photo"
		fileHeader, err := c.FormFile("photo")
		if err != nil {
			m.Upload("invalid")
			return fiber.NewError(fiber.StatusBadRequest, "photo file is required")
		}

		photo, err := photos.Upload(c.UserContext(), userID, req, fileHeader)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrUnsupportedImage):
				m.Upload("invalid")
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			m.Upload("error")
			return err
		}

		m.Upload("ok")
		if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON {
			return c.Status(fiber.StatusCreated).JSON(photo)
		}
		return c.Redirect("/upload", fiber.StatusSeeOther)
	}
}
