package handlers

import (
	"errors"

	"photoshare/internal/auth"
	"photoshare/internal/logging"
	"photoshare/internal/metrics"
	"photoshare/internal/models"
	"photoshare/internal/services"

	"github.com/gofiber/fiber/v2"
)

const (
	msgInvalidCredentials = "Incorrect email or password."
	msgEmailExists        = "Email already exists."
)

// AuthHandlers serves the landing, login, register and logout endpoints.
type AuthHandlers struct {
	users   *services.UserService
	cookies auth.CookieOptions
	metrics *metrics.Metrics
	logger  logging.Logger
}

// NewAuthHandlers builds the handlers; a nil logger discards output.
func NewAuthHandlers(users *services.UserService, cookies auth.CookieOptions, m *metrics.Metrics, logger logging.Logger) *AuthHandlers {
	if logger == nil {
		logger = logging.Nop()
	}
	return &AuthHandlers{users: users, cookies: cookies, metrics: m, logger: logger}
}

// Index renders the public landing page.
func (h *AuthHandlers) Index(c *fiber.Ctx) error {
	return c.Render("index", fiber.Map{})
}

// LoginPage renders the sign-in form.
func (h *AuthHandlers) LoginPage(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{"Title": "Sign In"})
}

// RegisterPage renders the registration form.
func (h *AuthHandlers) RegisterPage(c *fiber.Ctx) error {
	return c.Render("register", fiber.Map{"Title": "Register"})
}

// Login checks the submitted credentials. An unknown email and a wrong
// password produce the same 401.
func (h *AuthHandlers) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}

	user, token, err := h.users.Login(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			h.metrics.Auth("login", "invalid_credentials")
			return fiber.NewError(fiber.StatusUnauthorized, msgInvalidCredentials)
		}
		h.metrics.Auth("login", "error")
		return err
	}

	h.metrics.Auth("login", "success")
	h.logger.Info(c.UserContext(), "user logged in", "user_id", user.ID)
	auth.SetAccessCookies(c, token, h.cookies)
	return c.Redirect("/upload", fiber.StatusFound)
}

// Register creates the account and signs the new user in.
func (h *AuthHandlers) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}

	user, token, err := h.users.Register(c.UserContext(), req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrDuplicateEmail):
			h.metrics.Auth("register", "duplicate_email")
			return fiber.NewError(fiber.StatusConflict, msgEmailExists)
		case errors.Is(err, services.ErrInvalidInput):
			h.metrics.Auth("register", "invalid_input")
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		h.metrics.Auth("register", "error")
		return err
	}

	h.metrics.Auth("register", "success")
	h.logger.Info(c.UserContext(), "user registered", "user_id", user.ID)
	auth.SetAccessCookies(c, token, h.cookies)
	return c.Redirect("/upload", fiber.StatusFound)
}

// Logout expires the session cookies.
func (h *AuthHandlers) Logout(c *fiber.Ctx) error {
	auth.UnsetAccessCookies(c, h.cookies)
	return c.Redirect("/", fiber.StatusFound)
}
