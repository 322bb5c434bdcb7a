package handlers

import (
	"photoshare/internal/auth"
	"photoshare/internal/logging"
	"photoshare/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// LocalUserID is the fiber.Ctx local holding the authenticated user's id.
const LocalUserID = "user_id"

// Session inspects the access token cookie of incoming requests.
type Session struct {
	issuer  *auth.Issuer
	metrics *metrics.Metrics
	logger  logging.Logger
}

// NewSession returns a Session validating cookies with issuer.
func NewSession(issuer *auth.Issuer, m *metrics.Metrics, logger logging.Logger) *Session {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Session{issuer: issuer, metrics: m, logger: logger}
}

// State classifies the request's access token cookie.
func (s *Session) State(c *fiber.Ctx) (auth.TokenState, *auth.Claims) {
	state, claims, err := s.issuer.Inspect(c.Cookies(auth.AccessCookieName))
	if err != nil {
		s.logger.Debug(c.UserContext(), "session token rejected", "state", state.String(), "error", err)
	}
	return state, claims
}

// RedirectIfAuthenticated sends callers holding a valid session to /upload
// and lets everyone else through to the public page.
func (s *Session) RedirectIfAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, _ := s.State(c)
		s.metrics.Gate(state.String())
		if state == auth.ValidToken {
			return c.Redirect("/upload", fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequireSession verifies the access token cookie and, for state-changing
// methods, the CSRF double-submit value.
func (s *Session) RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, claims := s.State(c)
		switch state {
		case auth.ValidToken:
		case auth.NoToken:
			return fiber.NewError(fiber.StatusUnauthorized, "Missing token")
		case auth.ExpiredToken:
			return fiber.NewError(fiber.StatusUnauthorized, "Token has expired")
		default:
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		if !safeMethod(c.Method()) && !auth.CSRFValid(c, claims) {
			return fiber.NewError(fiber.StatusUnauthorized, "Missing or invalid CSRF token.")
		}

		// Store user info in locals
		uid, err := claims.UserID()
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token claims")
		}
		c.Locals(LocalUserID, uid)

		return c.Next()
	}
}

func safeMethod(m string) bool {
	switch m {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions, fiber.MethodTrace:
		return true
	}
	return false
}
