package auth

import (
	"crypto/subtle"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	AccessCookieName = "access_token_cookie"
	CSRFCookieName   = "csrf_access_token"
	CSRFHeaderName   = "X-CSRF-TOKEN"
	CSRFFormField    = "csrf_token"
)

// CookieOptions controls how tokens travel as cookies.
type CookieOptions struct {
	// Secure keeps cookies off plaintext transport; on in production.
	Secure bool
	// SessionCookie omits Expires so the browser drops cookies on close.
	SessionCookie bool
	Domain        string
}

// SetAccessCookies attaches tok to the response: the token itself in an
// HttpOnly cookie and, when the token carries one, its CSRF value in a cookie
// scripts can read.
func SetAccessCookies(c *fiber.Ctx, tok *Token, opts CookieOptions) {
	c.Cookie(opts.cookie(AccessCookieName, tok.Raw, tok.ExpiresAt, true))
	if tok.CSRF != "" {
		c.Cookie(opts.cookie(CSRFCookieName, tok.CSRF, tok.ExpiresAt, false))
	}
}

// UnsetAccessCookies expires both cookies.
func UnsetAccessCookies(c *fiber.Ctx, opts CookieOptions) {
	for _, name := range []string{AccessCookieName, CSRFCookieName} {
		ck := opts.cookie(name, "", time.Unix(0, 0), name == AccessCookieName)
		ck.SessionOnly = false
		c.Cookie(ck)
	}
}

// CSRFValid checks the double-submit value sent with a state-changing request
// against the one bound into the token. Tokens issued without CSRF pass.
func CSRFValid(c *fiber.Ctx, claims *Claims) bool {
	if claims.CSRF == "" {
		return true
	}
	sent := c.Get(CSRFHeaderName)
	if sent == "" {
		sent = c.FormValue(CSRFFormField)
	}
	if sent == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sent), []byte(claims.CSRF)) == 1
}

func (o CookieOptions) cookie(name, value string, expires time.Time, httpOnly bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:        name,
		Value:       value,
		Path:        "/",
		Domain:      o.Domain,
		Expires:     expires,
		Secure:      o.Secure,
		HTTPOnly:    httpOnly,
		SameSite:    fiber.CookieSameSiteLaxMode,
		SessionOnly: o.SessionCookie,
	}
}
