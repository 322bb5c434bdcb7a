package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const accessTokenType = "access"

// ErrInvalidToken covers tokens that verify but do not carry a usable identity.
var ErrInvalidToken = errors.New("invalid token")

// TokenState is what a request's token turned out to be.
type TokenState int

const (
	NoToken TokenState = iota
	ValidToken
	ExpiredToken
	InvalidSignature
	MalformedToken
)

func (s TokenState) String() string {
	switch s {
	case NoToken:
		return "no_token"
	case ValidToken:
		return "valid"
	case ExpiredToken:
		return "expired"
	case InvalidSignature:
		return "invalid_signature"
	case MalformedToken:
		return "malformed"
	default:
		return "unknown"
	}
}

// Claims are the access token claims. Subject holds the decimal user id.
type Claims struct {
	jwt.RegisteredClaims
	Type  string `json:"type"`
	Fresh bool   `json:"fresh"`
	CSRF  string `json:"csrf,omitempty"`
}

// UserID parses the subject claim.
func (c *Claims) UserID() (int, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil || id <= 0 {
		return 0, ErrInvalidToken
	}
	return id, nil
}

// Token is a freshly signed access token.
type Token struct {
	Raw       string
	UserID    int
	CSRF      string
	ExpiresAt time.Time
}

// Issuer mints and verifies HS256 access tokens.
type Issuer struct {
	secret   []byte
	lifetime time.Duration
	csrf     bool
	now      func() time.Time
}

// IssuerOption configures an Issuer.
type IssuerOption func(*Issuer)

// WithClock replaces time.Now for issuing and validating.
func WithClock(now func() time.Time) IssuerOption {
	return func(i *Issuer) { i.now = now }
}

// WithCSRF embeds a random double-submit value in every token.
func WithCSRF(enabled bool) IssuerOption {
	return func(i *Issuer) { i.csrf = enabled }
}

// NewIssuer signs with secret; tokens live for lifetime. CSRF values are on
// unless WithCSRF(false) is given.
func NewIssuer(secret []byte, lifetime time.Duration, opts ...IssuerOption) *Issuer {
	i := &Issuer{
		secret:   secret,
		lifetime: lifetime,
		csrf:     true,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Lifetime is the configured token validity.
func (i *Issuer) Lifetime() time.Duration { return i.lifetime }

// Issue signs a token for userID that expires after the configured lifetime.
func (i *Issuer) Issue(userID int) (*Token, error) {
	now := i.now()
	expires := now.Add(i.lifetime)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(userID),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
			ID:        uuid.NewString(),
		},
		Type:  accessTokenType,
		Fresh: false,
	}
	if i.csrf {
		claims.CSRF = uuid.NewString()
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}

	return &Token{
		Raw:       raw,
		UserID:    userID,
		CSRF:      claims.CSRF,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Decode verifies signature, algorithm and expiry and returns the claims.
// Errors wrap the jwt sentinels (jwt.ErrTokenExpired, jwt.ErrTokenSignatureInvalid,
// jwt.ErrTokenMalformed) or ErrInvalidToken.
func (i *Issuer) Decode(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Type != accessTokenType {
		return nil, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return nil, err
	}
	return claims, nil
}

// Inspect classifies raw. Claims are only returned for ValidToken.
func (i *Issuer) Inspect(raw string) (TokenState, *Claims, error) {
	if raw == "" {
		return NoToken, nil, nil
	}
	claims, err := i.Decode(raw)
	if err != nil {
		return Classify(err), nil, err
	}
	return ValidToken, claims, nil
}

// Classify maps a Decode error onto a TokenState.
func Classify(err error) TokenState {
	switch {
	case err == nil:
		return ValidToken
	case errors.Is(err, jwt.ErrTokenExpired):
		return ExpiredToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return InvalidSignature
	default:
		return MalformedToken
	}
}
