package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"photoshare/internal/auth"
	"photoshare/internal/models"
	"photoshare/internal/store"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateEmail     = store.ErrDuplicateEmail
)

// Column limits of the users table.
const (
	maxNameLen    = 100
	maxEmailLen   = 80
	maxContactLen = 30
)

// UserService registers users and checks their credentials.
type UserService struct {
	store  store.Store
	hasher *auth.PasswordHasher
	issuer *auth.Issuer

	dummyOnce sync.Once
	dummyHash string
	dummyErr  error
}

// NewUserService wires the store, password hasher and token issuer.
func NewUserService(st store.Store, hasher *auth.PasswordHasher, issuer *auth.Issuer) *UserService {
	return &UserService{store: st, hasher: hasher, issuer: issuer}
}

// CreateUser hashes password and persists a new user. A taken email yields
// ErrDuplicateEmail; the store's unique constraint decides concurrent races.
func (s *UserService) CreateUser(ctx context.Context, name, email, password, contact string) (*models.User, error) {
	if err := validateRegistration(name, email, password, contact); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is too long", ErrInvalidInput)
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Name: name, Email: email, PasswordHash: hash, Contact: contact}
	created, err := s.store.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// FindUserByEmail returns nil, nil when no user has that exact email.
func (s *UserService) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// Register creates the user and issues a session token for it.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.User, *auth.Token, error) {
	user, err := s.CreateUser(ctx, req.Name, req.Email, req.Password, req.Contact)
	if err != nil {
		return nil, nil, err
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

// Login verifies credentials and issues a session token. An unknown email and
// a wrong password both yield ErrInvalidCredentials.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.User, *auth.Token, error) {
	if req.Email == "" || req.Password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	user, err := s.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		// Spend the same bcrypt time as a real check.
		dummy, err := s.dummy()
		if err != nil {
			return nil, nil, err
		}
		s.hasher.Verify(req.Password, dummy)
		return nil, nil, ErrInvalidCredentials
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, token, nil
}

func (s *UserService) dummy() (string, error) {
	s.dummyOnce.Do(func() {
		s.dummyHash, s.dummyErr = s.hasher.Hash("photoshare-timing-equalizer")
		if s.dummyErr != nil {
			s.dummyErr = fmt.Errorf("hash timing placeholder: %w", s.dummyErr)
		}
	})
	return s.dummyHash, s.dummyErr
}

func validateRegistration(name, email, password, contact string) error {
	fields := []struct{ name, value string }{
		{"name", name},
		{"email", email},
		{"password", password},
		{"contact", contact},
	}
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}

	switch {
	case len(name) > maxNameLen:
		return fmt.Errorf("%w: name is too long", ErrInvalidInput)
	case len(email) > maxEmailLen:
		return fmt.Errorf("%w: email is too long", ErrInvalidInput)
	case !strings.Contains(email, "@"):
		return fmt.Errorf("%w: email is not valid", ErrInvalidInput)
	case len(contact) > maxContactLen:
		return fmt.Errorf("%w: contact is too long", ErrInvalidInput)
	}
	return nil
}
