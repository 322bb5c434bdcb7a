// Package store persists users and photos. Two backends share one contract:
// PostgreSQL through a pgx pool and SQLite through database/sql.
package store

import (
	"context"
	"database/sql"
	"errors"

	"photoshare/internal/models"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("email already exists")

	// ErrUnknownOwner is returned when a photo references a missing user.
	ErrUnknownOwner = errors.New("unknown photo owner")
)

// Store is the credential store. Every mutating call is committed before it
// returns.
type Store interface {
	// CreateUser inserts u (password already hashed) and sets u.ID.
	CreateUser(ctx context.Context, u *models.User) (*models.User, error)
	// FindUserByEmail is an exact-match lookup.
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	// CreatePhoto inserts p and sets p.ID and p.UploadDate.
	CreatePhoto(ctx context.Context, p *models.Photo) (*models.Photo, error)
	// ListPhotosByUploader returns the user's photos, newest first.
	ListPhotosByUploader(ctx context.Context, uploaderID int) ([]models.Photo, error)
}

// DBTX is the subset of database/sql used by the SQLite store.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
