package store

import (
	"context"
	"errors"
	"fmt"

	"photoshare/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Querier is the part of *pgxpool.Pool (and pgx.Tx) the store needs.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresStore is the Store backed by a pgx pool.
type PostgresStore struct {
	db Querier
}

// NewPostgresStore returns a store over db (a *pgxpool.Pool or a pgx.Tx).
func NewPostgresStore(db Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	query := `INSERT INTO users (name, email, password, contact) VALUES ($1, $2, $3, $4) RETURNING id`
	err := s.db.QueryRow(ctx, query, u.Name, u.Email, u.PasswordHash, u.Contact).Scan(&u.ID)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, name, email, password, contact FROM users WHERE email = $1`

	u := &models.User{}
	err := s.db.QueryRow(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Contact)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) CreatePhoto(ctx context.Context, p *models.Photo) (*models.Photo, error) {
	query := `INSERT INTO photos (friend_name, friend_contact, photo_path, contact, activity, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, upload_date`
	err := s.db.QueryRow(ctx, query,
		p.FriendName, p.FriendContact, p.PhotoPath, p.Contact, p.Activity, p.UploaderID,
	).Scan(&p.ID, &p.UploadDate)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return nil, ErrUnknownOwner
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ListPhotosByUploader(ctx context.Context, uploaderID int) ([]models.Photo, error) {
	query := `SELECT id, friend_name, friend_contact, upload_date, photo_path, contact, activity, uploader_id
		FROM photos WHERE uploader_id = $1 ORDER BY upload_date DESC, id DESC`
	rows, err := s.db.Query(ctx, query, uploaderID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		var p models.Photo
		if err := rows.Scan(&p.ID, &p.FriendName, &p.FriendContact, &p.UploadDate,
			&p.PhotoPath, &p.Contact, &p.Activity, &p.UploaderID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return photos, nil
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}
