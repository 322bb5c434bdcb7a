package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"photoshare/internal/models"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteStore is the Store backed by database/sql and modernc SQLite.
type SQLiteStore struct {
	db  DBTX
	now func() time.Time
}

// NewSQLiteStore returns a store over db, which must already be migrated.
func NewSQLiteStore(db DBTX) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

func (s *SQLiteStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	query := `INSERT INTO users (name, email, password, contact) VALUES (?, ?, ?, ?) RETURNING id`
	err := s.db.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.Contact).Scan(&u.ID)
	if err != nil {
		if sqliteCode(err) == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

func (s *SQLiteStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT id, name, email, password, contact FROM users WHERE email = ?`

	u := &models.User{}
	err := s.db.QueryRowContext(ctx, query, email).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Contact)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return u, nil
}

// CreatePhoto stamps the upload time itself: SQLite's CURRENT_TIMESTAMP has
// only second resolution.
func (s *SQLiteStore) CreatePhoto(ctx context.Context, p *models.Photo) (*models.Photo, error) {
	uploaded := s.now().UTC()
	query := `INSERT INTO photos (friend_name, friend_contact, upload_date, photo_path, contact, activity, uploader_id)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	err := s.db.QueryRowContext(ctx, query,
		p.FriendName, p.FriendContact, uploaded.Format(sqliteTimeLayout), p.PhotoPath, p.Contact, p.Activity, p.UploaderID,
	).Scan(&p.ID)
	if err != nil {
		if sqliteCode(err) == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY {
			return nil, ErrUnknownOwner
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	p.UploadDate = uploaded
	return p, nil
}

func (s *SQLiteStore) ListPhotosByUploader(ctx context.Context, uploaderID int) ([]models.Photo, error) {
	query := `SELECT id, friend_name, friend_contact, upload_date, photo_path, contact, activity, uploader_id
		FROM photos WHERE uploader_id = ? ORDER BY upload_date DESC, id DESC`
	rows, err := s.db.QueryContext(ctx, query, uploaderID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		var (
			p        models.Photo
			uploaded sqliteTime
			activity sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.FriendName, &p.FriendContact, &uploaded,
			&p.PhotoPath, &p.Contact, &activity, &p.UploaderID); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		p.UploadDate = time.Time(uploaded)
		if activity.Valid {
			p.Activity = &activity.String
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return photos, nil
}

func sqliteCode(err error) int {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code()
	}
	return 0
}

// Fixed-width so that text ordering matches time ordering.
const sqliteTimeLayout = "2006-01-02 15:04:05.000000000"

// sqliteTime scans the upload_date column whether the driver hands back text
// or an already parsed time.
type sqliteTime time.Time

func (t *sqliteTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*t = sqliteTime(v.UTC())
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case int64:
		*t = sqliteTime(time.Unix(v, 0).UTC())
		return nil
	default:
		return fmt.Errorf("unsupported upload_date type %T", src)
	}
}

func (t *sqliteTime) parse(s string) error {
	for _, layout := range []string{sqliteTimeLayout, time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if parsed, err := time.Parse(layout, s); err == nil {
			*t = sqliteTime(parsed.UTC())
			return nil
		}
	}
	return fmt.Errorf("unparseable upload_date %q", s)
}
