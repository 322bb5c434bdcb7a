package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"
	"time"

	"photoshare/internal/auth"
	"photoshare/internal/db"
	"photoshare/internal/models"
	"photoshare/internal/store"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	ctx := context.Background()
	conn, err := db.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, db.MigrateSQLite(ctx, conn))
	return store.NewSQLiteStore(conn)
}

func newTestUserService(t *testing.T, st store.Store, now func() time.Time) *UserService {
	t.Helper()
	issuer := auth.NewIssuer([]byte("test-secret"), 15*time.Minute, auth.WithClock(now))
	return NewUserService(st, auth.NewPasswordHasher(bcrypt.MinCost), issuer)
}

// fileHeader builds a multipart.FileHeader the way fiber hands one out.
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["photo"][0]
}

// failingStore wraps a real store and fails photo inserts.
type failingStore struct {
	store.Store
	photoErr error
}

func (f *failingStore) CreatePhoto(ctx context.Context, p *models.Photo) (*models.Photo, error) {
	return nil, f.photoErr
}
