package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"photoshare/internal/logging"
	"photoshare/internal/models"
	"photoshare/internal/storage"
	"photoshare/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOwner(t *testing.T, st store.Store) *models.User {
	t.Helper()
	u, err := st.CreateUser(context.Background(), &models.User{
		Name: "John", Email: "john@example.com", PasswordHash: "$2a$hash", Contact: "1",
	})
	require.NoError(t, err)
	return u
}

func TestPhotoService_CreatePhoto_UsesParameters(t *testing.T) {
	st := newTestStore(t)
	owner := newOwner(t, st)
	svc := NewPhotoService(st, nil, logging.Nop())

	activity := "climbing"
	p, err := svc.CreatePhoto(context.Background(), owner.ID, "Jane", "555-0101", "/uploads/x.jpg", "555-0202", &activity)
	require.NoError(t, err)

	assert.Equal(t, "Jane", p.FriendName)
	assert.Equal(t, "555-0101", p.FriendContact)
	assert.Equal(t, "/uploads/x.jpg", p.PhotoPath)
	assert.Equal(t, "555-0202", p.Contact)
	require.NotNil(t, p.Activity)
	assert.Equal(t, "climbing", *p.Activity)
	assert.Equal(t, owner.ID, p.UploaderID)
	assert.False(t, p.UploadDate.IsZero())
}

func TestPhotoService_CreatePhoto_UnknownOwner(t *testing.T) {
	svc := NewPhotoService(newTestStore(t), nil, nil)

	_, err := svc.CreatePhoto(context.Background(), 42, "Jane", "1", "p.jpg", "2", nil)
	assert.ErrorIs(t, err, store.ErrUnknownOwner)
}

func TestPhotoService_Upload(t *testing.T) {
	st := newTestStore(t)
	owner := newOwner(t, st)
	dir := t.TempDir()
	files, err := storage.NewLocal(dir, "")
	require.NoError(t, err)

	svc := NewPhotoService(st, files, logging.Nop())
	svc.now = func() time.Time { return time.Unix(0, 1234) }

	req := models.UploadPhotoRequest{FriendName: "Jane", FriendContact: "555", Contact: "777"}
	p, err := svc.Upload(context.Background(), owner.ID, req, fileHeader(t, "beach.JPG", []byte("jpeg-bytes")))
	require.NoError(t, err)

	name := "1_1234.jpg"
	assert.Equal(t, "/uploads/"+name, p.PhotoPath)
	assert.Nil(t, p.Activity)
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	photos, err := svc.ListPhotos(context.Background(), owner.ID)
	require.NoError(t, err)
	require.Len(t, photos, 1)
	assert.Equal(t, p.ID, photos[0].ID)
}

func TestPhotoService_Upload_Rejects(t *testing.T) {
	st := newTestStore(t)
	owner := newOwner(t, st)
	files, err := storage.NewLocal(t.TempDir(), "")
	require.NoError(t, err)
	svc := NewPhotoService(st, files, logging.Nop())
	ctx := context.Background()

	valid := models.UploadPhotoRequest{FriendName: "Jane", FriendContact: "555", Contact: "777"}

	_, err = svc.Upload(ctx, owner.ID, valid, fileHeader(t, "notes.txt", []byte("x")))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = svc.Upload(ctx, owner.ID, valid, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Upload(ctx, owner.ID, models.UploadPhotoRequest{FriendName: "Jane"}, fileHeader(t, "a.png", []byte("x")))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPhotoService_Upload_RemovesFileOnInsertFailure(t *testing.T) {
	dir := t.TempDir()
	files, err := storage.NewLocal(dir, "")
	require.NoError(t, err)

	st := &failingStore{Store: newTestStore(t), photoErr: store.ErrUnknownOwner}
	svc := NewPhotoService(st, files, logging.Nop())

	req := models.UploadPhotoRequest{FriendName: "Jane", FriendContact: "555", Contact: "777"}
	_, err = svc.Upload(context.Background(), 9, req, fileHeader(t, "a.png", []byte("png")))
	require.ErrorIs(t, err, store.ErrUnknownOwner)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
