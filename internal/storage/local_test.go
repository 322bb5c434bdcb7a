package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocal_SaveAndDelete(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	l, err := NewLocal(dir, "")
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := l.Save(ctx, "1_123.jpg", strings.NewReader("jpeg-bytes"), 10, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1_123.jpg", ref)

	data, err := os.ReadFile(filepath.Join(dir, "1_123.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	require.NoError(t, l.Delete(ctx, "1_123.jpg"))
	_, err = os.Stat(filepath.Join(dir, "1_123.jpg"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, l.Delete(ctx, "1_123.jpg"), "deleting a missing file is not an error")
}

func TestLocal_BaseURL(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "https://photos.example.com/")
	require.NoError(t, err)

	ref, err := l.Save(context.Background(), "a.png", strings.NewReader("x"), 1, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "https://photos.example.com/uploads/a.png", ref)
}

func TestLocal_RefusesOverwrite(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = l.Save(ctx, "a.png", strings.NewReader("first"), 5, "")
	require.NoError(t, err)
	_, err = l.Save(ctx, "a.png", strings.NewReader("second"), 6, "")
	assert.Error(t, err)
}

func TestLocal_InvalidNames(t *testing.T) {
	l, err := NewLocal(t.TempDir(), "")
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../escape.jpg", "sub/dir.jpg"} {
		_, err := l.Save(context.Background(), name, strings.NewReader("x"), 1, "")
		assert.ErrorIs(t, err, ErrInvalidName, name)
		assert.ErrorIs(t, l.Delete(context.Background(), name), ErrInvalidName, name)
	}
}
