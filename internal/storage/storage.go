// Package storage keeps uploaded photo files, on local disk or in an
// S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrInvalidName is returned for object names that would escape the store.
var ErrInvalidName = errors.New("invalid object name")

// PhotoStorage saves photo files and returns the reference recorded as the
// photo's path.
type PhotoStorage interface {
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
}
