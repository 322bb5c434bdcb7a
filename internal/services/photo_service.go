package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"photoshare/internal/logging"
	"photoshare/internal/models"
	"photoshare/internal/storage"
	"photoshare/internal/store"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// PhotoService stores uploaded photo files and their records.
type PhotoService struct {
	store  store.Store
	files  storage.PhotoStorage
	logger logging.Logger
	now    func() time.Time
}

// NewPhotoService wires the store and file storage; a nil logger discards output.
func NewPhotoService(st store.Store, files storage.PhotoStorage, logger logging.Logger) *PhotoService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &PhotoService{store: st, files: files, logger: logger, now: time.Now}
}

// CreatePhoto records a photo owned by ownerID. A missing owner yields
// store.ErrUnknownOwner.
func (s *PhotoService) CreatePhoto(ctx context.Context, ownerID int, friendName, friendContact, path, contact string, activity *string) (*models.Photo, error) {
	if activity != nil && strings.TrimSpace(*activity) == "" {
		activity = nil
	}
	photo := &models.Photo{
		FriendName:    friendName,
		FriendContact: friendContact,
		PhotoPath:     path,
		Contact:       contact,
		Activity:      activity,
		UploaderID:    ownerID,
	}
	created, err := s.store.CreatePhoto(ctx, photo)
	if err != nil {
		if errors.Is(err, store.ErrUnknownOwner) {
			s.logger.Error(ctx, "photo owner does not exist", "owner_id", ownerID)
		}
		return nil, err
	}
	return created, nil
}

// Upload stores the file and then the photo record. The file is removed
// again when the record cannot be written.
func (s *PhotoService) Upload(ctx context.Context, ownerID int, req models.UploadPhotoRequest, fh *multipart.FileHeader) (*models.Photo, error) {
	if err := validateUpload(req); err != nil {
		return nil, err
	}
	if fh == nil {
		return nil, fmt.Errorf("%w: photo file is required", ErrInvalidInput)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	contentType, ok := imageTypes[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedImage, ext)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	// Generate unique filename preserving extension
	filename := fmt.Sprintf("%d_%d%s", ownerID, s.now().UnixNano(), ext)
	path, err := s.files.Save(ctx, filename, f, fh.Size, contentType)
	if err != nil {
		return nil, err
	}

	var activity *string
	if req.Activity != "" {
		activity = &req.Activity
	}
	photo, err := s.CreatePhoto(ctx, ownerID, req.FriendName, req.FriendContact, path, req.Contact, activity)
	if err != nil {
		if derr := s.files.Delete(ctx, filename); derr != nil {
			s.logger.Warn(ctx, "failed to clean up upload", "file", filename, "error", derr)
		}
		return nil, err
	}

	s.logger.Info(ctx, "photo uploaded", "photo_id", photo.ID, "owner_id", ownerID)
	return photo, nil
}

// ListPhotos returns ownerID's photos, newest first.
func (s *PhotoService) ListPhotos(ctx context.Context, ownerID int) ([]models.Photo, error) {
	photos, err := s.store.ListPhotosByUploader(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	return photos, nil
}

func validateUpload(req models.UploadPhotoRequest) error {
	switch {
	case strings.TrimSpace(req.FriendName) == "":
		return fmt.Errorf("%w: friend_name is required", ErrInvalidInput)
	case strings.TrimSpace(req.FriendContact) == "":
		return fmt.Errorf("%w: friend_contact is required", ErrInvalidInput)
	case strings.TrimSpace(req.Contact) == "":
		return fmt.Errorf("%w: contact is required", ErrInvalidInput)
	case len(req.FriendName) > 100, len(req.FriendContact) > 100, len(req.Contact) > 100, len(req.Activity) > 100:
		return fmt.Errorf("%w: field is too long", ErrInvalidInput)
	}
	return nil
}
