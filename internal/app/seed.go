package app

import (
	"context"
	"errors"
	"fmt"

	"photoshare/internal/auth"
	"photoshare/internal/logging"
	"photoshare/internal/models"
	"photoshare/internal/store"
)

// Demo account created by Seed.
const (
	DemoName     = "John"
	DemoEmail    = "johndoe@example.com"
	DemoPassword = "password"
	DemoContact  = "0987654321"
)

// Seed inserts the demo user and one photo. It does nothing when the demo
// user already exists.
func Seed(ctx context.Context, st store.Store, bcryptCost int, log logging.Logger) error {
	hash, err := auth.NewPasswordHasher(bcryptCost).Hash(DemoPassword)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	user, err := st.CreateUser(ctx, &models.User{
		Name:         DemoName,
		Email:        DemoEmail,
		PasswordHash: hash,
		Contact:      DemoContact,
	})
	if errors.Is(err, store.ErrDuplicateEmail) {
		log.Info(ctx, "demo data already present", "email", DemoEmail)
		return nil
	}
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	_, err = st.CreatePhoto(ctx, &models.Photo{
		FriendName:    DemoName,
		FriendContact: DemoContact,
		PhotoPath:     "photo.jpg",
		Contact:       DemoContact,
		UploaderID:    user.ID,
	})
	if err != nil {
		return fmt.Errorf("seed photo: %w", err)
	}

	log.Info(ctx, "seeded demo data", "user_id", user.ID, "email", DemoEmail)
	return nil
}
