package app

import (
	"context"
	"fmt"

	"photoshare/internal/config"
	"photoshare/internal/db"
	"photoshare/internal/logging"
	"photoshare/internal/store"
	"photoshare/internal/storage"
)

// Resources are the opened database and photo storage.
type Resources struct {
	Store store.Store
	Files storage.PhotoStorage

	closers []func()
}

// Close releases everything Open acquired, newest first.
func (r *Resources) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	r.closers = nil
}

// Open connects the configured database, applies migrations and sets up the
// photo storage backend.
func Open(ctx context.Context, cfg *config.Config, log logging.Logger) (*Resources, error) {
	res := &Resources{}

	st, closeDB, err := OpenStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	res.Store = st
	res.closers = append(res.closers, closeDB)

	files, err := OpenStorage(ctx, cfg)
	if err != nil {
		res.Close()
		return nil, err
	}
	res.Files = files
	return res, nil
}

// OpenStore opens the database selected by cfg.DBDriver and migrates it.
func OpenStore(ctx context.Context, cfg *config.Config, log logging.Logger) (store.Store, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		pool, err := db.OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.MigratePostgres(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info(ctx, "connected to postgres")
		return store.NewPostgresStore(pool), pool.Close, nil

	case config.DriverSQLite:
		conn, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.MigrateSQLite(ctx, conn); err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		log.Info(ctx, "opened sqlite database", "path", cfg.SQLitePath)
		return store.NewSQLiteStore(conn), func() { _ = conn.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unsupported db_driver %q", cfg.DBDriver)
}

// OpenStorage builds the photo storage selected by cfg.Storage.Backend.
func OpenStorage(ctx context.Context, cfg *config.Config) (storage.PhotoStorage, error) {
	sc := cfg.Storage
	switch sc.Backend {
	case config.StorageLocal:
		return storage.NewLocal(sc.UploadDir, sc.BaseURL)
	case config.StorageS3:
		return storage.NewS3(ctx, storage.S3Options{
			Bucket:    sc.S3Bucket,
			Region:    sc.S3Region,
			Endpoint:  sc.S3Endpoint,
			AccessKey: sc.S3AccessKey,
			SecretKey: sc.S3SecretKey,
			PublicURL: sc.BaseURL,
		})
	}
	return nil, fmt.Errorf("unsupported storage backend %q", sc.Backend)
}
