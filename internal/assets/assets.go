// Package assets stores binary objects (photos) under opaque keys. The
// catalog keeps only the keys it gets back and never interprets asset
// content; asset lifecycle is this package's concern alone, so deleting a
// catalog record never deletes the asset it referenced.
package assets

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/spookystock/spookystock/internal/model"
)

// Store is the object storage collaborator consumed by the service layer.
type Store interface {
	// Put persists the bytes and returns an opaque key. The content hint is
	// advisory; implementations decide what to trust.
	Put(ctx context.Context, ownerID int64, data []byte, contentHint string) (key string, err error)
	// Resolve turns a key into a retrievable location.
	Resolve(key string) string
	// Open returns the stored bytes and their MIME type.
	Open(ctx context.Context, ownerID int64, key string) (data []byte, mime string, err error)
}

// DBStore keeps assets as rows in the catalog's SQLite database, processing
// photos on the way in: format sniffed from bytes, downscaled and re-encoded
// as JPEG.
type DBStore struct {
	db *sql.DB
}

// NewDBStore returns a DBStore backed by the given database.
func NewDBStore(db *sql.DB) *DBStore {
	return &DBStore{db: db}
}

// Put processes and stores a photo, returning its new opaque key.
func (s *DBStore) Put(ctx context.Context, ownerID int64, data []byte, contentHint string) (string, error) {
	processed, err := processImage(data)
	if err != nil {
		return "", model.NewInvalid("asset", "data", err.Error())
	}

	key := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO assets (key, owner_id, data, mime) VALUES (?, ?, ?, ?)`,
		key, ownerID, processed.Data, processed.MIME,
	)
	if err != nil {
		return "", model.NewStorage(fmt.Errorf("storing asset: %w", err))
	}
	return key, nil
}

// Resolve returns the service path an asset is retrievable from.
func (s *DBStore) Resolve(key string) string {
	return "/api/assets/" + key
}

// Open returns an asset's bytes and MIME type, scoped to the owner.
func (s *DBStore) Open(ctx context.Context, ownerID int64, key string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := s.db.QueryRowContext(ctx,
		`SELECT data, mime FROM assets WHERE key = ? AND owner_id = ?`, key, ownerID,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", model.NewNotFound("asset", 0)
	}
	if err != nil {
		return nil, "", model.NewStorage(fmt.Errorf("opening asset: %w", err))
	}
	return data, mime, nil
}
