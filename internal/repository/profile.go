// Package repository persists the single profile document. The whole
// document is written wholesale after every mutation and read once at
// startup; there is no partial or incremental persistence.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/fittrack/backend/internal/security"
	"github.com/fittrack/backend/pkg/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS profile_documents (
	storage_key TEXT PRIMARY KEY,
	document    TEXT NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);
`

// ProfileRepository stores the profile document in a local sqlite database
// under a single fixed storage key.
type ProfileRepository struct {
	db         *sql.DB
	storageKey string
	encryptor  *security.Encryptor // nil means plaintext at rest
	logger     *zap.Logger
}

// NewProfileRepository opens (or creates) the sqlite database at path and
// ensures the document table exists. encryptor may be nil.
func NewProfileRepository(path, storageKey string, encryptor *security.Encryptor, logger *zap.Logger) (*ProfileRepository, error) {
	if path == "" || storageKey == "" {
		return nil, fmt.Errorf("path and storageKey are required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// The document store is single-writer; one connection avoids most
	// SQLITE_BUSY contention between mutations.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &ProfileRepository{
		db:         db,
		storageKey: storageKey,
		encryptor:  encryptor,
		logger:     logger,
	}, nil
}

// Close releases the underlying database handle
func (r *ProfileRepository) Close() error {
	return r.db.Close()
}

// DB exposes the underlying handle for connectivity checks
func (r *ProfileRepository) DB() *sql.DB {
	return r.db
}

// Load reads the document for the fixed storage key. A missing row yields the
// default profile. A row that cannot be decoded also yields the default
// profile with a warning; startup never fails on a bad document.
func (r *ProfileRepository) Load(ctx context.Context) (*model.UserProfile, error) {
	var raw string
	err := r.db.QueryRowContext(ctx,
		`SELECT document FROM profile_documents WHERE storage_key = ?`, r.storageKey,
	).Scan(&raw)

	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("no stored profile document, starting with defaults",
			zap.String("storage_key", r.storageKey),
		)
		return model.DefaultProfile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile document: %w", err)
	}

	if r.encryptor != nil {
		decrypted, err := r.encryptor.Decrypt(raw)
		if err != nil {
			r.logger.Warn("stored profile document could not be decrypted, starting with defaults",
				zap.Error(err),
			)
			return model.DefaultProfile(), nil
		}
		raw = decrypted
	}

	var profile model.UserProfile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		r.logger.Warn("stored profile document is malformed, starting with defaults",
			zap.Error(err),
			zap.String("storage_key", r.storageKey),
		)
		return model.DefaultProfile(), nil
	}

	// Repair missing optional collections from older documents
	profile.Normalize()

	r.logger.Info("profile document loaded",
		zap.String("storage_key", r.storageKey),
		zap.Int("logged_days", len(profile.DailyLog)),
	)

	return &profile, nil
}

// Save overwrites the stored document wholesale. Transient write failures are
// retried with exponential backoff for a short window.
func (r *ProfileRepository) Save(ctx context.Context, profile *model.UserProfile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile document: %w", err)
	}

	payload := string(raw)
	if r.encryptor != nil {
		payload, err = r.encryptor.Encrypt(payload)
		if err != nil {
			return fmt.Errorf("failed to encrypt profile document: %w", err)
		}
	}

	write := func() error {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO profile_documents (storage_key, document, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(storage_key) DO UPDATE SET
				document = excluded.document,
				updated_at = excluded.updated_at
		`, r.storageKey, payload, time.Now().UTC())
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 4), ctx)
	if err := backoff.Retry(write, policy); err != nil {
		return fmt.Errorf("failed to write profile document: %w", err)
	}

	r.logger.Debug("profile document saved",
		zap.String("storage_key", r.storageKey),
		zap.Int("size_bytes", len(payload)),
	)

	return nil
}
