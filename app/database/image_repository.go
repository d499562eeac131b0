package database

import (
	"database/sql"
	"fmt"
	"time"
)

// ImageRepository persists image search results keyed by query fingerprint.
// A row with a NULL result column is a negative entry: the upstream search
// confirmed no usable image, and that answer is cached like any other.
type ImageRepository struct {
	db *DB
}

func NewImageRepository(db *DB) *ImageRepository {
	return &ImageRepository{db: db}
}

// Get returns the cached raw result for key. hit is false for unknown or
// expired keys; a hit with a nil value is a valid negative entry.
func (r *ImageRepository) Get(key string) (*string, bool, error) {
	var result sql.NullString
	var expiresAt time.Time

	err := r.db.QueryRow(`
		SELECT result, expires_at FROM image_cache WHERE cache_key = ?
	`, key).Scan(&result, &expiresAt)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read image cache: %w", err)
	}

	if time.Now().UTC().After(expiresAt) {
		return nil, false, nil
	}

	if !result.Valid {
		return nil, true, nil
	}
	return &result.String, true, nil
}

// Put stores a result (nil for a negative entry), overwriting any existing
// row for the key wholesale.
func (r *ImageRepository) Put(key, query string, value *string, expiresAt time.Time) error {
	var result sql.NullString
	if value != nil {
		result = sql.NullString{String: *value, Valid: true}
	}

	_, err := r.db.Exec(`
		INSERT INTO image_cache (cache_key, query, result, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			query = excluded.query,
			result = excluded.result,
			expires_at = excluded.expires_at,
			created_at = CURRENT_TIMESTAMP
	`, key, query, result, expiresAt)
	if err != nil {
		return fmt.Errorf("failed to write image cache: %w", err)
	}

	return nil
}

// DeleteExpired removes rows past their expiry; called opportunistically.
func (r *ImageRepository) DeleteExpired() (int64, error) {
	res, err := r.db.Exec(`DELETE FROM image_cache WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to prune image cache: %w", err)
	}
	return res.RowsAffected()
}

// EntryCount reports the number of cached entries, for the health endpoint.
func (r *ImageRepository) EntryCount() (int, error) {
	var count int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM image_cache`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count image cache entries: %w", err)
	}
	return count, nil
}
