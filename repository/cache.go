package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

// Get retrieves an unexpired cache entry into out, reporting whether a hit
// occurred. Expiry is checked in the database to avoid timezone issues.
func (r *Repository) Get(ctx context.Context, key string, out any) (bool, error) {
	var data []byte

	err := r.db.QueryRow(ctx, `
		SELECT data FROM market_data_cache
		WHERE key = $1 AND expires_at > NOW()
	`, key).Scan(&data)

	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query cache: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache data: %w", err)
	}

	return true, nil
}

// Set stores a value in the cache with a TTL, replacing any existing entry
func (r *Repository) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO market_data_cache (key, data, expires_at)
		VALUES ($1, $2, NOW() + make_interval(secs => $3))
		ON CONFLICT (key)
		DO UPDATE SET data = EXCLUDED.data, expires_at = NOW() + make_interval(secs => $3), created_at = NOW()
	`, key, data, ttl.Seconds())
	if err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

// InvalidateCache removes a cache entry
func (r *Repository) InvalidateCache(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM market_data_cache WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

// CleanExpiredCache removes all expired cache entries
func (r *Repository) CleanExpiredCache(ctx context.Context) (int64, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM market_data_cache WHERE expires_at < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to clean expired cache: %w", err)
	}
	return result.RowsAffected(), nil
}
