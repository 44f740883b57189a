package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vytor/trelloflash/internal/logger"
	"github.com/vytor/trelloflash/internal/repository"
)

type settingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository implementation
func NewSettingsRepository(db *sql.DB) repository.SettingsRepository {
	return &settingsRepository{db: db}
}

func (r *settingsRepository) Get(ctx context.Context, key string) (string, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")

	var value string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("setting not found: key=%s", key)
		return "", false, nil
	}
	if err != nil {
		log.Error("failed to get setting %s: %v", key, err)
		return "", false, err
	}
	return value, true, nil
}

func (r *settingsRepository) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("storing setting: key=%s", key)

	_, err := r.db.ExecContext(ctx, `
INSERT INTO settings (key, value, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`, key, value)
	if err != nil {
		log.Error("failed to store setting %s: %v", key, err)
	}
	return err
}

func (r *settingsRepository) Delete(ctx context.Context, key string) error {
	log := logger.FromContext(ctx).WithPrefix("settings_repo")
	log.Debug("deleting setting: key=%s", key)

	_, err := r.db.ExecContext(ctx, `DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		log.Error("failed to delete setting %s: %v", key, err)
	}
	return err
}
