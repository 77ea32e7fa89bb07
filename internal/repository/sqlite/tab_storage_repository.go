package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vytor/eduplay/internal/logger"
	"github.com/vytor/eduplay/internal/repository"
)

type tabStorageRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewTabStorageRepository creates a new TabStorageRepository implementation
func NewTabStorageRepository(db *sql.DB) repository.TabStorageRepository {
	return &tabStorageRepository{db: db, now: time.Now}
}

func (r *tabStorageRepository) Get(ctx context.Context, key string) (string, bool, error) {
	log := logger.FromContext(ctx).WithPrefix("tab_storage_repo")
	log.Debug("getting value: key=%s", key)

	query, args, err := sqlBuilder.Select("value").
		From("tab_storage").
		Where("storage_key = ?", key).
		ToSql()
	if err != nil {
		return "", false, err
	}

	var value string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no value stored: key=%s", key)
		return "", false, nil
	}
	if err != nil {
		log.Error("failed to get value: %v", err)
		return "", false, err
	}
	return value, true, nil
}

func (r *tabStorageRepository) Set(ctx context.Context, key, value string) error {
	log := logger.FromContext(ctx).WithPrefix("tab_storage_repo")
	log.Debug("setting value: key=%s, bytes=%d", key, len(value))

	query, args, err := sqlBuilder.Insert("tab_storage").
		Columns("storage_key", "value", "updated_at").
		Values(key, value, r.now().UTC()).
		Suffix("ON CONFLICT(storage_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to set value: %v", err)
		return err
	}
	return nil
}

func (r *tabStorageRepository) Delete(ctx context.Context, key string) error {
	log := logger.FromContext(ctx).WithPrefix("tab_storage_repo")
	log.Debug("deleting value: key=%s", key)

	query, args, err := sqlBuilder.Delete("tab_storage").Where("storage_key = ?", key).ToSql()
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to delete value: %v", err)
		return err
	}
	return nil
}

// PurgeOlderThan removes entries not written since cutoff.
func (r *tabStorageRepository) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("tab_storage_repo")
	log.Debug("purging entries older than %s", cutoff.UTC().Format(time.RFC3339))

	query, args, err := sqlBuilder.Delete("tab_storage").
		Where("updated_at < ?", cutoff.UTC()).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to purge entries: %v", err)
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	log.Debug("purged %d entries", n)
	return n, nil
}
