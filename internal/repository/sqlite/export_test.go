package sqlite

import (
	"database/sql"
	"time"

	"github.com/vytor/eduplay/internal/repository"
)

// NewTabStorageRepositoryWithClock lets tests control write timestamps.
func NewTabStorageRepositoryWithClock(db *sql.DB, now func() time.Time) repository.TabStorageRepository {
	return &tabStorageRepository{db: db, now: now}
}
