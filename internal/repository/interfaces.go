package repository

import (
	"context"
	"time"

	"github.com/vytor/eduplay/internal/models"
	"github.com/vytor/eduplay/internal/storage"
)

// TabStorageRepository persists per-tab values. It satisfies storage.Store.
type TabStorageRepository interface {
	storage.Store
	Delete(ctx context.Context, key string) error
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ResultRepository handles completed quiz results
type ResultRepository interface {
	Insert(ctx context.Context, result models.QuizResult) (int64, error)
	List(ctx context.Context, filter models.ResultFilter) ([]models.QuizResult, error)
	Count(ctx context.Context, filter models.ResultFilter) (int, error)
}
