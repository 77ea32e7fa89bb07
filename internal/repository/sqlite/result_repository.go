package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/vytor/eduplay/internal/logger"
	"github.com/vytor/eduplay/internal/models"
	"github.com/vytor/eduplay/internal/repository"
)

type resultRepository struct {
	db *sql.DB
}

// NewResultRepository creates a new ResultRepository implementation
func NewResultRepository(db *sql.DB) repository.ResultRepository {
	return &resultRepository{db: db}
}

func (r *resultRepository) Insert(ctx context.Context, result models.QuizResult) (int64, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("inserting result: session_id=%s, score=%d/%d", result.SessionID, result.Score, result.Total)

	completedAt := result.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now()
	}

	query, args, err := sqlBuilder.Insert("quiz_results").
		Columns("session_id", "mode", "score", "total", "completed_at").
		Values(result.SessionID, result.Mode, result.Score, result.Total, completedAt.UTC()).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to insert result: %v", err)
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		log.Error("failed to get inserted result id: %v", err)
		return 0, err
	}
	log.Debug("result inserted: id=%d", id)
	return id, nil
}

func (r *resultRepository) List(ctx context.Context, filter models.ResultFilter) ([]models.QuizResult, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")
	log.Debug("listing results: mode=%s, limit=%d, offset=%d", filter.Mode, filter.Limit, filter.Offset)

	query := sqlBuilder.Select("id", "session_id", "mode", "score", "total", "completed_at").
		From("quiz_results")
	query = applyResultFilter(query, filter).
		OrderBy("completed_at DESC", "id DESC").
		Limit(clampLimit(filter.Limit))
	if filter.Offset > 0 {
		query = query.Offset(uint64(filter.Offset))
	}

	sqlStr, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		log.Error("failed to list results: %v", err)
		return nil, err
	}
	defer rows.Close()

	results := []models.QuizResult{}
	for rows.Next() {
		var res models.QuizResult
		if err := rows.Scan(&res.ID, &res.SessionID, &res.Mode, &res.Score, &res.Total, &res.CompletedAt); err != nil {
			log.Error("failed to scan result row: %v", err)
			return nil, err
		}
		results = append(results, res)
	}

	log.Debug("found %d results", len(results))
	return results, rows.Err()
}

func (r *resultRepository) Count(ctx context.Context, filter models.ResultFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("result_repo")

	sqlStr, args, err := applyResultFilter(sqlBuilder.Select("COUNT(*)").From("quiz_results"), filter).ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRowContext(ctx, sqlStr, args...).Scan(&count); err != nil {
		log.Error("failed to count results: %v", err)
		return 0, err
	}
	return count, nil
}
