package sqlite

import (
	"github.com/Masterminds/squirrel"
	"github.com/vytor/eduplay/internal/models"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// Default and upper bound for result listings.
const (
	defaultResultLimit = 20
	maxResultLimit     = 200
)

func applyResultFilter(query squirrel.SelectBuilder, filter models.ResultFilter) squirrel.SelectBuilder {
	if filter.Mode != "" {
		query = query.Where(squirrel.Eq{"mode": filter.Mode})
	}
	if filter.Since != nil {
		query = query.Where(squirrel.GtOrEq{"completed_at": filter.Since.UTC()})
	}
	return query
}

func clampLimit(limit int) uint64 {
	switch {
	case limit <= 0:
		return defaultResultLimit
	case limit > maxResultLimit:
		return maxResultLimit
	}
	return uint64(limit)
}
