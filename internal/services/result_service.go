package services

import (
	"context"

	"github.com/vytor/eduplay/internal/errors"
	"github.com/vytor/eduplay/internal/logger"
	"github.com/vytor/eduplay/internal/models"
	"github.com/vytor/eduplay/internal/quiz"
	"github.com/vytor/eduplay/internal/repository"
)

// ResultService reads the history of completed quiz sessions.
type ResultService interface {
	ListResults(ctx context.Context, filter models.ResultFilter) ([]models.QuizResult, int, error)
}

type resultService struct {
	resultRepo repository.ResultRepository
}

// NewResultService creates a new ResultService
func NewResultService(resultRepo repository.ResultRepository) ResultService {
	return &resultService{resultRepo: resultRepo}
}

func (s *resultService) ListResults(ctx context.Context, filter models.ResultFilter) ([]models.QuizResult, int, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing results: mode=%s, limit=%d, offset=%d", filter.Mode, filter.Limit, filter.Offset)

	if filter.Mode != "" {
		mode, err := quiz.ParseMode(filter.Mode)
		if err != nil {
			return nil, 0, errors.NewValidationError("mode", err.Error())
		}
		filter.Mode = string(mode)
	}
	if filter.Limit < 0 || filter.Offset < 0 {
		return nil, 0, errors.NewValidationError("limit", "limit and offset cannot be negative")
	}

	results, err := s.resultRepo.List(ctx, filter)
	if err != nil {
		log.Error("failed to list results: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	total, err := s.resultRepo.Count(ctx, filter)
	if err != nil {
		log.Error("failed to count results: %v", err)
		return nil, 0, errors.NewInternalError(err)
	}

	return results, total, nil
}
