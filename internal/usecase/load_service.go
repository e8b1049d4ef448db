package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/kyak15/soccer-analytics/internal/domain/match"
	"github.com/kyak15/soccer-analytics/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type LoadService struct {
	repo   match.Repository
	logger *logging.Logger
}

func NewLoadService(repo match.Repository, logger *logging.Logger) *LoadService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LoadService{repo: repo, logger: logger.Named("load")}
}

// Load writes the bundle in one transaction. It returns false, with no error,
// when the match was already present.
func (s *LoadService) Load(ctx context.Context, bundle match.Bundle) (bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LoadService.Load", attribute.Int64("match.id", bundle.Match.MatchID))
	defer span.End()

	if s.repo == nil {
		return false, fmt.Errorf("%w: match repository is not configured", ErrDependencyUnavailable)
	}
	if err := bundleValidator.StructCtx(ctx, bundle); err != nil {
		return false, fmt.Errorf("%w: match %d: %v", ErrInvalidInput, bundle.Match.MatchID, err)
	}

	inserted, err := s.repo.Load(ctx, bundle)
	if err != nil {
		recordSpanError(span, err)
		if errors.Is(err, ErrStorage) {
			return false, err
		}
		return false, fmt.Errorf("%w: load match %d: %w", ErrStorage, bundle.Match.MatchID, err)
	}

	if !inserted {
		s.logger.InfoContext(ctx, "match already loaded, skipped", "match_id", bundle.Match.MatchID, "reason", ErrLoadConflict)
		return false, nil
	}
	s.logger.InfoContext(ctx, "match loaded",
		"match_id", bundle.Match.MatchID,
		"player_stats", len(bundle.PlayerStats),
	)
	return true, nil
}
