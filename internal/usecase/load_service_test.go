package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/kyak15/soccer-analytics/internal/domain/match"
	"github.com/kyak15/soccer-analytics/internal/domain/player"
	matchmock "github.com/kyak15/soccer-analytics/internal/mocks/domain/match"
	"github.com/kyak15/soccer-analytics/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func fixtureBundle(t *testing.T, matchID int64) match.Bundle {
	t.Helper()

	bundle, err := TransformMatch(fixtureDocument(t, matchID), player.DefaultPositionTable())
	if err != nil {
		t.Fatalf("transform fixture: %v", err)
	}
	return bundle
}

func TestLoadService_Load(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	bundle := fixtureBundle(t, 4506263)

	t.Run("inserted", func(t *testing.T) {
		repo := matchmock.NewRepository(t)
		repo.On("Load", mock.Anything, bundle).Return(true, nil).Once()

		inserted, err := NewLoadService(repo, logging.NewNop()).Load(ctx, bundle)
		if err != nil || !inserted {
			t.Fatalf("load: inserted=%v err=%v", inserted, err)
		}
	})

	t.Run("already present", func(t *testing.T) {
		repo := matchmock.NewRepository(t)
		repo.On("Load", mock.Anything, bundle).Return(false, nil).Once()

		inserted, err := NewLoadService(repo, logging.NewNop()).Load(ctx, bundle)
		if err != nil || inserted {
			t.Fatalf("expected skip without error: inserted=%v err=%v", inserted, err)
		}
	})

	t.Run("storage failure", func(t *testing.T) {
		repo := matchmock.NewRepository(t)
		repo.On("Load", mock.Anything, bundle).Return(false, errors.New("commit: connection reset")).Once()

		_, err := NewLoadService(repo, logging.NewNop()).Load(ctx, bundle)
		if !errors.Is(err, ErrStorage) {
			t.Fatalf("expected ErrStorage, got %v", err)
		}
	})

	t.Run("invalid bundle never reaches the repository", func(t *testing.T) {
		repo := matchmock.NewRepository(t)
		invalid := bundle
		invalid.Match.AwayTeamID = invalid.Match.HomeTeamID

		_, err := NewLoadService(repo, logging.NewNop()).Load(ctx, invalid)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("no repository", func(t *testing.T) {
		_, err := NewLoadService(nil, logging.NewNop()).Load(ctx, bundle)
		if !errors.Is(err, ErrDependencyUnavailable) {
			t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
		}
	})
}
