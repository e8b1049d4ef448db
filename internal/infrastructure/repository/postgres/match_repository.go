package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/kyak15/soccer-analytics/internal/domain/match"
	"github.com/kyak15/soccer-analytics/internal/platform/logging"
	qb "github.com/kyak15/soccer-analytics/internal/platform/querybuilder"
	"github.com/lib/pq"
)

// statsBatchSize keeps one stat insert well under the bind parameter limit.
const statsBatchSize = 200

type MatchRepository struct {
	db     *sqlx.DB
	logger *logging.Logger
}

func NewMatchRepository(db *sqlx.DB, logger *logging.Logger) *MatchRepository {
	if logger == nil {
		logger = logging.Default()
	}
	return &MatchRepository{db: db, logger: logger.Named("match_repository")}
}

func (r *MatchRepository) Exists(ctx context.Context, matchID int64) (bool, error) {
	query, args, err := qb.Exists(qb.Select("1").From(matchTable).Where(qb.Eq("match_id", matchID)))
	if err != nil {
		return false, fmt.Errorf("build match exists query: %w", err)
	}

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("check match %d exists: %w", matchID, err)
	}
	return exists, nil
}

// Load writes teams, players, the match and its stat rows in one
// transaction. Teams and players already stored are left untouched. It
// returns false when the match is already stored, or when a concurrent
// writer inserted it first; in that case nothing from this call is kept.
func (r *MatchRepository) Load(ctx context.Context, bundle match.Bundle) (bool, error) {
	matchID := bundle.Match.MatchID

	exists, err := r.Exists(ctx, matchID)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx load match %d: %w", matchID, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	newTeams, err := r.insertMissingTeams(ctx, tx, bundle)
	if err != nil {
		return false, err
	}
	newPlayers, err := r.insertMissingPlayers(ctx, tx, bundle)
	if err != nil {
		return false, err
	}

	inserted, err := r.insertMatch(ctx, tx, bundle.Match)
	if err != nil {
		return false, err
	}
	if !inserted {
		if err := tx.Rollback(); err != nil {
			return false, fmt.Errorf("rollback lost insert race for match %d: %w", matchID, err)
		}
		r.logger.InfoContext(ctx, "match inserted concurrently, rolled back", "match_id", matchID)
		return false, nil
	}

	if err := r.insertPlayerStats(ctx, tx, bundle); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit load match %d: %w", matchID, err)
	}

	r.logger.DebugContext(ctx, "match committed",
		"match_id", matchID,
		"new_teams", newTeams,
		"new_players", newPlayers,
		"player_stats", len(bundle.PlayerStats),
	)
	return true, nil
}

func (r *MatchRepository) insertMissingTeams(ctx context.Context, tx *sqlx.Tx, bundle match.Bundle) (int, error) {
	teams := bundle.TeamList()
	ids := make([]int64, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.ID)
	}

	existing, err := existingIDs(ctx, tx, teamTable, ids)
	if err != nil {
		return 0, fmt.Errorf("list existing teams: %w", err)
	}

	models := make([]any, 0, len(teams))
	seen := make(map[int64]struct{}, len(teams))
	for _, t := range teams {
		if _, ok := existing[t.ID]; ok {
			continue
		}
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		models = append(models, newTeamInsertModel(t))
	}
	if len(models) == 0 {
		return 0, nil
	}

	query, args, err := qb.InsertModels(teamTable, models, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return 0, fmt.Errorf("build insert teams query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("insert teams: %w", err)
	}
	return len(models), nil
}

func (r *MatchRepository) insertMissingPlayers(ctx context.Context, tx *sqlx.Tx, bundle match.Bundle) (int, error) {
	roster := bundle.UniquePlayers()
	if len(roster) == 0 {
		return 0, nil
	}
	ids := make([]int64, 0, len(roster))
	for _, entry := range roster {
		ids = append(ids, entry.ID)
	}

	existing, err := existingIDs(ctx, tx, playerTable, ids)
	if err != nil {
		return 0, fmt.Errorf("list existing players: %w", err)
	}

	models := make([]any, 0, len(roster))
	for _, entry := range roster {
		if _, ok := existing[entry.ID]; ok {
			continue
		}
		models = append(models, newPlayerInsertModel(entry.Player))
	}
	if len(models) == 0 {
		return 0, nil
	}

	query, args, err := qb.InsertModels(playerTable, models, "ON CONFLICT (id) DO NOTHING")
	if err != nil {
		return 0, fmt.Errorf("build insert players query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return 0, fmt.Errorf("insert players: %w", err)
	}
	return len(models), nil
}

// insertMatch reports false when the row was already there.
func (r *MatchRepository) insertMatch(ctx context.Context, tx *sqlx.Tx, m match.Match) (bool, error) {
	query, args, err := qb.InsertModel(matchTable, newMatchInsertModel(m), "ON CONFLICT (match_id) DO NOTHING RETURNING match_id")
	if err != nil {
		return false, fmt.Errorf("build insert match query: %w", err)
	}

	var returned []int64
	if err := tx.SelectContext(ctx, &returned, query, args...); err != nil {
		return false, fmt.Errorf("insert match %d: %w", m.MatchID, err)
	}
	return len(returned) > 0, nil
}

func (r *MatchRepository) insertPlayerStats(ctx context.Context, tx *sqlx.Tx, bundle match.Bundle) error {
	rows := bundle.PlayerStats
	for start := 0; start < len(rows); start += statsBatchSize {
		end := min(start+statsBatchSize, len(rows))

		models := make([]any, 0, end-start)
		for _, row := range rows[start:end] {
			models = append(models, newPlayerMatchStatsInsertModel(row))
		}

		query, args, err := qb.InsertModels(playerMatchStatsTable, models, "ON CONFLICT (match_id, player_id) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build insert player stats query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert player stats for match %d: %w", bundle.Match.MatchID, err)
		}
	}
	return nil
}

func existingIDs(ctx context.Context, tx *sqlx.Tx, table string, ids []int64) (map[int64]struct{}, error) {
	out := make(map[int64]struct{}, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	query, args, err := qb.Select("id").From(table).Where(qb.Any("id", pq.Array(ids))).ToSQL()
	if err != nil {
		return nil, err
	}

	var found []int64
	if err := tx.SelectContext(ctx, &found, query, args...); err != nil {
		return nil, err
	}
	for _, id := range found {
		out[id] = struct{}{}
	}
	return out, nil
}
