package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/kyak15/soccer-analytics/internal/domain/match"
	"github.com/kyak15/soccer-analytics/internal/domain/player"
	"github.com/kyak15/soccer-analytics/internal/domain/playerstats"
	"github.com/kyak15/soccer-analytics/internal/domain/team"
)

type statKey struct {
	matchID  int64
	playerID int64
}

// MatchRepository keeps loaded matches in process memory with the same
// all-or-nothing semantics as the Postgres loader. Used for dry runs.
type MatchRepository struct {
	mu      sync.RWMutex
	teams   map[int64]team.Team
	players map[int64]player.Player
	matches map[int64]match.Match
	stats   map[statKey]playerstats.Row
}

func NewMatchRepository() *MatchRepository {
	return &MatchRepository{
		teams:   make(map[int64]team.Team),
		players: make(map[int64]player.Player),
		matches: make(map[int64]match.Match),
		stats:   make(map[statKey]playerstats.Row),
	}
}

func (r *MatchRepository) Exists(_ context.Context, matchID int64) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.matches[matchID]
	return ok, nil
}

func (r *MatchRepository) Load(ctx context.Context, bundle match.Bundle) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.matches[bundle.Match.MatchID]; ok {
		return false, nil
	}

	for _, t := range bundle.TeamList() {
		if _, ok := r.teams[t.ID]; !ok {
			r.teams[t.ID] = t
		}
	}
	for _, entry := range bundle.UniquePlayers() {
		if _, ok := r.players[entry.ID]; !ok {
			r.players[entry.ID] = entry.Player
		}
	}
	r.matches[bundle.Match.MatchID] = bundle.Match
	for _, row := range bundle.PlayerStats {
		key := statKey{matchID: row.MatchID, playerID: row.PlayerID}
		if _, ok := r.stats[key]; !ok {
			r.stats[key] = row
		}
	}
	return true, nil
}

// Counts returns the number of stored teams, players, matches and stat rows.
func (r *MatchRepository) Counts() (teams, players, matches, stats int) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.teams), len(r.players), len(r.matches), len(r.stats)
}

// PlayerStats lists the stat rows of one match ordered by player id.
func (r *MatchRepository) PlayerStats(_ context.Context, matchID int64) []playerstats.Row {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]playerstats.Row, 0)
	for key, row := range r.stats {
		if key.matchID == matchID {
			out = append(out, row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PlayerID < out[j].PlayerID })
	return out
}
