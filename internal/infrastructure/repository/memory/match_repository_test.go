package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/kyak15/soccer-analytics/internal/domain/match"
	"github.com/kyak15/soccer-analytics/internal/domain/player"
	"github.com/kyak15/soccer-analytics/internal/domain/playerstats"
	"github.com/kyak15/soccer-analytics/internal/domain/team"
)

func testBundle(matchID int64) match.Bundle {
	salah := player.RosterEntry{Player: player.Player{ID: 292462, FirstName: "Mohamed", LastName: "Salah"}, TeamID: 8650, NormalizedPosition: player.RoleForward}
	return match.Bundle{
		Match: match.Match{MatchID: matchID, HomeTeamID: 8650, AwayTeamID: 8668},
		Teams: match.Teams{
			Home: team.Team{ID: 8650, Name: "Liverpool"},
			Away: team.Team{ID: 8668, Name: "Everton"},
		},
		Players: match.Players{
			Home: []player.RosterEntry{salah},
			Away: []player.RosterEntry{salah},
		},
		PlayerStats: []playerstats.Row{
			{MatchID: matchID, PlayerID: 292462, TeamID: 8650, NormalizedPosition: player.RoleForward, FinalScore: 2},
			{MatchID: matchID, PlayerID: 292462, TeamID: 8650, NormalizedPosition: player.RoleForward, FinalScore: 9},
		},
	}
}

func TestMatchRepository_Load(t *testing.T) {
	repo := NewMatchRepository()
	ctx := context.Background()

	inserted, err := repo.Load(ctx, testBundle(1))
	if err != nil || !inserted {
		t.Fatalf("first load: inserted=%v err=%v", inserted, err)
	}
	inserted, err = repo.Load(ctx, testBundle(1))
	if err != nil || inserted {
		t.Fatalf("second load must be a skip: inserted=%v err=%v", inserted, err)
	}
	if _, err := repo.Load(ctx, testBundle(2)); err != nil {
		t.Fatalf("load second match: %v", err)
	}

	teams, players, matches, stats := repo.Counts()
	if teams != 2 || players != 1 || matches != 2 || stats != 2 {
		t.Fatalf("unexpected counts teams=%d players=%d matches=%d stats=%d", teams, players, matches, stats)
	}

	rows := repo.PlayerStats(ctx, 1)
	if len(rows) != 1 || rows[0].FinalScore != 2 {
		t.Fatalf("first stat row for a key must win, got %+v", rows)
	}
	if ok, _ := repo.Exists(ctx, 2); !ok {
		t.Fatalf("expected match 2 to exist")
	}
}

func TestMatchRepository_ConcurrentLoadInsertsOnce(t *testing.T) {
	repo := NewMatchRepository()

	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			inserted, err := repo.Load(context.Background(), testBundle(7))
			if err != nil {
				t.Errorf("load: %v", err)
				return
			}
			if inserted {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	if wins.Load() != 1 {
		t.Fatalf("expected exactly one insert, got %d", wins.Load())
	}
}
