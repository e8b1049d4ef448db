package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/kyak15/soccer-analytics/internal/domain/player"
	"github.com/kyak15/soccer-analytics/internal/domain/rawdata"
	"github.com/kyak15/soccer-analytics/internal/infrastructure/repository/memory"
	"github.com/kyak15/soccer-analytics/internal/platform/logging"
)

// fullMatchDocument builds a match with eleven starters per side, two unused
// substitutes per side and a stats payload for every starter.
func fullMatchDocument(matchID int64) rawdata.Document {
	stats := make(map[string]map[string]any, 22)

	side := func(teamID, firstPlayerID int64) map[string]any {
		starters := make([]any, 0, 11)
		for i := int64(0); i < 11; i++ {
			id := firstPlayerID + i
			usual := 3
			switch {
			case i == 0:
				usual = 0
			case i <= 4:
				usual = 1
			case i <= 7:
				usual = 2
			}
			starters = append(starters, map[string]any{
				"id":                     float64(id),
				"firstName":              "Player",
				"lastName":               fmt.Sprint(id),
				"usualPlayingPositionId": float64(usual),
				"shirtNumber":            float64(i + 1),
			})

			top := map[string]any{"Touches": map[string]any{"stat": map[string]any{"value": float64(30 + i)}}}
			if i == 0 {
				top["Saves"] = map[string]any{"stat": map[string]any{"value": float64(2)}}
			}
			stats[fmt.Sprint(id)] = map[string]any{"stats": []any{map[string]any{"title": "Top stats", "stats": top}}}
		}
		subs := []any{
			map[string]any{"id": float64(firstPlayerID + 50), "usualPlayingPositionId": float64(0)},
			map[string]any{"id": float64(firstPlayerID + 51), "usualPlayingPositionId": float64(2)},
		}
		return map[string]any{"id": float64(teamID), "starters": starters, "subs": subs}
	}

	details := map[string]any{
		"header": map[string]any{
			"teams": []any{
				map[string]any{"id": float64(9825), "name": "Arsenal", "score": float64(1)},
				map[string]any{"id": float64(8455), "name": "Chelsea", "score": float64(1)},
			},
		},
		"content": map[string]any{
			"matchFacts": map[string]any{
				"matchId": float64(matchID),
				"infoBox": map[string]any{
					"Tournament": map[string]any{"round": float64(7)},
					"Match Date": map[string]any{"utcTime": "2026-10-04T16:30:00Z"},
				},
			},
			"lineup": map[string]any{
				"homeTeam": side(9825, 10000),
				"awayTeam": side(8455, 20000),
			},
		},
	}

	return rawdata.Document{MatchID: fmt.Sprint(matchID), MatchDetails: details, PlayerStats: stats}
}

func TestTransformThenLoad_FullLineups(t *testing.T) {
	t.Parallel()

	bundle, err := TransformMatch(fullMatchDocument(4506400), player.DefaultPositionTable())
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if got := len(bundle.PlayerStats); got != 22 {
		t.Fatalf("expected 22 stat rows, got %d", got)
	}
	if got := len(bundle.UniquePlayers()); got != 22 {
		t.Fatalf("expected 22 players, got %d", got)
	}
	if got := len(bundle.TeamList()); got != 2 {
		t.Fatalf("expected 2 teams, got %d", got)
	}
	if bundle.Match.MatchID != 4506400 || bundle.Match.Round != 7 {
		t.Fatalf("unexpected match: %+v", bundle.Match)
	}

	repo := memory.NewMatchRepository()
	svc := NewLoadService(repo, logging.NewNop())

	inserted, err := svc.Load(context.Background(), bundle)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if !inserted {
		t.Fatalf("expected first load to insert")
	}
	teams, players, matches, rows := repo.Counts()
	if teams+players+matches+rows != 47 || teams != 2 || players != 22 || matches != 1 || rows != 22 {
		t.Fatalf("unexpected counts after first load: teams=%d players=%d matches=%d stats=%d", teams, players, matches, rows)
	}

	inserted, err = svc.Load(context.Background(), bundle)
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if inserted {
		t.Fatalf("expected second load to be skipped")
	}
	t2, p2, m2, r2 := repo.Counts()
	if t2 != teams || p2 != players || m2 != matches || r2 != rows {
		t.Fatalf("counts changed on repeat load: teams=%d players=%d matches=%d stats=%d", t2, p2, m2, r2)
	}
}
