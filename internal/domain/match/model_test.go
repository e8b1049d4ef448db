package match

import (
	"testing"

	"github.com/kyak15/soccer-analytics/internal/domain/player"
	"github.com/kyak15/soccer-analytics/internal/domain/team"
)

func TestBundle_UniquePlayers(t *testing.T) {
	t.Parallel()

	bundle := Bundle{
		Players: Players{
			Home: []player.RosterEntry{
				{Player: player.Player{ID: 1, FirstName: "Alisson"}, TeamID: 10},
				{Player: player.Player{ID: 2, FirstName: "Virgil"}, TeamID: 10},
			},
			Away: []player.RosterEntry{
				{Player: player.Player{ID: 2, FirstName: "Duplicate"}, TeamID: 20},
				{Player: player.Player{ID: 3, FirstName: "Jordan"}, TeamID: 20},
			},
		},
	}

	got := bundle.UniquePlayers()
	if len(got) != 3 {
		t.Fatalf("unexpected player count: got=%d want=3", len(got))
	}
	if got[1].FirstName != "Virgil" || got[1].TeamID != 10 {
		t.Fatalf("expected first occurrence to win, got %+v", got[1])
	}
	if got[2].ID != 3 {
		t.Fatalf("unexpected order: got id=%d want=3", got[2].ID)
	}
}

func TestBundle_TeamList(t *testing.T) {
	t.Parallel()

	bundle := Bundle{Teams: Teams{
		Home: team.Team{ID: 8650, Name: "Liverpool"},
		Away: team.Team{ID: 8668, Name: "Everton"},
	}}

	teams := bundle.TeamList()
	if len(teams) != 2 || teams[0].ID != 8650 || teams[1].ID != 8668 {
		t.Fatalf("unexpected team list: %+v", teams)
	}
}
