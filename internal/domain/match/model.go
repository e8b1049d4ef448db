package match

import (
	"time"

	"github.com/kyak15/soccer-analytics/internal/domain/player"
	"github.com/kyak15/soccer-analytics/internal/domain/playerstats"
	"github.com/kyak15/soccer-analytics/internal/domain/team"
)

// Reference points at one match's lineup view.
type Reference struct {
	MatchID string `json:"matchId"`
	URL     string `json:"url"`
}

// Match is a completed fixture between two teams.
type Match struct {
	MatchID    int64     `json:"match_id" validate:"required,gt=0"`
	Round      int       `json:"match_round" validate:"gte=0"`
	MatchDate  time.Time `json:"match_date"`
	HomeTeamID int64     `json:"home_team_id" validate:"required,gt=0"`
	AwayTeamID int64     `json:"away_team_id" validate:"required,gt=0,nefield=HomeTeamID"`
}

type Teams struct {
	Home team.Team `json:"homeTeam"`
	Away team.Team `json:"awayTeam"`
}

type Players struct {
	Home []player.RosterEntry `json:"home_team_players" validate:"dive"`
	Away []player.RosterEntry `json:"away_team_players" validate:"dive"`
}

// Bundle is the normalized form of one match, ready to load.
type Bundle struct {
	Match       Match             `json:"match"`
	Teams       Teams             `json:"teams"`
	Players     Players           `json:"players"`
	PlayerStats []playerstats.Row `json:"player_stats" validate:"dive"`
}

// UniquePlayers returns both rosters deduplicated by player id, first
// occurrence wins.
func (b Bundle) UniquePlayers() []player.RosterEntry {
	seen := make(map[int64]struct{}, len(b.Players.Home)+len(b.Players.Away))
	out := make([]player.RosterEntry, 0, len(b.Players.Home)+len(b.Players.Away))
	for _, group := range [][]player.RosterEntry{b.Players.Home, b.Players.Away} {
		for _, entry := range group {
			if _, ok := seen[entry.ID]; ok {
				continue
			}
			seen[entry.ID] = struct{}{}
			out = append(out, entry)
		}
	}
	return out
}

func (b Bundle) TeamList() []team.Team {
	return []team.Team{b.Teams.Home, b.Teams.Away}
}
