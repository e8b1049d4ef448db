package postgres

import (
	"time"

	"github.com/kyak15/soccer-analytics/internal/domain/match"
	"github.com/kyak15/soccer-analytics/internal/domain/player"
	"github.com/kyak15/soccer-analytics/internal/domain/playerstats"
	"github.com/kyak15/soccer-analytics/internal/domain/team"
)

const (
	teamTable             = "team"
	playerTable           = "player"
	matchTable            = "match"
	playerMatchStatsTable = "player_match_stats"
)

type teamInsertModel struct {
	ID      int64   `db:"id"`
	Name    string  `db:"name"`
	LogoURL *string `db:"logo_url"`
}

type playerInsertModel struct {
	ID          int64   `db:"id"`
	FirstName   string  `db:"first_name"`
	LastName    string  `db:"last_name"`
	FullName    *string `db:"full_name"`
	Nationality *string `db:"nationality"`
}

type matchInsertModel struct {
	MatchID    int64     `db:"match_id"`
	Matchday   int       `db:"matchday"`
	MatchDate  time.Time `db:"match_date"`
	HomeTeamID int64     `db:"home_team_id"`
	AwayTeamID int64     `db:"away_team_id"`
}

type playerMatchStatsInsertModel struct {
	MatchID            int64  `db:"match_id"`
	PlayerID           int64  `db:"player_id"`
	TeamID             int64  `db:"team_id"`
	RawPosition        string `db:"raw_position"`
	NormalizedPosition string `db:"normalized_position"`

	playerstats.Counters

	GoalkeeperScore *float64 `db:"goalkeeper_score"`
	DefenseScore    *float64 `db:"defense_score"`
	MidfieldScore   *float64 `db:"midfield_score"`
	ForwardScore    *float64 `db:"forward_score"`
	FinalScore      float64  `db:"final_score"`
}

func newTeamInsertModel(t team.Team) teamInsertModel {
	return teamInsertModel{ID: t.ID, Name: t.Name, LogoURL: t.LogoURL}
}

func newPlayerInsertModel(p player.Player) playerInsertModel {
	return playerInsertModel{
		ID:          p.ID,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		FullName:    p.FullName(),
		Nationality: p.Nationality,
	}
}

func newMatchInsertModel(m match.Match) matchInsertModel {
	return matchInsertModel{
		MatchID:    m.MatchID,
		Matchday:   m.Round,
		MatchDate:  m.MatchDate.UTC(),
		HomeTeamID: m.HomeTeamID,
		AwayTeamID: m.AwayTeamID,
	}
}

func newPlayerMatchStatsInsertModel(row playerstats.Row) playerMatchStatsInsertModel {
	return playerMatchStatsInsertModel{
		MatchID:            row.MatchID,
		PlayerID:           row.PlayerID,
		TeamID:             row.TeamID,
		RawPosition:        row.RawPosition,
		NormalizedPosition: string(row.NormalizedPosition),
		Counters:           row.Counters,
		GoalkeeperScore:    row.GoalkeeperScore,
		DefenseScore:       row.DefenseScore,
		MidfieldScore:      row.MidfieldScore,
		ForwardScore:       row.ForwardScore,
		FinalScore:         row.FinalScore,
	}
}
