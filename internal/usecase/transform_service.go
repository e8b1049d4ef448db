package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/kyak15/soccer-analytics/internal/domain/match"
	"github.com/kyak15/soccer-analytics/internal/domain/player"
	"github.com/kyak15/soccer-analytics/internal/domain/playerstats"
	"github.com/kyak15/soccer-analytics/internal/domain/rawdata"
	"github.com/kyak15/soccer-analytics/internal/domain/scoring"
	"github.com/kyak15/soccer-analytics/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

var bundleValidator = validator.New()

// TransformMatch normalizes one captured match into a scored bundle. It does no
// I/O; missing required fields fail with ErrTransform naming the path.
func TransformMatch(doc rawdata.Document, positions player.PositionTable) (match.Bundle, error) {
	if doc.MatchDetails == nil {
		return match.Bundle{}, fmt.Errorf("%w: matchDetails is missing", ErrTransform)
	}
	details := rootNode(doc.MatchDetails, "matchDetails")

	facts, err := extractMatchFacts(details)
	if err != nil {
		return match.Bundle{}, err
	}
	home, err := extractHeaderTeam(details, 0)
	if err != nil {
		return match.Bundle{}, err
	}
	away, err := extractHeaderTeam(details, 1)
	if err != nil {
		return match.Bundle{}, err
	}

	homeLineup, err := extractLineup(details, "homeTeam", positions)
	if err != nil {
		return match.Bundle{}, err
	}
	awayLineup, err := extractLineup(details, "awayTeam", positions)
	if err != nil {
		return match.Bundle{}, err
	}
	if homeLineup.teamID != home.team.ID || awayLineup.teamID != away.team.ID {
		return match.Bundle{}, fmt.Errorf("%w: lineup teams %d/%d do not match header teams %d/%d",
			ErrTransform, homeLineup.teamID, awayLineup.teamID, home.team.ID, away.team.ID)
	}

	bundle := match.Bundle{
		Match: match.Match{
			MatchID:    facts.matchID,
			Round:      facts.round,
			MatchDate:  facts.date,
			HomeTeamID: home.team.ID,
			AwayTeamID: away.team.ID,
		},
		Teams: match.Teams{Home: home.team, Away: away.team},
		Players: match.Players{
			Home: homeLineup.players,
			Away: awayLineup.players,
		},
	}

	stats := playerStatsSource(doc.PlayerStats, details)
	homeCtx := scoring.TeamContext{GoalsConceded: away.score}
	awayCtx := scoring.TeamContext{GoalsConceded: home.score}
	bundle.PlayerStats = make([]playerstats.Row, 0, len(homeLineup.players)+len(awayLineup.players))
	bundle.PlayerStats = appendStatRows(bundle.PlayerStats, facts.matchID, homeLineup.players, stats, homeCtx)
	bundle.PlayerStats = appendStatRows(bundle.PlayerStats, facts.matchID, awayLineup.players, stats, awayCtx)

	if err := bundleValidator.Struct(bundle); err != nil {
		return match.Bundle{}, fmt.Errorf("%w: match %d: %v", ErrTransform, facts.matchID, err)
	}
	return bundle, nil
}

func appendStatRows(
	rows []playerstats.Row,
	matchID int64,
	roster []player.RosterEntry,
	stats map[string]any,
	team scoring.TeamContext,
) []playerstats.Row {
	for _, entry := range roster {
		payload, _ := stats[strconv.FormatInt(entry.ID, 10)].(map[string]any)
		row := playerstats.Row{
			MatchID:            matchID,
			PlayerID:           entry.ID,
			TeamID:             entry.TeamID,
			RawPosition:        entry.RawPosition,
			NormalizedPosition: entry.NormalizedPosition,
			Counters:           extractCounters(flattenStats(payload)),
		}
		scoring.Apply(&row, team)
		rows = append(rows, row)
	}
	return rows
}

type TransformService struct {
	positions player.PositionTable
	logger    *logging.Logger
}

func NewTransformService(positions player.PositionTable, logger *logging.Logger) *TransformService {
	if logger == nil {
		logger = logging.Default()
	}
	if positions.Fine == nil && positions.Coarse == nil {
		positions = player.DefaultPositionTable()
	}
	return &TransformService{positions: positions, logger: logger.Named("transform")}
}

func (s *TransformService) Transform(ctx context.Context, doc rawdata.Document) (match.Bundle, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TransformService.Transform", attribute.String("match.id", doc.MatchID))
	defer span.End()

	bundle, err := TransformMatch(doc, s.positions)
	if err != nil {
		recordSpanError(span, err)
		return match.Bundle{}, err
	}

	for _, row := range bundle.PlayerStats {
		if _, ok := scoring.WeightsFor(row.NormalizedPosition); ok || row.NormalizedPosition == player.RoleGoalkeeper {
			continue
		}
		s.logger.WarnContext(ctx, "position unknown, final score uses fallback weights",
			"match_id", row.MatchID,
			"player_id", row.PlayerID,
			"role", row.NormalizedPosition,
			"fallback_role", scoring.FallbackRole,
		)
	}

	s.logger.InfoContext(ctx, "transform finished",
		"match_id", bundle.Match.MatchID,
		"players", len(bundle.UniquePlayers()),
		"player_stats", len(bundle.PlayerStats),
	)
	return bundle, nil
}
