package usecase

import (
	"fmt"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/kyak15/soccer-analytics/internal/domain/rawdata"
)

// Liverpool 2-0 Everton. Alisson and Salah start for the home side, one home
// substitute came on and one did not. Pickford and a player without any
// position code start for the away side.
const matchDetailsTemplate = `{
  "general": {"matchId": "%[1]d"},
  "header": {
    "teams": [
      {"id": 8650, "name": "Liverpool", "imageUrl": "https://images.test/8650.png", "score": 2},
      {"id": 8668, "name": "Everton", "score": 0}
    ]
  },
  "content": {
    "matchFacts": {
      "matchId": %[1]d,
      "infoBox": {
        "Tournament": {"round": "3"},
        "Match Date": {"utcTime": "2026-08-30T14:00:00.000Z"}
      }
    },
    "lineup": {
      "homeTeam": {
        "id": 8650,
        "starters": [
          {"id": 1001, "firstName": "Alisson", "lastName": "Becker", "positionId": 11, "usualPlayingPositionId": 0, "shirtNumber": 1, "countryName": "Brazil"},
          {"id": 292462, "firstName": "Mohamed", "lastName": "Salah", "positionId": 104, "usualPlayingPositionId": 3, "shirtNumber": 11}
        ],
        "subs": [
          {"id": 1003, "firstName": "Curtis", "lastName": "Jones", "usualPlayingPositionId": 2, "performance": {"rating": 6.5}},
          {"id": 1004, "firstName": "Unused", "lastName": "Keeper", "usualPlayingPositionId": 0}
        ]
      },
      "awayTeam": {
        "id": 8668,
        "starters": [
          {"id": 180201, "firstName": "Jordan", "lastName": "Pickford", "positionId": 11, "usualPlayingPositionId": 0},
          {"id": 2002, "firstName": "No", "lastName": "Position"}
        ],
        "subs": []
      }
    }
  }
}`

const alissonStats = `{"stats": [{"title": "Top stats", "stats": {
  "Saves": {"key": "saves", "stat": {"value": 3, "type": "integer"}},
  "Goals conceded": {"key": "goals_conceded", "stat": {"value": 0}}
}}]}`

const salahStats = `{"stats": [
  {"title": "Top stats", "stats": {
    "Goals": {"stat": {"value": 2}},
    "Accurate passes": {"stat": {"value": 20, "total": 25, "type": "fractionWithPercentage"}}
  }},
  {"title": "Attack", "stats": {
    "Total shots": {"stat": {"value": 5}},
    "Shots on target": {"stat": {"value": 3}}
  }}
]}`

const jonesStats = `{"stats": [{"title": "Defence", "stats": {
  "Errors leading to goal": {"stat": {"value": 1}},
  "Error led to goal": {"stat": {"value": 7}}
}}]}`

const pickfordStats = `{"stats": [{"title": "Top stats", "stats": {
  "Saves": {"stat": {"value": 4}}
}}]}`

var playerStatsFixtures = map[string]string{
	"1001":   alissonStats,
	"292462": salahStats,
	"1003":   jonesStats,
	"180201": pickfordStats,
}

func decodeObject(t *testing.T, raw string) map[string]any {
	t.Helper()

	var out map[string]any
	if err := sonic.UnmarshalString(raw, &out); err != nil {
		t.Fatalf("decode fixture: %v", err)
	}
	return out
}

func matchDetailsJSON(matchID int64) string {
	return fmt.Sprintf(matchDetailsTemplate, matchID)
}

func fixtureDocument(t *testing.T, matchID int64) rawdata.Document {
	t.Helper()

	stats := make(map[string]map[string]any, len(playerStatsFixtures))
	for playerID, raw := range playerStatsFixtures {
		stats[playerID] = decodeObject(t, raw)
	}
	return rawdata.Document{
		MatchID:      fmt.Sprint(matchID),
		MatchDetails: decodeObject(t, matchDetailsJSON(matchID)),
		PlayerStats:  stats,
	}
}

// fixtureResponses is what a match page emits while loading.
func fixtureResponses(matchID int64) []NetworkResponse {
	id := fmt.Sprint(matchID)
	out := []NetworkResponse{{URL: detailsURL(id), Body: []byte(matchDetailsJSON(matchID))}}
	for playerID, raw := range playerStatsFixtures {
		out = append(out, NetworkResponse{URL: playerStatsURL(id, playerID), Body: []byte(raw)})
	}
	return out
}
