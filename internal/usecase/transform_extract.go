package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/kyak15/soccer-analytics/internal/domain/player"
	"github.com/kyak15/soccer-analytics/internal/domain/playerstats"
	"github.com/kyak15/soccer-analytics/internal/domain/team"
)

// jsonNode is a value inside a decoded provider payload together with the path
// that reached it, so extraction errors can name the missing field.
type jsonNode struct {
	value any
	path  string
}

func rootNode(value any, name string) jsonNode {
	return jsonNode{value: value, path: name}
}

func (n jsonNode) key(k string) jsonNode {
	child := jsonNode{path: n.path + "." + k}
	if obj, ok := n.value.(map[string]any); ok {
		child.value = obj[k]
	}
	return child
}

func (n jsonNode) index(i int) jsonNode {
	child := jsonNode{path: n.path + "[" + strconv.Itoa(i) + "]"}
	if arr, ok := n.value.([]any); ok && i >= 0 && i < len(arr) {
		child.value = arr[i]
	}
	return child
}

func (n jsonNode) present() bool {
	switch v := n.value.(type) {
	case nil:
		return false
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}

func (n jsonNode) missing() error {
	return fmt.Errorf("%w: %s is missing", ErrTransform, n.path)
}

func (n jsonNode) invalid(want string) error {
	return fmt.Errorf("%w: %s is not %s (got %T)", ErrTransform, n.path, want, n.value)
}

func (n jsonNode) asObject() (map[string]any, error) {
	if n.value == nil {
		return nil, n.missing()
	}
	obj, ok := n.value.(map[string]any)
	if !ok {
		return nil, n.invalid("an object")
	}
	return obj, nil
}

func (n jsonNode) asArray() ([]any, error) {
	if n.value == nil {
		return nil, n.missing()
	}
	arr, ok := n.value.([]any)
	if !ok {
		return nil, n.invalid("an array")
	}
	return arr, nil
}

// asInt64 accepts whole JSON numbers and numeric strings. Identifiers and
// rounds with a fractional part are rejected.
func (n jsonNode) asInt64() (int64, error) {
	if n.value == nil {
		return 0, n.missing()
	}
	v, ok := toExactInt64(n.value)
	if !ok {
		return 0, n.invalid("an integer")
	}
	return v, nil
}

func (n jsonNode) asString() (string, error) {
	if n.value == nil {
		return "", n.missing()
	}
	s, ok := n.value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", n.invalid("a non-empty string")
	}
	return s, nil
}

func (n jsonNode) optString() *string {
	s, ok := n.value.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func (n jsonNode) optInt() *int {
	v, ok := toInt64(n.value)
	if !ok {
		return nil
	}
	out := int(v)
	return &out
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int64(math.Round(v)), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i, true
		}
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		return int64(math.Round(f)), true
	case string:
		i, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

func toExactInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
	case json.Number:
		if _, err := v.Int64(); err != nil {
			f, err := v.Float64()
			if err != nil || f != math.Trunc(f) {
				return 0, false
			}
		}
	}
	return toInt64(value)
}

type headerTeam struct {
	team  team.Team
	score *int
}

func extractHeaderTeam(details jsonNode, i int) (headerTeam, error) {
	node := details.key("header").key("teams").index(i)
	id, err := node.key("id").asInt64()
	if err != nil {
		return headerTeam{}, err
	}
	name, err := node.key("name").asString()
	if err != nil {
		return headerTeam{}, err
	}
	return headerTeam{
		team:  team.Team{ID: id, Name: name, LogoURL: node.key("imageUrl").optString()},
		score: node.key("score").optInt(),
	}, nil
}

type matchFacts struct {
	matchID int64
	round   int
	date    time.Time
}

func extractMatchFacts(details jsonNode) (matchFacts, error) {
	facts := details.key("content").key("matchFacts")

	matchID, err := facts.key("matchId").asInt64()
	if err != nil {
		return matchFacts{}, err
	}

	infoBox := facts.key("infoBox")
	round, err := infoBox.key("Tournament").key("round").asInt64()
	if err != nil {
		return matchFacts{}, err
	}

	dateNode := infoBox.key("Match Date").key("utcTime")
	rawDate, err := dateNode.asString()
	if err != nil {
		return matchFacts{}, err
	}
	date, err := time.Parse(time.RFC3339, rawDate)
	if err != nil {
		return matchFacts{}, fmt.Errorf("%w: %s is not an RFC 3339 time: %v", ErrTransform, dateNode.path, err)
	}

	return matchFacts{matchID: matchID, round: int(round), date: date.UTC()}, nil
}

type lineupSide struct {
	teamID  int64
	players []player.RosterEntry
}

// extractLineup lists every starter and every substitute who came on.
func extractLineup(details jsonNode, side string, positions player.PositionTable) (lineupSide, error) {
	node := details.key("content").key("lineup").key(side)
	teamID, err := node.key("id").asInt64()
	if err != nil {
		return lineupSide{}, err
	}

	starters, err := node.key("starters").asArray()
	if err != nil {
		return lineupSide{}, err
	}
	out := lineupSide{teamID: teamID, players: make([]player.RosterEntry, 0, len(starters)+5)}
	for i := range starters {
		entry, err := extractRosterEntry(node.key("starters").index(i), teamID, positions)
		if err != nil {
			return lineupSide{}, err
		}
		out.players = append(out.players, entry)
	}

	subsNode := node.key("subs")
	subs, _ := subsNode.value.([]any)
	for i := range subs {
		sub := subsNode.index(i)
		if sub.key("performance").value == nil {
			continue
		}
		entry, err := extractRosterEntry(sub, teamID, positions)
		if err != nil {
			return lineupSide{}, err
		}
		out.players = append(out.players, entry)
	}
	return out, nil
}

func extractRosterEntry(node jsonNode, teamID int64, positions player.PositionTable) (player.RosterEntry, error) {
	id, err := node.key("id").asInt64()
	if err != nil {
		return player.RosterEntry{}, err
	}

	entry := player.RosterEntry{
		Player: player.Player{
			ID:          id,
			Nationality: node.key("countryName").optString(),
		},
		TeamID:          teamID,
		PositionID:      node.key("positionId").optInt(),
		UsualPositionID: node.key("usualPlayingPositionId").optInt(),
		ShirtNumber:     node.key("shirtNumber").optInt(),
	}
	if first := node.key("firstName").optString(); first != nil {
		entry.FirstName = *first
	}
	if last := node.key("lastName").optString(); last != nil {
		entry.LastName = *last
	}
	entry.RawPosition, entry.NormalizedPosition = positions.MapPosition(entry.PositionID, entry.UsualPositionID)
	return entry, nil
}

// playerStatsSource returns the captured per-player payloads, falling back to
// the copy embedded in match details when nothing was captured.
func playerStatsSource(captured map[string]map[string]any, details jsonNode) map[string]any {
	out := make(map[string]any, len(captured))
	for id, payload := range captured {
		out[id] = payload
	}
	if len(out) > 0 {
		return out
	}
	if embedded, ok := details.key("content").key("playerStats").value.(map[string]any); ok {
		return embedded
	}
	return out
}

// flattenStats turns a player payload into label -> stat node. Payloads
// without a "stats" key are already flat.
func flattenStats(entry map[string]any) map[string]any {
	if len(entry) == 0 {
		return nil
	}
	groups, hasStats := entry["stats"]
	if !hasStats {
		return entry
	}

	flat := make(map[string]any)
	list, _ := groups.([]any)
	for _, group := range list {
		groupObj, ok := group.(map[string]any)
		if !ok {
			continue
		}
		stats, ok := groupObj["stats"].(map[string]any)
		if !ok {
			continue
		}
		for label, node := range stats {
			flat[label] = node
		}
	}
	return flat
}

func statNode(flat map[string]any, label string) (jsonNode, bool) {
	node := rootNode(flat[label], label)
	if !node.present() {
		return jsonNode{}, false
	}
	return node.key("stat"), true
}

func extractCounters(flat map[string]any) playerstats.Counters {
	var c playerstats.Counters
	if len(flat) == 0 {
		return c
	}

	for _, label := range playerstats.ScalarLabels {
		if stat, ok := statNode(flat, label.Name); ok {
			*label.Field(&c) = stat.key("value").optInt()
		}
	}
	for _, label := range playerstats.FractionLabels {
		if stat, ok := statNode(flat, label.Name); ok {
			*label.Completed(&c) = stat.key("value").optInt()
			*label.Attempted(&c) = stat.key("total").optInt()
		}
	}
	for _, label := range playerstats.AliasedLabels {
		for _, name := range label.Names {
			if stat, ok := statNode(flat, name); ok {
				*label.Field(&c) = stat.key("value").optInt()
				break
			}
		}
	}
	return c
}
