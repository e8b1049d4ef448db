package scoring

import (
	"math"

	"github.com/kyak15/soccer-analytics/internal/domain/player"
	"github.com/kyak15/soccer-analytics/internal/domain/playerstats"
)

const (
	goalkeeperScale    = 2.5
	cleanSheetBonus    = 2.0
	concededPenalty    = 0.5
	criticalMistakeHit = 3.0
)

// Weights is the share of each outfield sub-score in the final rating.
type Weights struct {
	Defense  float64
	Midfield float64
	Forward  float64
}

// TeamContext carries match facts that belong to the player's team rather
// than the player.
type TeamContext struct {
	GoalsConceded *int
}

// Result holds the sub-scores of one player. Goalkeepers only get
// Goalkeeper; outfield players get the other three.
type Result struct {
	Goalkeeper *float64
	Defense    *float64
	Midfield   *float64
	Forward    *float64
	Final      float64

	// FallbackWeights is set when the role had no weight triple of its own.
	FallbackWeights bool
}

var finalWeights = map[player.Role]Weights{
	player.RoleDefender:   {Defense: 0.65, Midfield: 0.25, Forward: 0.10},
	player.RoleMidfielder: {Defense: 0.20, Midfield: 0.50, Forward: 0.30},
	player.RoleForward:    {Defense: 0.10, Midfield: 0.20, Forward: 0.70},
}

// FallbackRole lends its weights to roles missing from the table.
const FallbackRole = player.RoleMidfielder

type term struct {
	weight float64
	value  func(c playerstats.Counters) float64
}

var goalkeeperTerms = []term{
	{1.0, func(c playerstats.Counters) float64 { return count(c.Saves) }},
	{0.5, func(c playerstats.Counters) float64 { return count(c.SavesInBox) }},
	{0.5, func(c playerstats.Counters) float64 { return count(c.DivingSave) }},
	{0.3, func(c playerstats.Counters) float64 { return count(c.HighClaim) }},
	{0.3, func(c playerstats.Counters) float64 { return count(c.ActAsSweeper) }},
	{0.2, func(c playerstats.Counters) float64 { return count(c.Punches) }},
	{-criticalMistakeHit, func(c playerstats.Counters) float64 { return count(c.OwnGoals) }},
	{-criticalMistakeHit, func(c playerstats.Counters) float64 { return count(c.ErrorsLedToGoal) }},
	{0.02, func(c playerstats.Counters) float64 { return count(c.PassesCompleted) }},
	{1.0, func(c playerstats.Counters) float64 { return ratio(c.PassesCompleted, c.PassesAttempted) }},
	{0.1, func(c playerstats.Counters) float64 { return count(c.LongBallsCompleted) }},
}

var defenseTerms = []term{
	{0.6, func(c playerstats.Counters) float64 { return count(c.Tackles) }},
	{1.0, func(c playerstats.Counters) float64 { return count(c.LastManTackles) }},
	{0.5, func(c playerstats.Counters) float64 { return count(c.Blocks) }},
	// clearances weigh less than the other defensive actions
	{0.25, func(c playerstats.Counters) float64 { return count(c.Clearances) }},
	{0.1, func(c playerstats.Counters) float64 { return count(c.HeadedClearances) }},
	{0.6, func(c playerstats.Counters) float64 { return count(c.Interceptions) }},
	{0.2, func(c playerstats.Counters) float64 { return count(c.Recoveries) }},
	{1.0, func(c playerstats.Counters) float64 { return ratio(c.GroundDuelsCompleted, c.GroundDuelsAttempted) }},
	{1.0, func(c playerstats.Counters) float64 { return ratio(c.AerialDuelsCompleted, c.AerialDuelsAttempted) }},
	{-0.4, func(c playerstats.Counters) float64 { return count(c.DribbledPast) }},
	{-0.3, func(c playerstats.Counters) float64 { return count(c.FoulsCommitted) }},
	{-criticalMistakeHit, func(c playerstats.Counters) float64 { return count(c.OwnGoals) }},
	{-criticalMistakeHit, func(c playerstats.Counters) float64 { return count(c.ErrorsLedToGoal) }},
}

var midfieldTerms = []term{
	{3.0, func(c playerstats.Counters) float64 { return count(c.Goals) }},
	{2.5, func(c playerstats.Counters) float64 { return count(c.Assists) }},
	{0.03, func(c playerstats.Counters) float64 { return count(c.PassesCompleted) }},
	{2.0, func(c playerstats.Counters) float64 { return ratio(c.PassesCompleted, c.PassesAttempted) }},
	{0.15, func(c playerstats.Counters) float64 { return count(c.LongBallsCompleted) }},
	{0.2, func(c playerstats.Counters) float64 { return count(c.CrossesCompleted) }},
	{0.5, func(c playerstats.Counters) float64 { return count(c.PassesIntoFinalThird) }},
	{0.45, func(c playerstats.Counters) float64 { return count(c.ChancesCreated) }},
	{0.3, func(c playerstats.Counters) float64 { return count(c.DribblesCompleted) }},
	{0.1, func(c playerstats.Counters) float64 { return count(c.TouchesInOppBox) }},
	{-criticalMistakeHit, func(c playerstats.Counters) float64 { return count(c.OwnGoals) }},
	{-criticalMistakeHit, func(c playerstats.Counters) float64 { return count(c.ErrorsLedToGoal) }},
}

var forwardTerms = []term{
	{4.0, func(c playerstats.Counters) float64 { return count(c.Goals) }},
	{3.0, func(c playerstats.Counters) float64 { return count(c.Assists) }},
	{0.3, func(c playerstats.Counters) float64 { return count(c.TotalShots) }},
	{0.6, func(c playerstats.Counters) float64 { return count(c.ShotsOnTarget) }},
	{0.5, func(c playerstats.Counters) float64 { return count(c.ChancesCreated) }},
	{0.4, func(c playerstats.Counters) float64 { return count(c.DribblesCompleted) }},
	{0.5, func(c playerstats.Counters) float64 { return ratio(c.DribblesCompleted, c.DribblesAttempted) }},
	{0.2, func(c playerstats.Counters) float64 { return count(c.TouchesInOppBox) }},
	{1.5, func(c playerstats.Counters) float64 { return count(c.PenaltiesWon) }},
	{0.5, func(c playerstats.Counters) float64 { return ratio(c.GroundDuelsCompleted, c.GroundDuelsAttempted) }},
	{0.5, func(c playerstats.Counters) float64 { return ratio(c.AerialDuelsCompleted, c.AerialDuelsAttempted) }},
	{-criticalMistakeHit, func(c playerstats.Counters) float64 { return count(c.OwnGoals) }},
	{-criticalMistakeHit, func(c playerstats.Counters) float64 { return count(c.ErrorsLedToGoal) }},
}

// Score rates one player's match. It is pure; missing counters count as zero.
func Score(role player.Role, c playerstats.Counters, team TeamContext) Result {
	if role == player.RoleGoalkeeper {
		gk := GoalkeeperScore(c, team)
		return Result{Goalkeeper: &gk, Final: gk}
	}

	def := DefenseScore(c, team)
	mid := MidfieldScore(c)
	fwd := ForwardScore(c)

	weights, ok := finalWeights[role]
	if !ok {
		weights = finalWeights[FallbackRole]
	}
	final := round2(weights.Defense*def + weights.Midfield*mid + weights.Forward*fwd)

	return Result{
		Defense:         &def,
		Midfield:        &mid,
		Forward:         &fwd,
		Final:           final,
		FallbackWeights: !ok,
	}
}

func GoalkeeperScore(c playerstats.Counters, team TeamContext) float64 {
	conceded := c.GoalsConceded
	if conceded == nil {
		conceded = team.GoalsConceded
	}
	raw := sum(goalkeeperTerms, c) - count(conceded)
	return round2(raw * goalkeeperScale)
}

func DefenseScore(c playerstats.Counters, team TeamContext) float64 {
	raw := sum(defenseTerms, c)
	if team.GoalsConceded != nil {
		if *team.GoalsConceded == 0 {
			raw += cleanSheetBonus
		} else {
			raw -= concededPenalty * float64(*team.GoalsConceded)
		}
	}
	return round2(raw)
}

func MidfieldScore(c playerstats.Counters) float64 {
	return round2(sum(midfieldTerms, c))
}

func ForwardScore(c playerstats.Counters) float64 {
	return round2(sum(forwardTerms, c))
}

// Apply scores the row in place.
func Apply(row *playerstats.Row, team TeamContext) Result {
	res := Score(row.NormalizedPosition, row.Counters, team)
	row.GoalkeeperScore = res.Goalkeeper
	row.DefenseScore = res.Defense
	row.MidfieldScore = res.Midfield
	row.ForwardScore = res.Forward
	row.FinalScore = res.Final
	return res
}

func WeightsFor(role player.Role) (Weights, bool) {
	w, ok := finalWeights[role]
	return w, ok
}

func sum(terms []term, c playerstats.Counters) float64 {
	var total float64
	for _, t := range terms {
		total += t.weight * t.value(c)
	}
	return total
}

func count(v *int) float64 {
	if v == nil {
		return 0
	}
	return float64(*v)
}

func ratio(completed, attempted *int) float64 {
	if completed == nil || attempted == nil || *attempted <= 0 {
		return 0
	}
	return float64(*completed) / float64(*attempted)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
