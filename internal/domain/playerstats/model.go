package playerstats

import "github.com/kyak15/soccer-analytics/internal/domain/player"

// Row is one player's statistics for one match. Counters are nil when the
// provider did not report them.
type Row struct {
	MatchID            int64       `json:"match_id" validate:"required,gt=0"`
	PlayerID           int64       `json:"player_id" validate:"required,gt=0"`
	TeamID             int64       `json:"team_id" validate:"required,gt=0"`
	RawPosition        string      `json:"raw_position"`
	NormalizedPosition player.Role `json:"normalized_position" validate:"required,oneof=GK DF MF FW UNK"`

	Counters

	GoalkeeperScore *float64 `json:"goalkeeper_score"`
	DefenseScore    *float64 `json:"defense_score"`
	MidfieldScore   *float64 `json:"midfield_score"`
	ForwardScore    *float64 `json:"forward_score"`
	FinalScore      float64  `json:"final_score"`
}

// Counters holds the per-match stat values keyed by provider label.
type Counters struct {
	// goalkeeping
	Saves         *int `json:"saves" db:"saves"`
	GoalsConceded *int `json:"goals_conceded" db:"goals_conceded"`
	ActAsSweeper  *int `json:"act_as_sweeper" db:"act_as_sweeper"`
	DivingSave    *int `json:"diving_save" db:"diving_save"`
	HighClaim     *int `json:"high_claim" db:"high_claim"`
	SavesInBox    *int `json:"saves_in_box" db:"saves_in_box"`
	Punches       *int `json:"punches" db:"punches"`
	Throws        *int `json:"throws" db:"throws"`

	// defending
	Tackles          *int `json:"tackles" db:"tackles"`
	LastManTackles   *int `json:"last_man_tackles" db:"last_man_tackles"`
	Blocks           *int `json:"blocks" db:"blocks"`
	Clearances       *int `json:"clearances" db:"clearances"`
	HeadedClearances *int `json:"headed_clearances" db:"headed_clearances"`
	Interceptions    *int `json:"interceptions" db:"interceptions"`
	Recoveries       *int `json:"recoveries" db:"recoveries"`
	DribbledPast     *int `json:"dribbled_past" db:"dribbled_past"`
	FoulsCommitted   *int `json:"fouls_committed" db:"fouls_committed"`

	GroundDuelsCompleted *int `json:"ground_duels_completed" db:"ground_duels_completed"`
	GroundDuelsAttempted *int `json:"ground_duels_attempted" db:"ground_duels_attempted"`
	AerialDuelsCompleted *int `json:"aerial_duels_completed" db:"aerial_duels_completed"`
	AerialDuelsAttempted *int `json:"aerial_duels_attempted" db:"aerial_duels_attempted"`

	// attacking and possession
	Goals                *int `json:"goals" db:"goals"`
	Assists              *int `json:"assists" db:"assists"`
	TotalShots           *int `json:"total_shots" db:"total_shots"`
	ShotsOnTarget        *int `json:"shots_on_target" db:"shots_on_target"`
	Touches              *int `json:"touches" db:"touches"`
	TouchesInOppBox      *int `json:"touches_in_opp_box" db:"touches_in_opp_box"`
	DribblesCompleted    *int `json:"dribbles_completed" db:"dribbles_completed"`
	DribblesAttempted    *int `json:"dribbles_attempted" db:"dribbles_attempted"`
	PassesIntoFinalThird *int `json:"passes_into_final_third" db:"passes_into_final_third"`
	PassesCompleted      *int `json:"passes_completed" db:"passes_completed"`
	PassesAttempted      *int `json:"passes_attempted" db:"passes_attempted"`
	ChancesCreated       *int `json:"chances_created" db:"chances_created"`
	PenaltiesWon         *int `json:"penalties_won" db:"penalties_won"`
	Dispossessed         *int `json:"dispossesed" db:"dispossesed"`
	WasFouled            *int `json:"was_fouled" db:"was_fouled"`
	CrossesCompleted     *int `json:"crosses_completed" db:"crosses_completed"`
	CrossesAttempted     *int `json:"crosses_attempted" db:"crosses_attempted"`
	LongBallsCompleted   *int `json:"long_balls_completed" db:"long_balls_completed"`
	LongBallsAttempted   *int `json:"long_balls_attempted" db:"long_balls_attempted"`

	// mistakes
	OwnGoals        *int `json:"own_goals" db:"own_goals"`
	ErrorsLedToGoal *int `json:"errors_led_to_goal" db:"errors_led_to_goal"`
}

// Label is a provider stat label and the counter it fills.
type Label struct {
	Name  string
	Field func(*Counters) **int
}

// FractionLabel is a provider stat label reported as value/total.
type FractionLabel struct {
	Name      string
	Completed func(*Counters) **int
	Attempted func(*Counters) **int
}

// AliasedLabel is a counter reported under more than one spelling. The first
// name present wins.
type AliasedLabel struct {
	Names []string
	Field func(*Counters) **int
}

var ScalarLabels = []Label{
	{Name: "Saves", Field: func(c *Counters) **int { return &c.Saves }},
	{Name: "Goals conceded", Field: func(c *Counters) **int { return &c.GoalsConceded }},
	{Name: "Sweeper (GK)", Field: func(c *Counters) **int { return &c.ActAsSweeper }},
	{Name: "Diving save", Field: func(c *Counters) **int { return &c.DivingSave }},
	{Name: "High claim", Field: func(c *Counters) **int { return &c.HighClaim }},
	{Name: "Saves inside box", Field: func(c *Counters) **int { return &c.SavesInBox }},
	{Name: "Punches", Field: func(c *Counters) **int { return &c.Punches }},
	{Name: "Throws", Field: func(c *Counters) **int { return &c.Throws }},
	{Name: "Tackles", Field: func(c *Counters) **int { return &c.Tackles }},
	{Name: "Last man tackle", Field: func(c *Counters) **int { return &c.LastManTackles }},
	{Name: "Blocks", Field: func(c *Counters) **int { return &c.Blocks }},
	{Name: "Clearances", Field: func(c *Counters) **int { return &c.Clearances }},
	{Name: "Headed clearance", Field: func(c *Counters) **int { return &c.HeadedClearances }},
	{Name: "Interceptions", Field: func(c *Counters) **int { return &c.Interceptions }},
	{Name: "Recoveries", Field: func(c *Counters) **int { return &c.Recoveries }},
	{Name: "Dribbled past", Field: func(c *Counters) **int { return &c.DribbledPast }},
	{Name: "Fouls committed", Field: func(c *Counters) **int { return &c.FoulsCommitted }},
	{Name: "Goals", Field: func(c *Counters) **int { return &c.Goals }},
	{Name: "Assists", Field: func(c *Counters) **int { return &c.Assists }},
	{Name: "Total shots", Field: func(c *Counters) **int { return &c.TotalShots }},
	{Name: "Shots on target", Field: func(c *Counters) **int { return &c.ShotsOnTarget }},
	{Name: "Touches", Field: func(c *Counters) **int { return &c.Touches }},
	{Name: "Touches in opposition box", Field: func(c *Counters) **int { return &c.TouchesInOppBox }},
	{Name: "Passes into final third", Field: func(c *Counters) **int { return &c.PassesIntoFinalThird }},
	{Name: "Chances created", Field: func(c *Counters) **int { return &c.ChancesCreated }},
	{Name: "Penalties won", Field: func(c *Counters) **int { return &c.PenaltiesWon }},
	{Name: "Dispossessed", Field: func(c *Counters) **int { return &c.Dispossessed }},
	{Name: "Was fouled", Field: func(c *Counters) **int { return &c.WasFouled }},
}

var FractionLabels = []FractionLabel{
	{
		Name:      "Ground duels won",
		Completed: func(c *Counters) **int { return &c.GroundDuelsCompleted },
		Attempted: func(c *Counters) **int { return &c.GroundDuelsAttempted },
	},
	{
		Name:      "Aerial duels won",
		Completed: func(c *Counters) **int { return &c.AerialDuelsCompleted },
		Attempted: func(c *Counters) **int { return &c.AerialDuelsAttempted },
	},
	{
		Name:      "Successful dribbles",
		Completed: func(c *Counters) **int { return &c.DribblesCompleted },
		Attempted: func(c *Counters) **int { return &c.DribblesAttempted },
	},
	{
		Name:      "Accurate passes",
		Completed: func(c *Counters) **int { return &c.PassesCompleted },
		Attempted: func(c *Counters) **int { return &c.PassesAttempted },
	},
	{
		Name:      "Accurate crosses",
		Completed: func(c *Counters) **int { return &c.CrossesCompleted },
		Attempted: func(c *Counters) **int { return &c.CrossesAttempted },
	},
	{
		Name:      "Accurate long balls",
		Completed: func(c *Counters) **int { return &c.LongBallsCompleted },
		Attempted: func(c *Counters) **int { return &c.LongBallsAttempted },
	},
}

var AliasedLabels = []AliasedLabel{
	{
		Names: []string{"Own goal", "Own goals"},
		Field: func(c *Counters) **int { return &c.OwnGoals },
	},
	{
		Names: []string{"Error led to goal", "Errors led to goal", "Errors leading to goal", "Error leading to goal"},
		Field: func(c *Counters) **int { return &c.ErrorsLedToGoal },
	},
}

// HasGoalkeeperScore reports whether the row carries the goalkeeper sub-score
// group rather than the outfield group.
func (r Row) HasGoalkeeperScore() bool {
	return r.GoalkeeperScore != nil && r.DefenseScore == nil && r.MidfieldScore == nil && r.ForwardScore == nil
}
