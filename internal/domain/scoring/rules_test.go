package scoring

import (
	"testing"

	"github.com/kyak15/soccer-analytics/internal/domain/player"
	"github.com/kyak15/soccer-analytics/internal/domain/playerstats"
)

func intPtr(v int) *int {
	return &v
}

func forwardCounters() playerstats.Counters {
	return playerstats.Counters{
		Goals:             intPtr(1),
		Assists:           intPtr(0),
		TotalShots:        intPtr(4),
		ShotsOnTarget:     intPtr(2),
		ChancesCreated:    intPtr(1),
		DribblesCompleted: intPtr(2),
		DribblesAttempted: intPtr(4),
		TouchesInOppBox:   intPtr(6),
		PassesCompleted:   intPtr(18),
		PassesAttempted:   intPtr(24),
	}
}

func TestScore_ForwardMonotonicInGoals(t *testing.T) {
	t.Parallel()

	base := forwardCounters()
	more := forwardCounters()
	more.Goals = intPtr(2)

	team := TeamContext{GoalsConceded: intPtr(1)}
	before := Score(player.RoleForward, base, team)
	after := Score(player.RoleForward, more, team)

	if *after.Forward <= *before.Forward {
		t.Fatalf("forward score did not increase: before=%.2f after=%.2f", *before.Forward, *after.Forward)
	}
	if after.Final <= before.Final {
		t.Fatalf("final score did not increase: before=%.2f after=%.2f", before.Final, after.Final)
	}
}

func TestScore_GoalkeeperOnlyGetsGoalkeeperScore(t *testing.T) {
	t.Parallel()

	c := playerstats.Counters{
		Saves:           intPtr(4),
		SavesInBox:      intPtr(2),
		GoalsConceded:   intPtr(1),
		PassesCompleted: intPtr(20),
		PassesAttempted: intPtr(25),
	}
	res := Score(player.RoleGoalkeeper, c, TeamContext{})
	if res.Goalkeeper == nil {
		t.Fatalf("expected goalkeeper score")
	}
	if res.Defense != nil || res.Midfield != nil || res.Forward != nil {
		t.Fatalf("expected outfield scores to be nil for goalkeeper")
	}

	// (4*1.0 + 2*0.5 - 1 + 20*0.02 + 0.8*1.0) * 2.5 = 13.00
	if *res.Goalkeeper != 13.0 {
		t.Fatalf("goalkeeper score mismatch: got=%.2f want=13.00", *res.Goalkeeper)
	}
	if res.Final != *res.Goalkeeper {
		t.Fatalf("goalkeeper final should equal goalkeeper score: got=%.2f", res.Final)
	}
}

func TestScore_GoalkeeperUsesTeamConcededWhenRowHasNone(t *testing.T) {
	t.Parallel()

	withRow := Score(player.RoleGoalkeeper, playerstats.Counters{GoalsConceded: intPtr(2)}, TeamContext{})
	withTeam := Score(player.RoleGoalkeeper, playerstats.Counters{}, TeamContext{GoalsConceded: intPtr(2)})
	if *withRow.Goalkeeper != *withTeam.Goalkeeper {
		t.Fatalf("expected team fallback to match row value: row=%.2f team=%.2f", *withRow.Goalkeeper, *withTeam.Goalkeeper)
	}
	if *withTeam.Goalkeeper != -5.0 {
		t.Fatalf("unexpected goalkeeper score: %.2f", *withTeam.Goalkeeper)
	}
}

func TestScore_MissingCountersScoreZero(t *testing.T) {
	t.Parallel()

	res := Score(player.RoleMidfielder, playerstats.Counters{}, TeamContext{})
	if res.Defense == nil || res.Midfield == nil || res.Forward == nil {
		t.Fatalf("expected all outfield sub-scores to be set")
	}
	if *res.Defense != 0 || *res.Midfield != 0 || *res.Forward != 0 || res.Final != 0 {
		t.Fatalf("expected zero scores, got %+v", res)
	}
}

func TestScore_DefenseTeamContext(t *testing.T) {
	t.Parallel()

	c := playerstats.Counters{Tackles: intPtr(2)}
	clean := DefenseScore(c, TeamContext{GoalsConceded: intPtr(0)})
	conceded := DefenseScore(c, TeamContext{GoalsConceded: intPtr(2)})
	unknown := DefenseScore(c, TeamContext{})

	if clean != 3.2 {
		t.Fatalf("clean sheet defense mismatch: got=%.2f want=3.20", clean)
	}
	if conceded != 0.2 {
		t.Fatalf("conceded defense mismatch: got=%.2f want=0.20", conceded)
	}
	if unknown != 1.2 {
		t.Fatalf("unknown team context defense mismatch: got=%.2f want=1.20", unknown)
	}
}

func TestScore_CriticalMistakesOutweighRoutineActions(t *testing.T) {
	t.Parallel()

	routine := playerstats.Counters{Tackles: intPtr(3), Interceptions: intPtr(1)}
	mistake := routine
	mistake.OwnGoals = intPtr(1)

	if DefenseScore(mistake, TeamContext{}) >= 0 {
		t.Fatalf("expected own goal to push defense below zero")
	}
	if MidfieldScore(mistake) >= MidfieldScore(routine) {
		t.Fatalf("expected own goal to lower midfield score")
	}
	if ForwardScore(mistake) >= ForwardScore(routine) {
		t.Fatalf("expected own goal to lower forward score")
	}
}

func TestScore_FinalWeightsByRole(t *testing.T) {
	t.Parallel()

	c := playerstats.Counters{Goals: intPtr(1), Tackles: intPtr(5)}
	team := TeamContext{GoalsConceded: intPtr(1)}

	def := DefenseScore(c, team)
	mid := MidfieldScore(c)
	fwd := ForwardScore(c)

	tests := []struct {
		role player.Role
		want float64
	}{
		{role: player.RoleDefender, want: round2(0.65*def + 0.25*mid + 0.10*fwd)},
		{role: player.RoleMidfielder, want: round2(0.20*def + 0.50*mid + 0.30*fwd)},
		{role: player.RoleForward, want: round2(0.10*def + 0.20*mid + 0.70*fwd)},
	}
	for _, tc := range tests {
		res := Score(tc.role, c, team)
		if res.Final != tc.want {
			t.Fatalf("final score mismatch for %s: got=%.2f want=%.2f", tc.role, res.Final, tc.want)
		}
		if res.FallbackWeights {
			t.Fatalf("role %s should have its own weights", tc.role)
		}
	}
}

func TestScore_UnknownRoleUsesFallbackWeights(t *testing.T) {
	t.Parallel()

	c := forwardCounters()
	unknown := Score(player.RoleUnknown, c, TeamContext{})
	fallback := Score(FallbackRole, c, TeamContext{})

	if !unknown.FallbackWeights {
		t.Fatalf("expected fallback weights flag for unknown role")
	}
	if unknown.Final != fallback.Final {
		t.Fatalf("unknown role final mismatch: got=%.2f want=%.2f", unknown.Final, fallback.Final)
	}
}

func TestApply_SetsRowScores(t *testing.T) {
	t.Parallel()

	row := playerstats.Row{NormalizedPosition: player.RoleGoalkeeper}
	row.Saves = intPtr(3)
	Apply(&row, TeamContext{GoalsConceded: intPtr(0)})
	if !row.HasGoalkeeperScore() {
		t.Fatalf("expected goalkeeper sub-score group on row")
	}
	if row.FinalScore != 7.5 {
		t.Fatalf("unexpected final score: %.2f", row.FinalScore)
	}
}
