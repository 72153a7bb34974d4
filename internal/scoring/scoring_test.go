package scoring

import (
	"math"
	"testing"
)

func TestPhaseOneScore(t *testing.T) {
	tests := []struct {
		name    string
		dist    map[string]int
		correct string
		total   int
		want    float64
	}{
		{name: "all on correct", dist: map[string]int{"a": 4}, correct: "a", total: 4, want: 100},
		{name: "none on correct", dist: map[string]int{"a": 2, "c": 2}, correct: "b", total: 4, want: 0},
		{name: "split over four", dist: map[string]int{"a": 1, "b": 2, "c": 1, "d": 0}, correct: "b", total: 4, want: 50},
		{name: "one of five", dist: map[string]int{"a": 1, "b": 1, "c": 1, "d": 1, "e": 1}, correct: "c", total: 5, want: 20},
		{name: "three of five", dist: map[string]int{"a": 3, "b": 2}, correct: "a", total: 5, want: 60},
		{name: "zero total guards division", dist: map[string]int{"a": 1}, correct: "a", total: 0, want: 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := PhaseOneScore(tc.dist, tc.correct, tc.total)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("PhaseOneScore = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDistributionComplete(t *testing.T) {
	if DistributionComplete(map[string]int{"a": 2, "b": 1}, 4) {
		t.Fatal("sum 3 of 4 must not be confirmable")
	}
	if !DistributionComplete(map[string]int{"a": 2, "b": 2}, 4) {
		t.Fatal("exact sum must be confirmable")
	}
	if DistributionComplete(map[string]int{"a": 5}, 4) {
		t.Fatal("oversubscribed distribution must not be confirmable")
	}
	if DistributionComplete(nil, 0) {
		t.Fatal("zero-point question must not be confirmable")
	}
}

func TestDecayPoints(t *testing.T) {
	want4 := []int{4, 2, 1, 0}
	for errs, want := range want4 {
		if got := DecayPoints(4, errs); got != want {
			t.Errorf("DecayPoints(4, %d) = %d, want %d", errs, got, want)
		}
	}
	want5 := []int{5, 3, 2, 1, 0}
	for errs, want := range want5 {
		if got := DecayPoints(5, errs); got != want {
			t.Errorf("DecayPoints(5, %d) = %d, want %d", errs, got, want)
		}
	}
	// Beyond the table the award stays at zero.
	if got := DecayPoints(4, 9); got != 0 {
		t.Errorf("DecayPoints(4, 9) = %d, want 0", got)
	}
	// Totals without a row never award points.
	if got := DecayPoints(3, 0); got != 0 {
		t.Errorf("DecayPoints(3, 0) = %d, want 0", got)
	}
}

func TestPhaseTwoScore(t *testing.T) {
	// 5 alternatives, two wrong picks before the correct one: 2 points = 40%.
	if got := PhaseTwoScore(5, 2); math.Abs(got-40) > 1e-9 {
		t.Fatalf("PhaseTwoScore(5, 2) = %v, want 40", got)
	}
	// Exhausting every wrong option on a 5-point question still scores 0.
	if got := PhaseTwoScore(5, 4); got != 0 {
		t.Fatalf("PhaseTwoScore(5, 4) = %v, want 0", got)
	}
	if got := PhaseTwoScore(4, 0); math.Abs(got-100) > 1e-9 {
		t.Fatalf("PhaseTwoScore(4, 0) = %v, want 100", got)
	}
}

func TestAggregate(t *testing.T) {
	questions := []QuestionScore{
		{QuestionID: "q1", Phase1: 80, Phase2: 50, MaxPoints: 4},
		{QuestionID: "q2", Phase1: 80, Phase2: 50, MaxPoints: 5},
	}
	got := Aggregate(questions, Weights{Phase1: 70, Phase2: 30})
	if math.Abs(got.Phase1-80) > 1e-9 || math.Abs(got.Phase2-50) > 1e-9 {
		t.Fatalf("totals = %+v, want phase1 80 phase2 50", got)
	}
	// (80*70 + 50*30) / 100 = 71.
	if math.Abs(got.Final-71) > 1e-9 {
		t.Fatalf("final = %v, want 71", got.Final)
	}
}

func TestAggregateEmptyExam(t *testing.T) {
	got := Aggregate(nil, Weights{Phase1: 50, Phase2: 50})
	if got.Phase1 != 0 || got.Phase2 != 0 || got.Final != 0 {
		t.Fatalf("empty exam must aggregate to zero, got %+v", got)
	}
}

func TestAggregateMonotonic(t *testing.T) {
	w := Weights{Phase1: 70, Phase2: 30}
	base := Aggregate([]QuestionScore{{Phase1: 40, Phase2: 40}}, w)
	betterP1 := Aggregate([]QuestionScore{{Phase1: 60, Phase2: 40}}, w)
	betterP2 := Aggregate([]QuestionScore{{Phase1: 40, Phase2: 60}}, w)
	if betterP1.Final <= base.Final {
		t.Fatal("final score must grow with phase 1 total")
	}
	if betterP2.Final <= base.Final {
		t.Fatal("final score must grow with phase 2 total")
	}
}

func TestQuestionFinal(t *testing.T) {
	q := QuestionScore{Phase1: 100, Phase2: 40}
	got := QuestionFinal(q, Weights{Phase1: 70, Phase2: 30})
	if math.Abs(got-82) > 1e-9 {
		t.Fatalf("QuestionFinal = %v, want 82", got)
	}
}
