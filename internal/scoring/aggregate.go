package scoring

// QuestionScore is one question's outcome across both phases.
// Phase1 and Phase2 are percentages (0-100).
type QuestionScore struct {
	QuestionID string  `json:"questionId"`
	Phase1     float64 `json:"phase1Score"`
	Phase2     float64 `json:"phase2Score"`
	MaxPoints  int     `json:"maxPoints"`
}

// Weights is an exam's phase weighting. Phase1 + Phase2 must equal 100;
// callers validate that before reaching the aggregator.
type Weights struct {
	Phase1 int `json:"phase1Weight"`
	Phase2 int `json:"phase2Weight"`
}

// Totals is the exam-level aggregate, all values 0-100.
type Totals struct {
	Phase1 float64 `json:"phase1TotalScore"`
	Phase2 float64 `json:"phase2TotalScore"`
	Final  float64 `json:"finalScore"`
}

// Aggregate averages the per-question phase percentages and blends them
// with the exam weights: final = (p1*w1 + p2*w2) / 100. An exam with no
// questions aggregates to all zeroes.
func Aggregate(questions []QuestionScore, w Weights) Totals {
	if len(questions) == 0 {
		return Totals{}
	}
	var p1, p2 float64
	for _, q := range questions {
		p1 += q.Phase1
		p2 += q.Phase2
	}
	n := float64(len(questions))
	t := Totals{Phase1: p1 / n, Phase2: p2 / n}
	t.Final = (t.Phase1*float64(w.Phase1) + t.Phase2*float64(w.Phase2)) / 100
	return t
}

// QuestionFinal is the weighted per-question percentage used in reports.
// It is derived on demand and never stored.
func QuestionFinal(q QuestionScore, w Weights) float64 {
	return (q.Phase1*float64(w.Phase1) + q.Phase2*float64(w.Phase2)) / 100
}
