// Package scoring implements the two-phase grading engine: the
// weight-distribution scorer (phase 1), the TBL decay scorer (phase 2)
// and the aggregator that blends both into a final grade.
//
// All scores handled here are percentages in the 0-100 range. Rescaling
// to a 0-10 display scale is a presentation concern and lives elsewhere.
package scoring

// DistributionSum returns the total number of points the student has
// allocated across alternatives.
func DistributionSum(dist map[string]int) int {
	sum := 0
	for _, v := range dist {
		sum += v
	}
	return sum
}

// DistributionComplete reports whether the distribution can be confirmed:
// the allocated points must equal the question total exactly.
func DistributionComplete(dist map[string]int, totalPoints int) bool {
	return totalPoints > 0 && DistributionSum(dist) == totalPoints
}

// PhaseOneScore converts a confirmed point distribution into a percentage:
// 100 * points placed on the correct alternative / totalPoints.
// Zero points on the correct alternative scores 0; all points on it scores 100.
func PhaseOneScore(dist map[string]int, correctAltID string, totalPoints int) float64 {
	if totalPoints <= 0 {
		return 0
	}
	onCorrect := dist[correctAltID]
	if onCorrect <= 0 {
		return 0
	}
	return 100 * float64(onCorrect) / float64(totalPoints)
}
