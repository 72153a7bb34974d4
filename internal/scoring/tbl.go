package scoring

// decayTable maps a question's total points to the points awarded per
// number of wrong attempts before the correct pick. Indexing past the
// end of a row awards 0. The breakpoints are fixed; they are not a
// formula and must not be generalized to other totals.
var decayTable = map[int][]int{
	4: {4, 2, 1, 0},
	5: {5, 3, 2, 1, 0},
}

// DecayPoints returns the points awarded for solving a question after
// the given number of wrong attempts. Totals without a table row award 0.
func DecayPoints(totalPoints, errors int) int {
	row, ok := decayTable[totalPoints]
	if !ok || errors < 0 {
		return 0
	}
	if errors >= len(row) {
		return 0
	}
	return row[errors]
}

// PhaseTwoScore expresses the decayed award as a percentage of the
// question's total points.
func PhaseTwoScore(totalPoints, errors int) float64 {
	if totalPoints <= 0 {
		return 0
	}
	return 100 * float64(DecayPoints(totalPoints, errors)) / float64(totalPoints)
}
