package exam

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("exam not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrWeightsSum       = errors.New("phase weights must sum to 100")
	ErrNotPublished     = errors.New("exam is not published")
	ErrBadAccessCode    = errors.New("incorrect access code")
)

// ValidateWeights rejects any pair of phase weights that does not sum to
// exactly 100. Each weight must be in the 0-100 range.
func ValidateWeights(phase1, phase2 int) error {
	if phase1 < 0 || phase1 > 100 || phase2 < 0 || phase2 > 100 {
		return ErrWeightsSum
	}
	if phase1+phase2 != 100 {
		return ErrWeightsSum
	}
	return nil
}

// ValidateQuestion enforces the structural invariants a question must
// hold before it can be attached to an exam: 4 or 5 alternatives,
// totalPoints equal to the alternative count, and a correct-alternative
// id that references one of the listed alternatives.
func ValidateQuestion(q Question) error {
	n := len(q.Alternatives)
	if n != 4 && n != 5 {
		return fmt.Errorf("question must have 4 or 5 alternatives, got %d", n)
	}
	if q.TotalPoints != n {
		return fmt.Errorf("totalPoints must equal the alternative count: %d != %d", q.TotalPoints, n)
	}
	if q.Title == "" {
		return errors.New("question title required")
	}
	found := false
	seen := make(map[string]struct{}, n)
	for _, a := range q.Alternatives {
		if a.ID == "" || a.Text == "" {
			return errors.New("alternative id and text required")
		}
		if _, dup := seen[a.ID]; dup {
			return fmt.Errorf("duplicate alternative id %q", a.ID)
		}
		seen[a.ID] = struct{}{}
		if a.ID == q.CorrectAlternativeID {
			found = true
		}
	}
	if !found {
		return errors.New("correctAlternativeId must reference a listed alternative")
	}
	return nil
}
