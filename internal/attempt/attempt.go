// Package attempt runs one student's pass through an exam: the phase
// state machine, the phase-1 point distribution gates and the phase-2
// guess-with-feedback flow. Attempt state is ephemeral and lives in
// memory for the session; only the final result is persisted.
package attempt

import (
	"errors"

	"github.com/peerexam/peerexam/internal/exam"
)

// Phase is the linear flow of an attempt. Transitions are one-way:
// WEIGHTS -> WEIGHTS_RESULT -> TBL -> TBL_RESULT.
type Phase string

const (
	PhaseWeights       Phase = "WEIGHTS"
	PhaseWeightsResult Phase = "WEIGHTS_RESULT"
	PhaseTBL           Phase = "TBL"
	PhaseTBLResult     Phase = "TBL_RESULT"
)

var (
	ErrNotFound               = errors.New("attempt not found")
	ErrWrongPhase             = errors.New("operation not allowed in current phase")
	ErrQuestionConfirmed      = errors.New("question already confirmed")
	ErrNoPointsLeft           = errors.New("no points left to distribute")
	ErrNothingToRemove        = errors.New("no points on this alternative")
	ErrDistributionIncomplete = errors.New("distributed points must equal the question total")
	ErrUnconfirmedQuestions   = errors.New("every question must be confirmed first")
	ErrPhase2Locked           = errors.New("phase 2 has not been released")
	ErrExamGone               = errors.New("exam no longer exists")
	ErrAlreadySolved          = errors.New("question already solved")
	ErrAlternativeExhausted   = errors.New("alternative already tried")
	ErrNoSelection            = errors.New("no alternative selected")
	ErrUnsolvedQuestions      = errors.New("every question must be solved first")
)

// distribution is the ephemeral phase-1 answer for one question.
type distribution struct {
	points    map[string]int
	confirmed bool
}

func (d *distribution) sum() int {
	s := 0
	for _, v := range d.points {
		s += v
	}
	return s
}

// tblState is the ephemeral phase-2 answer for one question: the wrong
// alternatives tried so far, the pending selection and the solved flag.
type tblState struct {
	exhausted []string
	selected  string
	solved    bool
}

func (t *tblState) isExhausted(altID string) bool {
	for _, id := range t.exhausted {
		if id == altID {
			return true
		}
	}
	return false
}

// Attempt is one student's in-flight pass through one exam. The exam
// snapshot is taken at start; only the phase-2 release flag is re-read
// from the store (the student's "check again").
type Attempt struct {
	ID          string
	ExamID      string
	StudentID   string
	StudentName string
	Phase       Phase

	exam    exam.Exam
	weights map[string]*distribution
	tbl     map[string]*tblState
}

// WeightView is the handler-facing snapshot of one question's phase-1 state.
type WeightView struct {
	QuestionID string         `json:"questionId"`
	Points     map[string]int `json:"points"`
	Remaining  int            `json:"remaining"`
	Confirmed  bool           `json:"confirmed"`
}

// TBLView is the handler-facing snapshot of one question's phase-2 state.
type TBLView struct {
	QuestionID string   `json:"questionId"`
	Exhausted  []string `json:"exhausted"`
	Selected   string   `json:"selected,omitempty"`
	Solved     bool     `json:"solved"`
}

// Feedback is the immediate response to a confirmed phase-2 selection.
type Feedback struct {
	Correct       bool `json:"correct"`
	AwardedPoints int  `json:"awardedPoints"`
	Errors        int  `json:"errors"`
}
