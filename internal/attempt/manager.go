package attempt

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/peerexam/peerexam/internal/exam"
	"github.com/peerexam/peerexam/internal/result"
	"github.com/peerexam/peerexam/internal/scoring"
)

// Manager owns every in-flight attempt. One instance per process; the
// mutex keeps the session's at-most-one-writer guarantee. Finished
// attempts hand their aggregate to the result store and are dropped.
type Manager struct {
	mu       sync.Mutex
	exams    exam.Store
	results  result.Store
	attempts map[string]*Attempt
}

func NewManager(exams exam.Store, results result.Store) *Manager {
	return &Manager{
		exams:    exams,
		results:  results,
		attempts: map[string]*Attempt{},
	}
}

// Start opens an attempt after checking that the exam is published and
// the presented access code matches (case-insensitive).
func (m *Manager) Start(ctx context.Context, examID, studentID, studentName, accessCode string) (*Attempt, error) {
	e, err := m.exams.Get(ctx, examID)
	if err != nil {
		return nil, err
	}
	if !e.IsPublished {
		return nil, exam.ErrNotPublished
	}
	if !e.CheckAccessCode(accessCode) {
		return nil, exam.ErrBadAccessCode
	}

	a := &Attempt{
		ID:          uuid.NewString(),
		ExamID:      examID,
		StudentID:   studentID,
		StudentName: studentName,
		Phase:       PhaseWeights,
		exam:        e,
		weights:     map[string]*distribution{},
		tbl:         map[string]*tblState{},
	}
	for _, q := range e.Questions {
		a.weights[q.ID] = &distribution{points: map[string]int{}}
		a.tbl[q.ID] = &tblState{}
	}

	m.mu.Lock()
	m.attempts[a.ID] = a
	m.mu.Unlock()
	return a, nil
}

func (m *Manager) get(id string) (*Attempt, error) {
	a, ok := m.attempts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return a, nil
}

// ExamAlive re-checks that the attempt's exam still exists; a deleted
// exam mid-attempt surfaces as ErrExamGone so the caller can bail out
// to a safe landing page.
func (m *Manager) ExamAlive(ctx context.Context, attemptID string) error {
	m.mu.Lock()
	a, err := m.get(attemptID)
	m.mu.Unlock()
	if err != nil {
		return err
	}
	if _, err := m.exams.Get(ctx, a.ExamID); err != nil {
		if errors.Is(err, exam.ErrNotFound) {
			return ErrExamGone
		}
		return err
	}
	return nil
}

func (m *Manager) question(a *Attempt, questionID string) (exam.Question, error) {
	q, ok := a.exam.Question(questionID)
	if !ok {
		return exam.Question{}, exam.ErrQuestionNotFound
	}
	return q, nil
}

// Increment adds one point to an alternative. Refused once the
// distribution is full: the sum can never exceed the question total.
func (m *Manager) Increment(attemptID, questionID, altID string) (WeightView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(attemptID)
	if err != nil {
		return WeightView{}, err
	}
	if a.Phase != PhaseWeights {
		return WeightView{}, ErrWrongPhase
	}
	q, err := m.question(a, questionID)
	if err != nil {
		return WeightView{}, err
	}
	d := a.weights[questionID]
	if d.confirmed {
		return WeightView{}, ErrQuestionConfirmed
	}
	if d.sum() >= q.TotalPoints {
		return WeightView{}, ErrNoPointsLeft
	}
	if !hasAlternative(q, altID) {
		return WeightView{}, exam.ErrQuestionNotFound
	}
	d.points[altID]++
	return weightView(questionID, q, d), nil
}

// Decrement removes one point from an alternative, allowed only while
// that alternative holds at least one point.
func (m *Manager) Decrement(attemptID, questionID, altID string) (WeightView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(attemptID)
	if err != nil {
		return WeightView{}, err
	}
	if a.Phase != PhaseWeights {
		return WeightView{}, ErrWrongPhase
	}
	q, err := m.question(a, questionID)
	if err != nil {
		return WeightView{}, err
	}
	d := a.weights[questionID]
	if d.confirmed {
		return WeightView{}, ErrQuestionConfirmed
	}
	if d.points[altID] <= 0 {
		return WeightView{}, ErrNothingToRemove
	}
	d.points[altID]--
	return weightView(questionID, q, d), nil
}

// ConfirmQuestion locks a question's distribution. Gated on the sum
// equaling the question total exactly.
func (m *Manager) ConfirmQuestion(attemptID, questionID string) (WeightView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(attemptID)
	if err != nil {
		return WeightView{}, err
	}
	if a.Phase != PhaseWeights {
		return WeightView{}, ErrWrongPhase
	}
	q, err := m.question(a, questionID)
	if err != nil {
		return WeightView{}, err
	}
	d := a.weights[questionID]
	if !scoring.DistributionComplete(d.points, q.TotalPoints) {
		return WeightView{}, ErrDistributionIncomplete
	}
	d.confirmed = true
	return weightView(questionID, q, d), nil
}

// FinishWeights moves the attempt to WEIGHTS_RESULT once every question
// is confirmed. There is no way back.
func (m *Manager) FinishWeights(attemptID string) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(attemptID)
	if err != nil {
		return nil, err
	}
	if a.Phase != PhaseWeights {
		return nil, ErrWrongPhase
	}
	for _, q := range a.exam.Questions {
		if !a.weights[q.ID].confirmed {
			return nil, ErrUnconfirmedQuestions
		}
	}
	a.Phase = PhaseWeightsResult
	return a, nil
}

// EnterTBL re-reads the exam (the student's "check again") and advances
// to TBL only if the teacher has released phase 2 in the meantime.
func (m *Manager) EnterTBL(ctx context.Context, attemptID string) (*Attempt, error) {
	m.mu.Lock()
	a, err := m.get(attemptID)
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	fresh, err := m.exams.Get(ctx, a.ExamID)
	if err != nil {
		if errors.Is(err, exam.ErrNotFound) {
			return nil, ErrExamGone
		}
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if a.Phase != PhaseWeightsResult {
		return nil, ErrWrongPhase
	}
	if !fresh.IsPhase2Released {
		return nil, ErrPhase2Locked
	}
	a.Phase = PhaseTBL
	return a, nil
}

// Select marks an alternative as the pending phase-2 choice. Exhausted
// alternatives stay unselectable.
func (m *Manager) Select(attemptID, questionID, altID string) (TBLView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(attemptID)
	if err != nil {
		return TBLView{}, err
	}
	if a.Phase != PhaseTBL {
		return TBLView{}, ErrWrongPhase
	}
	q, err := m.question(a, questionID)
	if err != nil {
		return TBLView{}, err
	}
	if !hasAlternative(q, altID) {
		return TBLView{}, exam.ErrQuestionNotFound
	}
	st := a.tbl[questionID]
	if st.solved {
		return TBLView{}, ErrAlreadySolved
	}
	if st.isExhausted(altID) {
		return TBLView{}, ErrAlternativeExhausted
	}
	st.selected = altID
	return tblView(questionID, st), nil
}

// ConfirmSelection resolves the pending choice. A wrong pick becomes a
// permanently exhausted alternative and clears the selection; the
// correct pick solves the question and awards the decayed points.
func (m *Manager) ConfirmSelection(attemptID, questionID string) (Feedback, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(attemptID)
	if err != nil {
		return Feedback{}, err
	}
	if a.Phase != PhaseTBL {
		return Feedback{}, ErrWrongPhase
	}
	q, err := m.question(a, questionID)
	if err != nil {
		return Feedback{}, err
	}
	st := a.tbl[questionID]
	if st.solved {
		return Feedback{}, ErrAlreadySolved
	}
	if st.selected == "" {
		return Feedback{}, ErrNoSelection
	}

	picked := st.selected
	st.selected = ""
	if picked != q.CorrectAlternativeID {
		st.exhausted = append(st.exhausted, picked)
		return Feedback{Correct: false, Errors: len(st.exhausted)}, nil
	}
	st.solved = true
	errs := len(st.exhausted)
	return Feedback{
		Correct:       true,
		AwardedPoints: scoring.DecayPoints(q.TotalPoints, errs),
		Errors:        errs,
	}, nil
}

// FinishTBL aggregates both phases and upserts the exam result. A
// resubmission for the same (exam, student) pair overwrites the stored
// record. The attempt reaches its terminal phase and is dropped.
func (m *Manager) FinishTBL(ctx context.Context, attemptID string) (result.Result, error) {
	m.mu.Lock()
	a, err := m.get(attemptID)
	if err != nil {
		m.mu.Unlock()
		return result.Result{}, err
	}
	if a.Phase != PhaseTBL {
		m.mu.Unlock()
		return result.Result{}, ErrWrongPhase
	}
	for _, q := range a.exam.Questions {
		if !a.tbl[q.ID].solved {
			m.mu.Unlock()
			return result.Result{}, ErrUnsolvedQuestions
		}
	}

	details := make([]scoring.QuestionScore, 0, len(a.exam.Questions))
	for _, q := range a.exam.Questions {
		d := a.weights[q.ID]
		st := a.tbl[q.ID]
		details = append(details, scoring.QuestionScore{
			QuestionID: q.ID,
			Phase1:     scoring.PhaseOneScore(d.points, q.CorrectAlternativeID, q.TotalPoints),
			Phase2:     scoring.PhaseTwoScore(q.TotalPoints, len(st.exhausted)),
			MaxPoints:  q.TotalPoints,
		})
	}
	totals := scoring.Aggregate(details, scoring.Weights{
		Phase1: a.exam.Phase1Weight,
		Phase2: a.exam.Phase2Weight,
	})
	r := result.Result{
		ExamID:           a.ExamID,
		StudentID:        a.StudentID,
		StudentName:      a.StudentName,
		Phase1TotalScore: totals.Phase1,
		Phase2TotalScore: totals.Phase2,
		FinalScore:       totals.Final,
		QuestionDetails:  details,
	}
	m.mu.Unlock()

	// Persist before dropping the attempt: a failed save leaves the
	// attempt in TBL so the student can retry the submission.
	saved, err := m.results.Save(ctx, r)
	if err != nil {
		return result.Result{}, err
	}

	m.mu.Lock()
	a.Phase = PhaseTBLResult
	delete(m.attempts, a.ID)
	m.mu.Unlock()
	return saved, nil
}

// Weights snapshots the phase-1 state of every question, in exam order.
func (m *Manager) Weights(attemptID string) ([]WeightView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(attemptID)
	if err != nil {
		return nil, err
	}
	out := make([]WeightView, 0, len(a.exam.Questions))
	for _, q := range a.exam.Questions {
		out = append(out, weightView(q.ID, q, a.weights[q.ID]))
	}
	return out, nil
}

// TBL snapshots the phase-2 state of every question, in exam order.
func (m *Manager) TBL(attemptID string) ([]TBLView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(attemptID)
	if err != nil {
		return nil, err
	}
	out := make([]TBLView, 0, len(a.exam.Questions))
	for _, q := range a.exam.Questions {
		out = append(out, tblView(q.ID, a.tbl[q.ID]))
	}
	return out, nil
}

// Questions returns the attempt's exam snapshot with answer keys
// stripped, for the client to render.
func (m *Manager) Questions(attemptID string) ([]exam.StudentQuestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, err := m.get(attemptID)
	if err != nil {
		return nil, err
	}
	return a.exam.StudentQuestions(), nil
}

// Get returns the attempt for status/phase rendering.
func (m *Manager) Get(attemptID string) (*Attempt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(attemptID)
}

func hasAlternative(q exam.Question, altID string) bool {
	for _, alt := range q.Alternatives {
		if alt.ID == altID {
			return true
		}
	}
	return false
}

func weightView(questionID string, q exam.Question, d *distribution) WeightView {
	pts := make(map[string]int, len(d.points))
	for k, v := range d.points {
		pts[k] = v
	}
	return WeightView{
		QuestionID: questionID,
		Points:     pts,
		Remaining:  q.TotalPoints - d.sum(),
		Confirmed:  d.confirmed,
	}
}

func tblView(questionID string, st *tblState) TBLView {
	exhausted := make([]string, len(st.exhausted))
	copy(exhausted, st.exhausted)
	return TBLView{
		QuestionID: questionID,
		Exhausted:  exhausted,
		Selected:   st.selected,
		Solved:     st.solved,
	}
}
