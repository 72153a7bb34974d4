package attempt

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/peerexam/peerexam/internal/exam"
	"github.com/peerexam/peerexam/internal/result"
)

/* ---- in-memory fakes for exam.Store and result.Store ---- */

type fakeExams struct {
	exams map[string]exam.Exam
}

func newFakeExams(exams ...exam.Exam) *fakeExams {
	f := &fakeExams{exams: map[string]exam.Exam{}}
	for _, e := range exams {
		f.exams[e.ID] = e
	}
	return f
}

func (f *fakeExams) Put(_ context.Context, e exam.Exam) error {
	f.exams[e.ID] = e
	return nil
}

func (f *fakeExams) Get(_ context.Context, id string) (exam.Exam, error) {
	e, ok := f.exams[id]
	if !ok {
		return exam.Exam{}, exam.ErrNotFound
	}
	return e, nil
}

func (f *fakeExams) List(_ context.Context) ([]exam.Exam, error) { return nil, nil }

func (f *fakeExams) Delete(_ context.Context, id string) error {
	delete(f.exams, id)
	return nil
}

type fakeResults struct {
	saved    []result.Result
	failNext error
}

func (f *fakeResults) Save(_ context.Context, r result.Result) (result.Result, error) {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return result.Result{}, err
	}
	for i := range f.saved {
		if f.saved[i].ExamID == r.ExamID && f.saved[i].StudentID == r.StudentID {
			r.ID = f.saved[i].ID
			f.saved[i] = r
			return r, nil
		}
	}
	r.ID = uuid.NewString()
	f.saved = append(f.saved, r)
	return r, nil
}

func (f *fakeResults) ByStudent(_ context.Context, _ string) ([]result.Result, error) {
	return nil, nil
}
func (f *fakeResults) ByExam(_ context.Context, _ string) ([]result.Result, error) {
	return nil, nil
}
func (f *fakeResults) Exists(_ context.Context, _, _ string) (bool, error) { return false, nil }

/* ---- fixtures ---- */

func alts(ids ...string) []exam.Alternative {
	out := make([]exam.Alternative, 0, len(ids))
	for _, id := range ids {
		out = append(out, exam.Alternative{ID: id, Text: "option " + id})
	}
	return out
}

func seedExam() exam.Exam {
	return exam.Exam{
		ID:    "exam-1",
		Title: "Cell Biology",
		Questions: []exam.Question{
			{
				ID: "q1", Title: "Organelles",
				Alternatives: alts("a", "b", "c", "d"),
				TotalPoints:  4, CorrectAlternativeID: "b",
			},
			{
				ID: "q2", Title: "Membranes",
				Alternatives: alts("a", "b", "c", "d", "e"),
				TotalPoints:  5, CorrectAlternativeID: "c",
			},
		},
		IsPublished:  true,
		AccessCode:   "WX24",
		Phase1Weight: 70,
		Phase2Weight: 30,
	}
}

func startAttempt(t *testing.T) (*Manager, *fakeExams, *fakeResults, string) {
	t.Helper()
	exams := newFakeExams(seedExam())
	results := &fakeResults{}
	m := NewManager(exams, results)
	a, err := m.Start(context.Background(), "exam-1", "stu-1", "Ada", "wx24")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return m, exams, results, a.ID
}

func fillQuestion(t *testing.T, m *Manager, attemptID, qID string, points map[string]int) {
	t.Helper()
	for altID, n := range points {
		for i := 0; i < n; i++ {
			if _, err := m.Increment(attemptID, qID, altID); err != nil {
				t.Fatalf("increment %s/%s: %v", qID, altID, err)
			}
		}
	}
	if _, err := m.ConfirmQuestion(attemptID, qID); err != nil {
		t.Fatalf("confirm %s: %v", qID, err)
	}
}

func solveTBL(t *testing.T, m *Manager, attemptID, qID string, picks ...string) {
	t.Helper()
	for _, altID := range picks {
		if _, err := m.Select(attemptID, qID, altID); err != nil {
			t.Fatalf("select %s/%s: %v", qID, altID, err)
		}
		if _, err := m.ConfirmSelection(attemptID, qID); err != nil {
			t.Fatalf("confirm selection %s/%s: %v", qID, altID, err)
		}
	}
}

/* ---- tests ---- */

func TestStartGate(t *testing.T) {
	exams := newFakeExams(seedExam())
	m := NewManager(exams, &fakeResults{})
	ctx := context.Background()

	if _, err := m.Start(ctx, "exam-1", "s", "S", "ZZZZ"); !errors.Is(err, exam.ErrBadAccessCode) {
		t.Fatalf("wrong code: got %v, want ErrBadAccessCode", err)
	}
	// Case-insensitive match.
	if _, err := m.Start(ctx, "exam-1", "s", "S", "Wx24"); err != nil {
		t.Fatalf("mixed-case code rejected: %v", err)
	}

	draft := seedExam()
	draft.ID = "exam-2"
	draft.IsPublished = false
	draft.AccessCode = ""
	exams.exams[draft.ID] = draft
	if _, err := m.Start(ctx, "exam-2", "s", "S", ""); !errors.Is(err, exam.ErrNotPublished) {
		t.Fatalf("draft exam: got %v, want ErrNotPublished", err)
	}
}

func TestDistributionGates(t *testing.T) {
	m, _, _, id := startAttempt(t)

	// Decrement with nothing allocated is refused.
	if _, err := m.Decrement(id, "q1", "a"); !errors.Is(err, ErrNothingToRemove) {
		t.Fatalf("decrement empty: got %v", err)
	}

	for i := 0; i < 4; i++ {
		if _, err := m.Increment(id, "q1", "a"); err != nil {
			t.Fatalf("increment %d: %v", i, err)
		}
	}
	// The sum can never exceed the question total.
	if _, err := m.Increment(id, "q1", "b"); !errors.Is(err, ErrNoPointsLeft) {
		t.Fatalf("over-allocation: got %v", err)
	}

	// Partial distribution cannot be confirmed.
	if _, err := m.Decrement(id, "q1", "a"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ConfirmQuestion(id, "q1"); !errors.Is(err, ErrDistributionIncomplete) {
		t.Fatalf("confirm on sum 3 of 4: got %v", err)
	}

	v, err := m.Increment(id, "q1", "b")
	if err != nil {
		t.Fatal(err)
	}
	if v.Remaining != 0 {
		t.Fatalf("remaining = %d, want 0", v.Remaining)
	}
	if _, err := m.ConfirmQuestion(id, "q1"); err != nil {
		t.Fatalf("confirm full distribution: %v", err)
	}
	// A confirmed question is frozen.
	if _, err := m.Increment(id, "q1", "a"); !errors.Is(err, ErrQuestionConfirmed) {
		t.Fatalf("mutating confirmed question: got %v", err)
	}
}

func TestFinishWeightsRequiresAllConfirmed(t *testing.T) {
	m, _, _, id := startAttempt(t)
	fillQuestion(t, m, id, "q1", map[string]int{"b": 4})
	if _, err := m.FinishWeights(id); !errors.Is(err, ErrUnconfirmedQuestions) {
		t.Fatalf("finish with q2 unconfirmed: got %v", err)
	}
	fillQuestion(t, m, id, "q2", map[string]int{"c": 5})
	a, err := m.FinishWeights(id)
	if err != nil {
		t.Fatal(err)
	}
	if a.Phase != PhaseWeightsResult {
		t.Fatalf("phase = %s, want WEIGHTS_RESULT", a.Phase)
	}
	// No branch back to phase 1.
	if _, err := m.Increment(id, "q1", "a"); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("phase-1 mutation after finish: got %v", err)
	}
}

func TestEnterTBLGuardedByRelease(t *testing.T) {
	m, exams, _, id := startAttempt(t)
	fillQuestion(t, m, id, "q1", map[string]int{"b": 4})
	fillQuestion(t, m, id, "q2", map[string]int{"c": 5})
	if _, err := m.FinishWeights(id); err != nil {
		t.Fatal(err)
	}

	if _, err := m.EnterTBL(context.Background(), id); !errors.Is(err, ErrPhase2Locked) {
		t.Fatalf("enter before release: got %v", err)
	}

	// Teacher releases phase 2; the student's "check again" now succeeds.
	e := exams.exams["exam-1"]
	e.IsPhase2Released = true
	exams.exams["exam-1"] = e
	a, err := m.EnterTBL(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if a.Phase != PhaseTBL {
		t.Fatalf("phase = %s, want TBL", a.Phase)
	}
}

func TestEnterTBLExamDeleted(t *testing.T) {
	m, exams, _, id := startAttempt(t)
	fillQuestion(t, m, id, "q1", map[string]int{"b": 4})
	fillQuestion(t, m, id, "q2", map[string]int{"c": 5})
	if _, err := m.FinishWeights(id); err != nil {
		t.Fatal(err)
	}
	delete(exams.exams, "exam-1")
	if _, err := m.EnterTBL(context.Background(), id); !errors.Is(err, ErrExamGone) {
		t.Fatalf("deleted exam: got %v, want ErrExamGone", err)
	}
	if err := m.ExamAlive(context.Background(), id); !errors.Is(err, ErrExamGone) {
		t.Fatalf("ExamAlive on deleted exam: got %v, want ErrExamGone", err)
	}
}

func toTBL(t *testing.T, m *Manager, exams *fakeExams, id string) {
	t.Helper()
	fillQuestion(t, m, id, "q1", map[string]int{"a": 1, "b": 2, "c": 1})
	fillQuestion(t, m, id, "q2", map[string]int{"c": 5})
	if _, err := m.FinishWeights(id); err != nil {
		t.Fatal(err)
	}
	e := exams.exams["exam-1"]
	e.IsPhase2Released = true
	exams.exams["exam-1"] = e
	if _, err := m.EnterTBL(context.Background(), id); err != nil {
		t.Fatal(err)
	}
}

func TestTBLWrongPicksExhaust(t *testing.T) {
	m, exams, _, id := startAttempt(t)
	toTBL(t, m, exams, id)

	if _, err := m.ConfirmSelection(id, "q2"); !errors.Is(err, ErrNoSelection) {
		t.Fatalf("confirm without selection: got %v", err)
	}

	if _, err := m.Select(id, "q2", "a"); err != nil {
		t.Fatal(err)
	}
	fb, err := m.ConfirmSelection(id, "q2")
	if err != nil {
		t.Fatal(err)
	}
	if fb.Correct || fb.Errors != 1 {
		t.Fatalf("first wrong pick: %+v", fb)
	}
	// A tried alternative is permanently disabled.
	if _, err := m.Select(id, "q2", "a"); !errors.Is(err, ErrAlternativeExhausted) {
		t.Fatalf("reselect exhausted: got %v", err)
	}

	// Second wrong, then correct: 2 errors on a 5-point question = 2 points.
	solveTBL(t, m, id, "q2", "b", "c")
	views, err := m.TBL(id)
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range views {
		if v.QuestionID == "q2" {
			if !v.Solved || len(v.Exhausted) != 2 {
				t.Fatalf("q2 view: %+v", v)
			}
		}
	}
	if _, err := m.Select(id, "q2", "d"); !errors.Is(err, ErrAlreadySolved) {
		t.Fatalf("select on solved question: got %v", err)
	}
}

func TestFinishTBLSavesResult(t *testing.T) {
	m, exams, results, id := startAttempt(t)
	toTBL(t, m, exams, id)

	solveTBL(t, m, id, "q1", "b") // no errors: 100%
	if _, err := m.FinishTBL(context.Background(), id); !errors.Is(err, ErrUnsolvedQuestions) {
		t.Fatalf("finish with q2 unsolved: got %v", err)
	}
	solveTBL(t, m, id, "q2", "a", "b", "c") // 2 errors on 5 points: 40%

	r, err := m.FinishTBL(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if len(results.saved) != 1 {
		t.Fatalf("expected one saved result, got %d", len(results.saved))
	}

	// q1: phase1 = 2/4 = 50, phase2 = 100. q2: phase1 = 100, phase2 = 40.
	if len(r.QuestionDetails) != 2 {
		t.Fatalf("details: %+v", r.QuestionDetails)
	}
	q1, q2 := r.QuestionDetails[0], r.QuestionDetails[1]
	if q1.Phase1 != 50 || q1.Phase2 != 100 {
		t.Fatalf("q1 scores: %+v", q1)
	}
	if q2.Phase1 != 100 || q2.Phase2 != 40 {
		t.Fatalf("q2 scores: %+v", q2)
	}
	// phase1Total = 75, phase2Total = 70, final = (75*70 + 70*30)/100 = 73.5.
	if math.Abs(r.Phase1TotalScore-75) > 1e-9 || math.Abs(r.Phase2TotalScore-70) > 1e-9 {
		t.Fatalf("totals: %+v", r)
	}
	if math.Abs(r.FinalScore-73.5) > 1e-9 {
		t.Fatalf("final = %v, want 73.5", r.FinalScore)
	}

	// The attempt is gone once finished.
	if _, err := m.Get(id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("finished attempt still present: %v", err)
	}
}

func TestFinishTBLSaveFailureKeepsAttempt(t *testing.T) {
	m, exams, results, id := startAttempt(t)
	toTBL(t, m, exams, id)
	solveTBL(t, m, id, "q1", "b")
	solveTBL(t, m, id, "q2", "c")

	results.failNext = errors.New("store down")
	if _, err := m.FinishTBL(context.Background(), id); err == nil {
		t.Fatal("expected the save failure to surface")
	}
	if len(results.saved) != 0 {
		t.Fatalf("nothing should be saved: %+v", results.saved)
	}

	// The attempt survives the failed save and the submission can be
	// retried.
	a, err := m.Get(id)
	if err != nil {
		t.Fatalf("attempt dropped on failed save: %v", err)
	}
	if a.Phase != PhaseTBL {
		t.Fatalf("phase = %s, want %s", a.Phase, PhaseTBL)
	}

	if _, err := m.FinishTBL(context.Background(), id); err != nil {
		t.Fatalf("retry after failed save: %v", err)
	}
	if len(results.saved) != 1 {
		t.Fatalf("expected one saved result, got %d", len(results.saved))
	}
	if _, err := m.Get(id); !errors.Is(err, ErrNotFound) {
		t.Fatal("attempt must be dropped after a successful save")
	}
}
