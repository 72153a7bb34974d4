// Package result stores exam outcomes: exactly one record per
// (exam, student) pair, overwritten in place on resubmission.
package result

import (
	"context"
	"errors"
	"time"

	"github.com/peerexam/peerexam/internal/scoring"
)

var ErrNotFound = errors.New("result not found")

// Result is one student's outcome for one exam. Scores are percentages
// (0-100); presentation layers divide by 10 for the 0-10 scale.
type Result struct {
	ID               string                  `json:"id"`
	ExamID           string                  `json:"examId"`
	StudentID        string                  `json:"studentId"`
	StudentName      string                  `json:"studentName"`
	Phase1TotalScore float64                 `json:"phase1TotalScore"`
	Phase2TotalScore float64                 `json:"phase2TotalScore"`
	FinalScore       float64                 `json:"finalScore"`
	QuestionDetails  []scoring.QuestionScore `json:"questionDetails"`
	SubmittedAt      time.Time               `json:"submittedAt"`
}

// Store keeps at most one record per (examID, studentID). Save inserts
// with a fresh id and timestamp, or overwrites the existing record's
// score fields and refreshes its timestamp. No history is retained.
type Store interface {
	Save(ctx context.Context, r Result) (Result, error)
	ByStudent(ctx context.Context, studentID string) ([]Result, error)
	ByExam(ctx context.Context, examID string) ([]Result, error)
	Exists(ctx context.Context, studentID, examID string) (bool, error)
}
