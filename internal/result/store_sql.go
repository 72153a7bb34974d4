package result

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/peerexam/peerexam/internal/scoring"
)

// SQLStore keys results by the (exam_id, student_id) unique pair; the
// upsert keeps the original row id.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Save(ctx context.Context, r Result) (Result, error) {
	dj, err := json.Marshal(r.QuestionDetails)
	if err != nil {
		return Result{}, err
	}
	var existingID string
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM results WHERE exam_id=$1 AND student_id=$2`,
		r.ExamID, r.StudentID).Scan(&existingID)
	switch {
	case err == nil:
		r.ID = existingID
		r.SubmittedAt = time.Now()
		_, err = s.db.ExecContext(ctx, `UPDATE results SET
				student_name=$1, phase1_total=$2, phase2_total=$3, final_score=$4,
				question_details_json=$5, submitted_at=$6
			WHERE id=$7`,
			r.StudentName, r.Phase1TotalScore, r.Phase2TotalScore, r.FinalScore,
			string(dj), r.SubmittedAt.Unix(), r.ID)
		return r, err
	case errors.Is(err, sql.ErrNoRows):
		r.ID = uuid.NewString()
		r.SubmittedAt = time.Now()
		_, err = s.db.ExecContext(ctx, `INSERT INTO results
				(id, exam_id, student_id, student_name, phase1_total, phase2_total, final_score, question_details_json, submitted_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			r.ID, r.ExamID, r.StudentID, r.StudentName,
			r.Phase1TotalScore, r.Phase2TotalScore, r.FinalScore, string(dj), r.SubmittedAt.Unix())
		return r, err
	default:
		return Result{}, err
	}
}

func (s *SQLStore) ByStudent(ctx context.Context, studentID string) ([]Result, error) {
	return s.query(ctx, `SELECT id,exam_id,student_id,student_name,phase1_total,phase2_total,final_score,question_details_json,submitted_at
		FROM results WHERE student_id=$1`, studentID)
}

func (s *SQLStore) ByExam(ctx context.Context, examID string) ([]Result, error) {
	return s.query(ctx, `SELECT id,exam_id,student_id,student_name,phase1_total,phase2_total,final_score,question_details_json,submitted_at
		FROM results WHERE exam_id=$1`, examID)
}

func (s *SQLStore) Exists(ctx context.Context, studentID, examID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM results WHERE student_id=$1 AND exam_id=$2`,
		studentID, examID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *SQLStore) query(ctx context.Context, q string, arg interface{}) ([]Result, error) {
	rows, err := s.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Result{}
	for rows.Next() {
		var r Result
		var dj string
		var submitted int64
		if err := rows.Scan(&r.ID, &r.ExamID, &r.StudentID, &r.StudentName,
			&r.Phase1TotalScore, &r.Phase2TotalScore, &r.FinalScore, &dj, &submitted); err != nil {
			return nil, err
		}
		r.SubmittedAt = time.Unix(submitted, 0)
		r.QuestionDetails = []scoring.QuestionScore{}
		if err := json.Unmarshal([]byte(dj), &r.QuestionDetails); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
