package exam

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SQLStore persists exams with the question list embedded as JSON, the
// same layout the blob driver and the original data store use.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Put(ctx context.Context, e Exam) error {
	qj, err := json.Marshal(e.Questions)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO exams
		(id,title,description,created_at,questions_json,is_published,access_code,is_phase2_released,phase1_weight,phase2_weight)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			title=EXCLUDED.title,
			description=EXCLUDED.description,
			questions_json=EXCLUDED.questions_json,
			is_published=EXCLUDED.is_published,
			access_code=EXCLUDED.access_code,
			is_phase2_released=EXCLUDED.is_phase2_released,
			phase1_weight=EXCLUDED.phase1_weight,
			phase2_weight=EXCLUDED.phase2_weight`,
		e.ID, e.Title, e.Description, e.CreatedAt.Unix(), string(qj),
		e.IsPublished, e.AccessCode, e.IsPhase2Released, e.Phase1Weight, e.Phase2Weight)
	return err
}

func (s *SQLStore) Get(ctx context.Context, id string) (Exam, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,description,created_at,questions_json,is_published,access_code,is_phase2_released,phase1_weight,phase2_weight
		FROM exams WHERE id=$1`, id)
	e, err := scanExam(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Exam{}, ErrNotFound
	}
	return e, err
}

func (s *SQLStore) List(ctx context.Context) ([]Exam, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,description,created_at,questions_json,is_published,access_code,is_phase2_released,phase1_weight,phase2_weight
		FROM exams ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Exam{}
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM exams WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExam(r rowScanner) (Exam, error) {
	var e Exam
	var created int64
	var qjson string
	if err := r.Scan(&e.ID, &e.Title, &e.Description, &created, &qjson,
		&e.IsPublished, &e.AccessCode, &e.IsPhase2Released, &e.Phase1Weight, &e.Phase2Weight); err != nil {
		return Exam{}, err
	}
	e.CreatedAt = time.Unix(created, 0)
	if err := json.Unmarshal([]byte(qjson), &e.Questions); err != nil {
		return Exam{}, err
	}
	normalize(&e)
	return e, nil
}
