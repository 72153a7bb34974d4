package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore { return &SQLStore{db: db} }

func (s *SQLStore) Create(ctx context.Context, u User) error {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(email)=$1`,
		strings.ToLower(u.Email)).Scan(&one)
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO users
			(id, name, email, phone, role, gender, birth_date, password_hash)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		u.ID, u.Name, u.Email, u.Phone, u.Role, u.Gender, u.BirthDate, u.PasswordHash)
	return err
}

func (s *SQLStore) ByEmail(ctx context.Context, email string) (User, error) {
	return s.one(ctx, `SELECT id,name,email,phone,role,gender,birth_date,password_hash
		FROM users WHERE lower(email)=$1`, strings.ToLower(email))
}

func (s *SQLStore) ByID(ctx context.Context, id string) (User, error) {
	return s.one(ctx, `SELECT id,name,email,phone,role,gender,birth_date,password_hash
		FROM users WHERE id=$1`, id)
}

func (s *SQLStore) one(ctx context.Context, q string, arg interface{}) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, q, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Gender, &u.BirthDate, &u.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *SQLStore) List(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id,name,email,phone,role,gender,birth_date,password_hash
		FROM users ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.Role, &u.Gender, &u.BirthDate, &u.PasswordHash); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
