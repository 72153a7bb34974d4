// Package user manages accounts. Unlike the original data store, which
// kept passwords in clear text, passwords here are bcrypt-hashed and the
// hash never leaves the package.
package user

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrEmailTaken     = errors.New("email already registered")
	ErrBadCredentials = errors.New("invalid email or password")
)

const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User is the stored record. PasswordHash is omitted from JSON responses
// by handlers returning Public().
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
	Gender       string `json:"gender"`
	BirthDate    string `json:"birthDate"`
	PasswordHash string `json:"passwordHash,omitempty"`
}

// Public strips the credential material.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

// Registration is the sign-up input. Password rules match the original:
// at least 6 characters, confirmation must match.
type Registration struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required"`
	Role            string `json:"role" validate:"required,oneof=student teacher admin"`
	Gender          string `json:"gender" validate:"required"`
	BirthDate       string `json:"birthDate" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// Store persists accounts. Create fails with ErrEmailTaken on duplicates.
type Store interface {
	Create(ctx context.Context, u User) error
	ByEmail(ctx context.Context, email string) (User, error)
	ByID(ctx context.Context, id string) (User, error)
	List(ctx context.Context) ([]User, error)
	Delete(ctx context.Context, id string) error
}

// Service validates registrations and checks credentials.
type Service struct {
	store    Store
	validate *validator.Validate
}

func NewService(store Store) *Service {
	return &Service{store: store, validate: validator.New()}
}

// Register validates the input, hashes the password and stores the
// account. Returns the password-less record.
func (s *Service) Register(ctx context.Context, reg Registration) (User, error) {
	if err := s.validate.Struct(reg); err != nil {
		return User{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), 12)
	if err != nil {
		return User{}, err
	}
	u := User{
		ID:           uuid.NewString(),
		Name:         reg.Name,
		Email:        reg.Email,
		Phone:        reg.Phone,
		Role:         reg.Role,
		Gender:       reg.Gender,
		BirthDate:    reg.BirthDate,
		PasswordHash: string(hash),
	}
	if err := s.store.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u.Public(), nil
}

// Authenticate matches email+password against the stored hash.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, err := s.store.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrBadCredentials
		}
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, ErrBadCredentials
	}
	return u.Public(), nil
}

func (s *Service) Get(ctx context.Context, id string) (User, error) {
	u, err := s.store.ByID(ctx, id)
	if err != nil {
		return User{}, err
	}
	return u.Public(), nil
}

// List returns every account, passwords stripped.
func (s *Service) List(ctx context.Context) ([]User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Public())
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
