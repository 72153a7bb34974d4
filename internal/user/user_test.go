package user

import (
	"context"
	"strings"
	"testing"
)

type memStore struct {
	users map[string]User
}

func newMemStore() *memStore { return &memStore{users: map[string]User{}} }

func (m *memStore) Create(_ context.Context, u User) error {
	for _, existing := range m.users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrEmailTaken
		}
	}
	m.users[u.ID] = u
	return nil
}

func (m *memStore) ByEmail(_ context.Context, email string) (User, error) {
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (m *memStore) ByID(_ context.Context, id string) (User, error) {
	u, ok := m.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (m *memStore) List(_ context.Context) ([]User, error) {
	out := []User{}
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return ErrNotFound
	}
	delete(m.users, id)
	return nil
}

func validRegistration() Registration {
	return Registration{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Phone:           "555-0100",
		Role:            RoleStudent,
		Gender:          "female",
		BirthDate:       "1815-12-10",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

func TestRegisterAndAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())

	u, err := svc.Register(ctx, validRegistration())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.ID == "" {
		t.Fatal("registered user must get an id")
	}
	if u.PasswordHash != "" {
		t.Fatal("register must not expose the password hash")
	}

	got, err := svc.Authenticate(ctx, "ada@example.com", "secret1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("authenticated wrong user: %s != %s", got.ID, u.ID)
	}
	if got.PasswordHash != "" {
		t.Fatal("authenticate must not expose the password hash")
	}

	if _, err := svc.Authenticate(ctx, "ada@example.com", "wrong"); err != ErrBadCredentials {
		t.Fatalf("wrong password: got %v, want ErrBadCredentials", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody@example.com", "secret1"); err != ErrBadCredentials {
		t.Fatalf("unknown email: got %v, want ErrBadCredentials", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())

	short := validRegistration()
	short.Password = "abc"
	short.ConfirmPassword = "abc"
	if _, err := svc.Register(ctx, short); err == nil {
		t.Fatal("password under 6 characters must be rejected")
	}

	mismatch := validRegistration()
	mismatch.ConfirmPassword = "secret2"
	if _, err := svc.Register(ctx, mismatch); err == nil {
		t.Fatal("password confirmation mismatch must be rejected")
	}

	noName := validRegistration()
	noName.Name = ""
	if _, err := svc.Register(ctx, noName); err == nil {
		t.Fatal("missing required field must be rejected")
	}

	badRole := validRegistration()
	badRole.Role = "principal"
	if _, err := svc.Register(ctx, badRole); err == nil {
		t.Fatal("unknown role must be rejected")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore())
	if _, err := svc.Register(ctx, validRegistration()); err != nil {
		t.Fatal(err)
	}
	dup := validRegistration()
	dup.Name = "Someone Else"
	if _, err := svc.Register(ctx, dup); err != ErrEmailTaken {
		t.Fatalf("duplicate email: got %v, want ErrEmailTaken", err)
	}
}
