package user

import (
	"context"
	"strings"
	"sync"

	"github.com/peerexam/peerexam/internal/storage"
)

const blobKey = "users.json"

// BlobStore keeps the whole account list as one JSON document.
type BlobStore struct {
	mu sync.Mutex
	bs storage.BlobStore
}

func NewBlobStore(bs storage.BlobStore) *BlobStore { return &BlobStore{bs: bs} }

func (s *BlobStore) load() ([]User, error) {
	users := []User{}
	if err := storage.LoadJSON(s.bs, blobKey, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (s *BlobStore) Create(_ context.Context, u User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return err
	}
	for _, existing := range users {
		if strings.EqualFold(existing.Email, u.Email) {
			return ErrEmailTaken
		}
	}
	users = append(users, u)
	return storage.SaveJSON(s.bs, blobKey, users)
}

func (s *BlobStore) ByEmail(_ context.Context, email string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *BlobStore) ByID(_ context.Context, id string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (s *BlobStore) List(_ context.Context) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *BlobStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	users, err := s.load()
	if err != nil {
		return err
	}
	kept := users[:0]
	found := false
	for _, u := range users {
		if u.ID == id {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return ErrNotFound
	}
	return storage.SaveJSON(s.bs, blobKey, kept)
}
