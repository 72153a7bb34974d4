package exam

import (
	"context"
	"sync"

	"github.com/peerexam/peerexam/internal/storage"
)

const blobKey = "exams.json"

// BlobStore keeps the whole exam collection as one JSON document,
// rewritten on every mutation. The mutex serializes writers within this
// process; writers in other processes race last-write-wins.
type BlobStore struct {
	mu sync.Mutex
	bs storage.BlobStore
}

func NewBlobStore(bs storage.BlobStore) *BlobStore { return &BlobStore{bs: bs} }

func (s *BlobStore) load() ([]Exam, error) {
	exams := []Exam{}
	if err := storage.LoadJSON(s.bs, blobKey, &exams); err != nil {
		return nil, err
	}
	for i := range exams {
		normalize(&exams[i])
	}
	return exams, nil
}

func (s *BlobStore) Put(_ context.Context, e Exam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exams, err := s.load()
	if err != nil {
		return err
	}
	replaced := false
	for i := range exams {
		if exams[i].ID == e.ID {
			exams[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		exams = append(exams, e)
	}
	return storage.SaveJSON(s.bs, blobKey, exams)
}

func (s *BlobStore) Get(_ context.Context, id string) (Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exams, err := s.load()
	if err != nil {
		return Exam{}, err
	}
	for _, e := range exams {
		if e.ID == id {
			return e, nil
		}
	}
	return Exam{}, ErrNotFound
}

func (s *BlobStore) List(_ context.Context) ([]Exam, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *BlobStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	exams, err := s.load()
	if err != nil {
		return err
	}
	kept := exams[:0]
	found := false
	for _, e := range exams {
		if e.ID == id {
			found = true
			continue
		}
		kept = append(kept, e)
	}
	if !found {
		return ErrNotFound
	}
	return storage.SaveJSON(s.bs, blobKey, kept)
}
