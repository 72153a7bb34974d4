package result

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/peerexam/peerexam/internal/storage"
)

const blobKey = "results.json"

// BlobStore rewrites the whole result collection on every save; the
// mutex serializes writers within the process.
type BlobStore struct {
	mu  sync.Mutex
	bs  storage.BlobStore
	now func() time.Time
}

func NewBlobStore(bs storage.BlobStore) *BlobStore {
	return &BlobStore{bs: bs, now: time.Now}
}

func (s *BlobStore) load() ([]Result, error) {
	results := []Result{}
	if err := storage.LoadJSON(s.bs, blobKey, &results); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *BlobStore) Save(_ context.Context, r Result) (Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	results, err := s.load()
	if err != nil {
		return Result{}, err
	}
	for i := range results {
		if results[i].ExamID == r.ExamID && results[i].StudentID == r.StudentID {
			r.ID = results[i].ID
			r.SubmittedAt = s.now()
			results[i] = r
			return r, storage.SaveJSON(s.bs, blobKey, results)
		}
	}
	r.ID = uuid.NewString()
	r.SubmittedAt = s.now()
	results = append(results, r)
	return r, storage.SaveJSON(s.bs, blobKey, results)
}

func (s *BlobStore) ByStudent(_ context.Context, studentID string) ([]Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	results, err := s.load()
	if err != nil {
		return nil, err
	}
	out := []Result{}
	for _, r := range results {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *BlobStore) ByExam(_ context.Context, examID string) ([]Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	results, err := s.load()
	if err != nil {
		return nil, err
	}
	out := []Result{}
	for _, r := range results {
		if r.ExamID == examID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *BlobStore) Exists(_ context.Context, studentID, examID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	results, err := s.load()
	if err != nil {
		return false, err
	}
	for _, r := range results {
		if r.StudentID == studentID && r.ExamID == examID {
			return true, nil
		}
	}
	return false, nil
}
