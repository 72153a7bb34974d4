package result

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"sync"
	"testing"
	"time"

	"github.com/peerexam/peerexam/internal/scoring"
)

// memBlob is an in-memory storage.BlobStore.
type memBlob struct {
	mu    sync.Mutex
	blobs map[string][]byte
}

func newMemBlob() *memBlob { return &memBlob{blobs: map[string][]byte{}} }

func (m *memBlob) Put(key string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = b
	return key, nil
}

func (m *memBlob) Get(key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.blobs[key]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (m *memBlob) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blobs, key)
	return nil
}

func sample(examID, studentID string, final float64) Result {
	return Result{
		ExamID:           examID,
		StudentID:        studentID,
		StudentName:      "Ada",
		Phase1TotalScore: 80,
		Phase2TotalScore: 50,
		FinalScore:       final,
		QuestionDetails: []scoring.QuestionScore{
			{QuestionID: "q1", Phase1: 80, Phase2: 50, MaxPoints: 4},
		},
	}
}

func TestSaveInsertsThenOverwrites(t *testing.T) {
	ctx := context.Background()
	store := NewBlobStore(newMemBlob())

	first, err := store.Save(ctx, sample("e1", "s1", 71))
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == "" || first.SubmittedAt.IsZero() {
		t.Fatalf("insert must assign id and timestamp: %+v", first)
	}

	// Resubmission for the same pair overwrites in place.
	store.now = func() time.Time { return first.SubmittedAt.Add(time.Hour) }
	second, err := store.Save(ctx, sample("e1", "s1", 90))
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Fatalf("resubmission must keep the record id: %s != %s", second.ID, first.ID)
	}
	if !second.SubmittedAt.After(first.SubmittedAt) {
		t.Fatal("resubmission must refresh the timestamp")
	}

	all, err := store.ByExam(ctx, "e1")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one stored record, got %d", len(all))
	}
	if all[0].FinalScore != 90 {
		t.Fatalf("stored record must reflect the latest save, got %v", all[0].FinalScore)
	}
}

func TestQueriesAndExists(t *testing.T) {
	ctx := context.Background()
	store := NewBlobStore(newMemBlob())
	for _, r := range []Result{
		sample("e1", "s1", 71),
		sample("e1", "s2", 55),
		sample("e2", "s1", 40),
	} {
		if _, err := store.Save(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	byStudent, err := store.ByStudent(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(byStudent) != 2 {
		t.Fatalf("student s1 should have 2 results, got %d", len(byStudent))
	}

	byExam, err := store.ByExam(ctx, "e1")
	if err != nil {
		t.Fatal(err)
	}
	if len(byExam) != 2 {
		t.Fatalf("exam e1 should have 2 results, got %d", len(byExam))
	}

	ok, err := store.Exists(ctx, "s2", "e1")
	if err != nil || !ok {
		t.Fatalf("Exists(s2,e1) = %v,%v, want true", ok, err)
	}
	ok, err = store.Exists(ctx, "s2", "e2")
	if err != nil || ok {
		t.Fatalf("Exists(s2,e2) = %v,%v, want false", ok, err)
	}
}
