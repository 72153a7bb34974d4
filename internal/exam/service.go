package exam

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service applies the authoring rules on top of a Store: every mutation
// is load, validate, transition, put. One instance is constructed at
// startup and shared; it holds no state of its own.
type Service struct {
	store Store
}

func NewService(store Store) *Service { return &Service{store: store} }

func (s *Service) Create(ctx context.Context, title, description string) (Exam, error) {
	e := Exam{
		ID:           uuid.NewString(),
		Title:        title,
		Description:  description,
		CreatedAt:    time.Now(),
		Questions:    []Question{},
		Phase1Weight: 50,
		Phase2Weight: 50,
	}
	if err := s.store.Put(ctx, e); err != nil {
		return Exam{}, err
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, id string) (Exam, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Exam, error) {
	return s.store.List(ctx)
}

// ListPublished returns student-safe summaries of published exams.
func (s *Service) ListPublished(ctx context.Context) ([]Summary, error) {
	all, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []Summary{}
	for _, e := range all {
		if e.IsPublished {
			out = append(out, e.Summary())
		}
	}
	return out, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// UpdateMetadata changes title, description and phase weights together.
// A weight pair not summing to 100 fails validation and leaves the
// stored exam untouched.
func (s *Service) UpdateMetadata(ctx context.Context, id, title, description string, phase1Weight, phase2Weight int) (Exam, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	if err := ValidateWeights(phase1Weight, phase2Weight); err != nil {
		return Exam{}, err
	}
	if title != "" {
		e.Title = title
	}
	e.Description = description
	e.Phase1Weight = phase1Weight
	e.Phase2Weight = phase2Weight
	if err := s.store.Put(ctx, e); err != nil {
		return Exam{}, err
	}
	return e, nil
}

func (s *Service) AddQuestion(ctx context.Context, examID string, q Question) (Exam, error) {
	e, err := s.store.Get(ctx, examID)
	if err != nil {
		return Exam{}, err
	}
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if err := ValidateQuestion(q); err != nil {
		return Exam{}, err
	}
	e.Questions = append(e.Questions, q)
	if err := s.store.Put(ctx, e); err != nil {
		return Exam{}, err
	}
	return e, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, examID, questionID string) (Exam, error) {
	e, err := s.store.Get(ctx, examID)
	if err != nil {
		return Exam{}, err
	}
	kept := e.Questions[:0]
	found := false
	for _, q := range e.Questions {
		if q.ID == questionID {
			found = true
			continue
		}
		kept = append(kept, q)
	}
	if !found {
		return Exam{}, ErrQuestionNotFound
	}
	e.Questions = kept
	if err := s.store.Put(ctx, e); err != nil {
		return Exam{}, err
	}
	return e, nil
}

// SetQuestionImage records the image reference for a question: either a
// direct URL or the blob key of an uploaded file.
func (s *Service) SetQuestionImage(ctx context.Context, examID, questionID, imageURL string) (Exam, error) {
	e, err := s.store.Get(ctx, examID)
	if err != nil {
		return Exam{}, err
	}
	found := false
	for i := range e.Questions {
		if e.Questions[i].ID == questionID {
			e.Questions[i].ImageURL = imageURL
			found = true
			break
		}
	}
	if !found {
		return Exam{}, ErrQuestionNotFound
	}
	if err := s.store.Put(ctx, e); err != nil {
		return Exam{}, err
	}
	return e, nil
}

func (s *Service) TogglePublication(ctx context.Context, id string) (Exam, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	e.TogglePublication()
	if err := s.store.Put(ctx, e); err != nil {
		return Exam{}, err
	}
	return e, nil
}

func (s *Service) TogglePhase2(ctx context.Context, id string) (Exam, error) {
	e, err := s.store.Get(ctx, id)
	if err != nil {
		return Exam{}, err
	}
	if err := e.TogglePhase2(); err != nil {
		return Exam{}, err
	}
	if err := s.store.Put(ctx, e); err != nil {
		return Exam{}, err
	}
	return e, nil
}
