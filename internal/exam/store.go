package exam

import "context"

// Store persists whole exam records, questions embedded.
type Store interface {
	Put(ctx context.Context, e Exam) error
	Get(ctx context.Context, id string) (Exam, error)
	List(ctx context.Context) ([]Exam, error)
	Delete(ctx context.Context, id string) error
}

// normalize fills in the weight fields of records written before weights
// existed. Applied once on read so no consumer ever sees a partial exam.
func normalize(e *Exam) {
	if e.Phase1Weight == 0 && e.Phase2Weight == 0 {
		e.Phase1Weight = 50
		e.Phase2Weight = 50
	}
}
