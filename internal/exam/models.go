// Package exam holds the exam/question model, its validation rules and
// the publication state machine (draft/published plus the phase-2 release
// flag gating the TBL stage).
package exam

import "time"

// Alternative is one answer option. Order is display order only.
type Alternative struct {
	ID   string `json:"id"`
	Text string `json:"text" validate:"required"`
}

// Question carries its alternatives inline. TotalPoints always equals
// the number of alternatives (4 or 5).
type Question struct {
	ID                   string        `json:"id"`
	Title                string        `json:"title" validate:"required"`
	Description          string        `json:"description,omitempty"`
	ImageURL             string        `json:"imageUrl,omitempty"`
	Alternatives         []Alternative `json:"alternatives"`
	TotalPoints          int           `json:"totalPoints"`
	CorrectAlternativeID string        `json:"correctAlternativeId"`
}

// Exam embeds its full question list. Weights are percentages that sum
// to 100; AccessCode is present exactly while published.
type Exam struct {
	ID               string     `json:"id"`
	Title            string     `json:"title" validate:"required"`
	Description      string     `json:"description"`
	CreatedAt        time.Time  `json:"createdAt"`
	Questions        []Question `json:"questions"`
	IsPublished      bool       `json:"isPublished"`
	AccessCode       string     `json:"accessCode,omitempty"`
	IsPhase2Released bool       `json:"isPhase2Released"`
	Phase1Weight     int        `json:"phase1Weight"`
	Phase2Weight     int        `json:"phase2Weight"`
}

// Summary is the student-facing listing view: no questions, no answer
// keys, no access code.
type Summary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CreatedAt     time.Time `json:"createdAt"`
	QuestionCount int       `json:"questionCount"`
	Phase1Weight  int       `json:"phase1Weight"`
	Phase2Weight  int       `json:"phase2Weight"`
}

// Summary strips everything a student must not see before entering the exam.
func (e Exam) Summary() Summary {
	return Summary{
		ID:            e.ID,
		Title:         e.Title,
		Description:   e.Description,
		CreatedAt:     e.CreatedAt,
		QuestionCount: len(e.Questions),
		Phase1Weight:  e.Phase1Weight,
		Phase2Weight:  e.Phase2Weight,
	}
}

// StudentQuestion is a Question with the answer key stripped. What the
// client renders during an attempt.
type StudentQuestion struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description,omitempty"`
	ImageURL     string        `json:"imageUrl,omitempty"`
	Alternatives []Alternative `json:"alternatives"`
	TotalPoints  int           `json:"totalPoints"`
}

// StudentQuestions redacts the whole question list for an attempt in
// progress.
func (e Exam) StudentQuestions() []StudentQuestion {
	out := make([]StudentQuestion, 0, len(e.Questions))
	for _, q := range e.Questions {
		out = append(out, StudentQuestion{
			ID:           q.ID,
			Title:        q.Title,
			Description:  q.Description,
			ImageURL:     q.ImageURL,
			Alternatives: q.Alternatives,
			TotalPoints:  q.TotalPoints,
		})
	}
	return out
}

// Question returns the question with the given id, if present.
func (e Exam) Question(id string) (Question, bool) {
	for _, q := range e.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return Question{}, false
}
