package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/peerexam/peerexam/internal/attempt"
	"github.com/peerexam/peerexam/internal/auth"
	"github.com/peerexam/peerexam/internal/exam"
)

// attemptView is what the client sees of an attempt: phase plus the
// redacted question list. Never the answer keys.
type attemptView struct {
	ID        string                 `json:"id"`
	ExamID    string                 `json:"examId"`
	Phase     attempt.Phase          `json:"phase"`
	Questions []exam.StudentQuestion `json:"questions,omitempty"`
}

func viewOf(a *attempt.Attempt, qs []exam.StudentQuestion) attemptView {
	return attemptView{ID: a.ID, ExamID: a.ExamID, Phase: a.Phase, Questions: qs}
}

func ListPublishedExamsHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sums, err := svc.ListPublished(r.Context())
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sums)
	}
}

// StartAttemptHandler opens an attempt. The student identity comes from
// the token; the access code comes from the body and is checked
// case-insensitively against the published exam.
func StartAttemptHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ExamID     string `json:"examId"`
			AccessCode string `json:"accessCode"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		sub := auth.SubjectFromContext(r.Context())
		name := auth.NameFromContext(r.Context())
		a, err := mgr.Start(r.Context(), req.ExamID, sub, name, req.AccessCode)
		if err != nil {
			apiError(w, err)
			return
		}
		qs, err := mgr.Questions(a.ID)
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, viewOf(a, qs))
	}
}

// GetAttemptHandler reports phase and questions, re-checking that the
// exam still exists so a deleted exam surfaces as 410.
func GetAttemptHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "attemptID")
		if err := mgr.ExamAlive(r.Context(), id); err != nil {
			apiError(w, err)
			return
		}
		a, err := mgr.Get(id)
		if err != nil {
			apiError(w, err)
			return
		}
		qs, err := mgr.Questions(id)
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(a, qs))
	}
}

func WeightsHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := mgr.Weights(chi.URLParam(r, "attemptID"))
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

type pointRequest struct {
	AlternativeID string `json:"alternativeId"`
}

func IncrementHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pointRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		v, err := mgr.Increment(chi.URLParam(r, "attemptID"),
			chi.URLParam(r, "questionID"), req.AlternativeID)
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func DecrementHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pointRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		v, err := mgr.Decrement(chi.URLParam(r, "attemptID"),
			chi.URLParam(r, "questionID"), req.AlternativeID)
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func ConfirmQuestionHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := mgr.ConfirmQuestion(chi.URLParam(r, "attemptID"),
			chi.URLParam(r, "questionID"))
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func FinishWeightsHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := mgr.FinishWeights(chi.URLParam(r, "attemptID"))
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(a, nil))
	}
}

// EnterTBLHandler is the student's "check again" button: it re-reads the
// exam and advances only if phase 2 has been released.
func EnterTBLHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := mgr.EnterTBL(r.Context(), chi.URLParam(r, "attemptID"))
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, viewOf(a, nil))
	}
}

func TBLHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := mgr.TBL(chi.URLParam(r, "attemptID"))
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, views)
	}
}

func SelectHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req pointRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		v, err := mgr.Select(chi.URLParam(r, "attemptID"),
			chi.URLParam(r, "questionID"), req.AlternativeID)
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

func ConfirmSelectionHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fb, err := mgr.ConfirmSelection(chi.URLParam(r, "attemptID"),
			chi.URLParam(r, "questionID"))
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, fb)
	}
}

// FinishTBLHandler closes the attempt and returns the stored result.
func FinishTBLHandler(mgr *attempt.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := mgr.FinishTBL(r.Context(), chi.URLParam(r, "attemptID"))
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
