package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/peerexam/peerexam/internal/exam"
)

// Teacher-side authoring surface. The full Exam (answer keys, access
// code) is only ever serialized here, behind exam:* permissions.

func CreateExamHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		if req.Title == "" {
			http.Error(w, "title required", 400)
			return
		}
		e, err := svc.Create(r.Context(), req.Title, req.Description)
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

func ListExamsHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		es, err := svc.List(r.Context())
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, es)
	}
}

func GetExamHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.Get(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// UpdateExamHandler edits title, description and the phase weights. The
// weights must sum to 100 or the whole update is refused.
func UpdateExamHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			Phase1Weight int    `json:"phase1Weight"`
			Phase2Weight int    `json:"phase2Weight"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		e, err := svc.UpdateMetadata(r.Context(), chi.URLParam(r, "examID"),
			req.Title, req.Description, req.Phase1Weight, req.Phase2Weight)
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

func DeleteExamHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "examID")); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func AddQuestionHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q exam.Question
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		e, err := svc.AddQuestion(r.Context(), chi.URLParam(r, "examID"), q)
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, e)
	}
}

func DeleteQuestionHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.DeleteQuestion(r.Context(),
			chi.URLParam(r, "examID"), chi.URLParam(r, "questionID"))
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

// TogglePublicationHandler flips draft/published. Publishing mints a
// fresh access code and re-locks phase 2.
func TogglePublicationHandler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.TogglePublication(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}

func TogglePhase2Handler(svc *exam.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := svc.TogglePhase2(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, e)
	}
}
