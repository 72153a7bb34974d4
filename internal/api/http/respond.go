// Package http wires the exam, attempt, result and user services into
// chi handlers. Handlers stay thin: decode, call the service, map the
// error, encode.
package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/peerexam/peerexam/internal/attempt"
	"github.com/peerexam/peerexam/internal/exam"
	"github.com/peerexam/peerexam/internal/result"
	"github.com/peerexam/peerexam/internal/user"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// apiError maps domain errors onto HTTP statuses. Everything a handler
// surfaces goes through here so the client always gets {"error": ...}.
func apiError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, exam.ErrNotFound),
		errors.Is(err, exam.ErrQuestionNotFound),
		errors.Is(err, attempt.ErrNotFound),
		errors.Is(err, user.ErrNotFound),
		errors.Is(err, result.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, user.ErrBadCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, exam.ErrBadAccessCode),
		errors.Is(err, exam.ErrNotPublished),
		errors.Is(err, attempt.ErrPhase2Locked):
		status = http.StatusForbidden
	case errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, attempt.ErrWrongPhase):
		status = http.StatusConflict
	case errors.Is(err, attempt.ErrExamGone):
		status = http.StatusGone
	}
	var verr validator.ValidationErrors
	if errors.As(err, &verr) {
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
