package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/peerexam/peerexam/internal/auth"
	"github.com/peerexam/peerexam/internal/user"
)

func ListUsersHandler(users *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		us, err := users.List(r.Context())
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, us)
	}
}

func DeleteUserHandler(users *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := users.Delete(r.Context(), chi.URLParam(r, "userID")); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteSelfHandler removes the calling account. The stored exam results
// keep the student's name, so grade sheets survive the deletion.
func DeleteSelfHandler(users *user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := users.Delete(r.Context(), auth.SubjectFromContext(r.Context())); err != nil {
			apiError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
