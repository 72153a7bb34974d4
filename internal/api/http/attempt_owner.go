package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/peerexam/peerexam/internal/attempt"
	"github.com/peerexam/peerexam/internal/auth"
)

// RequireAttemptOwner refuses requests whose token subject does not own
// the attempt in the URL. Attempt IDs are unguessable but that is not a
// substitute for the check.
func RequireAttemptOwner(mgr *attempt.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a, err := mgr.Get(chi.URLParam(r, "attemptID"))
			if err != nil {
				apiError(w, err)
				return
			}
			if a.StudentID != auth.SubjectFromContext(r.Context()) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
