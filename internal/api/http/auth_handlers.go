package http

import (
	"encoding/json"
	"net/http"

	"github.com/peerexam/peerexam/internal/auth"
	"github.com/peerexam/peerexam/internal/user"
)

type sessionResponse struct {
	Token string    `json:"token"`
	User  user.User `json:"user"`
}

// RegisterHandler creates an account and logs it in straight away.
func RegisterHandler(users *user.Service, authSvc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var reg user.Registration
		if err := json.NewDecoder(r.Body).Decode(&reg); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		u, err := users.Register(r.Context(), reg)
		if err != nil {
			apiError(w, err)
			return
		}
		token, err := authSvc.Issue(u.ID, u.Name, u.Role)
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, sessionResponse{Token: token, User: u})
	}
}

func LoginHandler(users *user.Service, authSvc *auth.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad json", 400)
			return
		}
		u, err := users.Authenticate(r.Context(), req.Email, req.Password)
		if err != nil {
			apiError(w, err)
			return
		}
		token, err := authSvc.Issue(u.ID, u.Name, u.Role)
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, sessionResponse{Token: token, User: u})
	}
}
