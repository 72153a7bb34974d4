package http

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/peerexam/peerexam/internal/exam"
	"github.com/peerexam/peerexam/internal/rbac"
	"github.com/peerexam/peerexam/internal/storage"
)

// maxImageBytes caps question illustrations at 800 KB.
const maxImageBytes = 800 * 1024

// MountAssets wires the question-image routes. Uploads are sniffed and
// must be images; anything else is refused with a descriptive message.
func MountAssets(r chi.Router, bs storage.BlobStore, exams *exam.Service) {
	// POST /assets/exams/{examID}/questions/{questionID}
	r.With(rbac.Require("exam:edit")).Post("/exams/{examID}/questions/{questionID}", func(w http.ResponseWriter, r *http.Request) {
		examID := chi.URLParam(r, "examID")
		questionID := chi.URLParam(r, "questionID")

		f, hdr, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "file required", http.StatusBadRequest)
			return
		}
		defer f.Close()
		if hdr.Size > maxImageBytes {
			http.Error(w, "image too large: limit is 800KB", http.StatusRequestEntityTooLarge)
			return
		}

		data, err := io.ReadAll(io.LimitReader(f, maxImageBytes+1))
		if err != nil {
			http.Error(w, "read error: "+err.Error(), http.StatusBadRequest)
			return
		}
		if len(data) > maxImageBytes {
			http.Error(w, "image too large: limit is 800KB", http.StatusRequestEntityTooLarge)
			return
		}
		if ct := http.DetectContentType(data); !strings.HasPrefix(ct, "image/") {
			http.Error(w, "only image files are accepted, got "+ct, http.StatusUnsupportedMediaType)
			return
		}

		key := "questions/" + examID + "/" + questionID
		if _, err := bs.Put(key, bytes.NewReader(data)); err != nil {
			http.Error(w, "store error: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if _, err := exams.SetQuestionImage(r.Context(), examID, questionID, "/assets/"+key); err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"url": "/assets/" + key})
	})

	// GET /assets/questions/...  Only the image namespace is served:
	// the same blob store may hold the collection documents, and those
	// must never be reachable from here.
	r.Get("/*", func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
		if !strings.HasPrefix(key, "questions/") || strings.Contains(key, "..") {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		rc, err := bs.Get(key)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		defer rc.Close()

		head := make([]byte, 512)
		n, _ := io.ReadFull(rc, head)
		w.Header().Set("Content-Type", http.DetectContentType(head[:n]))
		_, _ = w.Write(head[:n])
		_, _ = io.Copy(w, rc)
	})
}
