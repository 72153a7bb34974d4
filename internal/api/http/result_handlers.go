package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/peerexam/peerexam/internal/auth"
	"github.com/peerexam/peerexam/internal/exam"
	"github.com/peerexam/peerexam/internal/report"
	"github.com/peerexam/peerexam/internal/result"
)

// MyResultsHandler lists the calling student's stored grades.
func MyResultsHandler(results result.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs, err := results.ByStudent(r.Context(), auth.SubjectFromContext(r.Context()))
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rs)
	}
}

// TakenHandler reports whether the calling student already has a stored
// result for the exam, so the client can warn that a new submission
// overwrites the old one.
func TakenHandler(results result.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taken, err := results.Exists(r.Context(),
			auth.SubjectFromContext(r.Context()), chi.URLParam(r, "examID"))
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"taken": taken})
	}
}

// ExamResultsHandler lists every stored result for one exam. Teacher-side.
func ExamResultsHandler(results result.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rs, err := results.ByExam(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			apiError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rs)
	}
}

// ExportReportHandler streams the exam's grade sheet as a CSV download
// in the spreadsheet dialect (semicolons, comma decimals, BOM).
func ExportReportHandler(exams *exam.Service, results result.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e, err := exams.Get(r.Context(), chi.URLParam(r, "examID"))
		if err != nil {
			apiError(w, err)
			return
		}
		rs, err := results.ByExam(r.Context(), e.ID)
		if err != nil {
			apiError(w, err)
			return
		}
		csv := report.CSV(e, rs)
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+report.Filename(e.Title)+`"`)
		_, _ = w.Write([]byte(csv))
	}
}
