// Package report renders the teacher's per-exam performance report,
// including the spreadsheet export.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/peerexam/peerexam/internal/exam"
	"github.com/peerexam/peerexam/internal/result"
	"github.com/peerexam/peerexam/internal/scoring"
)

// Excel (pt-BR) conventions: semicolon separator, comma as the decimal
// mark, and a UTF-8 BOM so the encoding is picked up on open.
const (
	separator = ";"
	bom       = "\uFEFF"
)

// CSV renders one row per student, sorted by name: name, date, one
// weighted percentage column per question, then phase-1/phase-2/final
// on the 0-10 display scale. Stored values stay 0-100; the rescale
// happens only here.
func CSV(e exam.Exam, results []result.Result) string {
	sorted := make([]result.Result, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].StudentName < sorted[j].StudentName
	})

	w := scoring.Weights{Phase1: e.Phase1Weight, Phase2: e.Phase2Weight}

	header := make([]string, 0, len(e.Questions)+5)
	header = append(header, "Aluno", "Data")
	for i := range e.Questions {
		header = append(header, fmt.Sprintf("Q%d (%%)", i+1))
	}
	header = append(header, "Fase 1 (0-10)", "Fase 2 (0-10)", "Total (0-10)")

	lines := []string{strings.Join(header, separator)}
	for _, r := range sorted {
		row := make([]string, 0, len(header))
		row = append(row, quote(r.StudentName), r.SubmittedAt.Format("02/01/2006"))
		for _, q := range e.Questions {
			row = append(row, questionCell(r, q.ID, w))
		}
		row = append(row,
			tenScale(r.Phase1TotalScore),
			tenScale(r.Phase2TotalScore),
			tenScale(r.FinalScore))
		lines = append(lines, strings.Join(row, separator))
	}
	return bom + strings.Join(lines, "\n")
}

// quote wraps a field in double quotes, doubling any embedded quote.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func questionCell(r result.Result, questionID string, w scoring.Weights) string {
	for _, d := range r.QuestionDetails {
		if d.QuestionID == questionID {
			pct := scoring.QuestionFinal(d, w)
			return fmt.Sprintf("%d%%", int(math.Round(pct)))
		}
	}
	return "0%"
}

// tenScale formats a 0-100 score as a 0-10 value with a comma decimal mark.
func tenScale(score float64) string {
	return strings.Replace(fmt.Sprintf("%.2f", score/10), ".", ",", 1)
}

// Filename slugs the exam title the way the original export does.
func Filename(title string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(title) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String() + "_relatorio.csv"
}
