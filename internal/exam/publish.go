package exam

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// codeAlphabet excludes visually ambiguous symbols (0, 1, I, O), leaving
// exactly 32 characters.
const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const codeLength = 4

// NewAccessCode draws a fresh 4-character code from the fixed alphabet.
// A new code is generated on every publish transition.
func NewAccessCode() string {
	var b strings.Builder
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform's entropy source is
			// broken; nothing sensible to return.
			panic(err)
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String()
}

// TogglePublication flips DRAFT <-> PUBLISHED in place. Publishing always
// mints a new access code and locks phase 2 again; unpublishing clears
// the code.
func (e *Exam) TogglePublication() {
	if e.IsPublished {
		e.IsPublished = false
		e.AccessCode = ""
		return
	}
	e.IsPublished = true
	e.AccessCode = NewAccessCode()
	e.IsPhase2Released = false
}

// TogglePhase2 flips the phase-2 release flag. Only meaningful while
// published; callers guard that.
func (e *Exam) TogglePhase2() error {
	if !e.IsPublished {
		return ErrNotPublished
	}
	e.IsPhase2Released = !e.IsPhase2Released
	return nil
}

// CheckAccessCode compares a presented code against the exam's current
// one, case-insensitively. Unpublished exams (no code) never match.
func (e Exam) CheckAccessCode(code string) bool {
	return e.AccessCode != "" && strings.EqualFold(code, e.AccessCode)
}
