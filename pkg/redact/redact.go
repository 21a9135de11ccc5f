// Package redact scrubs personal data from transcript text before it is
// persisted. Trainees rehearse calls where simulated callers volunteer
// contact and payment details; those never belong in artifacts on disk.
package redact

import (
	"regexp"
	"strings"
	"sync/atomic"
)

var enabled atomic.Bool

var (
	emailRe = regexp.MustCompile(`(?i)[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`)
	phoneRe = regexp.MustCompile(`\b\+?\d[\d\s\-]{7,}\d\b`)
	cardRe  = regexp.MustCompile(`\b(?:\d[ \-]?){13,19}\b`)
)

// SetEnabled toggles redaction of persisted transcript text.
func SetEnabled(v bool) {
	enabled.Store(v)
}

// Enabled reports whether redaction is active.
func Enabled() bool {
	return enabled.Load()
}

// Text masks emails, card numbers, and phone numbers when enabled.
// Card numbers are matched before phone numbers; the patterns overlap and
// a 16-digit sequence reads as a card first.
func Text(in string) string {
	if !enabled.Load() || strings.TrimSpace(in) == "" {
		return in
	}
	out := emailRe.ReplaceAllString(in, "[email]")
	out = cardRe.ReplaceAllString(out, "[card]")
	out = phoneRe.ReplaceAllString(out, "[phone]")
	return out
}
