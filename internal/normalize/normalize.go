// Package normalize maps free-text verdict strings from arbitrary upstream
// vocabularies onto the closed claim and citation status enums. Both
// functions are total: every input, including the empty string, maps to
// exactly one enum value. Unknown verdicts default to the imperfect bucket
// (questionable/broken) rather than the absent one.
package normalize

import (
	"strings"

	"github.com/ppiankov/veracity/internal/model"
)

// Keyword sets checked by substring match, in fixed priority order.
var (
	claimPositive = []string{"true", "verified", "accurate", "correct"}
	claimNegative = []string{"false", "incorrect", "wrong", "fake"}

	citationPositive   = []string{"valid", "exists", "found", "working"}
	citationFabricated = []string{"fake", "fabricated", "nonexistent", "false"}
)

// ClaimStatus maps a raw upstream verdict to a claim status.
// Positive keywords win over negative ones; anything else is questionable.
func ClaimStatus(raw string) model.ClaimStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return model.ClaimQuestionable
	}
	if containsAny(s, claimPositive) {
		return model.ClaimVerified
	}
	if containsAny(s, claimNegative) {
		return model.ClaimFalse
	}
	return model.ClaimQuestionable
}

// CitationStatus maps a raw upstream verdict to a citation status.
// Positive keywords win over fabrication ones; anything else is broken.
func CitationStatus(raw string) model.CitationStatus {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return model.CitationBroken
	}
	if containsAny(s, citationPositive) {
		return model.CitationValid
	}
	if containsAny(s, citationFabricated) {
		return model.CitationFake
	}
	return model.CitationBroken
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
