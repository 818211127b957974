// Package merge reconciles the two independently-fetched, independently
// failable upstream analyses into one canonical VerificationResult. The
// factual backend is the sole source of trust score, claims and citations;
// the AI insight only contributes risk commentary and source suggestions.
// When the backend fails the merge degrades to a zero-trust fallback that
// never fabricates factual verdicts.
package merge

import (
	"strings"

	"github.com/ppiankov/veracity/internal/backend"
	"github.com/ppiankov/veracity/internal/insight"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/normalize"
)

// defaultTrustScore is used when the backend omits the score entirely.
const defaultTrustScore = 50

// suggestionPrefixLen is the claim-text prefix length compared when
// matching AI source suggestions to backend claims.
const suggestionPrefixLen = 30

// Candidate field names per logical field, first present-and-non-empty
// wins. The backend schema is not under our control.
var (
	claimTextKeys   = []string{"text", "claim"}
	claimStatusKeys = []string{"status", "verdict", "verification_status"}
	claimNoteKeys   = []string{"note", "explanation", "reason"}

	citationSourceKeys = []string{"source", "name"}
	citationURLKeys    = []string{"url", "link"}
	citationStatusKeys = []string{"status", "verdict", "verification_status"}
	citationReasonKeys = []string{"reason", "note", "explanation"}

	backendSuggestionKeys = []string{"suggestedSources", "suggested_sources", "sources"}
)

// Merge combines the backend result and the AI insight. Either input may
// be absent; backendErr carries the failure reason when backendRes is nil.
// The output is always well formed.
func Merge(backendRes *backend.Result, backendErr error, ai *insight.Insight) model.VerificationResult {
	if backendRes == nil {
		return fallback(backendErr, ai)
	}

	trustScore := defaultTrustScore
	if backendRes.TrustScore != nil {
		trustScore = *backendRes.TrustScore
	}

	claims := make([]model.Claim, 0, len(backendRes.Claims))
	for _, raw := range backendRes.Claims {
		claims = append(claims, mergeClaim(raw, ai))
	}

	citations := make([]model.Citation, 0, len(backendRes.Citations))
	for _, raw := range backendRes.Citations {
		citations = append(citations, mergeCitation(raw))
	}

	result := model.VerificationResult{
		TrustScore:              trustScore,
		Claims:                  claims,
		Citations:               citations,
		HallucinationRisk:       model.RiskMedium,
		HallucinationRiskReason: "Unable to assess",
		AnalysisSummary:         "",
		Source:                  model.SourceBackendAI,
	}

	if ai != nil {
		if ai.HallucinationRisk != "" {
			result.HallucinationRisk = riskFromString(ai.HallucinationRisk)
		}
		if ai.HallucinationRiskReason != "" {
			result.HallucinationRiskReason = ai.HallucinationRiskReason
		}
		result.AnalysisSummary = ai.AnalysisSummary
	}

	return result
}

// fallback is the ai-only branch taken whenever the backend failed. The
// AI call's own success or failure does not change this branch: only the
// backend failure triggers it.
func fallback(backendErr error, ai *insight.Insight) model.VerificationResult {
	result := model.VerificationResult{
		TrustScore:        0,
		Claims:            []model.Claim{},
		Citations:         []model.Citation{},
		HallucinationRisk: model.RiskUnknown,
		Source:            model.SourceAIFallback,
	}

	if backendErr != nil {
		result.Error = backendErr.Error()
	} else {
		result.Error = "factual verification backend unavailable"
	}

	if ai != nil {
		if ai.HallucinationRisk != "" {
			result.HallucinationRisk = riskFromString(ai.HallucinationRisk)
		}
		result.HallucinationRiskReason = ai.HallucinationRiskReason
		result.AnalysisSummary = ai.AnalysisSummary
	}

	return result
}

func mergeClaim(raw map[string]interface{}, ai *insight.Insight) model.Claim {
	claim := model.Claim{
		Text:   firstString(raw, claimTextKeys),
		Status: normalize.ClaimStatus(firstString(raw, claimStatusKeys)),
		Note:   firstString(raw, claimNoteKeys),
	}

	// Suggestions apply only to claims that did not verify.
	if claim.Status != model.ClaimVerified {
		claim.SuggestedSources = suggestSources(claim.Text, raw, ai)
	}

	return claim
}

func mergeCitation(raw map[string]interface{}) model.Citation {
	url := firstString(raw, citationURLKeys)
	if url == "" {
		url = model.UnknownURL
	}

	return model.Citation{
		Source: firstString(raw, citationSourceKeys),
		URL:    url,
		Status: normalize.CitationStatus(firstString(raw, citationStatusKeys)),
		Reason: firstString(raw, citationReasonKeys),
	}
}

// suggestSources picks the AI suggestion whose claim text overlaps the
// backend claim, falling back to sources the backend itself provided.
func suggestSources(claimText string, raw map[string]interface{}, ai *insight.Insight) []string {
	if ai != nil {
		for _, suggestion := range ai.SourceSuggestions {
			if claimsOverlap(claimText, suggestion.ClaimText) && len(suggestion.Sources) > 0 {
				return suggestion.Sources
			}
		}
	}

	for _, key := range backendSuggestionKeys {
		if sources := stringList(raw[key]); len(sources) > 0 {
			return sources
		}
	}

	return []string{}
}

// claimsOverlap applies the bidirectional prefix test: the first 30
// characters of either claim text must appear as a substring of the
// other, case-insensitively. The heuristic can mismatch on near-duplicate
// claims; it is preserved as is.
func claimsOverlap(a, b string) bool {
	la := strings.ToLower(strings.TrimSpace(a))
	lb := strings.ToLower(strings.TrimSpace(b))
	if la == "" || lb == "" {
		return false
	}
	return strings.Contains(lb, prefix(la, suggestionPrefixLen)) ||
		strings.Contains(la, prefix(lb, suggestionPrefixLen))
}

func prefix(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// firstString returns the first candidate key holding a non-empty string
func firstString(m map[string]interface{}, keys []string) string {
	for _, key := range keys {
		if val, ok := m[key].(string); ok {
			if trimmed := strings.TrimSpace(val); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// stringList coerces a decoded JSON value into a list of strings
func stringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// riskFromString maps a free-text risk level onto the closed enum,
// defaulting to Medium for unrecognized vocabulary.
func riskFromString(raw string) model.HallucinationRisk {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "low":
		return model.RiskLow
	case "medium":
		return model.RiskMedium
	case "high":
		return model.RiskHigh
	case "unknown":
		return model.RiskUnknown
	default:
		return model.RiskMedium
	}
}
