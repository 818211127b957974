package model

import "time"

// HallucinationRisk is the AI-derived qualitative fabrication risk
type HallucinationRisk string

const (
	RiskLow     HallucinationRisk = "Low"
	RiskMedium  HallucinationRisk = "Medium"
	RiskHigh    HallucinationRisk = "High"
	RiskUnknown HallucinationRisk = "Unknown"
)

// ResultSource records the provenance of a VerificationResult
type ResultSource string

const (
	// SourceBackendAI marks a result produced from the factual backend,
	// enriched with AI-insight fields.
	SourceBackendAI ResultSource = "backend+ai"

	// SourceAIFallback marks a degraded result produced when the factual
	// backend failed. The fallback never fabricates factual verdicts:
	// trust score is 0 and the claim/citation lists are empty.
	SourceAIFallback ResultSource = "ai-only-fallback"
)

// VerificationResult is the canonical outcome of verifying a block of text
type VerificationResult struct {
	TrustScore int        `json:"trustScore"` // 0-100
	Claims     []Claim    `json:"claims"`
	Citations  []Citation `json:"citations"`

	HallucinationRisk       HallucinationRisk `json:"hallucinationRisk,omitempty"`
	HallucinationRiskReason string            `json:"hallucinationRiskReason,omitempty"`
	AnalysisSummary         string            `json:"analysisSummary,omitempty"`

	Source ResultSource `json:"source"`
	Error  string       `json:"error,omitempty"` // Backend failure reason on the fallback path
}

// IndicatorType classifies an authorship indicator
type IndicatorType string

const (
	IndicatorAI    IndicatorType = "ai"
	IndicatorHuman IndicatorType = "human"
)

// Indicator is a single signal for or against AI authorship
type Indicator struct {
	Type        IndicatorType `json:"type"`
	Description string        `json:"description"`
	Example     string        `json:"example,omitempty"`
}

// AiDetection is the AI-authorship assessment for a block of text.
// It is obtained independently and never feeds the trust score.
type AiDetection struct {
	IsAiGenerated bool        `json:"isAiGenerated"`
	Confidence    int         `json:"confidence"` // 0-100
	Indicators    []Indicator `json:"indicators"`
	Analysis      string      `json:"analysis"`
}

// HistoryRecord is one persisted verification. Records are append-only:
// a new verification always creates a new record, never updates one.
type HistoryRecord struct {
	ID         int64              `json:"id"`
	CreatedAt  time.Time          `json:"createdAt"`
	InputText  string             `json:"inputText"`
	TrustScore int                `json:"trustScore"`
	Source     ResultSource       `json:"source"`
	Result     VerificationResult `json:"result"`
}
