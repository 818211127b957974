package model

// ClaimStatus is the closed verdict vocabulary for claims
type ClaimStatus string

const (
	ClaimVerified     ClaimStatus = "verified"     // Upstream confirmed the assertion
	ClaimQuestionable ClaimStatus = "questionable" // Unclear or unverifiable
	ClaimFalse        ClaimStatus = "false"        // Upstream contradicted the assertion
)

// Claim represents a factual assertion extracted from the analyzed text
type Claim struct {
	Text             string      `json:"text"`                       // The asserted statement (substring of the input)
	Status           ClaimStatus `json:"status"`                     // Normalized verdict
	Note             string      `json:"note"`                       // Human-readable justification
	SuggestedSources []string    `json:"suggestedSources,omitempty"` // Ordered URLs; only for non-verified claims
}

// CitationStatus is the closed verdict vocabulary for citations
type CitationStatus string

const (
	CitationValid  CitationStatus = "valid"  // Source exists and is reachable
	CitationBroken CitationStatus = "broken" // URL unreachable or unverifiable
	CitationFake   CitationStatus = "fake"   // Source appears fabricated
)

// UnknownURL is the sentinel value meaning no URL was supplied for a citation.
const UnknownURL = "unknown"

// Citation represents a referenced source cited by the analyzed text.
// Verified, HTTPStatus and PageTitle are populated only after
// re-verification; before that they are absent from the JSON encoding.
type Citation struct {
	Source     string         `json:"source"`              // Display name of the referenced source
	URL        string         `json:"url"`                 // Full URL, or UnknownURL
	Status     CitationStatus `json:"status"`              // Normalized verdict
	Reason     string         `json:"reason"`              // Explanation for the verdict
	Verified   *bool          `json:"verified,omitempty"`  // Set after live re-verification
	HTTPStatus *int           `json:"httpStatus,omitempty"`
	PageTitle  string         `json:"pageTitle,omitempty"`
}
