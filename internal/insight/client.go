// Package insight calls the generative-AI analyzer. Two independent
// assessments are produced: a supplementary verification insight
// (hallucination risk, analysis summary, source suggestions for weak
// claims) consumed by the merger, and a standalone AI-authorship
// detection. The model replies with free-form chat text expected to
// contain a JSON object, optionally fenced in a code block; parse
// failures degrade to typed defaults instead of failing the request.
package insight

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/veracity/internal/model"
)

// Typed upstream failures the API layer propagates distinctly.
var (
	ErrRateLimited    = errors.New("ai service rate limited")
	ErrQuotaExhausted = errors.New("ai service quota exhausted")
)

// detectMaxChars caps the text sent for AI-authorship detection.
const detectMaxChars = 4000

// SourceSuggestion pairs a claim with URLs the model proposes as sources
type SourceSuggestion struct {
	ClaimText string   `json:"claimText"`
	Sources   []string `json:"sources"`
}

// Insight is the supplementary AI assessment of a block of text
type Insight struct {
	HallucinationRisk       string             `json:"hallucinationRisk"`
	HallucinationRiskReason string             `json:"hallucinationRiskReason"`
	AnalysisSummary         string             `json:"analysisSummary"`
	SourceSuggestions       []SourceSuggestion `json:"sourceSuggestions"`
}

// Client wraps the chat-completion API
type Client struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewClient creates an insight client. The API key is required; callers
// that want to run without AI insight simply hold a nil *Client.
func NewClient(cfg model.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("AI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	chatModel := cfg.Model
	if chatModel == "" {
		chatModel = openai.GPT4oMini
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2000
	}

	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     chatModel,
		maxTokens: maxTokens,
		timeout:   timeout,
	}, nil
}

// Analyze produces the supplementary insight for the given text.
// An unparsable reply yields (nil, nil): the merger then applies its own
// defaults, which is exactly what happens when the call fails outright.
func (c *Client) Analyze(ctx context.Context, text string) (*Insight, error) {
	content, err := c.complete(ctx, analyzeSystemPrompt, text)
	if err != nil {
		return nil, err
	}

	var ins Insight
	if !parseLooseJSON(content, &ins) {
		return nil, nil
	}
	return &ins, nil
}

// DetectAI assesses AI authorship of the given text, truncated to 4000
// characters. Parse failures degrade to a neutral default; transport
// failures are returned so the caller can map rate-limit and quota
// errors to distinct HTTP statuses.
func (c *Client) DetectAI(ctx context.Context, text string) (*model.AiDetection, error) {
	if len(text) > detectMaxChars {
		text = text[:detectMaxChars]
	}

	content, err := c.complete(ctx, detectSystemPrompt, text)
	if err != nil {
		return nil, err
	}

	var det model.AiDetection
	if !parseLooseJSON(content, &det) {
		return defaultDetection(), nil
	}
	if det.Indicators == nil {
		det.Indicators = []model.Indicator{}
	}
	return &det, nil
}

func (c *Client) complete(ctx context.Context, systemPrompt, text string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		MaxTokens:   c.maxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		return "", classifyAPIError(err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty AI response")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// classifyAPIError maps provider errors onto the typed failures
func classifyAPIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ErrRateLimited, err)
		case http.StatusPaymentRequired:
			return fmt.Errorf("%w: %v", ErrQuotaExhausted, err)
		}
	}
	return fmt.Errorf("AI request: %w", err)
}

func defaultDetection() *model.AiDetection {
	return &model.AiDetection{
		IsAiGenerated: false,
		Confidence:    50,
		Indicators:    []model.Indicator{},
		Analysis:      "Unable to determine AI authorship",
	}
}

// parseLooseJSON extracts a JSON object from chat text (fenced code block
// first, else the whole reply) and unmarshals it into v. Returns false
// when no parse succeeds.
func parseLooseJSON(content string, v interface{}) bool {
	candidate := stripFence(content)
	return json.Unmarshal([]byte(candidate), v) == nil
}

// stripFence returns the body of the first ``` code fence, if present
func stripFence(content string) string {
	start := strings.Index(content, "```")
	if start == -1 {
		return strings.TrimSpace(content)
	}

	body := content[start+3:]
	// Drop an optional language tag on the fence line.
	if nl := strings.Index(body, "\n"); nl != -1 {
		firstLine := strings.TrimSpace(body[:nl])
		if firstLine == "json" || firstLine == "" {
			body = body[nl+1:]
		}
	}

	if end := strings.Index(body, "```"); end != -1 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

const analyzeSystemPrompt = `You are a verification assistant. Analyze the user's text and respond with a single JSON object (optionally in a code fence) of the shape:
{
  "hallucinationRisk": "Low|Medium|High",
  "hallucinationRiskReason": "why",
  "analysisSummary": "2-3 sentence summary",
  "sourceSuggestions": [{"claimText": "claim from the text", "sources": ["https://..."]}]
}
Suggest sources only for claims that look questionable or false. Respond with the JSON object only.`

const detectSystemPrompt = `You are an AI-authorship analyst. Assess whether the user's text was written by a generative model and respond with a single JSON object (optionally in a code fence) of the shape:
{
  "isAiGenerated": true,
  "confidence": 0,
  "indicators": [{"type": "ai|human", "description": "signal", "example": "optional excerpt"}],
  "analysis": "short narrative"
}
Confidence is 0-100. Respond with the JSON object only.`
