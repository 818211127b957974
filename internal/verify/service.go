// Package verify orchestrates a verification request: the factual
// backend and the AI insight are called concurrently, merged into one
// canonical result, optionally re-verified against the live network and
// appended to history.
package verify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/ppiankov/veracity/internal/backend"
	"github.com/ppiankov/veracity/internal/history"
	"github.com/ppiankov/veracity/internal/insight"
	"github.com/ppiankov/veracity/internal/merge"
	"github.com/ppiankov/veracity/internal/model"
)

// ErrAINotConfigured is returned by Detect when no AI provider is set up
var ErrAINotConfigured = errors.New("ai provider not configured")

// Backend is the factual-verification call
type Backend interface {
	Verify(ctx context.Context, text string) (*backend.Result, error)
}

// Analyzer is the supplementary AI call pair
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*insight.Insight, error)
	DetectAI(ctx context.Context, text string) (*model.AiDetection, error)
}

// Reverifier re-checks merged citations against the live network
type Reverifier interface {
	Reverify(ctx context.Context, citations []model.Citation) []model.Citation
}

// Service wires the verification pipeline together. analyzer, reverifier
// and store are all optional; a nil collaborator disables its step.
type Service struct {
	backend    Backend
	analyzer   Analyzer
	reverifier Reverifier
	store      history.Store
	verbose    bool
}

// NewService creates a verification service
func NewService(b Backend, a Analyzer, r Reverifier, store history.Store, verbose bool) *Service {
	return &Service{backend: b, analyzer: a, reverifier: r, store: store, verbose: verbose}
}

// Verify runs the full pipeline for a block of text. It always returns a
// well-formed result: upstream failures surface as the zero-trust
// fallback, never as an error.
func (s *Service) Verify(ctx context.Context, text string) model.VerificationResult {
	var (
		wg         sync.WaitGroup
		backendRes *backend.Result
		backendErr error
		aiRes      *insight.Insight
	)

	// Both upstream calls run concurrently and are joined independently;
	// a failure in one never cancels the other.
	wg.Add(1)
	go func() {
		defer wg.Done()
		backendRes, backendErr = s.backend.Verify(ctx, text)
	}()

	if s.analyzer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var err error
			aiRes, err = s.analyzer.Analyze(ctx, text)
			if err != nil {
				if s.verbose {
					fmt.Fprintf(os.Stderr, "Warning: AI insight failed: %v\n", err)
				}
				aiRes = nil
			}
		}()
	}

	wg.Wait()

	result := merge.Merge(backendRes, backendErr, aiRes)

	if s.reverifier != nil && len(result.Citations) > 0 {
		result.Citations = s.reverifier.Reverify(ctx, result.Citations)
	}

	s.record(ctx, text, result)

	return result
}

// Detect runs AI-authorship detection for a block of text
func (s *Service) Detect(ctx context.Context, text string) (*model.AiDetection, error) {
	if s.analyzer == nil {
		return nil, ErrAINotConfigured
	}
	return s.analyzer.DetectAI(ctx, text)
}

// record appends the verification to history. Persistence is best
// effort: a storage failure must not fail the verification itself.
func (s *Service) record(ctx context.Context, text string, result model.VerificationResult) {
	if s.store == nil {
		return
	}

	err := s.store.Append(ctx, &model.HistoryRecord{
		InputText:  text,
		TrustScore: result.TrustScore,
		Source:     result.Source,
		Result:     result,
	})
	if err != nil && s.verbose {
		fmt.Fprintf(os.Stderr, "Warning: failed to record verification: %v\n", err)
	}
}
