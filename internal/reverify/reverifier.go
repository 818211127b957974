// Package reverify re-checks citation URLs against the live network and
// reconciles the fresh probe outcome with the previously assigned status.
// Reconciliation is asymmetric: a probe can flip broken to valid and
// valid to broken, but a fake verdict is never revisited — reachability
// says nothing about fabrication.
package reverify

import (
	"context"
	"fmt"
	"sync"

	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/probe"
)

// unreachableReason is the reason recorded when a probe produced no
// HTTP status at all (sentinel URL, DNS failure, timeout).
const unreachableReason = "URL is not accessible or does not exist"

// Prober is the live check used for each citation
type Prober interface {
	Probe(ctx context.Context, url string) probe.Result
}

// Reverifier fans probes out over a citation list
type Reverifier struct {
	prober     Prober
	maxWorkers int
}

// New creates a Reverifier bounding concurrent probes at maxWorkers
func New(prober Prober, maxWorkers int) *Reverifier {
	if maxWorkers <= 0 {
		maxWorkers = 20
	}
	return &Reverifier{prober: prober, maxWorkers: maxWorkers}
}

// Reverify probes every citation concurrently and returns a new list of
// the same length and order. It waits for every probe before returning;
// total latency is bounded by the slowest probe, not the list length.
func (r *Reverifier) Reverify(ctx context.Context, citations []model.Citation) []model.Citation {
	if len(citations) == 0 {
		return []model.Citation{}
	}

	results := make([]model.Citation, len(citations))
	semaphore := make(chan struct{}, r.maxWorkers)
	var wg sync.WaitGroup

	for i, cit := range citations {
		wg.Add(1)
		go func(idx int, c model.Citation) {
			defer wg.Done()

			select {
			case <-ctx.Done():
				// Treat cancellation like an unreachable probe.
				results[idx] = reconcile(c, probe.Result{})
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			results[idx] = reconcile(c, r.prober.Probe(ctx, c.URL))
		}(i, cit)
	}

	wg.Wait()
	return results
}

// reconcile applies the probe outcome to a citation's prior status
func reconcile(cit model.Citation, res probe.Result) model.Citation {
	verified := true
	cit.Verified = &verified
	status := res.HTTPStatus
	cit.HTTPStatus = &status
	cit.PageTitle = res.Title

	switch {
	case cit.Status == model.CitationBroken && res.Exists:
		cit.Status = model.CitationValid
		title := res.Title
		if title == "" {
			title = "Unknown"
		}
		cit.Reason = fmt.Sprintf("URL is accessible. Page title: %q", title)

	case cit.Status == model.CitationValid && !res.Exists:
		cit.Status = model.CitationBroken
		if res.HTTPStatus != 0 {
			cit.Reason = fmt.Sprintf("URL returned HTTP %d", res.HTTPStatus)
		} else {
			cit.Reason = unreachableReason
		}
	}

	// fake, valid+reachable and broken+unreachable stay unchanged.
	return cit
}
