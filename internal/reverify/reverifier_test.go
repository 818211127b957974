package reverify

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/probe"
)

// fakeProber serves canned probe results keyed by URL
type fakeProber struct {
	results map[string]probe.Result
	calls   int32
	delay   time.Duration
}

func (f *fakeProber) Probe(ctx context.Context, url string) probe.Result {
	atomic.AddInt32(&f.calls, 1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.results[url]
}

func TestReverify_BrokenBecomesValid(t *testing.T) {
	// Scenario: probe finds a previously-broken URL reachable.
	prober := &fakeProber{results: map[string]probe.Result{
		"https://example.com": {Exists: true, HTTPStatus: 200, Title: "Example Domain"},
	}}
	r := New(prober, 4)

	out := r.Reverify(context.Background(), []model.Citation{
		{Source: "Example", URL: "https://example.com", Status: model.CitationBroken},
	})

	if len(out) != 1 {
		t.Fatalf("expected 1 citation, got %d", len(out))
	}
	cit := out[0]
	if cit.Status != model.CitationValid {
		t.Errorf("expected valid, got %q", cit.Status)
	}
	if !strings.Contains(cit.Reason, "Example Domain") {
		t.Errorf("expected reason to mention page title, got %q", cit.Reason)
	}
	if cit.Verified == nil || !*cit.Verified {
		t.Error("expected verified=true")
	}
	if cit.HTTPStatus == nil || *cit.HTTPStatus != 200 {
		t.Errorf("expected httpStatus 200, got %v", cit.HTTPStatus)
	}
}

func TestReverify_UnknownURLBecomesBroken(t *testing.T) {
	// Scenario: the "unknown" sentinel probes as unreachable without a
	// network call; a previously-valid citation flips to broken.
	prober := &fakeProber{results: map[string]probe.Result{}}
	r := New(prober, 4)

	out := r.Reverify(context.Background(), []model.Citation{
		{Source: "Mystery", URL: model.UnknownURL, Status: model.CitationValid},
	})

	cit := out[0]
	if cit.Status != model.CitationBroken {
		t.Errorf("expected broken, got %q", cit.Status)
	}
	if cit.Reason != "URL is not accessible or does not exist" {
		t.Errorf("unexpected reason: %q", cit.Reason)
	}
}

func TestReverify_ValidBecomesBrokenWithHTTPCode(t *testing.T) {
	prober := &fakeProber{results: map[string]probe.Result{
		"https://gone.example": {Exists: false, HTTPStatus: 404},
	}}
	r := New(prober, 4)

	out := r.Reverify(context.Background(), []model.Citation{
		{URL: "https://gone.example", Status: model.CitationValid},
	})

	cit := out[0]
	if cit.Status != model.CitationBroken {
		t.Errorf("expected broken, got %q", cit.Status)
	}
	if cit.Reason != "URL returned HTTP 404" {
		t.Errorf("unexpected reason: %q", cit.Reason)
	}
}

func TestReverify_FakeNeverFlips(t *testing.T) {
	// Reconciliation is asymmetric: a reachable URL does not launder a
	// fabricated citation.
	prober := &fakeProber{results: map[string]probe.Result{
		"https://real-site.example": {Exists: true, HTTPStatus: 200, Title: "Real Site"},
	}}
	r := New(prober, 4)

	out := r.Reverify(context.Background(), []model.Citation{
		{URL: "https://real-site.example", Status: model.CitationFake, Reason: "source does not match content"},
	})

	cit := out[0]
	if cit.Status != model.CitationFake {
		t.Errorf("fake must never flip, got %q", cit.Status)
	}
	if cit.Reason != "source does not match content" {
		t.Errorf("expected original reason preserved, got %q", cit.Reason)
	}
	if cit.Verified == nil || !*cit.Verified {
		t.Error("expected verified=true even for unchanged citations")
	}
}

func TestReverify_AgreementUnchanged(t *testing.T) {
	prober := &fakeProber{results: map[string]probe.Result{
		"https://up.example":   {Exists: true, HTTPStatus: 200, Title: "Up"},
		"https://down.example": {Exists: false, HTTPStatus: 500},
	}}
	r := New(prober, 4)

	out := r.Reverify(context.Background(), []model.Citation{
		{URL: "https://up.example", Status: model.CitationValid, Reason: "looks fine"},
		{URL: "https://down.example", Status: model.CitationBroken, Reason: "server error"},
	})

	if out[0].Status != model.CitationValid || out[0].Reason != "looks fine" {
		t.Errorf("valid+reachable must stay unchanged, got %+v", out[0])
	}
	if out[1].Status != model.CitationBroken || out[1].Reason != "server error" {
		t.Errorf("broken+unreachable must stay unchanged, got %+v", out[1])
	}
}

func TestReverify_Idempotent(t *testing.T) {
	prober := &fakeProber{results: map[string]probe.Result{
		"https://a.example": {Exists: true, HTTPStatus: 200, Title: "A"},
		"https://b.example": {Exists: false, HTTPStatus: 404},
	}}
	r := New(prober, 4)

	input := []model.Citation{
		{URL: "https://a.example", Status: model.CitationBroken},
		{URL: "https://b.example", Status: model.CitationValid},
		{URL: "https://a.example", Status: model.CitationFake},
	}

	first := r.Reverify(context.Background(), input)
	second := r.Reverify(context.Background(), first)

	for i := range first {
		if first[i].Status != second[i].Status {
			t.Errorf("citation %d: status changed on second pass: %q -> %q", i, first[i].Status, second[i].Status)
		}
		if first[i].Reason != second[i].Reason {
			t.Errorf("citation %d: reason changed on second pass: %q -> %q", i, first[i].Reason, second[i].Reason)
		}
	}
}

func TestReverify_PreservesOrderAndLength(t *testing.T) {
	prober := &fakeProber{results: map[string]probe.Result{}, delay: 10 * time.Millisecond}
	r := New(prober, 8)

	var input []model.Citation
	for _, url := range []string{"https://1.example", "https://2.example", "https://3.example", "https://4.example", "https://5.example"} {
		input = append(input, model.Citation{Source: url, URL: url, Status: model.CitationBroken})
	}

	out := r.Reverify(context.Background(), input)

	if len(out) != len(input) {
		t.Fatalf("expected %d citations, got %d", len(input), len(out))
	}
	for i := range input {
		if out[i].Source != input[i].Source {
			t.Errorf("position %d: expected %q, got %q", i, input[i].Source, out[i].Source)
		}
	}
	if got := atomic.LoadInt32(&prober.calls); got != int32(len(input)) {
		t.Errorf("expected one probe per citation, got %d", got)
	}
}

func TestReverify_EmptyList(t *testing.T) {
	r := New(&fakeProber{}, 4)
	out := r.Reverify(context.Background(), nil)
	if out == nil || len(out) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", out)
	}
}
