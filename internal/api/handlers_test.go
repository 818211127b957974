package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/veracity/internal/history"
	"github.com/ppiankov/veracity/internal/insight"
	"github.com/ppiankov/veracity/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeService struct {
	result    model.VerificationResult
	detection *model.AiDetection
	detectErr error
}

func (f *fakeService) Verify(ctx context.Context, text string) model.VerificationResult {
	return f.result
}

func (f *fakeService) Detect(ctx context.Context, text string) (*model.AiDetection, error) {
	return f.detection, f.detectErr
}

type fakeReverifier struct{}

func (f *fakeReverifier) Reverify(ctx context.Context, citations []model.Citation) []model.Citation {
	out := make([]model.Citation, len(citations))
	copy(out, citations)
	for i := range out {
		verified := true
		out[i].Verified = &verified
	}
	return out
}

type fakeStore struct {
	records []model.HistoryRecord
}

func (f *fakeStore) Append(ctx context.Context, record *model.HistoryRecord) error { return nil }

func (f *fakeStore) List(ctx context.Context, limit, offset int) ([]model.HistoryRecord, error) {
	return f.records, nil
}

func (f *fakeStore) Get(ctx context.Context, id int64) (*model.HistoryRecord, error) {
	for i := range f.records {
		if f.records[i].ID == id {
			return &f.records[i], nil
		}
	}
	return nil, history.ErrNotFound
}

func (f *fakeStore) Close() error { return nil }

func doRequest(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	router := NewRouter(&fakeService{}, nil, nil)

	w := doRequest(router, http.MethodGet, "/health", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestVerify_Success(t *testing.T) {
	svc := &fakeService{result: model.VerificationResult{
		TrustScore: 82,
		Claims:     []model.Claim{{Text: "claim", Status: model.ClaimVerified}},
		Citations:  []model.Citation{},
		Source:     model.SourceBackendAI,
	}}
	router := NewRouter(svc, nil, nil)

	w := doRequest(router, http.MethodPost, "/api/v1/verify", `{"text": "some claim"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var result model.VerificationResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if result.TrustScore != 82 || result.Source != model.SourceBackendAI {
		t.Errorf("unexpected response: %+v", result)
	}
}

func TestVerify_BadInput(t *testing.T) {
	router := NewRouter(&fakeService{}, nil, nil)

	tests := []struct {
		body string
		desc string
	}{
		{`{}`, "missing text"},
		{`{"text": 42}`, "non-string text"},
		{`{"text": ""}`, "empty text"},
		{`not json`, "malformed body"},
	}

	for _, tt := range tests {
		w := doRequest(router, http.MethodPost, "/api/v1/verify", tt.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tt.desc, w.Code)
		}
		if !strings.Contains(w.Body.String(), "error") {
			t.Errorf("%s: expected error field, got %s", tt.desc, w.Body.String())
		}
	}
}

func TestVerifyCitations_Success(t *testing.T) {
	router := NewRouter(&fakeService{}, &fakeReverifier{}, nil)

	body := `{"citations": [
		{"source": "Wikipedia", "url": "https://en.wikipedia.org/wiki/Go", "status": "broken", "reason": ""},
		{"source": "Unknown", "url": "unknown", "status": "valid", "reason": ""}
	]}`

	w := doRequest(router, http.MethodPost, "/api/v1/verify-citations", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Citations []model.Citation `json:"citations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Citations) != 2 {
		t.Fatalf("expected 2 citations back, got %d", len(resp.Citations))
	}
	for i, cit := range resp.Citations {
		if cit.Verified == nil || !*cit.Verified {
			t.Errorf("citation %d: expected verified=true", i)
		}
	}
}

func TestVerifyCitations_NotAnArray(t *testing.T) {
	router := NewRouter(&fakeService{}, &fakeReverifier{}, nil)

	tests := []struct {
		body string
		desc string
	}{
		{`{"citations": "nope"}`, "string instead of array"},
		{`{"citations": {"url": "x"}}`, "object instead of array"},
		{`{}`, "missing citations"},
	}

	for _, tt := range tests {
		w := doRequest(router, http.MethodPost, "/api/v1/verify-citations", tt.body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", tt.desc, w.Code)
		}
	}
}

func TestDetectAI_Success(t *testing.T) {
	svc := &fakeService{detection: &model.AiDetection{
		IsAiGenerated: true,
		Confidence:    85,
		Indicators:    []model.Indicator{{Type: model.IndicatorAI, Description: "uniform cadence"}},
		Analysis:      "likely generated",
	}}
	router := NewRouter(svc, nil, nil)

	w := doRequest(router, http.MethodPost, "/api/v1/detect-ai", `{"text": "sample"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var det model.AiDetection
	if err := json.Unmarshal(w.Body.Bytes(), &det); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !det.IsAiGenerated || det.Confidence != 85 {
		t.Errorf("unexpected detection: %+v", det)
	}
}

func TestDetectAI_UpstreamStatusMapping(t *testing.T) {
	tests := []struct {
		err    error
		status int
		desc   string
	}{
		{fmt.Errorf("%w: slow down", insight.ErrRateLimited), http.StatusTooManyRequests, "rate limit maps to 429"},
		{fmt.Errorf("%w: pay up", insight.ErrQuotaExhausted), http.StatusPaymentRequired, "quota maps to 402"},
		{errors.New("something else"), http.StatusInternalServerError, "generic failure maps to 500"},
	}

	for _, tt := range tests {
		router := NewRouter(&fakeService{detectErr: tt.err}, nil, nil)
		w := doRequest(router, http.MethodPost, "/api/v1/detect-ai", `{"text": "sample"}`)
		if w.Code != tt.status {
			t.Errorf("%s: expected %d, got %d", tt.desc, tt.status, w.Code)
		}
	}
}

func TestHistory_ListAndGet(t *testing.T) {
	store := &fakeStore{records: []model.HistoryRecord{
		{ID: 2, InputText: "newer", TrustScore: 70, Source: model.SourceBackendAI},
		{ID: 1, InputText: "older", TrustScore: 30, Source: model.SourceAIFallback},
	}}
	router := NewRouter(&fakeService{}, nil, store)

	w := doRequest(router, http.MethodGet, "/api/v1/history?limit=10", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Records []model.HistoryRecord `json:"records"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(resp.Records))
	}

	w = doRequest(router, http.MethodGet, "/api/v1/history/1", "")
	if w.Code != http.StatusOK {
		t.Errorf("expected 200 for existing record, got %d", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/api/v1/history/99", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for missing record, got %d", w.Code)
	}

	w = doRequest(router, http.MethodGet, "/api/v1/history/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", w.Code)
	}
}

func TestHistory_Disabled(t *testing.T) {
	router := NewRouter(&fakeService{}, nil, nil)

	w := doRequest(router, http.MethodGet, "/api/v1/history", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 with history disabled, got %d", w.Code)
	}
}
