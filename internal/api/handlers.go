package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/veracity/internal/history"
	"github.com/ppiankov/veracity/internal/insight"
	"github.com/ppiankov/veracity/internal/model"
	"github.com/ppiankov/veracity/internal/verify"
)

// VerifyService is the pipeline surface the handlers depend on
type VerifyService interface {
	Verify(ctx context.Context, text string) model.VerificationResult
	Detect(ctx context.Context, text string) (*model.AiDetection, error)
}

// Handlers holds the route implementations
type Handlers struct {
	svc        VerifyService
	reverifier verify.Reverifier
	store      history.Store
}

// NewHandlers creates the handler set. reverifier and store are optional.
func NewHandlers(svc VerifyService, reverifier verify.Reverifier, store history.Store) *Handlers {
	return &Handlers{svc: svc, reverifier: reverifier, store: store}
}

type verifyRequest struct {
	Text *string `json:"text"`
}

// Verify runs the full verification pipeline for submitted text
func (h *Handlers) Verify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text must be a string"})
		return
	}
	if req.Text == nil || *req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	c.JSON(http.StatusOK, h.svc.Verify(c.Request.Context(), *req.Text))
}

type verifyCitationsRequest struct {
	Citations []model.Citation `json:"citations"`
}

// VerifyCitations re-probes an existing citation list
func (h *Handlers) VerifyCitations(c *gin.Context) {
	var req verifyCitationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "citations must be an array"})
		return
	}
	if req.Citations == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "citations must be an array"})
		return
	}
	if h.reverifier == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "citation re-verification unavailable"})
		return
	}

	citations := h.reverifier.Reverify(c.Request.Context(), req.Citations)
	c.JSON(http.StatusOK, gin.H{"citations": citations})
}

// DetectAI assesses AI authorship of submitted text. Upstream rate-limit
// and quota failures keep their own status codes so callers can react.
func (h *Handlers) DetectAI(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text must be a string"})
		return
	}
	if req.Text == nil || *req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	detection, err := h.svc.Detect(c.Request.Context(), *req.Text)
	if err != nil {
		switch {
		case errors.Is(err, insight.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
		case errors.Is(err, insight.ErrQuotaExhausted):
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, detection)
}

// ListHistory returns a reverse-chronological page of past verifications
func (h *Handlers) ListHistory(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history persistence disabled"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	records, err := h.store.List(c.Request.Context(), limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"records": records})
}

// GetHistory returns one stored verification with its full result
func (h *Handlers) GetHistory(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history persistence disabled"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid record id"})
		return
	}

	record, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "record not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, record)
}
