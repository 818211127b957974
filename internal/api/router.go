// Package api exposes the verification pipeline over JSON/HTTP.
package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/ppiankov/veracity/internal/history"
	"github.com/ppiankov/veracity/internal/verify"
)

// NewRouter builds the gin engine with all routes attached. The API is
// CORS-open: it is meant to be called directly from browser frontends.
func NewRouter(svc VerifyService, reverifier verify.Reverifier, store history.Store) *gin.Engine {
	g := gin.New()
	g.Use(gin.Logger(), gin.Recovery())

	g.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
	}))

	g.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := NewHandlers(svc, reverifier, store)

	v1 := g.Group("/api/v1")
	{
		v1.POST("/verify", h.Verify)
		v1.POST("/verify-citations", h.VerifyCitations)
		v1.POST("/detect-ai", h.DetectAI)
		v1.GET("/history", h.ListHistory)
		v1.GET("/history/:id", h.GetHistory)
	}

	return g
}
