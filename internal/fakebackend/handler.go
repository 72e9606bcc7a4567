package fakebackend

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kurihiro0119/hackathon-eval-client/internal/domain"
)

// Handler handles backend requests
type Handler struct {
	backend *Backend
}

// NewHandler creates a new handler over b
func NewHandler(b *Backend) *Handler {
	return &Handler{backend: b}
}

// Submit evaluates submitted URLs
// POST /submit
func (h *Handler) Submit(c *gin.Context) {
	if h.injected(c, RouteSubmit) {
		return
	}

	var req domain.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}
	if req.URLs == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "urls is required"})
		return
	}

	c.JSON(http.StatusOK, h.backend.evaluate(req.URLs))
}

// GetRanking returns the leaderboard
// GET /ranking
func (h *Handler) GetRanking(c *gin.Context) {
	if h.injected(c, RouteRanking) {
		return
	}
	c.JSON(http.StatusOK, h.backend.rankingCopy())
}

// GetReport returns the detail report for a repository
// GET /report/*repo_url
func (h *Handler) GetReport(c *gin.Context) {
	if h.injected(c, RouteReport) {
		return
	}

	repoURL := strings.TrimPrefix(c.Param("repo_url"), "/")
	report, ok := h.backend.report(repoURL)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"detail": "report not found"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *Handler) injected(c *gin.Context, route string) bool {
	if status, ok := h.backend.failure(route); ok {
		c.JSON(status, gin.H{"detail": "injected failure"})
		return true
	}
	if body, ok := h.backend.rawBody(route); ok {
		c.Data(http.StatusOK, "application/json", []byte(body))
		return true
	}
	return false
}

// Record stores every request on the backend before it is handled
func Record(b *Backend) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body []byte
		if c.Request.Body != nil {
			body, _ = io.ReadAll(c.Request.Body)
			c.Request.Body = io.NopCloser(bytes.NewReader(body))
		}
		b.record(Request{
			Method:     c.Request.Method,
			RequestURI: c.Request.RequestURI,
			Body:       string(body),
			RequestID:  c.GetHeader("X-Request-ID"),
		})
		c.Next()
	}
}
