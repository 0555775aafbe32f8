package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoiceforge/invoiceforge/internal/draft/domain"
)

// GetDraft returns the full invoice state: draft, totals, preferences.
func (s *Server) GetDraft(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.drafts.State()})
}

// DispatchAction applies one action envelope and returns the committed
// state. Unknown action types are accepted and leave the state
// unchanged, keeping older clients harmless against newer servers.
func (s *Server) DispatchAction(c *gin.Context) {
	if s.gateLoading(c) {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(body) == 0 {
		abortJSON(c, http.StatusBadRequest, "invalid_request", "request body required")
		return
	}

	action, err := domain.DecodeAction(body)
	if err != nil {
		abortJSON(c, http.StatusBadRequest, "invalid_action", err.Error())
		return
	}

	state := s.drafts.Dispatch(action)
	c.JSON(http.StatusOK, gin.H{"data": state})
}

// ResetDraft replaces the draft with a fresh default document,
// preserving preferences.
func (s *Server) ResetDraft(c *gin.Context) {
	if s.gateLoading(c) {
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": s.drafts.ResetDraft()})
}

// SaveDraft flushes the current draft to storage explicitly.
func (s *Server) SaveDraft(c *gin.Context) {
	if s.gateLoading(c) {
		return
	}
	s.drafts.SaveDraft()
	c.JSON(http.StatusOK, gin.H{"data": s.drafts.State()})
}

// Preview renders the print-ready HTML document for the current draft.
func (s *Server) Preview(c *gin.Context) {
	state := s.drafts.State()
	html, err := s.renderer.RenderHTML(state.Draft, state.Totals)
	if err != nil {
		abortJSON(c, http.StatusInternalServerError, "render_failed", "could not render preview")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// gateLoading rejects mutations until the one-time startup load has
// committed. The core itself never gates; the host does.
func (s *Server) gateLoading(c *gin.Context) bool {
	if s.drafts.State().IsLoading {
		abortJSON(c, http.StatusServiceUnavailable, "loading", "draft state is still loading")
		return true
	}
	return false
}

func abortJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}
