package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/invoiceforge/invoiceforge/internal/draft/domain"
)

// GetPreferences returns the persisted preferences record.
func (s *Server) GetPreferences(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.drafts.State().Preferences})
}

// SaveCustomer upserts a customer into preferences; a customer without
// an id is assigned a fresh one and moved to the front of the list.
func (s *Server) SaveCustomer(c *gin.Context) {
	if s.gateLoading(c) {
		return
	}

	var customer domain.CustomerInfo
	if err := c.ShouldBindJSON(&customer); err != nil {
		abortJSON(c, http.StatusBadRequest, "invalid_request", "invalid customer payload")
		return
	}

	state := s.drafts.Dispatch(domain.SaveCustomer{Customer: customer})
	c.JSON(http.StatusOK, gin.H{"data": state.Preferences})
}

// DeleteCustomer removes a saved customer by id. Unknown ids are
// no-ops.
func (s *Server) DeleteCustomer(c *gin.Context) {
	if s.gateLoading(c) {
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	state := s.drafts.Dispatch(domain.DeleteCustomer{ID: id})
	c.JSON(http.StatusOK, gin.H{"data": state.Preferences})
}

// ApplyCustomer copies a saved customer into the draft's bill-to
// block.
func (s *Server) ApplyCustomer(c *gin.Context) {
	if s.gateLoading(c) {
		return
	}

	id := strings.TrimSpace(c.Param("id"))
	state := s.drafts.ApplyCustomer(id)
	c.JSON(http.StatusOK, gin.H{"data": state})
}
