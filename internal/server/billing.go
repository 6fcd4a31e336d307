package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	billingdomain "github.com/revloop/revloop/internal/billing/domain"
)

func (s *Server) Subscribe(c *gin.Context) {
	var req billingdomain.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billingSvc.Subscribe(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

// BillingWebhook receives processor notifications. The signature header
// is passed through to the configured processor for verification.
func (s *Server) BillingWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	signature := c.GetHeader("X-Processor-Signature")
	if err := s.billingSvc.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
