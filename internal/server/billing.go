package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxWebhookBodyBytes = 1 << 20

type CheckoutRequest struct {
	SuccessURL string `json:"success_url"`
	CancelURL  string `json:"cancel_url"`
}

type PortalRequest struct {
	ReturnURL string `json:"return_url"`
}

func (s *Server) GetEntitlement(c *gin.Context) {
	userID, ok := s.mustUserID(c)
	if !ok {
		return
	}

	entitlement, err := s.billingsvc.Entitlement(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, entitlement)
}

func (s *Server) CreateCheckoutSession(c *gin.Context) {
	userID, ok := s.mustUserID(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.SuccessURL == "" || req.CancelURL == "" {
		AbortWithError(c, newValidationError("success_url", "required", "success and cancel URLs are required"))
		return
	}

	url, err := s.billingsvc.CreateCheckoutSession(c.Request.Context(), userID, req.SuccessURL, req.CancelURL)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (s *Server) CreatePortalSession(c *gin.Context) {
	userID, ok := s.mustUserID(c)
	if !ok {
		return
	}

	var req PortalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if req.ReturnURL == "" {
		AbortWithError(c, newValidationError("return_url", "required", "return URL is required"))
		return
	}

	url, err := s.billingsvc.CreatePortalSession(c.Request.Context(), userID, req.ReturnURL)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// HandleBillingWebhook receives provider events. The body is read raw because
// signature verification runs over the exact bytes sent.
func (s *Server) HandleBillingWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	signature := c.GetHeader("Stripe-Signature")

	// Only verified events may touch the dedupe claim: a forged payload must
	// not be able to shadow a legitimate delivery's event ID.
	if err := s.billingsvc.VerifyWebhook(payload, signature); err != nil {
		AbortWithError(c, err)
		return
	}

	var envelope struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	_ = json.Unmarshal(payload, &envelope)

	var claimToken string
	if s.signupLimiter != nil {
		token, claimed := s.signupLimiter.ClaimWebhookEvent(c.Request.Context(), envelope.ID)
		if !claimed {
			if s.obsMetrics != nil {
				s.obsMetrics.RecordWebhookEvent(c.Request.Context(), envelope.Type, "duplicate")
			}
			c.JSON(http.StatusOK, gin.H{"received": true, "duplicate": true})
			return
		}
		claimToken = token
	}

	if err := s.billingsvc.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		// Give the claim back so the provider's retry is not swallowed.
		if s.signupLimiter != nil {
			s.signupLimiter.ReleaseWebhookEvent(c.Request.Context(), envelope.ID, claimToken)
		}
		if s.obsMetrics != nil {
			s.obsMetrics.RecordWebhookEvent(c.Request.Context(), envelope.Type, "error")
		}
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordWebhookEvent(c.Request.Context(), envelope.Type, "ok")
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
