package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	signupdomain "github.com/delivize/delivize/internal/signup/domain"
)

type SignupRequest struct {
	BusinessName string `json:"business_name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
}

func (s *Server) Signup(c *gin.Context) {
	if s.signupLimiter != nil && !s.signupLimiter.AllowSignup(c.Request.Context(), c.ClientIP()) {
		if s.obsMetrics != nil {
			s.obsMetrics.RecordRateLimitDenied(c.Request.Context(), "signup")
		}
		AbortWithError(c, ErrTooManyRequests)
		return
	}

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	result, err := s.signupsvc.Signup(c.Request.Context(), signupdomain.Request{
		BusinessName: req.BusinessName,
		Email:        req.Email,
		Password:     req.Password,
		UserAgent:    c.Request.UserAgent(),
		IPAddress:    c.ClientIP(),
	})
	if err != nil {
		if s.obsMetrics != nil {
			s.obsMetrics.RecordSignup(c.Request.Context(), "error")
		}
		AbortWithError(c, err)
		return
	}

	s.sessions.Set(c, result.RawToken, result.ExpiresAt)
	if s.obsMetrics != nil {
		s.obsMetrics.RecordSignup(c.Request.Context(), "ok")
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id":     result.UserID.String(),
		"menu_id":     result.MenuID.String(),
		"subdomain":   result.Subdomain,
		"redirect_to": result.RedirectTo,
	})
}
