package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AttachDomainRequest struct {
	Host string `json:"host"`
}

func (s *Server) AttachCustomDomain(c *gin.Context) {
	menu, ok := s.ownedMenu(c)
	if !ok {
		return
	}

	var req AttachDomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	updated, err := s.domainsvc.Attach(c.Request.Context(), menu.OwnerUserID, menu.ID, req.Host)
	if err != nil {
		if s.obsMetrics != nil {
			s.obsMetrics.RecordDomainProvision(c.Request.Context(), "error")
		}
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordDomainProvision(c.Request.Context(), "ok")
	}
	s.resolver.Invalidate(c.Request.Context(), menu)
	s.resolver.Invalidate(c.Request.Context(), updated)

	c.JSON(http.StatusOK, updated)
}

func (s *Server) DetachCustomDomain(c *gin.Context) {
	menu, ok := s.ownedMenu(c)
	if !ok {
		return
	}

	updated, err := s.domainsvc.Detach(c.Request.Context(), menu.OwnerUserID, menu.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// The old hostname key must drop out so the domain stops resolving.
	s.resolver.Invalidate(c.Request.Context(), menu)
	s.resolver.Invalidate(c.Request.Context(), updated)

	c.JSON(http.StatusOK, updated)
}
