package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	menudomain "github.com/delivize/delivize/internal/menu/domain"
)

// PublicMenuBySubdomain serves the canonical tenant path. Platform-subdomain
// requests land here after the hostname rewrite; the path also works when hit
// directly.
func (s *Server) PublicMenuBySubdomain(c *gin.Context) {
	sub := strings.ToLower(strings.TrimSpace(c.Param("subdomain")))
	if sub == "" {
		AbortWithError(c, ErrNotFound)
		return
	}

	menu, err := s.resolver.BySubdomain(c.Request.Context(), sub)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordMenuResolve(c.Request.Context(), "subdomain")
	}
	s.renderPublicMenu(c, menu)
}

// PublicMenuByHost serves custom-domain tenants after the rewrite to
// "/custom/{host}".
func (s *Server) PublicMenuByHost(c *gin.Context) {
	host := strings.ToLower(strings.TrimSpace(c.Param("host")))
	if host == "" {
		AbortWithError(c, ErrNotFound)
		return
	}

	menu, err := s.resolver.ByCustomDomain(c.Request.Context(), host)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if s.obsMetrics != nil {
		s.obsMetrics.RecordMenuResolve(c.Request.Context(), "custom_domain")
	}
	s.renderPublicMenu(c, menu)
}

func (s *Server) renderPublicMenu(c *gin.Context, menu *menudomain.Menu) {
	categories, err := s.categorysvc.ListForMenu(c.Request.Context(), menu.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	openNow, err := s.hourssvc.IsOpenNow(c.Request.Context(), menu.ID)
	if err != nil {
		s.log.Warn("open-now evaluation failed",
			zap.String("menu_id", menu.ID.String()),
			zap.Error(err),
		)
		openNow = false
	}

	c.JSON(http.StatusOK, gin.H{
		"menu": gin.H{
			"id":        menu.ID.String(),
			"name":      menu.Name,
			"subdomain": menu.Subdomain,
			"photo_url": menu.PhotoURL,
		},
		"categories": categories,
		"open_now":   openNow,
	})
}
