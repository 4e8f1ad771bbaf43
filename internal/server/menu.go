package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	menudomain "github.com/delivize/delivize/internal/menu/domain"
)

type UpdateMenuRequest struct {
	Name      *string `json:"name,omitempty"`
	Subdomain *string `json:"subdomain,omitempty"`
	PhotoURL  *string `json:"photo_url,omitempty"`
}

// ownedMenu resolves the caller's menu. Every management handler goes through
// it so the ownership check lives in one place.
func (s *Server) ownedMenu(c *gin.Context) (*menudomain.Menu, bool) {
	userID, ok := s.mustUserID(c)
	if !ok {
		return nil, false
	}

	menu, err := s.menusvc.GetByOwner(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}
	return menu, true
}

func (s *Server) GetManagedMenu(c *gin.Context) {
	menu, ok := s.ownedMenu(c)
	if !ok {
		return
	}

	entitlement, err := s.billingsvc.Entitlement(c.Request.Context(), menu.OwnerUserID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"menu":        menu,
		"entitlement": entitlement,
	})
}

func (s *Server) UpdateMenuSettings(c *gin.Context) {
	userID, ok := s.mustUserID(c)
	if !ok {
		return
	}

	menu, err := s.menusvc.GetByOwner(c.Request.Context(), userID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req UpdateMenuRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	// Invalidate under the pre-update identity so a subdomain change evicts
	// the old key.
	previous := *menu

	updated, err := s.menusvc.UpdateSettings(c.Request.Context(), userID, menu.ID, menudomain.UpdateSettingsRequest{
		Name:      req.Name,
		Subdomain: req.Subdomain,
		PhotoURL:  req.PhotoURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	s.resolver.Invalidate(c.Request.Context(), &previous)
	s.resolver.Invalidate(c.Request.Context(), updated)

	c.JSON(http.StatusOK, updated)
}

func parseIDParam(c *gin.Context, name string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(c.Param(name))
	if err != nil {
		AbortWithError(c, newValidationError(name, "invalid_id", "invalid identifier"))
		return 0, false
	}
	return id, true
}
