package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	hoursdomain "github.com/delivize/delivize/internal/operatinghours/domain"
)

type ReplaceHoursRequest struct {
	Intervals []hoursdomain.IntervalRequest `json:"intervals"`
}

func (s *Server) ListOperatingHours(c *gin.Context) {
	menu, ok := s.ownedMenu(c)
	if !ok {
		return
	}

	hours, err := s.hourssvc.List(c.Request.Context(), menu.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hours": hours})
}

func (s *Server) ReplaceOperatingHours(c *gin.Context) {
	menu, ok := s.ownedMenu(c)
	if !ok {
		return
	}

	var req ReplaceHoursRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	hours, err := s.hourssvc.Replace(c.Request.Context(), menu.OwnerUserID, menu.ID, req.Intervals)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"hours": hours})
}
