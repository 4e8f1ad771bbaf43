package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	categorydomain "github.com/delivize/delivize/internal/category/domain"
)

func (s *Server) ListCategories(c *gin.Context) {
	menu, ok := s.ownedMenu(c)
	if !ok {
		return
	}

	categories, err := s.categorysvc.ListForMenu(c.Request.Context(), menu.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (s *Server) CreateCategory(c *gin.Context) {
	menu, ok := s.ownedMenu(c)
	if !ok {
		return
	}

	var req categorydomain.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.categorysvc.CreateCategory(c.Request.Context(), menu.OwnerUserID, menu.ID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (s *Server) UpdateCategory(c *gin.Context) {
	userID, ok := s.mustUserID(c)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req categorydomain.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	updated, err := s.categorysvc.UpdateCategory(c.Request.Context(), userID, categoryID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (s *Server) DeleteCategory(c *gin.Context) {
	userID, ok := s.mustUserID(c)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.categorysvc.DeleteCategory(c.Request.Context(), userID, categoryID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) CreateItem(c *gin.Context) {
	userID, ok := s.mustUserID(c)
	if !ok {
		return
	}
	categoryID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req categorydomain.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	created, err := s.categorysvc.CreateItem(c.Request.Context(), userID, categoryID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (s *Server) UpdateItem(c *gin.Context) {
	userID, ok := s.mustUserID(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req categorydomain.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	updated, err := s.categorysvc.UpdateItem(c.Request.Context(), userID, itemID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (s *Server) DeleteItem(c *gin.Context) {
	userID, ok := s.mustUserID(c)
	if !ok {
		return
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.categorysvc.DeleteItem(c.Request.Context(), userID, itemID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
