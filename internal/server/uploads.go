package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	uploaddomain "github.com/delivize/delivize/internal/upload/domain"
)

func (s *Server) ListUploads(c *gin.Context) {
	menu, ok := s.ownedMenu(c)
	if !ok {
		return
	}

	uploads, err := s.uploadsvc.List(c.Request.Context(), menu.OwnerUserID, menu.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploads": uploads})
}

func (s *Server) StoreUpload(c *gin.Context) {
	menu, ok := s.ownedMenu(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, newValidationError("file", "required", "a file is required"))
		return
	}

	src, err := file.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer src.Close()

	upload, err := s.uploadsvc.Store(c.Request.Context(), menu.OwnerUserID, menu.ID, uploaddomain.StoreRequest{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Body:        src,
		SizeBytes:   file.Size,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, upload)
}

func (s *Server) DeleteUpload(c *gin.Context) {
	userID, ok := s.mustUserID(c)
	if !ok {
		return
	}
	uploadID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := s.uploadsvc.Delete(c.Request.Context(), userID, uploadID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
