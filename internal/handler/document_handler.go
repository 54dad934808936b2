package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DrExperiment/ecole-peg-sub000/internal/models"
	"github.com/DrExperiment/ecole-peg-sub000/internal/service"
	appErrors "github.com/DrExperiment/ecole-peg-sub000/pkg/errors"
	"github.com/DrExperiment/ecole-peg-sub000/pkg/response"
)

type documentService interface {
	List(ctx context.Context, studentID string) ([]models.DocumentLink, error)
	Upload(ctx context.Context, studentID string, upload service.DocumentUpload) (*models.DocumentLink, error)
	Delete(ctx context.Context, studentID, id string) error
	Download(ctx context.Context, id, token string) (*service.DocumentDownload, error)
}

// DocumentHandler exposes the files attached to student records.
type DocumentHandler struct {
	documents documentService
}

func NewDocumentHandler(documents documentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// List godoc
// @Summary List a student's documents
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documents.List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, docs, nil)
}

// Upload godoc
// @Summary Upload a document for a student
// @Tags Students
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Student ID"
// @Param name formData string true "Document name"
// @Param file formData file true "PDF, JPEG or PNG file"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/documents [post]
func (h *DocumentHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close() //nolint:errcheck

	doc, err := h.documents.Upload(c.Request.Context(), c.Param("id"), service.DocumentUpload{
		Name:     c.PostForm("name"),
		FileName: fileHeader.Filename,
		Size:     fileHeader.Size,
		Content:  src,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, doc)
}

// Delete godoc
// @Summary Delete a student's document
// @Tags Students
// @Param id path string true "Student ID"
// @Param documentId path string true "Document ID"
// @Success 204
// @Router /students/{id}/documents/{documentId} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	if err := h.documents.Delete(c.Request.Context(), c.Param("id"), c.Param("documentId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Download godoc
// @Summary Download a document through a signed link
// @Tags Students
// @Produce octet-stream
// @Param id path string true "Document ID"
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 403 {object} response.Envelope
// @Router /documents/{id}/download [get]
func (h *DocumentHandler) Download(c *gin.Context) {
	doc, err := h.documents.Download(c.Request.Context(), c.Param("id"), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer doc.Content.Close() //nolint:errcheck
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.FileName))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, doc.Size, doc.ContentType, doc.Content, nil)
}
