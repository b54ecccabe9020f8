package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zensha07/Edvance/internal/models"
	"github.com/Zensha07/Edvance/internal/service"
	appErrors "github.com/Zensha07/Edvance/pkg/errors"
	"github.com/Zensha07/Edvance/pkg/response"
)

// MaterialHandler wires study material endpoints.
type MaterialHandler struct {
	service *service.MaterialService
}

// NewMaterialHandler creates a new handler.
func NewMaterialHandler(svc *service.MaterialService) *MaterialHandler {
	return &MaterialHandler{service: svc}
}

// Upload godoc
// @Summary Upload material
// @Description Upload a note or video owned by the authenticated teacher
// @Tags Materials
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title"
// @Param kind formData string true "NOTE or VIDEO"
// @Param file formData file true "Material file"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /materials [post]
func (h *MaterialHandler) Upload(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "material file is required"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read material file"))
		return
	}
	data, err := io.ReadAll(file)
	file.Close() //nolint:errcheck
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read material file"))
		return
	}

	req := service.UploadMaterialRequest{
		Title:       c.PostForm("title"),
		Kind:        models.MaterialKind(c.PostForm("kind")),
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}

	material, err := h.service.Upload(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, material)
}

// List godoc
// @Summary List materials
// @Description Return uploaded materials, optionally filtered by kind or owner
// @Tags Materials
// @Produce json
// @Param kind query string false "NOTE or VIDEO"
// @Param owner_id query string false "Owner user ID"
// @Success 200 {object} response.Envelope
// @Router /materials [get]
func (h *MaterialHandler) List(c *gin.Context) {
	filter := models.MaterialFilter{
		Kind:    models.MaterialKind(c.Query("kind")),
		OwnerID: c.Query("owner_id"),
	}

	materials, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, materials, nil)
}

// DownloadLink godoc
// @Summary Issue download link
// @Description Return a signed, expiring download token for a material
// @Tags Materials
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /materials/{id}/download-link [get]
func (h *MaterialHandler) DownloadLink(c *gin.Context) {
	link, err := h.service.DownloadLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, link, nil)
}

// Download godoc
// @Summary Download material
// @Description Stream a material file referenced by a signed token
// @Tags Materials
// @Produce octet-stream
// @Param token path string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /materials/download/{token} [get]
func (h *MaterialHandler) Download(c *gin.Context) {
	material, file, err := h.service.Download(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close() //nolint:errcheck

	c.Header("Content-Disposition", "attachment; filename=\""+material.Filename+"\"")
	contentType := material.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, file); err != nil {
		c.Abort()
	}
}

// Delete godoc
// @Summary Delete material
// @Description Remove a material; owners may delete their own uploads
// @Tags Materials
// @Produce json
// @Param id path string true "Material ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /materials/{id} [delete]
func (h *MaterialHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), claims.UserID, claims.Role, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
