package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Zensha07/Edvance/internal/service"
	appErrors "github.com/Zensha07/Edvance/pkg/errors"
	"github.com/Zensha07/Edvance/pkg/response"
)

// SponsorHandler wires sponsor profile endpoints. The profile payload and
// tax registration PDF arrive together as multipart form data.
type SponsorHandler struct {
	service *service.SponsorService
}

// NewSponsorHandler creates a new handler.
func NewSponsorHandler(svc *service.SponsorService) *SponsorHandler {
	return &SponsorHandler{service: svc}
}

// Upsert godoc
// @Summary Save sponsor profile
// @Description Create or replace the authenticated sponsor's profile with an optional tax registration PDF
// @Tags Sponsors
// @Accept multipart/form-data
// @Produce json
// @Param name formData string true "Contact name"
// @Param company_name formData string true "Company name"
// @Param gst_number formData string true "GST number"
// @Param annual_turnover formData number true "Annual turnover"
// @Param tax_registration formData file false "Tax registration PDF"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /profiles/sponsor [put]
func (h *SponsorHandler) Upsert(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	turnover, err := strconv.ParseFloat(c.PostForm("annual_turnover"), 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "annual_turnover must be a number"))
		return
	}
	req := service.UpsertSponsorProfileRequest{
		Name:           c.PostForm("name"),
		CompanyName:    c.PostForm("company_name"),
		GSTNumber:      c.PostForm("gst_number"),
		AnnualTurnover: turnover,
	}

	var doc *service.TaxDocumentUpload
	if fileHeader, err := c.FormFile("tax_registration"); err == nil {
		file, err := fileHeader.Open()
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read tax document"))
			return
		}
		data, err := io.ReadAll(file)
		file.Close() //nolint:errcheck
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to read tax document"))
			return
		}
		doc = &service.TaxDocumentUpload{
			Filename:    fileHeader.Filename,
			ContentType: fileHeader.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	profile, err := h.service.Upsert(c.Request.Context(), claims.UserID, req, doc)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}

// Get godoc
// @Summary Get sponsor profile
// @Description Return the authenticated sponsor's profile
// @Tags Sponsors
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /profiles/sponsor [get]
func (h *SponsorHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.service.Get(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}
