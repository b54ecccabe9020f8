package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zensha07/Edvance/internal/models"
	"github.com/Zensha07/Edvance/internal/service"
	appErrors "github.com/Zensha07/Edvance/pkg/errors"
	"github.com/Zensha07/Edvance/pkg/response"
)

type applicationService interface {
	Apply(ctx context.Context, actorUserID string, req service.ApplyRequest) (*models.Application, error)
	List(ctx context.Context, actorUserID string, actorRole models.UserRole) ([]models.ApplicationDetail, error)
	UpdateStatus(ctx context.Context, actorUserID string, actorRole models.UserRole, id string, req service.UpdateApplicationStatusRequest) (*models.Application, error)
}

// ApplicationHandler wires application workflow endpoints.
type ApplicationHandler struct {
	service applicationService
	metrics *service.MetricsService
}

// NewApplicationHandler creates a new handler.
func NewApplicationHandler(svc applicationService, metrics *service.MetricsService) *ApplicationHandler {
	return &ApplicationHandler{service: svc, metrics: metrics}
}

// Apply godoc
// @Summary Submit application
// @Description Submit an application against an active scholarship
// @Tags Applications
// @Accept json
// @Produce json
// @Param payload body service.ApplyRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /applications [post]
func (h *ApplicationHandler) Apply(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid application payload"))
		return
	}

	application, err := h.service.Apply(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ApplicationSubmitted()
	}

	response.Created(c, application)
}

// List godoc
// @Summary List applications
// @Description Return applications with scholarship and sponsor details. Sponsors see only applications against their own scholarships.
// @Tags Applications
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /applications [get]
func (h *ApplicationHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	applications, err := h.service.List(c.Request.Context(), claims.UserID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, applications, nil)
}

// UpdateStatus godoc
// @Summary Review application
// @Description Set an application's status; reviewed_at is stamped on every update
// @Tags Applications
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body service.UpdateApplicationStatusRequest true "Review decision"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /applications/{id}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpdateApplicationStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}

	application, err := h.service.UpdateStatus(c.Request.Context(), claims.UserID, claims.Role, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, application, nil)
}
