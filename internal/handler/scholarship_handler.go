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

type scholarshipService interface {
	Create(ctx context.Context, actorUserID string, req service.CreateScholarshipRequest) (*models.Scholarship, error)
	ListActive(ctx context.Context) ([]models.ScholarshipDetail, error)
	ListEligible(ctx context.Context, criteria models.StudentCriteria) ([]models.ScholarshipDetail, error)
	ListMine(ctx context.Context, actorUserID string) ([]models.ScholarshipDetail, error)
	Deactivate(ctx context.Context, actorUserID string, actorRole models.UserRole, id string) error
}

type studentCriteriaResolver interface {
	CriteriaForStudent(ctx context.Context, actorUserID string) (models.StudentCriteria, error)
}

// ScholarshipHandler wires scholarship catalog endpoints.
type ScholarshipHandler struct {
	service  scholarshipService
	profiles studentCriteriaResolver
}

// NewScholarshipHandler creates a new handler.
func NewScholarshipHandler(svc scholarshipService, profiles studentCriteriaResolver) *ScholarshipHandler {
	return &ScholarshipHandler{service: svc, profiles: profiles}
}

// Create godoc
// @Summary Create scholarship
// @Description Register a new scholarship owned by the authenticated sponsor
// @Tags Scholarships
// @Accept json
// @Produce json
// @Param payload body service.CreateScholarshipRequest true "Scholarship payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /scholarships [post]
func (h *ScholarshipHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.CreateScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scholarship payload"))
		return
	}

	scholarship, err := h.service.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, scholarship)
}

// List godoc
// @Summary List active scholarships
// @Description Return all active scholarships, newest first
// @Tags Scholarships
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /scholarships [get]
func (h *ScholarshipHandler) List(c *gin.Context) {
	scholarships, err := h.service.ListActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, scholarships, nil)
}

// ListEligible godoc
// @Summary List eligible scholarships
// @Description Return active scholarships matching the student's criteria, highest amount first. Query parameters override the saved profile.
// @Tags Scholarships
// @Produce json
// @Param gender query string false "Gender"
// @Param family_income query number false "Family income"
// @Param location_type query string false "Location type"
// @Param academic_percentage query number false "Academic percentage"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /scholarships/eligible [get]
func (h *ScholarshipHandler) ListEligible(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	criteria, err := h.profiles.CriteriaForStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := overrideCriteria(c, &criteria); err != nil {
		response.Error(c, err)
		return
	}

	scholarships, err := h.service.ListEligible(c.Request.Context(), criteria)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, scholarships, nil)
}

// ListMine godoc
// @Summary List own scholarships
// @Description Return all scholarships owned by the authenticated sponsor, deactivated included
// @Tags Scholarships
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /scholarships/mine [get]
func (h *ScholarshipHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	scholarships, err := h.service.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, scholarships, nil)
}

// Deactivate godoc
// @Summary Deactivate scholarship
// @Description Hide a scholarship from the catalog without deleting its records
// @Tags Scholarships
// @Produce json
// @Param id path string true "Scholarship ID"
// @Success 204 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scholarships/{id} [delete]
func (h *ScholarshipHandler) Deactivate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Deactivate(c.Request.Context(), claims.UserID, claims.Role, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

func overrideCriteria(c *gin.Context, criteria *models.StudentCriteria) error {
	if v := c.Query("gender"); v != "" {
		criteria.Gender = v
	}
	if v := c.Query("location_type"); v != "" {
		criteria.LocationType = v
	}
	if v := c.Query("family_income"); v != "" {
		income, err := parseFloatQuery(v, "family_income")
		if err != nil {
			return err
		}
		criteria.FamilyIncome = income
	}
	if v := c.Query("academic_percentage"); v != "" {
		pct, err := parseFloatQuery(v, "academic_percentage")
		if err != nil {
			return err
		}
		criteria.AcademicPercentage = pct
	}
	return nil
}
