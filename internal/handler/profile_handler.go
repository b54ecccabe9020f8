package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Zensha07/Edvance/internal/service"
	appErrors "github.com/Zensha07/Edvance/pkg/errors"
	"github.com/Zensha07/Edvance/pkg/response"
)

// ProfileHandler wires teacher and student profile endpoints.
type ProfileHandler struct {
	service *service.ProfileService
}

// NewProfileHandler creates a new handler.
func NewProfileHandler(svc *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: svc}
}

// UpsertTeacher godoc
// @Summary Save teacher profile
// @Description Create or replace the authenticated teacher's profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param payload body service.UpsertTeacherProfileRequest true "Teacher profile"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /profiles/teacher [put]
func (h *ProfileHandler) UpsertTeacher(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpsertTeacherProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid teacher profile payload"))
		return
	}

	profile, err := h.service.UpsertTeacher(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}

// GetTeacher godoc
// @Summary Get teacher profile
// @Description Return the authenticated teacher's profile
// @Tags Profiles
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /profiles/teacher [get]
func (h *ProfileHandler) GetTeacher(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.service.GetTeacher(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}

// UpsertStudent godoc
// @Summary Save student profile
// @Description Create or replace the authenticated student's profile
// @Tags Profiles
// @Accept json
// @Produce json
// @Param payload body service.UpsertStudentProfileRequest true "Student profile"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /profiles/student [put]
func (h *ProfileHandler) UpsertStudent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.UpsertStudentProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid student profile payload"))
		return
	}

	profile, err := h.service.UpsertStudent(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}

// GetStudent godoc
// @Summary Get student profile
// @Description Return the authenticated student's profile
// @Tags Profiles
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /profiles/student [get]
func (h *ProfileHandler) GetStudent(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	profile, err := h.service.GetStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, profile, nil)
}
