package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Zensha07/Edvance/internal/models"
	appErrors "github.com/Zensha07/Edvance/pkg/errors"
)

type applicationRepository interface {
	Create(ctx context.Context, application *models.Application) error
	ListWithDetails(ctx context.Context) ([]models.ApplicationDetail, error)
	ListWithDetailsForSponsor(ctx context.Context, sponsorID string) ([]models.ApplicationDetail, error)
	FindByID(ctx context.Context, id string) (*models.Application, error)
	UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, reviewedAt time.Time) error
}

// ApplyRequest holds payload for submitting an application. StudentData is
// stored and echoed back verbatim.
type ApplyRequest struct {
	ScholarshipID string          `json:"scholarship_id" validate:"required"`
	StudentData   json.RawMessage `json:"student_data"`
	Message       string          `json:"message"`
}

// UpdateApplicationStatusRequest holds the review decision.
type UpdateApplicationStatusRequest struct {
	Status models.ApplicationStatus `json:"status" validate:"required"`
}

type scholarshipFinder interface {
	FindByID(ctx context.Context, id string) (*models.Scholarship, error)
}

// ApplicationService owns the application workflow from submission through
// review.
type ApplicationService struct {
	repo         applicationRepository
	scholarships scholarshipFinder
	sponsors     sponsorResolver
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(repo applicationRepository, scholarships scholarshipFinder, sponsors sponsorResolver, validate *validator.Validate, logger *zap.Logger) *ApplicationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{repo: repo, scholarships: scholarships, sponsors: sponsors, validator: validate, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// Apply submits an application for the acting student. Repeat applications
// to the same scholarship are allowed; each submission is its own record.
func (s *ApplicationService) Apply(ctx context.Context, actorUserID string, req ApplyRequest) (*models.Application, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}
	application := &models.Application{
		ScholarshipID: req.ScholarshipID,
		StudentID:     actorUserID,
		StudentData:   req.StudentData,
		Message:       req.Message,
		Status:        models.ApplicationStatusPending,
	}
	if err := s.repo.Create(ctx, application); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "scholarship not found or no longer active")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to submit application")
	}
	s.logger.Info("application submitted",
		zap.String("application_id", application.ID),
		zap.String("scholarship_id", application.ScholarshipID),
		zap.String("student_id", application.StudentID))
	return application, nil
}

// List returns applications with scholarship and sponsor details. Sponsors
// see only applications against their own scholarships; admins see all.
func (s *ApplicationService) List(ctx context.Context, actorUserID string, actorRole models.UserRole) ([]models.ApplicationDetail, error) {
	if actorRole == models.RoleAdmin {
		applications, err := s.repo.ListWithDetails(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
		}
		return applications, nil
	}
	sponsor, err := s.sponsors.FindByUserID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.ApplicationDetail{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve sponsor")
	}
	applications, err := s.repo.ListWithDetailsForSponsor(ctx, sponsor.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return applications, nil
}

// UpdateStatus records a review decision. The status is validated before any
// persistence is touched, and reviewed_at is stamped on every update, a
// revert to pending included. Sponsors may only review applications against
// their own scholarships.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actorUserID string, actorRole models.UserRole, id string, req UpdateApplicationStatusRequest) (*models.Application, error) {
	if !models.ValidApplicationStatus(req.Status) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be one of pending, accepted, rejected")
	}
	application, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	if actorRole != models.RoleAdmin {
		owns, err := s.sponsorOwnsApplication(ctx, actorUserID, application)
		if err != nil {
			return nil, err
		}
		if !owns {
			return nil, appErrors.ErrForbidden
		}
	}

	reviewedAt := s.now()
	if err := s.repo.UpdateStatus(ctx, id, req.Status, reviewedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application status")
	}
	application.Status = req.Status
	application.ReviewedAt = &reviewedAt
	s.logger.Info("application reviewed",
		zap.String("application_id", id),
		zap.String("status", string(req.Status)),
		zap.String("reviewer_id", actorUserID))
	return application, nil
}

func (s *ApplicationService) sponsorOwnsApplication(ctx context.Context, actorUserID string, application *models.Application) (bool, error) {
	sponsor, err := s.sponsors.FindByUserID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve sponsor")
	}
	scholarship, err := s.scholarships.FindByID(ctx, application.ScholarshipID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scholarship")
	}
	return scholarship.SponsorID == sponsor.ID, nil
}
