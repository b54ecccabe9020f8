package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Zensha07/Edvance/internal/models"
	appErrors "github.com/Zensha07/Edvance/pkg/errors"
)

type mockApplicationRepo struct {
	created          *models.Application
	createErr        error
	byID             *models.Application
	findErr          error
	details          []models.ApplicationDetail
	sponsorDetails   []models.ApplicationDetail
	listErr          error
	updatedStatus    models.ApplicationStatus
	updatedReviewed  time.Time
	updateErr        error
	updateStatusCall int
}

func (m *mockApplicationRepo) Create(ctx context.Context, application *models.Application) error {
	if m.createErr != nil {
		return m.createErr
	}
	application.ID = "app-1"
	application.AppliedAt = time.Now().UTC()
	m.created = application
	return nil
}

func (m *mockApplicationRepo) ListWithDetails(ctx context.Context) ([]models.ApplicationDetail, error) {
	return m.details, m.listErr
}

func (m *mockApplicationRepo) ListWithDetailsForSponsor(ctx context.Context, sponsorID string) ([]models.ApplicationDetail, error) {
	return m.sponsorDetails, m.listErr
}

func (m *mockApplicationRepo) FindByID(ctx context.Context, id string) (*models.Application, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.byID, nil
}

func (m *mockApplicationRepo) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, reviewedAt time.Time) error {
	m.updateStatusCall++
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedStatus = status
	m.updatedReviewed = reviewedAt
	return nil
}

type mockScholarshipFinder struct {
	scholarship *models.Scholarship
	err         error
}

func (m *mockScholarshipFinder) FindByID(ctx context.Context, id string) (*models.Scholarship, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.scholarship, nil
}

type mockSponsorResolver struct {
	sponsor *models.SponsorProfile
	err     error
}

func (m *mockSponsorResolver) FindByUserID(ctx context.Context, userID string) (*models.SponsorProfile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sponsor, nil
}

func TestApplicationServiceApplyPreservesStudentData(t *testing.T) {
	repo := &mockApplicationRepo{}
	svc := NewApplicationService(repo, &mockScholarshipFinder{}, &mockSponsorResolver{}, validator.New(), zap.NewNop())

	payload := json.RawMessage(`{"marks":{"math":91},"note":"exact bytes"}`)
	app, err := svc.Apply(context.Background(), "student-1", ApplyRequest{
		ScholarshipID: "sch-1",
		StudentData:   payload,
		Message:       "please consider",
	})
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.Equal(t, "student-1", app.StudentID)
	assert.JSONEq(t, string(payload), string(app.StudentData))
	assert.Equal(t, string(payload), string(repo.created.StudentData))
}

func TestApplicationServiceApplyInactiveScholarshipNotFound(t *testing.T) {
	repo := &mockApplicationRepo{createErr: sql.ErrNoRows}
	svc := NewApplicationService(repo, &mockScholarshipFinder{}, &mockSponsorResolver{}, validator.New(), zap.NewNop())

	_, err := svc.Apply(context.Background(), "student-1", ApplyRequest{ScholarshipID: "gone"})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestApplicationServiceUpdateStatusValidatesBeforeRepo(t *testing.T) {
	repo := &mockApplicationRepo{byID: &models.Application{ID: "app-1", ScholarshipID: "sch-1"}}
	svc := NewApplicationService(repo, &mockScholarshipFinder{}, &mockSponsorResolver{}, validator.New(), zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), "admin-1", models.RoleAdmin, "app-1", UpdateApplicationStatusRequest{Status: "approved"})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Zero(t, repo.updateStatusCall)
}

func TestApplicationServiceUpdateStatusStampsReviewedAt(t *testing.T) {
	repo := &mockApplicationRepo{byID: &models.Application{ID: "app-1", ScholarshipID: "sch-1", Status: models.ApplicationStatusAccepted}}
	svc := NewApplicationService(repo, &mockScholarshipFinder{}, &mockSponsorResolver{}, validator.New(), zap.NewNop())
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	app, err := svc.UpdateStatus(context.Background(), "admin-1", models.RoleAdmin, "app-1", UpdateApplicationStatusRequest{Status: models.ApplicationStatusPending})
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	require.NotNil(t, app.ReviewedAt)
	assert.Equal(t, fixed, *app.ReviewedAt)
	assert.Equal(t, fixed, repo.updatedReviewed)
}

func TestApplicationServiceUpdateStatusMissingApplication(t *testing.T) {
	repo := &mockApplicationRepo{findErr: sql.ErrNoRows}
	svc := NewApplicationService(repo, &mockScholarshipFinder{}, &mockSponsorResolver{}, validator.New(), zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), "admin-1", models.RoleAdmin, "missing", UpdateApplicationStatusRequest{Status: models.ApplicationStatusAccepted})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestApplicationServiceUpdateStatusSponsorOwnershipEnforced(t *testing.T) {
	repo := &mockApplicationRepo{byID: &models.Application{ID: "app-1", ScholarshipID: "sch-1"}}
	finder := &mockScholarshipFinder{scholarship: &models.Scholarship{ID: "sch-1", SponsorID: "sponsor-owner"}}
	resolver := &mockSponsorResolver{sponsor: &models.SponsorProfile{ID: "sponsor-other", UserID: "user-2"}}
	svc := NewApplicationService(repo, finder, resolver, validator.New(), zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), "user-2", models.RoleSponsor, "app-1", UpdateApplicationStatusRequest{Status: models.ApplicationStatusRejected})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Zero(t, repo.updateStatusCall)
}

func TestApplicationServiceListScopesSponsors(t *testing.T) {
	repo := &mockApplicationRepo{
		details:        []models.ApplicationDetail{{Application: models.Application{ID: "all-1"}}, {Application: models.Application{ID: "all-2"}}},
		sponsorDetails: []models.ApplicationDetail{{Application: models.Application{ID: "mine-1"}}},
	}
	resolver := &mockSponsorResolver{sponsor: &models.SponsorProfile{ID: "sponsor-1", UserID: "user-1"}}
	svc := NewApplicationService(repo, &mockScholarshipFinder{}, resolver, validator.New(), zap.NewNop())

	mine, err := svc.List(context.Background(), "user-1", models.RoleSponsor)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.List(context.Background(), "admin-1", models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
