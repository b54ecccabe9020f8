package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Zensha07/Edvance/internal/models"
	"github.com/Zensha07/Edvance/internal/repository"
	appErrors "github.com/Zensha07/Edvance/pkg/errors"
	"github.com/Zensha07/Edvance/pkg/jobs"
)

type mockReportJobStore struct {
	created   *models.ReportJob
	createErr error
	byID      *models.ReportJob
	getErr    error
	updates   []repository.UpdateReportJobParams
	updateErr error
	queued    []models.ReportJob
	finished  []models.ReportJob
}

func (m *mockReportJobStore) Create(ctx context.Context, job *models.ReportJob) error {
	if m.createErr != nil {
		return m.createErr
	}
	job.ID = "job-1"
	m.created = job
	return nil
}

func (m *mockReportJobStore) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.byID, nil
}

func (m *mockReportJobStore) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updates = append(m.updates, params)
	return nil
}

func (m *mockReportJobStore) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	return m.queued, nil
}

func (m *mockReportJobStore) ListFinishedBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.ReportJob, error) {
	return m.finished, nil
}

type mockDispatcher struct {
	enqueued []jobs.Job
	err      error
}

func (m *mockDispatcher) Enqueue(job jobs.Job) error {
	if m.err != nil {
		return m.err
	}
	m.enqueued = append(m.enqueued, job)
	return nil
}

type mockExportGenerator struct {
	result *ExportResult
	err    error
	calls  int
}

func (m *mockExportGenerator) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func TestReportServiceCreateJobRejectsUnknownType(t *testing.T) {
	svc := NewReportService(&mockReportJobStore{}, &mockSponsorResolver{}, &mockDispatcher{}, nil, zap.NewNop(), ReportServiceConfig{})

	_, err := svc.CreateJob(context.Background(), ReportRequest{Type: "grades", Format: models.ReportFormatCSV}, "u1", models.RoleAdmin)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestReportServiceCreateJobScopesSponsor(t *testing.T) {
	store := &mockReportJobStore{}
	queue := &mockDispatcher{}
	resolver := &mockSponsorResolver{sponsor: &models.SponsorProfile{ID: "sponsor-1", UserID: "u1"}}
	svc := NewReportService(store, resolver, queue, nil, zap.NewNop(), ReportServiceConfig{})

	resp, err := svc.CreateJob(context.Background(), ReportRequest{Type: models.ReportTypeApplications, Format: models.ReportFormatCSV}, "u1", models.RoleSponsor)
	require.NoError(t, err)

	assert.Equal(t, models.ReportStatusQueued, resp.Status)
	require.NotNil(t, store.created.Params.SponsorID)
	assert.Equal(t, "sponsor-1", *store.created.Params.SponsorID)
	require.Len(t, queue.enqueued, 1)
	assert.Equal(t, "job-1", queue.enqueued[0].ID)
}

func TestReportServiceCreateJobSponsorProfileRequired(t *testing.T) {
	svc := NewReportService(&mockReportJobStore{}, &mockSponsorResolver{err: sql.ErrNoRows}, &mockDispatcher{}, nil, zap.NewNop(), ReportServiceConfig{})

	_, err := svc.CreateJob(context.Background(), ReportRequest{Type: models.ReportTypeApplications, Format: models.ReportFormatCSV}, "u1", models.RoleSponsor)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestReportServiceCreateJobEnqueueFailureMarksFailed(t *testing.T) {
	store := &mockReportJobStore{}
	queue := &mockDispatcher{err: errors.New("queue full")}
	svc := NewReportService(store, &mockSponsorResolver{}, queue, nil, zap.NewNop(), ReportServiceConfig{})

	_, err := svc.CreateJob(context.Background(), ReportRequest{Type: models.ReportTypeScholarships, Format: models.ReportFormatPDF}, "admin", models.RoleAdmin)
	require.Error(t, err)

	require.Len(t, store.updates, 1)
	require.NotNil(t, store.updates[0].Status)
	assert.Equal(t, models.ReportStatusFailed, *store.updates[0].Status)
	require.NotNil(t, store.updates[0].FinishedAt)
}

func TestReportServiceGetStatusOwnershipEnforced(t *testing.T) {
	store := &mockReportJobStore{byID: &models.ReportJob{ID: "job-1", Status: models.ReportStatusProcessing, Progress: 10, CreatedBy: "owner"}}
	svc := NewReportService(store, &mockSponsorResolver{}, &mockDispatcher{}, nil, zap.NewNop(), ReportServiceConfig{})

	_, err := svc.GetStatus(context.Background(), "job-1", "someone-else", models.RoleSponsor)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)

	status, err := svc.GetStatus(context.Background(), "job-1", "anyone", models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusProcessing, status.Status)
}

func TestReportServiceRecoverPendingJobs(t *testing.T) {
	store := &mockReportJobStore{queued: []models.ReportJob{
		{ID: "job-1", Type: models.ReportTypeApplications},
		{ID: "job-2", Type: models.ReportTypeScholarships},
	}}
	queue := &mockDispatcher{}
	svc := NewReportService(store, &mockSponsorResolver{}, queue, nil, zap.NewNop(), ReportServiceConfig{})

	svc.RecoverPendingJobs(context.Background())
	require.Len(t, queue.enqueued, 2)
}

func TestReportWorkerHandleSuccess(t *testing.T) {
	store := &mockReportJobStore{byID: &models.ReportJob{ID: "job-1", Type: models.ReportTypeApplications, Status: models.ReportStatusQueued}}
	exporter := &mockExportGenerator{result: &ExportResult{URL: "/api/v1/reports/download/token", RelativePath: "report.csv"}}
	worker := NewReportWorker(store, exporter, 3, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 1})
	require.NoError(t, err)

	require.Len(t, store.updates, 2)
	final := store.updates[1]
	require.NotNil(t, final.Status)
	assert.Equal(t, models.ReportStatusFinished, *final.Status)
	require.NotNil(t, final.ResultURL)
	assert.Equal(t, "/api/v1/reports/download/token", *final.ResultURL)
	require.NotNil(t, final.FinishedAt)
}

func TestReportWorkerHandleRequeuesOnTransientFailure(t *testing.T) {
	store := &mockReportJobStore{byID: &models.ReportJob{ID: "job-1", Type: models.ReportTypeApplications}}
	exporter := &mockExportGenerator{err: errors.New("db timeout")}
	worker := NewReportWorker(store, exporter, 3, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 1})
	require.Error(t, err)

	require.Len(t, store.updates, 2)
	final := store.updates[1]
	require.NotNil(t, final.Status)
	assert.Equal(t, models.ReportStatusQueued, *final.Status)
	assert.Nil(t, final.FinishedAt)
}

func TestReportWorkerHandleFailsAfterMaxRetries(t *testing.T) {
	store := &mockReportJobStore{byID: &models.ReportJob{ID: "job-1", Type: models.ReportTypeApplications}}
	exporter := &mockExportGenerator{err: errors.New("db down")}
	worker := NewReportWorker(store, exporter, 3, zap.NewNop())

	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 3})
	require.Error(t, err)

	require.Len(t, store.updates, 2)
	final := store.updates[1]
	require.NotNil(t, final.Status)
	assert.Equal(t, models.ReportStatusFailed, *final.Status)
	require.NotNil(t, final.ErrorMessage)
	assert.Equal(t, "db down", *final.ErrorMessage)
	require.NotNil(t, final.FinishedAt)
}
