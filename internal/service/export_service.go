package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Zensha07/Edvance/internal/models"
	"github.com/Zensha07/Edvance/pkg/export"
	"github.com/Zensha07/Edvance/pkg/storage"
)

type exportApplicationSource interface {
	ListWithDetails(ctx context.Context) ([]models.ApplicationDetail, error)
	ListWithDetailsForSponsor(ctx context.Context, sponsorID string) ([]models.ApplicationDetail, error)
}

type exportScholarshipSource interface {
	ListActive(ctx context.Context) ([]models.ScholarshipDetail, error)
	ListBySponsor(ctx context.Context, sponsorID string) ([]models.ScholarshipDetail, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService builds report datasets and persists rendered files.
type ExportService struct {
	applications exportApplicationSource
	scholarships exportScholarshipSource
	storage      fileStorage
	csv          csvRenderer
	pdf          pdfRenderer
	signer       *storage.SignedURLSigner
	logger       *zap.Logger
	cfg          ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(applications exportApplicationSource, scholarships exportScholarshipSource, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		applications: applications,
		scholarships: scholarships,
		storage:      store,
		csv:          csv,
		pdf:          pdf,
		signer:       signer,
		logger:       logger,
		cfg:          cfg,
	}
}

// Generate builds the dataset for the job and stores the rendered export.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := s.buildFilename(job)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	signedURL := strings.TrimRight(s.cfg.APIPrefix, "/")
	if signedURL == "" {
		signedURL = "/api/v1"
	}
	signedURL = fmt.Sprintf("%s/reports/download/%s", signedURL, token)

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          signedURL,
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("%s_%s.%s", strings.ToLower(string(job.Type)), timestamp, job.Params.Format)
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypeApplications:
		return s.buildApplicationsDataset(ctx, job.Params)
	case models.ReportTypeScholarships:
		return s.buildScholarshipsDataset(ctx, job.Params)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildApplicationsDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	var (
		rows []models.ApplicationDetail
		err  error
	)
	if params.SponsorID != nil && *params.SponsorID != "" {
		rows, err = s.applications.ListWithDetailsForSponsor(ctx, *params.SponsorID)
	} else {
		rows, err = s.applications.ListWithDetails(ctx)
	}
	if err != nil {
		return export.Dataset{}, "", err
	}
	dataRows := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		dataRows = append(dataRows, map[string]string{
			"Application ID": row.ID,
			"Scholarship":    row.ScholarshipTitle,
			"Sponsor":        row.SponsorName,
			"Amount":         fmt.Sprintf("%.2f %s", row.Amount, row.Currency),
			"Status":         string(row.Status),
			"Applied At":     row.AppliedAt.UTC().Format(time.RFC3339),
			"Reviewed At":    formatReportTime(row.ReviewedAt),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Application ID", "Scholarship", "Sponsor", "Amount", "Status", "Applied At", "Reviewed At"},
		Rows:    dataRows,
	}
	return dataset, "Applications Report", nil
}

func (s *ExportService) buildScholarshipsDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	var (
		rows []models.ScholarshipDetail
		err  error
	)
	if params.SponsorID != nil && *params.SponsorID != "" {
		rows, err = s.scholarships.ListBySponsor(ctx, *params.SponsorID)
	} else {
		rows, err = s.scholarships.ListActive(ctx)
	}
	if err != nil {
		return export.Dataset{}, "", err
	}
	dataRows := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		dataRows = append(dataRows, map[string]string{
			"Scholarship ID": row.ID,
			"Title":          row.Title,
			"Sponsor":        row.SponsorName,
			"Company":        row.SponsorCompany,
			"Amount":         fmt.Sprintf("%.2f %s", row.Amount, row.Currency),
			"Active":         fmt.Sprintf("%t", row.Active),
			"Deadline":       formatReportTime(row.Deadline),
			"Created At":     row.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	dataset := export.Dataset{
		Headers: []string{"Scholarship ID", "Title", "Sponsor", "Company", "Amount", "Active", "Deadline", "Created At"},
		Rows:    dataRows,
	}
	return dataset, "Scholarships Report", nil
}

func formatReportTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
