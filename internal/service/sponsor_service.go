package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Zensha07/Edvance/internal/models"
	appErrors "github.com/Zensha07/Edvance/pkg/errors"
)

type sponsorProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.SponsorProfile, error)
	FindByID(ctx context.Context, id string) (*models.SponsorProfile, error)
	Upsert(ctx context.Context, profile *models.SponsorProfile) error
}

type fileStore interface {
	Save(filename string, data []byte) (string, error)
	Delete(filename string) error
}

// UpsertSponsorProfileRequest holds a sponsor's profile payload. The tax
// registration document arrives separately as a multipart file.
type UpsertSponsorProfileRequest struct {
	Name           string  `json:"name" validate:"required"`
	CompanyName    string  `json:"company_name" validate:"required"`
	GSTNumber      string  `json:"gst_number" validate:"required"`
	AnnualTurnover float64 `json:"annual_turnover" validate:"gte=0"`
}

// TaxDocumentUpload carries the optional tax registration PDF.
type TaxDocumentUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SponsorServiceConfig bounds uploaded tax documents.
type SponsorServiceConfig struct {
	MaxFileSizeBytes int64
}

// SponsorService manages sponsor profiles and their tax registration
// documents.
type SponsorService struct {
	repo      sponsorProfileRepository
	storage   fileStore
	validator *validator.Validate
	logger    *zap.Logger
	cfg       SponsorServiceConfig
	now       func() time.Time
}

// NewSponsorService constructs a SponsorService.
func NewSponsorService(repo sponsorProfileRepository, storage fileStore, validate *validator.Validate, logger *zap.Logger, cfg SponsorServiceConfig) *SponsorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSizeBytes <= 0 {
		cfg.MaxFileSizeBytes = 10 << 20
	}
	return &SponsorService{repo: repo, storage: storage, validator: validate, logger: logger, cfg: cfg, now: func() time.Time { return time.Now().UTC() }}
}

// Upsert creates or replaces the acting sponsor's profile. A nil document
// keeps any previously uploaded tax registration file.
func (s *SponsorService) Upsert(ctx context.Context, actorUserID string, req UpsertSponsorProfileRequest, doc *TaxDocumentUpload) (*models.SponsorProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sponsor profile payload")
	}

	profile := &models.SponsorProfile{
		UserID:         actorUserID,
		Name:           req.Name,
		CompanyName:    req.CompanyName,
		GSTNumber:      req.GSTNumber,
		AnnualTurnover: req.AnnualTurnover,
	}

	if doc != nil {
		stored, err := s.storeTaxDocument(actorUserID, doc)
		if err != nil {
			return nil, err
		}
		profile.TaxRegistrationPath = &stored
	}

	if err := s.repo.Upsert(ctx, profile); err != nil {
		if profile.TaxRegistrationPath != nil {
			if cleanupErr := s.storage.Delete(*profile.TaxRegistrationPath); cleanupErr != nil {
				s.logger.Warn("failed to remove orphaned tax document", zap.Error(cleanupErr))
			}
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save sponsor profile")
	}

	if profile.TaxRegistrationPath == nil {
		// The COALESCE in the upsert keeps the old path; reflect it back.
		stored, err := s.repo.FindByUserID(ctx, actorUserID)
		if err == nil {
			profile.TaxRegistrationPath = stored.TaxRegistrationPath
		}
	}
	return profile, nil
}

// Get returns the acting sponsor's profile.
func (s *SponsorService) Get(ctx context.Context, actorUserID string) (*models.SponsorProfile, error) {
	profile, err := s.repo.FindByUserID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "sponsor profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load sponsor profile")
	}
	return profile, nil
}

func (s *SponsorService) storeTaxDocument(actorUserID string, doc *TaxDocumentUpload) (string, error) {
	if int64(len(doc.Data)) > s.cfg.MaxFileSizeBytes {
		return "", appErrors.Clone(appErrors.ErrValidation, "tax document exceeds the maximum file size")
	}
	if !isPDF(doc) {
		return "", appErrors.Clone(appErrors.ErrValidation, "tax document must be a PDF")
	}
	filename := fmt.Sprintf("sponsors/%s/tax-registration-%d.pdf", actorUserID, s.now().UnixNano())
	stored, err := s.storage.Save(filename, doc.Data)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store tax document")
	}
	return stored, nil
}

func isPDF(doc *TaxDocumentUpload) bool {
	if strings.EqualFold(doc.ContentType, "application/pdf") {
		return true
	}
	return strings.EqualFold(filepath.Ext(doc.Filename), ".pdf")
}
