package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Zensha07/Edvance/internal/models"
	appErrors "github.com/Zensha07/Edvance/pkg/errors"
)

type materialRepository interface {
	Create(ctx context.Context, material *models.Material) error
	List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, error)
	FindByID(ctx context.Context, id string) (*models.Material, error)
	Delete(ctx context.Context, id string) error
}

type materialStore interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type downloadSigner interface {
	Generate(resourceID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (resourceID, relPath string, expiresAt time.Time, err error)
}

// UploadMaterialRequest holds an uploaded study material.
type UploadMaterialRequest struct {
	Title       string              `json:"title" validate:"required"`
	Kind        models.MaterialKind `json:"kind" validate:"required,oneof=NOTE VIDEO"`
	Filename    string              `json:"-"`
	ContentType string              `json:"-"`
	Data        []byte              `json:"-"`
}

// MaterialDownloadLink is a time-limited link for fetching a material.
type MaterialDownloadLink struct {
	MaterialID string    `json:"material_id"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// MaterialServiceConfig bounds material uploads.
type MaterialServiceConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
}

// MaterialService owns study material uploads, listing and downloads.
type MaterialService struct {
	repo      materialRepository
	storage   materialStore
	signer    downloadSigner
	validator *validator.Validate
	logger    *zap.Logger
	cfg       MaterialServiceConfig
}

// NewMaterialService constructs a MaterialService.
func NewMaterialService(repo materialRepository, storage materialStore, signer downloadSigner, validate *validator.Validate, logger *zap.Logger, cfg MaterialServiceConfig) *MaterialService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSizeBytes <= 0 {
		cfg.MaxFileSizeBytes = 100 << 20
	}
	return &MaterialService{repo: repo, storage: storage, signer: signer, validator: validate, logger: logger, cfg: cfg}
}

// Upload stores a new material owned by the acting teacher.
func (s *MaterialService) Upload(ctx context.Context, actorUserID string, req UploadMaterialRequest) (*models.Material, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid material payload")
	}
	if len(req.Data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "material file is empty")
	}
	if int64(len(req.Data)) > s.cfg.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, "material exceeds the maximum file size")
	}
	if !s.mimeAllowed(req.ContentType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file type %q is not allowed", req.ContentType))
	}

	storedPath := fmt.Sprintf("materials/%s/%d%s", actorUserID, time.Now().UTC().UnixNano(), filepath.Ext(req.Filename))
	if _, err := s.storage.Save(storedPath, req.Data); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store material")
	}

	material := &models.Material{
		OwnerID:    actorUserID,
		Title:      req.Title,
		Kind:       req.Kind,
		Filename:   req.Filename,
		StoredPath: storedPath,
		MimeType:   req.ContentType,
		SizeBytes:  int64(len(req.Data)),
	}
	if err := s.repo.Create(ctx, material); err != nil {
		if cleanupErr := s.storage.Delete(storedPath); cleanupErr != nil {
			s.logger.Warn("failed to remove orphaned material file", zap.Error(cleanupErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save material")
	}
	s.logger.Info("material uploaded", zap.String("material_id", material.ID), zap.String("kind", string(material.Kind)))
	return material, nil
}

// List returns materials matching the filter, newest first.
func (s *MaterialService) List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, error) {
	materials, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list materials")
	}
	return materials, nil
}

// DownloadLink issues a signed, expiring token for fetching a material.
func (s *MaterialService) DownloadLink(ctx context.Context, id string) (*MaterialDownloadLink, error) {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load material")
	}
	token, expiresAt, err := s.signer.Generate(material.ID, material.StoredPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download link")
	}
	return &MaterialDownloadLink{MaterialID: material.ID, Token: token, ExpiresAt: expiresAt}, nil
}

// Download resolves a signed token to the material record and an open file
// handle. The caller owns closing the file.
func (s *MaterialService) Download(ctx context.Context, token string) (*models.Material, *os.File, error) {
	resourceID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid download token")
	}
	material, err := s.repo.FindByID(ctx, resourceID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load material")
	}
	if material.StoredPath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "download token does not match the material")
	}
	file, err := s.storage.Open(material.StoredPath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open material file")
	}
	return material, file, nil
}

// Delete removes a material. Owners may delete their own uploads; admins
// may delete any.
func (s *MaterialService) Delete(ctx context.Context, actorUserID string, actorRole models.UserRole, id string) error {
	material, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "material not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load material")
	}
	if actorRole != models.RoleAdmin && material.OwnerID != actorUserID {
		return appErrors.ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete material")
	}
	if err := s.storage.Delete(material.StoredPath); err != nil {
		s.logger.Warn("failed to remove material file", zap.Error(err))
	}
	return nil
}

func (s *MaterialService) mimeAllowed(contentType string) bool {
	if len(s.cfg.AllowedMIMEs) == 0 {
		return true
	}
	for _, allowed := range s.cfg.AllowedMIMEs {
		if strings.EqualFold(strings.TrimSpace(allowed), contentType) {
			return true
		}
	}
	return false
}
