package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Zensha07/Edvance/internal/models"
	appErrors "github.com/Zensha07/Edvance/pkg/errors"
)

const activeScholarshipsCacheKey = "scholarships:active"

type scholarshipRepository interface {
	Create(ctx context.Context, scholarship *models.Scholarship) error
	ListActive(ctx context.Context) ([]models.ScholarshipDetail, error)
	ListBySponsor(ctx context.Context, sponsorID string) ([]models.ScholarshipDetail, error)
	FindByID(ctx context.Context, id string) (*models.Scholarship, error)
	Deactivate(ctx context.Context, id string) error
}

type sponsorResolver interface {
	FindByUserID(ctx context.Context, userID string) (*models.SponsorProfile, error)
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type cacheMetrics interface {
	CacheHit()
	CacheMiss()
}

// CreateScholarshipRequest holds payload for creating scholarships.
type CreateScholarshipRequest struct {
	Title                 string     `json:"title" validate:"required"`
	Description           string     `json:"description"`
	Amount                float64    `json:"amount" validate:"gte=0"`
	Currency              string     `json:"currency"`
	GenderCriteria        *string    `json:"gender_criteria"`
	FamilyIncomeMax       *float64   `json:"family_income_max"`
	LocationType          *string    `json:"location_type"`
	MinAcademicPercentage *float64   `json:"min_academic_percentage"`
	Deadline              *time.Time `json:"deadline"`
}

// ScholarshipServiceConfig tunes matching and caching behaviour.
type ScholarshipServiceConfig struct {
	Match    MatchOptions
	CacheTTL time.Duration
}

// ScholarshipService owns the scholarship catalog and eligibility queries.
type ScholarshipService struct {
	repo      scholarshipRepository
	sponsors  sponsorResolver
	cache     catalogCache
	metrics   cacheMetrics
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ScholarshipServiceConfig
}

// NewScholarshipService constructs the scholarship service.
func NewScholarshipService(repo scholarshipRepository, sponsors sponsorResolver, cache catalogCache, metrics cacheMetrics, validate *validator.Validate, logger *zap.Logger, cfg ScholarshipServiceConfig) *ScholarshipService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &ScholarshipService{repo: repo, sponsors: sponsors, cache: cache, metrics: metrics, validator: validate, logger: logger, cfg: cfg}
}

// Create registers a new scholarship owned by the acting sponsor. The actor
// must have a sponsor profile; there is no fallback owner.
func (s *ScholarshipService) Create(ctx context.Context, actorUserID string, req CreateScholarshipRequest) (*models.Scholarship, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid scholarship payload")
	}
	sponsor, err := s.sponsors.FindByUserID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "sponsor profile required before creating scholarships")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve sponsor")
	}

	currency := req.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	scholarship := &models.Scholarship{
		SponsorID:             sponsor.ID,
		Title:                 req.Title,
		Description:           req.Description,
		Amount:                req.Amount,
		Currency:              currency,
		GenderCriteria:        req.GenderCriteria,
		FamilyIncomeMax:       req.FamilyIncomeMax,
		LocationType:          req.LocationType,
		MinAcademicPercentage: req.MinAcademicPercentage,
		Deadline:              req.Deadline,
		Active:                true,
	}
	if err := s.repo.Create(ctx, scholarship); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create scholarship")
	}
	s.invalidateActiveCache(ctx)
	return scholarship, nil
}

// ListActive returns active scholarships, newest first, via the cache when
// it holds a fresh copy.
func (s *ScholarshipService) ListActive(ctx context.Context) ([]models.ScholarshipDetail, error) {
	if s.cache != nil {
		var cached []models.ScholarshipDetail
		if err := s.cache.Get(ctx, activeScholarshipsCacheKey, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.CacheHit()
			}
			return cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("scholarship cache read failed", zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.CacheMiss()
		}
	}

	scholarships, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scholarships")
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, activeScholarshipsCacheKey, scholarships, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("scholarship cache write failed", zap.Error(err))
		}
	}
	return scholarships, nil
}

// ListEligible filters the active catalog by the supplied criteria and
// orders the result by amount descending.
func (s *ScholarshipService) ListEligible(ctx context.Context, criteria models.StudentCriteria) ([]models.ScholarshipDetail, error) {
	active, err := s.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return FilterEligible(active, criteria, s.cfg.Match), nil
}

// ListMine returns all scholarships owned by the acting sponsor, including
// deactivated ones.
func (s *ScholarshipService) ListMine(ctx context.Context, actorUserID string) ([]models.ScholarshipDetail, error) {
	sponsor, err := s.sponsors.FindByUserID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return []models.ScholarshipDetail{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve sponsor")
	}
	scholarships, err := s.repo.ListBySponsor(ctx, sponsor.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list scholarships")
	}
	return scholarships, nil
}

// Deactivate hides a scholarship from the catalog. Sponsors may deactivate
// only their own records; admins may deactivate any.
func (s *ScholarshipService) Deactivate(ctx context.Context, actorUserID string, actorRole models.UserRole, id string) error {
	scholarship, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "scholarship not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scholarship")
	}
	if actorRole != models.RoleAdmin {
		sponsor, err := s.sponsors.FindByUserID(ctx, actorUserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.ErrForbidden
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve sponsor")
		}
		if sponsor.ID != scholarship.SponsorID {
			return appErrors.ErrForbidden
		}
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate scholarship")
	}
	s.invalidateActiveCache(ctx)
	return nil
}

func (s *ScholarshipService) invalidateActiveCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, activeScholarshipsCacheKey); err != nil {
		s.logger.Warn("scholarship cache invalidation failed", zap.Error(err))
	}
}
