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

type mockScholarshipRepo struct {
	created       *models.Scholarship
	createErr     error
	active        []models.ScholarshipDetail
	listActiveErr error
	listCalls     int
	bySponsor     []models.ScholarshipDetail
	byID          *models.Scholarship
	findErr       error
	deactivated   []string
	deactivateErr error
}

func (m *mockScholarshipRepo) Create(ctx context.Context, scholarship *models.Scholarship) error {
	if m.createErr != nil {
		return m.createErr
	}
	scholarship.ID = "sch-1"
	m.created = scholarship
	return nil
}

func (m *mockScholarshipRepo) ListActive(ctx context.Context) ([]models.ScholarshipDetail, error) {
	m.listCalls++
	return m.active, m.listActiveErr
}

func (m *mockScholarshipRepo) ListBySponsor(ctx context.Context, sponsorID string) ([]models.ScholarshipDetail, error) {
	return m.bySponsor, nil
}

func (m *mockScholarshipRepo) FindByID(ctx context.Context, id string) (*models.Scholarship, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.byID, nil
}

func (m *mockScholarshipRepo) Deactivate(ctx context.Context, id string) error {
	if m.deactivateErr != nil {
		return m.deactivateErr
	}
	m.deactivated = append(m.deactivated, id)
	return nil
}

type mockCatalogCache struct {
	stored  []models.ScholarshipDetail
	hasData bool
	sets    int
	deletes int
}

func (m *mockCatalogCache) Get(ctx context.Context, key string, dest interface{}) error {
	if !m.hasData {
		return appErrors.ErrCacheMiss
	}
	data, err := json.Marshal(m.stored)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

func (m *mockCatalogCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.sets++
	return nil
}

func (m *mockCatalogCache) Delete(ctx context.Context, key string) error {
	m.deletes++
	return nil
}

type mockCacheMetrics struct {
	hits   int
	misses int
}

func (m *mockCacheMetrics) CacheHit()  { m.hits++ }
func (m *mockCacheMetrics) CacheMiss() { m.misses++ }

func TestScholarshipServiceCreateDefaultsCurrency(t *testing.T) {
	repo := &mockScholarshipRepo{}
	resolver := &mockSponsorResolver{sponsor: &models.SponsorProfile{ID: "sponsor-1", UserID: "user-1"}}
	svc := NewScholarshipService(repo, resolver, nil, nil, validator.New(), zap.NewNop(), ScholarshipServiceConfig{})

	scholarship, err := svc.Create(context.Background(), "user-1", CreateScholarshipRequest{Title: "Merit Grant", Amount: 5000})
	require.NoError(t, err)

	assert.Equal(t, models.DefaultCurrency, scholarship.Currency)
	assert.Equal(t, "sponsor-1", scholarship.SponsorID)
	assert.True(t, scholarship.Active)
}

func TestScholarshipServiceCreateRequiresSponsorProfile(t *testing.T) {
	repo := &mockScholarshipRepo{}
	resolver := &mockSponsorResolver{err: sql.ErrNoRows}
	svc := NewScholarshipService(repo, resolver, nil, nil, validator.New(), zap.NewNop(), ScholarshipServiceConfig{})

	_, err := svc.Create(context.Background(), "user-1", CreateScholarshipRequest{Title: "Merit Grant", Amount: 5000})
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Nil(t, repo.created)
}

func TestScholarshipServiceCreateInvalidatesCache(t *testing.T) {
	repo := &mockScholarshipRepo{}
	resolver := &mockSponsorResolver{sponsor: &models.SponsorProfile{ID: "sponsor-1", UserID: "user-1"}}
	cache := &mockCatalogCache{}
	svc := NewScholarshipService(repo, resolver, cache, nil, validator.New(), zap.NewNop(), ScholarshipServiceConfig{})

	_, err := svc.Create(context.Background(), "user-1", CreateScholarshipRequest{Title: "Merit Grant", Amount: 5000})
	require.NoError(t, err)

	assert.Equal(t, 1, cache.deletes)
}

func TestScholarshipServiceListActiveCacheHitSkipsRepo(t *testing.T) {
	repo := &mockScholarshipRepo{}
	cache := &mockCatalogCache{
		hasData: true,
		stored:  []models.ScholarshipDetail{{Scholarship: models.Scholarship{ID: "cached-1", Title: "Cached Grant"}}},
	}
	metrics := &mockCacheMetrics{}
	svc := NewScholarshipService(repo, &mockSponsorResolver{}, cache, metrics, validator.New(), zap.NewNop(), ScholarshipServiceConfig{})

	scholarships, err := svc.ListActive(context.Background())
	require.NoError(t, err)

	require.Len(t, scholarships, 1)
	assert.Equal(t, "cached-1", scholarships[0].ID)
	assert.Zero(t, repo.listCalls)
	assert.Equal(t, 1, metrics.hits)
}

func TestScholarshipServiceListActiveCacheMissFillsCache(t *testing.T) {
	repo := &mockScholarshipRepo{active: []models.ScholarshipDetail{{Scholarship: models.Scholarship{ID: "db-1"}}}}
	cache := &mockCatalogCache{}
	metrics := &mockCacheMetrics{}
	svc := NewScholarshipService(repo, &mockSponsorResolver{}, cache, metrics, validator.New(), zap.NewNop(), ScholarshipServiceConfig{})

	scholarships, err := svc.ListActive(context.Background())
	require.NoError(t, err)

	require.Len(t, scholarships, 1)
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 1, metrics.misses)
}

func TestScholarshipServiceListMineWithoutProfileIsEmpty(t *testing.T) {
	repo := &mockScholarshipRepo{bySponsor: []models.ScholarshipDetail{{Scholarship: models.Scholarship{ID: "sch-1"}}}}
	resolver := &mockSponsorResolver{err: sql.ErrNoRows}
	svc := NewScholarshipService(repo, resolver, nil, nil, validator.New(), zap.NewNop(), ScholarshipServiceConfig{})

	scholarships, err := svc.ListMine(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Empty(t, scholarships)
}

func TestScholarshipServiceDeactivateOwnershipEnforced(t *testing.T) {
	repo := &mockScholarshipRepo{byID: &models.Scholarship{ID: "sch-1", SponsorID: "sponsor-owner"}}
	resolver := &mockSponsorResolver{sponsor: &models.SponsorProfile{ID: "sponsor-other", UserID: "user-2"}}
	svc := NewScholarshipService(repo, resolver, nil, nil, validator.New(), zap.NewNop(), ScholarshipServiceConfig{})

	err := svc.Deactivate(context.Background(), "user-2", models.RoleSponsor, "sch-1")
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Empty(t, repo.deactivated)
}

func TestScholarshipServiceDeactivateAdminBypassesOwnership(t *testing.T) {
	repo := &mockScholarshipRepo{byID: &models.Scholarship{ID: "sch-1", SponsorID: "sponsor-owner"}}
	cache := &mockCatalogCache{}
	svc := NewScholarshipService(repo, &mockSponsorResolver{err: sql.ErrNoRows}, cache, nil, validator.New(), zap.NewNop(), ScholarshipServiceConfig{})

	err := svc.Deactivate(context.Background(), "admin-1", models.RoleAdmin, "sch-1")
	require.NoError(t, err)

	assert.Equal(t, []string{"sch-1"}, repo.deactivated)
	assert.Equal(t, 1, cache.deletes)
}

func TestScholarshipServiceDeactivateMissingScholarship(t *testing.T) {
	repo := &mockScholarshipRepo{findErr: sql.ErrNoRows}
	svc := NewScholarshipService(repo, &mockSponsorResolver{}, nil, nil, validator.New(), zap.NewNop(), ScholarshipServiceConfig{})

	err := svc.Deactivate(context.Background(), "admin-1", models.RoleAdmin, "missing")
	require.Error(t, err)

	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
