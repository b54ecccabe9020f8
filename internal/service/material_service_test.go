package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Zensha07/Edvance/internal/models"
	appErrors "github.com/Zensha07/Edvance/pkg/errors"
)

type mockMaterialRepo struct {
	created   *models.Material
	createErr error
	byID      *models.Material
	findErr   error
	materials []models.Material
	deleted   []string
}

func (m *mockMaterialRepo) Create(ctx context.Context, material *models.Material) error {
	if m.createErr != nil {
		return m.createErr
	}
	material.ID = "mat-1"
	m.created = material
	return nil
}

func (m *mockMaterialRepo) List(ctx context.Context, filter models.MaterialFilter) ([]models.Material, error) {
	return m.materials, nil
}

func (m *mockMaterialRepo) FindByID(ctx context.Context, id string) (*models.Material, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.byID, nil
}

func (m *mockMaterialRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockMaterialStore struct {
	saved   map[string][]byte
	saveErr error
	openErr error
	removed []string
}

func (m *mockMaterialStore) Save(filename string, data []byte) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	if m.saved == nil {
		m.saved = make(map[string][]byte)
	}
	m.saved[filename] = data
	return filename, nil
}

func (m *mockMaterialStore) Open(filename string) (*os.File, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	return os.CreateTemp("", "material*")
}

func (m *mockMaterialStore) Delete(filename string) error {
	m.removed = append(m.removed, filename)
	return nil
}

type mockDownloadSigner struct {
	token      string
	expiresAt  time.Time
	genErr     error
	resourceID string
	relPath    string
	parseErr   error
}

func (m *mockDownloadSigner) Generate(resourceID, relPath string) (string, time.Time, error) {
	if m.genErr != nil {
		return "", time.Time{}, m.genErr
	}
	return m.token, m.expiresAt, nil
}

func (m *mockDownloadSigner) Parse(token string, allowExpired bool) (string, string, time.Time, error) {
	if m.parseErr != nil {
		return "", "", time.Time{}, m.parseErr
	}
	return m.resourceID, m.relPath, m.expiresAt, nil
}

func TestMaterialServiceUpload(t *testing.T) {
	repo := &mockMaterialRepo{}
	store := &mockMaterialStore{}
	svc := NewMaterialService(repo, store, &mockDownloadSigner{}, validator.New(), zap.NewNop(), MaterialServiceConfig{})

	material, err := svc.Upload(context.Background(), "teacher-1", UploadMaterialRequest{
		Title:       "Algebra Notes",
		Kind:        models.MaterialKindNote,
		Filename:    "algebra.pdf",
		ContentType: "application/pdf",
		Data:        []byte("pdf bytes"),
	})
	require.NoError(t, err)

	assert.Equal(t, "teacher-1", material.OwnerID)
	assert.Contains(t, material.StoredPath, "materials/teacher-1/")
	assert.Len(t, store.saved, 1)
}

func TestMaterialServiceUploadEmptyFile(t *testing.T) {
	svc := NewMaterialService(&mockMaterialRepo{}, &mockMaterialStore{}, &mockDownloadSigner{}, validator.New(), zap.NewNop(), MaterialServiceConfig{})

	_, err := svc.Upload(context.Background(), "teacher-1", UploadMaterialRequest{
		Title:    "Empty",
		Kind:     models.MaterialKindNote,
		Filename: "empty.pdf",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestMaterialServiceUploadCleansOrphanOnRepoFailure(t *testing.T) {
	repo := &mockMaterialRepo{createErr: errors.New("insert failed")}
	store := &mockMaterialStore{}
	svc := NewMaterialService(repo, store, &mockDownloadSigner{}, validator.New(), zap.NewNop(), MaterialServiceConfig{})

	_, err := svc.Upload(context.Background(), "teacher-1", UploadMaterialRequest{
		Title:       "Algebra Notes",
		Kind:        models.MaterialKindNote,
		Filename:    "algebra.pdf",
		ContentType: "application/pdf",
		Data:        []byte("pdf bytes"),
	})
	require.Error(t, err)
	require.Len(t, store.removed, 1)
}

func TestMaterialServiceDownloadLink(t *testing.T) {
	repo := &mockMaterialRepo{byID: &models.Material{ID: "mat-1", StoredPath: "materials/teacher-1/1.pdf"}}
	signer := &mockDownloadSigner{token: "signed-token", expiresAt: time.Now().Add(30 * time.Minute)}
	svc := NewMaterialService(repo, &mockMaterialStore{}, signer, validator.New(), zap.NewNop(), MaterialServiceConfig{})

	link, err := svc.DownloadLink(context.Background(), "mat-1")
	require.NoError(t, err)
	assert.Equal(t, "mat-1", link.MaterialID)
	assert.Equal(t, "signed-token", link.Token)
}

func TestMaterialServiceDownloadTokenPathMismatch(t *testing.T) {
	repo := &mockMaterialRepo{byID: &models.Material{ID: "mat-1", StoredPath: "materials/teacher-1/1.pdf"}}
	signer := &mockDownloadSigner{resourceID: "mat-1", relPath: "materials/teacher-1/other.pdf"}
	svc := NewMaterialService(repo, &mockMaterialStore{}, signer, validator.New(), zap.NewNop(), MaterialServiceConfig{})

	_, _, err := svc.Download(context.Background(), "token")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestMaterialServiceDownload(t *testing.T) {
	repo := &mockMaterialRepo{byID: &models.Material{ID: "mat-1", StoredPath: "materials/teacher-1/1.pdf", Filename: "algebra.pdf"}}
	signer := &mockDownloadSigner{resourceID: "mat-1", relPath: "materials/teacher-1/1.pdf"}
	svc := NewMaterialService(repo, &mockMaterialStore{}, signer, validator.New(), zap.NewNop(), MaterialServiceConfig{})

	material, file, err := svc.Download(context.Background(), "token")
	require.NoError(t, err)
	defer func() {
		file.Close()
		os.Remove(file.Name())
	}()
	assert.Equal(t, "algebra.pdf", material.Filename)
}

func TestMaterialServiceDeleteOwnerOnly(t *testing.T) {
	repo := &mockMaterialRepo{byID: &models.Material{ID: "mat-1", OwnerID: "teacher-1", StoredPath: "materials/teacher-1/1.pdf"}}
	store := &mockMaterialStore{}
	svc := NewMaterialService(repo, store, &mockDownloadSigner{}, validator.New(), zap.NewNop(), MaterialServiceConfig{})

	err := svc.Delete(context.Background(), "teacher-2", models.RoleTeacher, "mat-1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Empty(t, repo.deleted)

	require.NoError(t, svc.Delete(context.Background(), "admin", models.RoleAdmin, "mat-1"))
	assert.Equal(t, []string{"mat-1"}, repo.deleted)
	assert.Equal(t, []string{"materials/teacher-1/1.pdf"}, store.removed)
}

func TestMaterialServiceDownloadLinkMissingMaterial(t *testing.T) {
	repo := &mockMaterialRepo{findErr: sql.ErrNoRows}
	svc := NewMaterialService(repo, &mockMaterialStore{}, &mockDownloadSigner{}, validator.New(), zap.NewNop(), MaterialServiceConfig{})

	_, err := svc.DownloadLink(context.Background(), "missing")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
