package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/Zensha07/Edvance/internal/models"
)

// SponsorRepository manages persistence for sponsor profiles.
type SponsorRepository struct {
	db *sqlx.DB
}

// NewSponsorRepository constructs a SponsorRepository.
func NewSponsorRepository(db *sqlx.DB) *SponsorRepository {
	return &SponsorRepository{db: db}
}

// FindByUserID fetches the sponsor profile owned by the given user.
func (r *SponsorRepository) FindByUserID(ctx context.Context, userID string) (*models.SponsorProfile, error) {
	const query = `SELECT id, user_id, name, company_name, gst_number, annual_turnover, tax_registration_path, created_at, updated_at
        FROM sponsor_profiles WHERE user_id = $1 LIMIT 1`
	var profile models.SponsorProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find sponsor profile by user: %w", err)
	}
	return &profile, nil
}

// FindByID fetches a sponsor profile by its identifier.
func (r *SponsorRepository) FindByID(ctx context.Context, id string) (*models.SponsorProfile, error) {
	const query = `SELECT id, user_id, name, company_name, gst_number, annual_turnover, tax_registration_path, created_at, updated_at
        FROM sponsor_profiles WHERE id = $1 LIMIT 1`
	var profile models.SponsorProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find sponsor profile: %w", err)
	}
	return &profile, nil
}

// Upsert inserts or replaces the sponsor profile keyed by user_id.
func (r *SponsorRepository) Upsert(ctx context.Context, profile *models.SponsorProfile) error {
	if profile.ID == "" {
		profile.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now
	const query = `INSERT INTO sponsor_profiles (id, user_id, name, company_name, gst_number, annual_turnover, tax_registration_path, created_at, updated_at)
        VALUES (:id, :user_id, :name, :company_name, :gst_number, :annual_turnover, :tax_registration_path, :created_at, :updated_at)
        ON CONFLICT (user_id) DO UPDATE SET
            name = EXCLUDED.name,
            company_name = EXCLUDED.company_name,
            gst_number = EXCLUDED.gst_number,
            annual_turnover = EXCLUDED.annual_turnover,
            tax_registration_path = COALESCE(EXCLUDED.tax_registration_path, sponsor_profiles.tax_registration_path),
            updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, profile); err != nil {
		return fmt.Errorf("upsert sponsor profile: %w", err)
	}
	return nil
}
