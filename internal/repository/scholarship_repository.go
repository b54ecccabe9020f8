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

// ScholarshipRepository manages persistence for scholarship records.
type ScholarshipRepository struct {
	db *sqlx.DB
}

// NewScholarshipRepository constructs a ScholarshipRepository.
func NewScholarshipRepository(db *sqlx.DB) *ScholarshipRepository {
	return &ScholarshipRepository{db: db}
}

const scholarshipDetailColumns = `s.id, s.sponsor_id, s.title, s.description, s.amount, s.currency,
        s.gender_criteria, s.family_income_max, s.location_type, s.min_academic_percentage, s.deadline,
        s.active, s.created_at, s.updated_at,
        sp.name AS sponsor_name, sp.company_name AS sponsor_company`

// Create inserts a new scholarship record.
func (r *ScholarshipRepository) Create(ctx context.Context, scholarship *models.Scholarship) error {
	if scholarship.ID == "" {
		scholarship.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if scholarship.CreatedAt.IsZero() {
		scholarship.CreatedAt = now
	}
	scholarship.UpdatedAt = now
	const query = `INSERT INTO scholarships (id, sponsor_id, title, description, amount, currency, gender_criteria,
        family_income_max, location_type, min_academic_percentage, deadline, active, created_at, updated_at)
        VALUES (:id, :sponsor_id, :title, :description, :amount, :currency, :gender_criteria,
        :family_income_max, :location_type, :min_academic_percentage, :deadline, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, scholarship); err != nil {
		return fmt.Errorf("create scholarship: %w", err)
	}
	return nil
}

// ListActive returns active scholarships joined with sponsor display fields,
// newest-created first.
func (r *ScholarshipRepository) ListActive(ctx context.Context) ([]models.ScholarshipDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM scholarships s
        JOIN sponsor_profiles sp ON sp.id = s.sponsor_id
        WHERE s.active = true
        ORDER BY s.created_at DESC`, scholarshipDetailColumns)
	var scholarships []models.ScholarshipDetail
	if err := r.db.SelectContext(ctx, &scholarships, query); err != nil {
		return nil, fmt.Errorf("list active scholarships: %w", err)
	}
	return scholarships, nil
}

// ListBySponsor returns all scholarships owned by the sponsor regardless of
// active state, newest-created first.
func (r *ScholarshipRepository) ListBySponsor(ctx context.Context, sponsorID string) ([]models.ScholarshipDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM scholarships s
        JOIN sponsor_profiles sp ON sp.id = s.sponsor_id
        WHERE s.sponsor_id = $1
        ORDER BY s.created_at DESC`, scholarshipDetailColumns)
	var scholarships []models.ScholarshipDetail
	if err := r.db.SelectContext(ctx, &scholarships, query, sponsorID); err != nil {
		return nil, fmt.Errorf("list sponsor scholarships: %w", err)
	}
	return scholarships, nil
}

// FindByID fetches a scholarship by identifier.
func (r *ScholarshipRepository) FindByID(ctx context.Context, id string) (*models.Scholarship, error) {
	const query = `SELECT id, sponsor_id, title, description, amount, currency, gender_criteria,
        family_income_max, location_type, min_academic_percentage, deadline, active, created_at, updated_at
        FROM scholarships WHERE id = $1`
	var scholarship models.Scholarship
	if err := r.db.GetContext(ctx, &scholarship, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find scholarship: %w", err)
	}
	return &scholarship, nil
}

// Deactivate flips the active flag off. Rows are never deleted.
func (r *ScholarshipRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE scholarships SET active = false, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate scholarship: %w", err)
	}
	return nil
}
