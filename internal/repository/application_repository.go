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

// ApplicationRepository manages persistence for scholarship applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs an ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts an application after verifying the referenced scholarship
// exists and is active. Both statements run in one transaction so the
// scholarship cannot be deactivated between the check and the insert.
// Returns sql.ErrNoRows when the scholarship is missing or inactive.
func (r *ApplicationRepository) Create(ctx context.Context, application *models.Application) error {
	if application.ID == "" {
		application.ID = uuid.NewString()
	}
	if application.AppliedAt.IsZero() {
		application.AppliedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin apply tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var scholarshipID string
	const checkQuery = `SELECT id FROM scholarships WHERE id = $1 AND active = true FOR UPDATE`
	if err := tx.GetContext(ctx, &scholarshipID, checkQuery, application.ScholarshipID); err != nil {
		if err == sql.ErrNoRows {
			return err
		}
		return fmt.Errorf("check scholarship: %w", err)
	}

	const insertQuery = `INSERT INTO applications (id, scholarship_id, student_id, student_data, message, status, applied_at)
        VALUES (:id, :scholarship_id, :student_id, :student_data, :message, :status, :applied_at)`
	if _, err := tx.NamedExecContext(ctx, insertQuery, application); err != nil {
		return fmt.Errorf("create application: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit apply tx: %w", err)
	}
	return nil
}

const applicationDetailQuery = `SELECT a.id, a.scholarship_id, a.student_id, a.student_data, a.message, a.status, a.applied_at, a.reviewed_at,
        s.title AS scholarship_title, s.amount, s.currency,
        sp.name AS sponsor_name, sp.company_name AS sponsor_company
        FROM applications a
        JOIN scholarships s ON s.id = a.scholarship_id
        JOIN sponsor_profiles sp ON sp.id = s.sponsor_id`

// ListWithDetails returns applications joined with scholarship and sponsor
// display data, most recent first.
func (r *ApplicationRepository) ListWithDetails(ctx context.Context) ([]models.ApplicationDetail, error) {
	query := applicationDetailQuery + ` ORDER BY a.applied_at DESC`
	var applications []models.ApplicationDetail
	if err := r.db.SelectContext(ctx, &applications, query); err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return applications, nil
}

// ListWithDetailsForSponsor scopes the detail listing to one sponsor's
// scholarships.
func (r *ApplicationRepository) ListWithDetailsForSponsor(ctx context.Context, sponsorID string) ([]models.ApplicationDetail, error) {
	query := applicationDetailQuery + ` WHERE s.sponsor_id = $1 ORDER BY a.applied_at DESC`
	var applications []models.ApplicationDetail
	if err := r.db.SelectContext(ctx, &applications, query, sponsorID); err != nil {
		return nil, fmt.Errorf("list sponsor applications: %w", err)
	}
	return applications, nil
}

// FindByID fetches a single application.
func (r *ApplicationRepository) FindByID(ctx context.Context, id string) (*models.Application, error) {
	const query = `SELECT id, scholarship_id, student_id, student_data, message, status, applied_at, reviewed_at
        FROM applications WHERE id = $1`
	var application models.Application
	if err := r.db.GetContext(ctx, &application, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find application: %w", err)
	}
	return &application, nil
}

// UpdateStatus overwrites the status and stamps reviewed_at. The write is
// unconditional on the current status; terminal states are soft. Returns
// sql.ErrNoRows when no application matches the id.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id string, status models.ApplicationStatus, reviewedAt time.Time) error {
	const query = `UPDATE applications SET status = $2, reviewed_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, status, reviewedAt)
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
