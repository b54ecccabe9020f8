package models

import (
	"encoding/json"
	"time"
)

// ApplicationStatus captures an application's lifecycle state. Accepted and
// rejected are terminal by convention only; the update operation will
// overwrite any status, including a revert to pending.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// ValidApplicationStatus reports whether s is a known lifecycle state.
func ValidApplicationStatus(s ApplicationStatus) bool {
	switch s {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	default:
		return false
	}
}

// Application is a student's submission against one scholarship. StudentData
// is an opaque JSON payload preserved byte for byte.
type Application struct {
	ID            string            `db:"id" json:"id"`
	ScholarshipID string            `db:"scholarship_id" json:"scholarship_id"`
	StudentID     string            `db:"student_id" json:"student_id"`
	StudentData   json.RawMessage   `db:"student_data" json:"student_data"`
	Message       string            `db:"message" json:"message"`
	Status        ApplicationStatus `db:"status" json:"status"`
	AppliedAt     time.Time         `db:"applied_at" json:"applied_at"`
	ReviewedAt    *time.Time        `db:"reviewed_at" json:"reviewed_at,omitempty"`
}

// ApplicationDetail joins an application with scholarship and sponsor
// display data for the review listing.
type ApplicationDetail struct {
	Application
	ScholarshipTitle string  `db:"scholarship_title" json:"scholarship_title"`
	Amount           float64 `db:"amount" json:"amount"`
	Currency         string  `db:"currency" json:"currency"`
	SponsorName      string  `db:"sponsor_name" json:"sponsor_name"`
	SponsorCompany   string  `db:"sponsor_company" json:"sponsor_company"`
}
