package models

import "time"

// DefaultCurrency is applied when a scholarship is created without one.
const DefaultCurrency = "INR"

// CriteriaAny is the sentinel meaning a criteria dimension places no
// restriction on applicants.
const CriteriaAny = "Any"

// Scholarship is a sponsor-funded award with optional eligibility criteria
// and an active visibility flag. Deactivation is the removal path; rows are
// never physically deleted.
type Scholarship struct {
	ID                    string     `db:"id" json:"id"`
	SponsorID             string     `db:"sponsor_id" json:"sponsor_id"`
	Title                 string     `db:"title" json:"title"`
	Description           string     `db:"description" json:"description"`
	Amount                float64    `db:"amount" json:"amount"`
	Currency              string     `db:"currency" json:"currency"`
	GenderCriteria        *string    `db:"gender_criteria" json:"gender_criteria,omitempty"`
	FamilyIncomeMax       *float64   `db:"family_income_max" json:"family_income_max,omitempty"`
	LocationType          *string    `db:"location_type" json:"location_type,omitempty"`
	MinAcademicPercentage *float64   `db:"min_academic_percentage" json:"min_academic_percentage,omitempty"`
	Deadline              *time.Time `db:"deadline" json:"deadline,omitempty"`
	Active                bool       `db:"active" json:"active"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}

// ScholarshipDetail joins a scholarship with its sponsor's display fields.
type ScholarshipDetail struct {
	Scholarship
	SponsorName    string `db:"sponsor_name" json:"sponsor_name"`
	SponsorCompany string `db:"sponsor_company" json:"sponsor_company"`
}

// StudentCriteria is the per-request matching tuple. It is never persisted;
// callers supply it on each eligibility query.
type StudentCriteria struct {
	Gender             string  `json:"gender"`
	FamilyIncome       float64 `json:"family_income"`
	LocationType       string  `json:"location_type"`
	AcademicPercentage float64 `json:"academic_percentage"`
}
