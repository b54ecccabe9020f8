package models

import "time"

// TeacherProfile holds a teacher's public profile, one row per user.
type TeacherProfile struct {
	ID            string    `db:"id" json:"id"`
	UserID        string    `db:"user_id" json:"user_id"`
	FullName      string    `db:"full_name" json:"full_name"`
	Qualification string    `db:"qualification" json:"qualification"`
	Institution   string    `db:"institution" json:"institution"`
	TeachingSince time.Time `db:"teaching_since" json:"teaching_since"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// StudentProfile holds a student's profile, one row per user. Its criteria
// fields double as defaults for scholarship eligibility queries.
type StudentProfile struct {
	ID                 string    `db:"id" json:"id"`
	UserID             string    `db:"user_id" json:"user_id"`
	FullName           string    `db:"full_name" json:"full_name"`
	Gender             string    `db:"gender" json:"gender"`
	FamilyIncome       float64   `db:"family_income" json:"family_income"`
	LocationType       string    `db:"location_type" json:"location_type"`
	AcademicPercentage float64   `db:"academic_percentage" json:"academic_percentage"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// SponsorProfile holds a sponsoring entity's profile, one row per user.
// Scholarships reference this profile as their owner.
type SponsorProfile struct {
	ID                  string    `db:"id" json:"id"`
	UserID              string    `db:"user_id" json:"user_id"`
	Name                string    `db:"name" json:"name"`
	CompanyName         string    `db:"company_name" json:"company_name"`
	GSTNumber           string    `db:"gst_number" json:"gst_number"`
	AnnualTurnover      float64   `db:"annual_turnover" json:"annual_turnover"`
	TaxRegistrationPath *string   `db:"tax_registration_path" json:"tax_registration_path,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}
