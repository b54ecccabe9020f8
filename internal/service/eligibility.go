package service

import (
	"sort"
	"strings"

	"github.com/Zensha07/Edvance/internal/models"
)

// MatchOptions tunes the eligibility comparison rules.
//
// The legacy platform compared family income and academic percentage in a
// direction that reads inverted relative to the field names: a student is
// eligible when income >= the "max" and percentage <= the "min". That
// behaviour is kept as the default for parity. CorrectedComparisons flips
// both dimensions to the meets-threshold reading.
type MatchOptions struct {
	CorrectedComparisons bool
}

// IsEligible decides whether a student's criteria satisfy a scholarship's
// restrictions. Pure: no side effects, no storage access. All supplied
// dimensions are ANDed; an unset dimension on either side passes.
func IsEligible(s models.Scholarship, c models.StudentCriteria, opts MatchOptions) bool {
	if !matchEnum(s.GenderCriteria, c.Gender) {
		return false
	}
	if !matchEnum(s.LocationType, c.LocationType) {
		return false
	}
	if s.FamilyIncomeMax != nil {
		if opts.CorrectedComparisons {
			if c.FamilyIncome > *s.FamilyIncomeMax {
				return false
			}
		} else if c.FamilyIncome < *s.FamilyIncomeMax {
			return false
		}
	}
	if s.MinAcademicPercentage != nil {
		if opts.CorrectedComparisons {
			if c.AcademicPercentage < *s.MinAcademicPercentage {
				return false
			}
		} else if c.AcademicPercentage > *s.MinAcademicPercentage {
			return false
		}
	}
	return true
}

// matchEnum implements the shared gender/location rule: the restriction only
// activates when both sides supply a concrete value. The "Any" wildcard is
// recognised case-insensitively on either side.
func matchEnum(restriction *string, supplied string) bool {
	if restriction == nil || *restriction == "" || strings.EqualFold(*restriction, models.CriteriaAny) {
		return true
	}
	if supplied == "" || strings.EqualFold(supplied, models.CriteriaAny) {
		return true
	}
	return *restriction == supplied
}

// FilterEligible keeps scholarships the criteria qualify for, stably sorted
// by amount descending. Callers pass active scholarships only; the filter
// itself never resurrects an inactive record.
func FilterEligible(scholarships []models.ScholarshipDetail, c models.StudentCriteria, opts MatchOptions) []models.ScholarshipDetail {
	eligible := make([]models.ScholarshipDetail, 0, len(scholarships))
	for _, s := range scholarships {
		if !s.Active {
			continue
		}
		if IsEligible(s.Scholarship, c, opts) {
			eligible = append(eligible, s)
		}
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Amount > eligible[j].Amount
	})
	return eligible
}
