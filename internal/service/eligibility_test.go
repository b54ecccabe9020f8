package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Zensha07/Edvance/internal/models"
)

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestIsEligibleUnrestrictedScholarshipMatchesAnyone(t *testing.T) {
	s := models.Scholarship{Active: true}
	assert.True(t, IsEligible(s, models.StudentCriteria{}, MatchOptions{}))
	assert.True(t, IsEligible(s, models.StudentCriteria{Gender: "Female", FamilyIncome: 1, AcademicPercentage: 99}, MatchOptions{}))
}

func TestIsEligibleGenderAnyAlwaysPasses(t *testing.T) {
	s := models.Scholarship{GenderCriteria: strPtr(models.CriteriaAny)}
	assert.True(t, IsEligible(s, models.StudentCriteria{Gender: "Male"}, MatchOptions{}))
	assert.True(t, IsEligible(s, models.StudentCriteria{Gender: "Female"}, MatchOptions{}))
	assert.True(t, IsEligible(s, models.StudentCriteria{}, MatchOptions{}))

	restricted := models.Scholarship{GenderCriteria: strPtr("Female")}
	assert.True(t, IsEligible(restricted, models.StudentCriteria{Gender: models.CriteriaAny}, MatchOptions{}))
	assert.False(t, IsEligible(restricted, models.StudentCriteria{Gender: "Male"}, MatchOptions{}))
}

func TestIsEligibleAnyWildcardIgnoresCase(t *testing.T) {
	s := models.Scholarship{GenderCriteria: strPtr("any")}
	assert.True(t, IsEligible(s, models.StudentCriteria{Gender: "Male"}, MatchOptions{}))

	restricted := models.Scholarship{GenderCriteria: strPtr("Female")}
	assert.True(t, IsEligible(restricted, models.StudentCriteria{Gender: "ANY"}, MatchOptions{}))
	assert.False(t, IsEligible(restricted, models.StudentCriteria{Gender: "Male"}, MatchOptions{}))
}

func TestIsEligibleLocationTypeMatching(t *testing.T) {
	s := models.Scholarship{LocationType: strPtr("Rural")}
	assert.True(t, IsEligible(s, models.StudentCriteria{LocationType: "Rural"}, MatchOptions{}))
	assert.False(t, IsEligible(s, models.StudentCriteria{LocationType: "Urban"}, MatchOptions{}))
	assert.True(t, IsEligible(s, models.StudentCriteria{LocationType: models.CriteriaAny}, MatchOptions{}))
	assert.True(t, IsEligible(s, models.StudentCriteria{}, MatchOptions{}))
}

func TestIsEligibleIncomeComparisonLegacyDirection(t *testing.T) {
	s := models.Scholarship{FamilyIncomeMax: floatPtr(30000)}

	assert.True(t, IsEligible(s, models.StudentCriteria{FamilyIncome: 40000}, MatchOptions{}))
	assert.True(t, IsEligible(s, models.StudentCriteria{FamilyIncome: 30000}, MatchOptions{}))
	assert.False(t, IsEligible(s, models.StudentCriteria{FamilyIncome: 10000}, MatchOptions{}))
}

func TestIsEligiblePercentageComparisonLegacyDirection(t *testing.T) {
	s := models.Scholarship{MinAcademicPercentage: floatPtr(80)}

	assert.False(t, IsEligible(s, models.StudentCriteria{AcademicPercentage: 85}, MatchOptions{}))
	assert.True(t, IsEligible(s, models.StudentCriteria{AcademicPercentage: 80}, MatchOptions{}))
	assert.True(t, IsEligible(s, models.StudentCriteria{AcademicPercentage: 75}, MatchOptions{}))
}

func TestIsEligibleCorrectedComparisonsFlipDirections(t *testing.T) {
	opts := MatchOptions{CorrectedComparisons: true}

	income := models.Scholarship{FamilyIncomeMax: floatPtr(30000)}
	assert.True(t, IsEligible(income, models.StudentCriteria{FamilyIncome: 10000}, opts))
	assert.False(t, IsEligible(income, models.StudentCriteria{FamilyIncome: 40000}, opts))

	pct := models.Scholarship{MinAcademicPercentage: floatPtr(80)}
	assert.True(t, IsEligible(pct, models.StudentCriteria{AcademicPercentage: 85}, opts))
	assert.False(t, IsEligible(pct, models.StudentCriteria{AcademicPercentage: 75}, opts))
}

func TestFilterEligibleSortsByAmountDescending(t *testing.T) {
	scholarships := []models.ScholarshipDetail{
		{Scholarship: models.Scholarship{ID: "a", Amount: 500, Active: true}},
		{Scholarship: models.Scholarship{ID: "b", Amount: 2000, Active: true}},
		{Scholarship: models.Scholarship{ID: "c", Amount: 100, Active: true}},
	}

	result := FilterEligible(scholarships, models.StudentCriteria{}, MatchOptions{})

	ids := make([]string, 0, len(result))
	for _, s := range result {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"b", "a", "c"}, ids)
}

func TestFilterEligibleExcludesInactive(t *testing.T) {
	scholarships := []models.ScholarshipDetail{
		{Scholarship: models.Scholarship{ID: "active", Amount: 100, Active: true}},
		{Scholarship: models.Scholarship{ID: "inactive", Amount: 900, Active: false}},
	}

	result := FilterEligible(scholarships, models.StudentCriteria{}, MatchOptions{})

	assert.Len(t, result, 1)
	assert.Equal(t, "active", result[0].ID)
}

func TestFilterEligibleAppliesCriteria(t *testing.T) {
	scholarships := []models.ScholarshipDetail{
		{Scholarship: models.Scholarship{ID: "women-rural", Amount: 1000, Active: true, GenderCriteria: strPtr("Female"), LocationType: strPtr("Rural")}},
		{Scholarship: models.Scholarship{ID: "open", Amount: 500, Active: true, GenderCriteria: strPtr(models.CriteriaAny)}},
	}

	result := FilterEligible(scholarships, models.StudentCriteria{Gender: "Male", LocationType: "Rural"}, MatchOptions{})

	assert.Len(t, result, 1)
	assert.Equal(t, "open", result[0].ID)
}
