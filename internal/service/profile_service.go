package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Zensha07/Edvance/internal/models"
	appErrors "github.com/Zensha07/Edvance/pkg/errors"
)

type teacherProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.TeacherProfile, error)
	Upsert(ctx context.Context, profile *models.TeacherProfile) error
}

type studentProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.StudentProfile, error)
	Upsert(ctx context.Context, profile *models.StudentProfile) error
}

// UpsertTeacherProfileRequest holds a teacher's profile payload. Saving is
// idempotent per user; a second save replaces the first.
type UpsertTeacherProfileRequest struct {
	FullName      string    `json:"full_name" validate:"required"`
	Qualification string    `json:"qualification" validate:"required"`
	Institution   string    `json:"institution" validate:"required"`
	TeachingSince time.Time `json:"teaching_since" validate:"required"`
}

// UpsertStudentProfileRequest holds a student's profile payload. The
// criteria fields feed scholarship eligibility queries.
type UpsertStudentProfileRequest struct {
	FullName           string  `json:"full_name" validate:"required"`
	Gender             string  `json:"gender" validate:"required"`
	FamilyIncome       float64 `json:"family_income" validate:"gte=0"`
	LocationType       string  `json:"location_type" validate:"required"`
	AcademicPercentage float64 `json:"academic_percentage" validate:"gte=0,lte=100"`
}

// ProfileService manages teacher and student profiles. Every operation acts
// on the authenticated user's own row.
type ProfileService struct {
	teachers  teacherProfileRepository
	students  studentProfileRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(teachers teacherProfileRepository, students studentProfileRepository, validate *validator.Validate, logger *zap.Logger) *ProfileService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{teachers: teachers, students: students, validator: validate, logger: logger}
}

// UpsertTeacher creates or replaces the acting teacher's profile.
func (s *ProfileService) UpsertTeacher(ctx context.Context, actorUserID string, req UpsertTeacherProfileRequest) (*models.TeacherProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher profile payload")
	}
	profile := &models.TeacherProfile{
		UserID:        actorUserID,
		FullName:      req.FullName,
		Qualification: req.Qualification,
		Institution:   req.Institution,
		TeachingSince: req.TeachingSince,
	}
	if err := s.teachers.Upsert(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save teacher profile")
	}
	return profile, nil
}

// GetTeacher returns the acting teacher's profile.
func (s *ProfileService) GetTeacher(ctx context.Context, actorUserID string) (*models.TeacherProfile, error) {
	profile, err := s.teachers.FindByUserID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher profile")
	}
	return profile, nil
}

// UpsertStudent creates or replaces the acting student's profile.
func (s *ProfileService) UpsertStudent(ctx context.Context, actorUserID string, req UpsertStudentProfileRequest) (*models.StudentProfile, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student profile payload")
	}
	profile := &models.StudentProfile{
		UserID:             actorUserID,
		FullName:           req.FullName,
		Gender:             req.Gender,
		FamilyIncome:       req.FamilyIncome,
		LocationType:       req.LocationType,
		AcademicPercentage: req.AcademicPercentage,
	}
	if err := s.students.Upsert(ctx, profile); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save student profile")
	}
	return profile, nil
}

// GetStudent returns the acting student's profile.
func (s *ProfileService) GetStudent(ctx context.Context, actorUserID string) (*models.StudentProfile, error) {
	profile, err := s.students.FindByUserID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student profile")
	}
	return profile, nil
}

// CriteriaForStudent resolves a student's saved criteria for eligibility
// queries. A missing profile yields empty criteria rather than an error so
// unrestricted scholarships still match.
func (s *ProfileService) CriteriaForStudent(ctx context.Context, actorUserID string) (models.StudentCriteria, error) {
	profile, err := s.students.FindByUserID(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StudentCriteria{}, nil
		}
		return models.StudentCriteria{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student profile")
	}
	return models.StudentCriteria{
		Gender:             profile.Gender,
		FamilyIncome:       profile.FamilyIncome,
		LocationType:       profile.LocationType,
		AcademicPercentage: profile.AcademicPercentage,
	}, nil
}
