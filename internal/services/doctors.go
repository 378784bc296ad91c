package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"taskclinic/backend/internal/apperrors"
	"taskclinic/backend/internal/filters"
	"taskclinic/backend/internal/models"
	"taskclinic/backend/internal/repositories"

	"github.com/gofrs/uuid"
)

const doctorProfileResource = "doctor profile"

var errProfileExists = apperrors.Validation("profile already exists")

type DoctorService struct {
	profiles repositories.DoctorProfileRepository
	users    repositories.UserRepository
	now      Clock
}

func NewDoctorService(profiles repositories.DoctorProfileRepository, users repositories.UserRepository, clock Clock) *DoctorService {
	if clock == nil {
		clock = SystemClock
	}
	return &DoctorService{profiles: profiles, users: users, now: clock}
}

func (s *DoctorService) List(ctx context.Context, params models.DoctorParams) ([]models.DoctorProfile, error) {
	q, err := filters.ForDoctors(params)
	if err != nil {
		return nil, err
	}
	profiles, err := s.profiles.List(ctx, q)
	if err != nil {
		return nil, apperrors.Internal("list doctor profiles", err)
	}
	if profiles == nil {
		profiles = []models.DoctorProfile{}
	}
	ptrs := make([]*models.DoctorProfile, len(profiles))
	for i := range profiles {
		ptrs[i] = &profiles[i]
	}
	if err := s.attachDoctors(ctx, ptrs...); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (s *DoctorService) Get(ctx context.Context, id string) (*models.DoctorProfile, error) {
	profile, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachDoctors(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Create registers the caller's own profile. Only doctors have one, and
// only one each.
func (s *DoctorService) Create(ctx context.Context, caller models.Caller, input models.DoctorProfileInput) (*models.DoctorProfile, error) {
	if !caller.IsDoctor() {
		return nil, apperrors.Forbidden("only doctors can create a profile")
	}
	specialization := strings.TrimSpace(input.Specialization)
	if specialization == "" {
		return nil, apperrors.Validation("specialization is required")
	}
	if err := validateProfileNumbers(input.Experience, input.ConsultationFee); err != nil {
		return nil, err
	}
	if err := validateSlots(input.AvailableSlots); err != nil {
		return nil, err
	}

	if _, err := s.profiles.FindByUserID(ctx, caller.ID); err == nil {
		return nil, errProfileExists
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.Internal("lookup doctor profile", err)
	}

	accepting := true
	if input.AcceptingNewPatients != nil {
		accepting = *input.AcceptingNewPatients
	}
	id, err := uuid.NewV4()
	if err != nil {
		return nil, apperrors.Internal("generate profile id", err)
	}
	now := s.now()
	profile := &models.DoctorProfile{
		ID:                   id,
		UserID:               caller.ID,
		Specialization:       specialization,
		Qualifications:       input.Qualifications,
		Experience:           input.Experience,
		AvailableSlots:       input.AvailableSlots,
		ConsultationFee:      input.ConsultationFee,
		About:                input.About,
		Languages:            input.Languages,
		AcceptingNewPatients: accepting,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, errProfileExists
		}
		return nil, apperrors.Internal("create doctor profile", err)
	}
	if err := s.attachDoctors(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *DoctorService) Update(ctx context.Context, caller models.Caller, id string, patch models.DoctorProfilePatch) (*models.DoctorProfile, error) {
	profile, err := s.findGuarded(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if patch.Specialization != nil {
		specialization := strings.TrimSpace(*patch.Specialization)
		if specialization == "" {
			return nil, apperrors.Validation("specialization cannot be empty")
		}
		profile.Specialization = specialization
	}
	if patch.Qualifications != nil {
		profile.Qualifications = *patch.Qualifications
	}
	if patch.Experience != nil {
		profile.Experience = *patch.Experience
	}
	if patch.AvailableSlots != nil {
		if err := validateSlots(*patch.AvailableSlots); err != nil {
			return nil, err
		}
		profile.AvailableSlots = *patch.AvailableSlots
	}
	if patch.ConsultationFee != nil {
		profile.ConsultationFee = *patch.ConsultationFee
	}
	if patch.About != nil {
		profile.About = *patch.About
	}
	if patch.Languages != nil {
		profile.Languages = *patch.Languages
	}
	if patch.AcceptingNewPatients != nil {
		profile.AcceptingNewPatients = *patch.AcceptingNewPatients
	}
	if err := validateProfileNumbers(profile.Experience, profile.ConsultationFee); err != nil {
		return nil, err
	}

	return s.save(ctx, profile)
}

func (s *DoctorService) Delete(ctx context.Context, caller models.Caller, id string) error {
	profile, err := s.findGuarded(ctx, caller, id)
	if err != nil {
		return err
	}
	return storeError("delete doctor profile", doctorProfileResource, s.profiles.Delete(ctx, profile.ID))
}

// AddReview appends a patient's review and recomputes the aggregate rating
// as the mean of all reviews to one decimal place.
func (s *DoctorService) AddReview(ctx context.Context, caller models.Caller, id string, input models.ReviewInput) (*models.DoctorProfile, error) {
	if caller.Role != models.RolePatient {
		return nil, apperrors.Forbidden("only patients can review doctors")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.Validation("rating must be between 1 and 5")
	}
	profile, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	profile.Reviews = append(profile.Reviews, models.Review{
		PatientID: caller.ID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
		Date:      now,
	})
	profile.Rating = averageRating(profile.Reviews)
	return s.save(ctx, profile)
}

func (s *DoctorService) save(ctx context.Context, profile *models.DoctorProfile) (*models.DoctorProfile, error) {
	profile.UpdatedAt = nextUpdate(s.now(), profile.UpdatedAt)
	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, storeError("update doctor profile", doctorProfileResource, err)
	}
	if err := s.attachDoctors(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func (s *DoctorService) find(ctx context.Context, id string) (*models.DoctorProfile, error) {
	profileID, err := uuid.FromString(id)
	if err != nil {
		return nil, apperrors.NotFound(doctorProfileResource)
	}
	profile, err := s.profiles.FindByID(ctx, profileID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.NotFound(doctorProfileResource)
	}
	if err != nil {
		return nil, apperrors.Internal("find doctor profile", err)
	}
	return profile, nil
}

func (s *DoctorService) findGuarded(ctx context.Context, caller models.Caller, id string) (*models.DoctorProfile, error) {
	profileID, err := uuid.FromString(id)
	if err != nil {
		return nil, apperrors.NotFound(doctorProfileResource)
	}
	profile, err := s.profiles.FindByID(ctx, profileID)
	return authorize(profile, err, caller, CanAccessDoctorProfile, doctorProfileResource, Forbid)
}

func (s *DoctorService) attachDoctors(ctx context.Context, profiles ...*models.DoctorProfile) error {
	if len(profiles) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(profiles))
	for i, p := range profiles {
		ids[i] = p.UserID
	}
	summaries, err := s.users.FindSummaries(ctx, ids)
	if err != nil {
		return apperrors.Internal("load doctor summaries", err)
	}
	for _, p := range profiles {
		p.DoctorInfo = summaries[p.UserID]
	}
	return nil
}

func averageRating(reviews []models.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return math.Round(float64(total)/float64(len(reviews))*10) / 10
}

func validateProfileNumbers(experience int, fee float64) error {
	if experience < 0 {
		return apperrors.Validation("experience cannot be negative")
	}
	if fee < 0 {
		return apperrors.Validation("consultationFee cannot be negative")
	}
	return nil
}

func validateSlots(slots []models.AvailableSlot) error {
	for _, slot := range slots {
		if !slot.Day.Valid() {
			_, err := models.ParseWeekday(string(slot.Day))
			return apperrors.Validation(err.Error())
		}
		start, err := time.Parse("15:04", slot.StartTime)
		if err != nil {
			return apperrors.Validation("startTime must be HH:MM")
		}
		end, err := time.Parse("15:04", slot.EndTime)
		if err != nil {
			return apperrors.Validation("endTime must be HH:MM")
		}
		if !end.After(start) {
			return apperrors.Validation("endTime must be after startTime")
		}
	}
	return nil
}
