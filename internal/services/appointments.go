package services

import (
	"context"
	"errors"
	"strings"

	"taskclinic/backend/internal/apperrors"
	"taskclinic/backend/internal/filters"
	"taskclinic/backend/internal/models"
	"taskclinic/backend/internal/repositories"

	"github.com/gofrs/uuid"
)

const appointmentResource = "appointment"

type AppointmentService struct {
	appointments repositories.AppointmentRepository
	users        repositories.UserRepository
	now          Clock
}

func NewAppointmentService(appointments repositories.AppointmentRepository, users repositories.UserRepository, clock Clock) *AppointmentService {
	if clock == nil {
		clock = SystemClock
	}
	return &AppointmentService{appointments: appointments, users: users, now: clock}
}

func (s *AppointmentService) Create(ctx context.Context, caller models.Caller, input models.AppointmentInput) (*models.Appointment, error) {
	var missing []string
	if strings.TrimSpace(input.Doctor) == "" {
		missing = append(missing, "doctor is required")
	}
	if input.DateTime == nil || input.DateTime.IsZero() {
		missing = append(missing, "dateTime is required")
	}
	if input.Type == "" {
		missing = append(missing, "type is required")
	}
	if len(missing) > 0 {
		return nil, apperrors.Validation("missing required fields", missing...)
	}

	duration := models.DefaultAppointmentDuration
	if input.Duration != nil {
		duration = *input.Duration
	}
	if input.Status == "" {
		input.Status = models.AppointmentScheduled
	}
	if err := validateAppointment(duration, input.Status, input.Type); err != nil {
		return nil, err
	}

	doctor, err := s.resolveDoctor(ctx, input.Doctor)
	if err != nil {
		return nil, err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, apperrors.Internal("generate appointment id", err)
	}
	now := s.now()
	appt := &models.Appointment{
		ID:        id,
		PatientID: caller.ID,
		DoctorID:  doctor.ID,
		DateTime:  input.DateTime.UTC(),
		Duration:  duration,
		Status:    input.Status,
		Type:      input.Type,
		Notes:     input.Notes,
		Symptoms:  input.Symptoms,
		FollowUp:  input.FollowUp,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.appointments.Create(ctx, appt); err != nil {
		return nil, storeError("create appointment", appointmentResource, err)
	}
	if err := s.attachParticipants(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *AppointmentService) List(ctx context.Context, caller models.Caller, params models.AppointmentParams) ([]models.Appointment, error) {
	q, err := filters.ForAppointments(caller, params)
	if err != nil {
		return nil, err
	}
	appts, err := s.appointments.List(ctx, q)
	if err != nil {
		return nil, apperrors.Internal("list appointments", err)
	}
	if appts == nil {
		appts = []models.Appointment{}
	}
	ptrs := make([]*models.Appointment, len(appts))
	for i := range appts {
		ptrs[i] = &appts[i]
	}
	if err := s.attachParticipants(ctx, ptrs...); err != nil {
		return nil, err
	}
	return appts, nil
}

func (s *AppointmentService) Get(ctx context.Context, caller models.Caller, id string) (*models.Appointment, error) {
	appt, err := s.find(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.attachParticipants(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

// Update merges patch into the appointment. The patient never changes; a
// new doctor must again resolve to a doctor-role user.
func (s *AppointmentService) Update(ctx context.Context, caller models.Caller, id string, patch models.AppointmentPatch) (*models.Appointment, error) {
	appt, err := s.find(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	if patch.Doctor != nil && *patch.Doctor != appt.DoctorID.String() {
		doctor, err := s.resolveDoctor(ctx, *patch.Doctor)
		if err != nil {
			return nil, err
		}
		appt.DoctorID = doctor.ID
	}
	if patch.DateTime != nil {
		if patch.DateTime.IsZero() {
			return nil, apperrors.Validation("dateTime cannot be empty")
		}
		appt.DateTime = patch.DateTime.UTC()
	}
	if patch.Duration != nil {
		appt.Duration = *patch.Duration
	}
	if patch.Status != nil {
		appt.Status = *patch.Status
	}
	if patch.Type != nil {
		appt.Type = *patch.Type
	}
	if patch.Notes != nil {
		appt.Notes = *patch.Notes
	}
	if patch.Symptoms != nil {
		appt.Symptoms = *patch.Symptoms
	}
	if patch.FollowUp != nil {
		appt.FollowUp = *patch.FollowUp
	}
	if err := validateAppointment(appt.Duration, appt.Status, appt.Type); err != nil {
		return nil, err
	}

	appt.UpdatedAt = nextUpdate(s.now(), appt.UpdatedAt)
	if err := s.appointments.Save(ctx, appt); err != nil {
		return nil, storeError("update appointment", appointmentResource, err)
	}
	if err := s.attachParticipants(ctx, appt); err != nil {
		return nil, err
	}
	return appt, nil
}

func (s *AppointmentService) Delete(ctx context.Context, caller models.Caller, id string) error {
	appt, err := s.find(ctx, caller, id)
	if err != nil {
		return err
	}
	return storeError("delete appointment", appointmentResource, s.appointments.Delete(ctx, appt.ID))
}

func (s *AppointmentService) find(ctx context.Context, caller models.Caller, id string) (*models.Appointment, error) {
	apptID, err := uuid.FromString(id)
	if err != nil {
		return nil, apperrors.NotFound(appointmentResource)
	}
	appt, err := s.appointments.FindByID(ctx, apptID)
	return authorize(appt, err, caller, CanAccessAppointment, appointmentResource, Forbid)
}

func (s *AppointmentService) resolveDoctor(ctx context.Context, ref string) (*models.User, error) {
	doctorID, err := uuid.FromString(strings.TrimSpace(ref))
	if err != nil {
		return nil, apperrors.ErrInvalidDoctor
	}
	doctor, err := s.users.FindByIDAndRole(ctx, doctorID, models.RoleDoctor)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, apperrors.ErrInvalidDoctor
	}
	if err != nil {
		return nil, apperrors.Internal("resolve doctor", err)
	}
	return doctor, nil
}

// attachParticipants fills the patient and doctor summaries with one
// lookup for the whole batch.
func (s *AppointmentService) attachParticipants(ctx context.Context, appts ...*models.Appointment) error {
	if len(appts) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, a := range appts {
		for _, id := range []uuid.UUID{a.PatientID, a.DoctorID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	summaries, err := s.users.FindSummaries(ctx, ids)
	if err != nil {
		return apperrors.Internal("load appointment participants", err)
	}
	for _, a := range appts {
		a.PatientInfo = summaries[a.PatientID]
		a.DoctorInfo = summaries[a.DoctorID]
	}
	return nil
}

func validateAppointment(duration int, status models.AppointmentStatus, typ models.AppointmentType) error {
	if duration <= 0 {
		return apperrors.Validation("duration must be a positive number of minutes")
	}
	if !status.Valid() {
		_, err := models.ParseAppointmentStatus(string(status))
		return apperrors.Validation(err.Error())
	}
	if !typ.Valid() {
		_, err := models.ParseAppointmentType(string(typ))
		return apperrors.Validation(err.Error())
	}
	return nil
}
