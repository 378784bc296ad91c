package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/datatypes"
)

const DefaultAppointmentDuration = 30

type Appointment struct {
	ID        uuid.UUID                   `json:"id" gorm:"primaryKey;type:uuid"`
	PatientID uuid.UUID                   `json:"patient" gorm:"type:uuid;not null;index:idx_appointments_patient_time,priority:1"`
	DoctorID  uuid.UUID                   `json:"doctor" gorm:"type:uuid;not null;index:idx_appointments_doctor_time,priority:1"`
	DateTime  time.Time                   `json:"dateTime" gorm:"not null;index:idx_appointments_patient_time,priority:2;index:idx_appointments_doctor_time,priority:2"`
	Duration  int                         `json:"duration" gorm:"not null"`
	Status    AppointmentStatus           `json:"status" gorm:"type:varchar(20);not null"`
	Type      AppointmentType             `json:"type" gorm:"type:varchar(20);not null"`
	Notes     string                      `json:"notes"`
	Symptoms  datatypes.JSONSlice[string] `json:"symptoms"`
	FollowUp  bool                        `json:"followUp" gorm:"not null"`
	CreatedAt time.Time                   `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt time.Time                   `json:"updatedAt" gorm:"autoUpdateTime:false"`

	PatientInfo *UserSummary `json:"patientInfo,omitempty" gorm:"-"`
	DoctorInfo  *UserSummary `json:"doctorInfo,omitempty" gorm:"-"`
}

// AppointmentInput is the create payload. The patient is always the caller.
type AppointmentInput struct {
	Doctor   string            `json:"doctor" binding:"required"`
	DateTime *time.Time        `json:"dateTime" binding:"required"`
	Duration *int              `json:"duration" binding:"omitempty,min=1"`
	Type     AppointmentType   `json:"type" binding:"required"`
	Notes    string            `json:"notes"`
	Symptoms []string          `json:"symptoms"`
	FollowUp bool              `json:"followUp"`
	Status   AppointmentStatus `json:"status"`
}

type AppointmentPatch struct {
	Doctor   *string            `json:"doctor"`
	DateTime *time.Time         `json:"dateTime"`
	Duration *int               `json:"duration"`
	Status   *AppointmentStatus `json:"status"`
	Type     *AppointmentType   `json:"type"`
	Notes    *string            `json:"notes"`
	Symptoms *[]string          `json:"symptoms"`
	FollowUp *bool              `json:"followUp"`
}

type AppointmentParams struct {
	Status string `form:"status"`
	Type   string `form:"type"`
	From   string `form:"from"`
	To     string `form:"to"`
}
