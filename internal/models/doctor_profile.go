package models

import (
	"time"

	"github.com/gofrs/uuid"
	"gorm.io/datatypes"
)

type AvailableSlot struct {
	Day       Weekday `json:"day"`
	StartTime string  `json:"startTime"`
	EndTime   string  `json:"endTime"`
}

type Review struct {
	PatientID uuid.UUID `json:"patient"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	Date      time.Time `json:"date"`
}

type DoctorProfile struct {
	ID                   uuid.UUID                          `json:"id" gorm:"primaryKey;type:uuid"`
	UserID               uuid.UUID                          `json:"user" gorm:"type:uuid;not null;uniqueIndex"`
	Specialization       string                             `json:"specialization" gorm:"not null;index"`
	Qualifications       datatypes.JSONSlice[string]        `json:"qualifications"`
	Experience           int                                `json:"experience" gorm:"not null"`
	AvailableSlots       datatypes.JSONSlice[AvailableSlot] `json:"availableSlots"`
	ConsultationFee      float64                            `json:"consultationFee" gorm:"not null"`
	Rating               float64                            `json:"rating" gorm:"not null;index:idx_doctor_profiles_rating,sort:desc"`
	Reviews              datatypes.JSONSlice[Review]        `json:"reviews"`
	About                string                             `json:"about"`
	Languages            datatypes.JSONSlice[string]        `json:"languages"`
	AcceptingNewPatients bool                               `json:"acceptingNewPatients" gorm:"not null"`
	CreatedAt            time.Time                          `json:"createdAt" gorm:"autoCreateTime:false"`
	UpdatedAt            time.Time                          `json:"updatedAt" gorm:"autoUpdateTime:false"`

	DoctorInfo *UserSummary `json:"doctorInfo,omitempty" gorm:"-"`
}

type DoctorProfileInput struct {
	Specialization       string          `json:"specialization" binding:"required"`
	Qualifications       []string        `json:"qualifications"`
	Experience           int             `json:"experience"`
	AvailableSlots       []AvailableSlot `json:"availableSlots"`
	ConsultationFee      float64         `json:"consultationFee"`
	About                string          `json:"about"`
	Languages            []string        `json:"languages"`
	AcceptingNewPatients *bool           `json:"acceptingNewPatients"`
}

// DoctorProfilePatch excludes rating and reviews; those only change through
// submitted reviews.
type DoctorProfilePatch struct {
	Specialization       *string          `json:"specialization"`
	Qualifications       *[]string        `json:"qualifications"`
	Experience           *int             `json:"experience"`
	AvailableSlots       *[]AvailableSlot `json:"availableSlots"`
	ConsultationFee      *float64         `json:"consultationFee"`
	About                *string          `json:"about"`
	Languages            *[]string        `json:"languages"`
	AcceptingNewPatients *bool            `json:"acceptingNewPatients"`
}

type ReviewInput struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type DoctorParams struct {
	Specialization       string `form:"specialization"`
	AcceptingNewPatients string `form:"acceptingNewPatients"`
}
