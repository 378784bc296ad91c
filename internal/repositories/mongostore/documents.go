package mongostore

import (
	"fmt"
	"time"

	"taskclinic/backend/internal/models"

	"github.com/gofrs/uuid"
)

// Documents keep identifiers as strings and carry the derived sort keys
// the filters package expects (dueDateNull, priorityRank).

type taskDoc struct {
	ID           string     `bson:"_id"`
	UserID       string     `bson:"userId"`
	Title        string     `bson:"title"`
	Description  string     `bson:"description"`
	Status       string     `bson:"status"`
	Priority     string     `bson:"priority"`
	PriorityRank int        `bson:"priorityRank"`
	DueDate      *time.Time `bson:"dueDate"`
	DueDateNull  bool       `bson:"dueDateNull"`
	Category     string     `bson:"category"`
	CreatedAt    time.Time  `bson:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt"`
}

func toTaskDoc(t *models.Task) taskDoc {
	doc := taskDoc{
		ID:           t.ID.String(),
		UserID:       t.UserID.String(),
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		PriorityRank: t.Priority.Rank(),
		DueDateNull:  t.DueDate == nil,
		Category:     t.Category,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.DueDate != nil {
		due := t.DueDate.Time()
		doc.DueDate = &due
	}
	return doc
}

func fromTaskDoc(d taskDoc) (models.Task, error) {
	id, err := parseIDs(d.ID, d.UserID)
	if err != nil {
		return models.Task{}, err
	}
	task := models.Task{
		ID:          id[0],
		UserID:      id[1],
		Title:       d.Title,
		Description: d.Description,
		Status:      models.TaskStatus(d.Status),
		Priority:    models.TaskPriority(d.Priority),
		Category:    d.Category,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.DueDate != nil {
		y, m, day := d.DueDate.UTC().Date()
		due := models.NewDate(y, m, day)
		task.DueDate = &due
	}
	return task, nil
}

type userDoc struct {
	ID        string    `bson:"_id"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	FirstName string    `bson:"firstName"`
	LastName  string    `bson:"lastName"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toUserDoc(u *models.User) userDoc {
	return userDoc{
		ID:        u.ID.String(),
		Email:     u.Email,
		Password:  u.Password,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func fromUserDoc(d userDoc) (models.User, error) {
	id, err := uuid.FromString(d.ID)
	if err != nil {
		return models.User{}, fmt.Errorf("user %q: %w", d.ID, err)
	}
	return models.User{
		ID:        id,
		Email:     d.Email,
		Password:  d.Password,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Role:      models.Role(d.Role),
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

type appointmentDoc struct {
	ID        string    `bson:"_id"`
	Patient   string    `bson:"patient"`
	Doctor    string    `bson:"doctor"`
	DateTime  time.Time `bson:"dateTime"`
	Duration  int       `bson:"duration"`
	Status    string    `bson:"status"`
	Type      string    `bson:"type"`
	Notes     string    `bson:"notes,omitempty"`
	Symptoms  []string  `bson:"symptoms"`
	FollowUp  bool      `bson:"followUp"`
	CreatedAt time.Time `bson:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

func toAppointmentDoc(a *models.Appointment) appointmentDoc {
	return appointmentDoc{
		ID:        a.ID.String(),
		Patient:   a.PatientID.String(),
		Doctor:    a.DoctorID.String(),
		DateTime:  a.DateTime,
		Duration:  a.Duration,
		Status:    string(a.Status),
		Type:      string(a.Type),
		Notes:     a.Notes,
		Symptoms:  a.Symptoms,
		FollowUp:  a.FollowUp,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func fromAppointmentDoc(d appointmentDoc) (models.Appointment, error) {
	id, err := parseIDs(d.ID, d.Patient, d.Doctor)
	if err != nil {
		return models.Appointment{}, err
	}
	return models.Appointment{
		ID:        id[0],
		PatientID: id[1],
		DoctorID:  id[2],
		DateTime:  d.DateTime.UTC(),
		Duration:  d.Duration,
		Status:    models.AppointmentStatus(d.Status),
		Type:      models.AppointmentType(d.Type),
		Notes:     d.Notes,
		Symptoms:  d.Symptoms,
		FollowUp:  d.FollowUp,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

type slotDoc struct {
	Day       string `bson:"day"`
	StartTime string `bson:"startTime"`
	EndTime   string `bson:"endTime"`
}

type reviewDoc struct {
	Patient string    `bson:"patient"`
	Rating  int       `bson:"rating"`
	Comment string    `bson:"comment"`
	Date    time.Time `bson:"date"`
}

type doctorProfileDoc struct {
	ID                   string      `bson:"_id"`
	User                 string      `bson:"user"`
	Specialization       string      `bson:"specialization"`
	Qualifications       []string    `bson:"qualifications"`
	Experience           int         `bson:"experience"`
	AvailableSlots       []slotDoc   `bson:"availableSlots"`
	ConsultationFee      float64     `bson:"consultationFee"`
	Rating               float64     `bson:"rating"`
	Reviews              []reviewDoc `bson:"reviews"`
	About                string      `bson:"about"`
	Languages            []string    `bson:"languages"`
	AcceptingNewPatients bool        `bson:"acceptingNewPatients"`
	CreatedAt            time.Time   `bson:"createdAt"`
	UpdatedAt            time.Time   `bson:"updatedAt"`
}

func toDoctorProfileDoc(p *models.DoctorProfile) doctorProfileDoc {
	doc := doctorProfileDoc{
		ID:                   p.ID.String(),
		User:                 p.UserID.String(),
		Specialization:       p.Specialization,
		Qualifications:       p.Qualifications,
		Experience:           p.Experience,
		ConsultationFee:      p.ConsultationFee,
		Rating:               p.Rating,
		About:                p.About,
		Languages:            p.Languages,
		AcceptingNewPatients: p.AcceptingNewPatients,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
	for _, s := range p.AvailableSlots {
		doc.AvailableSlots = append(doc.AvailableSlots, slotDoc{Day: string(s.Day), StartTime: s.StartTime, EndTime: s.EndTime})
	}
	for _, r := range p.Reviews {
		doc.Reviews = append(doc.Reviews, reviewDoc{Patient: r.PatientID.String(), Rating: r.Rating, Comment: r.Comment, Date: r.Date})
	}
	return doc
}

func fromDoctorProfileDoc(d doctorProfileDoc) (models.DoctorProfile, error) {
	id, err := parseIDs(d.ID, d.User)
	if err != nil {
		return models.DoctorProfile{}, err
	}
	profile := models.DoctorProfile{
		ID:                   id[0],
		UserID:               id[1],
		Specialization:       d.Specialization,
		Qualifications:       d.Qualifications,
		Experience:           d.Experience,
		ConsultationFee:      d.ConsultationFee,
		Rating:               d.Rating,
		About:                d.About,
		Languages:            d.Languages,
		AcceptingNewPatients: d.AcceptingNewPatients,
		CreatedAt:            d.CreatedAt.UTC(),
		UpdatedAt:            d.UpdatedAt.UTC(),
	}
	for _, s := range d.AvailableSlots {
		profile.AvailableSlots = append(profile.AvailableSlots, models.AvailableSlot{Day: models.Weekday(s.Day), StartTime: s.StartTime, EndTime: s.EndTime})
	}
	for _, r := range d.Reviews {
		patient, err := uuid.FromString(r.Patient)
		if err != nil {
			return models.DoctorProfile{}, fmt.Errorf("review patient %q: %w", r.Patient, err)
		}
		profile.Reviews = append(profile.Reviews, models.Review{PatientID: patient, Rating: r.Rating, Comment: r.Comment, Date: r.Date.UTC()})
	}
	return profile, nil
}

func parseIDs(values ...string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, len(values))
	for i, v := range values {
		id, err := uuid.FromString(v)
		if err != nil {
			return nil, fmt.Errorf("invalid identifier %q: %w", v, err)
		}
		out[i] = id
	}
	return out, nil
}
