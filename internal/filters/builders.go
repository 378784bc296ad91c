package filters

import (
	"strconv"
	"strings"
	"time"

	"taskclinic/backend/internal/apperrors"
	"taskclinic/backend/internal/models"

	"github.com/gofrs/uuid"
)

var priorityRanks = map[string]int{
	string(models.TaskPriorityHigh):   models.TaskPriorityHigh.Rank(),
	string(models.TaskPriorityMedium): models.TaskPriorityMedium.Rank(),
	string(models.TaskPriorityLow):    models.TaskPriorityLow.Rank(),
}

// ForTasks scopes to the owner and adds the optional status, priority,
// category and search clauses. Tasks come back by due date, undated last,
// then most urgent first.
func ForTasks(owner uuid.UUID, p models.TaskParams) (Query, error) {
	q := Query{
		Clauses: []Clause{Eq{Field: TaskOwner, Value: owner}},
		Sort: []SortKey{
			{Field: TaskDueDate, NullsLast: true},
			{Field: TaskPriority, Desc: true, Ranks: priorityRanks},
			{Field: CreatedAt},
		},
	}

	if p.Status != "" {
		status, err := models.ParseTaskStatus(p.Status)
		if err != nil {
			return Query{}, apperrors.Validation(err.Error())
		}
		q.Clauses = append(q.Clauses, Eq{Field: TaskStatus, Value: string(status)})
	}
	if p.Priority != "" {
		priority, err := models.ParseTaskPriority(p.Priority)
		if err != nil {
			return Query{}, apperrors.Validation(err.Error())
		}
		q.Clauses = append(q.Clauses, Eq{Field: TaskPriority, Value: string(priority)})
	}
	if p.Category != "" {
		q.Clauses = append(q.Clauses, Eq{Field: TaskCategory, Value: p.Category})
	}
	if term := strings.TrimSpace(p.Search); term != "" {
		q.Clauses = append(q.Clauses, Search{Fields: []Field{TaskTitle, TaskDescription}, Term: term})
	}
	return q, nil
}

// ForAppointments scopes doctors to the appointments they hold and everyone
// else to the ones they booked.
func ForAppointments(caller models.Caller, p models.AppointmentParams) (Query, error) {
	scope := Eq{Field: AppointmentPatient, Value: caller.ID}
	if caller.IsDoctor() {
		scope = Eq{Field: AppointmentDoctor, Value: caller.ID}
	}
	q := Query{
		Clauses: []Clause{scope},
		Sort: []SortKey{
			{Field: AppointmentDateTime},
			{Field: CreatedAt},
		},
	}

	if p.Status != "" {
		status, err := models.ParseAppointmentStatus(p.Status)
		if err != nil {
			return Query{}, apperrors.Validation(err.Error())
		}
		q.Clauses = append(q.Clauses, Eq{Field: AppointmentStatus, Value: string(status)})
	}
	if p.Type != "" {
		typ, err := models.ParseAppointmentType(p.Type)
		if err != nil {
			return Query{}, apperrors.Validation(err.Error())
		}
		q.Clauses = append(q.Clauses, Eq{Field: AppointmentType, Value: string(typ)})
	}

	from, _, err := parseBound("from", p.From)
	if err != nil {
		return Query{}, err
	}
	to, toDate, err := parseBound("to", p.To)
	if err != nil {
		return Query{}, err
	}
	rng := Range{Field: AppointmentDateTime, From: from}
	if toDate {
		// A date-only upper bound covers that whole day.
		next := to.AddDate(0, 0, 1)
		rng.Before = &next
	} else {
		rng.To = to
	}
	if from != nil && ((rng.To != nil && rng.To.Before(*from)) || (rng.Before != nil && !rng.Before.After(*from))) {
		return Query{}, apperrors.Validation("to must not be before from")
	}
	if from != nil || to != nil {
		q.Clauses = append(q.Clauses, rng)
	}
	return q, nil
}

// ForDoctors lists profiles best rated first.
func ForDoctors(p models.DoctorParams) (Query, error) {
	q := Query{
		Sort: []SortKey{
			{Field: DoctorRating, Desc: true},
			{Field: CreatedAt},
		},
	}
	if s := strings.TrimSpace(p.Specialization); s != "" {
		q.Clauses = append(q.Clauses, EqFold{Field: DoctorSpecialization, Value: s})
	}
	if p.AcceptingNewPatients != "" {
		accepting, err := strconv.ParseBool(p.AcceptingNewPatients)
		if err != nil {
			return Query{}, apperrors.Validation("acceptingNewPatients must be true or false")
		}
		q.Clauses = append(q.Clauses, Eq{Field: DoctorAccepting, Value: accepting})
	}
	return q, nil
}

// parseBound accepts an RFC 3339 timestamp or a YYYY-MM-DD date, which
// reads as midnight UTC. dateOnly reports the second form.
func parseBound(name, value string) (t *time.Time, dateOnly bool, err error) {
	if value == "" {
		return nil, false, nil
	}
	parsed, perr := time.Parse(time.RFC3339, value)
	if perr != nil {
		d, derr := models.ParseDate(value)
		if derr != nil {
			return nil, false, apperrors.Validation(name + " must be an RFC 3339 timestamp or YYYY-MM-DD date")
		}
		parsed, dateOnly = d.Time(), true
	}
	parsed = parsed.UTC()
	return &parsed, dateOnly, nil
}
