package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EnumError reports a value outside a closed set.
type EnumError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("invalid %s %q: must be one of %s", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

var taskStatuses = []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

func ParseTaskStatus(value string) (TaskStatus, error) {
	return parseEnum("status", value, taskStatuses)
}

func (s TaskStatus) Valid() bool { return isMember(s, taskStatuses) }

func (s *TaskStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, "status", taskStatuses)
}

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

var taskPriorities = []TaskPriority{TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh}

func ParseTaskPriority(value string) (TaskPriority, error) {
	return parseEnum("priority", value, taskPriorities)
}

func (p TaskPriority) Valid() bool { return isMember(p, taskPriorities) }

func (p *TaskPriority) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, p, "priority", taskPriorities)
}

// Rank orders priorities for sorting; higher is more urgent.
func (p TaskPriority) Rank() int {
	switch p {
	case TaskPriorityHigh:
		return 3
	case TaskPriorityMedium:
		return 2
	case TaskPriorityLow:
		return 1
	}
	return 0
}

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

var appointmentStatuses = []AppointmentStatus{AppointmentScheduled, AppointmentCompleted, AppointmentCancelled}

func ParseAppointmentStatus(value string) (AppointmentStatus, error) {
	return parseEnum("status", value, appointmentStatuses)
}

func (s AppointmentStatus) Valid() bool { return isMember(s, appointmentStatuses) }

func (s *AppointmentStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, "status", appointmentStatuses)
}

type AppointmentType string

const (
	AppointmentInPerson     AppointmentType = "in-person"
	AppointmentTelemedicine AppointmentType = "telemedicine"
)

var appointmentTypes = []AppointmentType{AppointmentInPerson, AppointmentTelemedicine}

func ParseAppointmentType(value string) (AppointmentType, error) {
	return parseEnum("type", value, appointmentTypes)
}

func (t AppointmentType) Valid() bool { return isMember(t, appointmentTypes) }

func (t *AppointmentType) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, t, "type", appointmentTypes)
}

type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

var weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func ParseWeekday(value string) (Weekday, error) {
	return parseEnum("day", value, weekdays)
}

func (d Weekday) Valid() bool { return isMember(d, weekdays) }

func (d *Weekday) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, d, "day", weekdays)
}

func parseEnum[T ~string](field, value string, allowed []T) (T, error) {
	for _, a := range allowed {
		if string(a) == value {
			return a, nil
		}
	}
	return "", &EnumError{Field: field, Value: value, Allowed: enumNames(allowed)}
}

func isMember[T ~string](value T, allowed []T) bool {
	for _, a := range allowed {
		if a == value {
			return true
		}
	}
	return false
}

// unmarshalEnum leaves an empty string as the zero value so callers can
// apply defaults; anything else must be a member of the set.
func unmarshalEnum[T ~string](data []byte, dst *T, field string, allowed []T) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return &EnumError{Field: field, Value: string(data), Allowed: enumNames(allowed)}
	}
	if raw == "" {
		*dst = ""
		return nil
	}
	v, err := parseEnum(field, raw, allowed)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func enumNames[T ~string](allowed []T) []string {
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return names
}
