package models

import "github.com/gofrs/uuid"

type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

var roles = []Role{RolePatient, RoleDoctor, RoleAdmin}

func ParseRole(value string) (Role, error) {
	return parseEnum("role", value, roles)
}

func (r Role) Valid() bool {
	return isMember(r, roles)
}

func (r *Role) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, r, "role", roles)
}

// Caller is the identity resolved from a verified bearer token. It is the
// only source of ownership and participant references on write paths.
type Caller struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func (c Caller) IsDoctor() bool {
	return c.Role == RoleDoctor
}
