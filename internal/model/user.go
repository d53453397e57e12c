package model

import "time"

// Role controls what a household member may do. Guardians can manage
// medications and use the AI schedule assistant.
const (
	RoleGuardian = "guardian"
	RoleMember   = "member"
)

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Avatar       string    `json:"avatar"`
	Role         string    `json:"role"`
	HouseholdID  int64     `json:"household_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
