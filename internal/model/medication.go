package model

import (
	"strings"
	"time"
)

type Medication struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Dosage       string    `json:"dosage"`
	Instructions string    `json:"instructions"`
	Morning      bool      `json:"morning"`
	Afternoon    bool      `json:"afternoon"`
	Evening      bool      `json:"evening"`
	Inventory    int       `json:"inventory"`
	AssignedTo   *int64    `json:"assigned_to"`
	HouseholdID  int64     `json:"household_id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MedicationLogStatus records the outcome of a scheduled dose.
type MedicationLogStatus string

const (
	DoseTaken   MedicationLogStatus = "TAKEN"
	DoseSkipped MedicationLogStatus = "SKIPPED"
	DoseMissed  MedicationLogStatus = "MISSED"
)

// ParseMedicationLogStatus matches s case-insensitively, falling back to
// MISSED.
func ParseMedicationLogStatus(s string) MedicationLogStatus {
	switch MedicationLogStatus(strings.ToUpper(strings.TrimSpace(s))) {
	case DoseTaken:
		return DoseTaken
	case DoseSkipped:
		return DoseSkipped
	default:
		return DoseMissed
	}
}

type MedicationLog struct {
	ID            int64               `json:"id"`
	MedicationID  int64               `json:"medication_id"`
	UserID        int64               `json:"user_id"`
	Status        MedicationLogStatus `json:"status"`
	ScheduledTime *time.Time          `json:"scheduled_time"`
	TakenTime     time.Time           `json:"taken_time"`
	Notes         string              `json:"notes"`
	HouseholdID   int64               `json:"household_id"`
	CreatedAt     time.Time           `json:"created_at"`
}
