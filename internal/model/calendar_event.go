package model

import (
	"strings"
	"time"
)

// EventType classifies a calendar event.
type EventType string

const (
	EventFamily  EventType = "FAMILY"
	EventSchool  EventType = "SCHOOL"
	EventMedical EventType = "MEDICAL"
	EventOther   EventType = "OTHER"
)

// ParseEventType matches s case-insensitively against the known event
// types, falling back to OTHER.
func ParseEventType(s string) EventType {
	switch EventType(strings.ToUpper(strings.TrimSpace(s))) {
	case EventFamily:
		return EventFamily
	case EventSchool:
		return EventSchool
	case EventMedical:
		return EventMedical
	default:
		return EventOther
	}
}

type CalendarEvent struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Type           EventType `json:"type"`
	ParticipantIDs []int64   `json:"participant_ids"`
	HouseholdID    int64     `json:"household_id"`
	CreatedBy      int64     `json:"created_by"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
