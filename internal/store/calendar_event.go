package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hearthhq/hearth/internal/model"
)

type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

func scanEvent(scanner interface{ Scan(...any) error }) (*model.CalendarEvent, error) {
	var e model.CalendarEvent
	err := scanner.Scan(
		&e.ID, &e.Title, &e.Description, &e.StartTime, &e.EndTime,
		&e.Type, &e.HouseholdID, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

const eventCols = `id, title, description, start_time, end_time, type, household_id, created_by, created_at, updated_at`

func (s *EventStore) Create(householdID, createdBy int64, title, description string, start, end time.Time, typ model.EventType, participantIDs []int64) (*model.CalendarEvent, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO calendar_events (title, description, start_time, end_time, type, household_id, created_by) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		title, description, start, end, string(typ), householdID, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, userID := range participantIDs {
		if _, err := tx.Exec(
			`INSERT INTO event_participants (event_id, user_id) VALUES (?, ?)`,
			id, userID,
		); err != nil {
			return nil, fmt.Errorf("insert participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return s.GetByID(id)
}

func (s *EventStore) GetByID(id int64) (*model.CalendarEvent, error) {
	row := s.db.QueryRow(`SELECT `+eventCols+` FROM calendar_events WHERE id = ?`, id)
	e, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if e.ParticipantIDs, err = s.listParticipants(id); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *EventStore) listParticipants(eventID int64) ([]int64, error) {
	rows, err := s.db.Query(
		`SELECT user_id FROM event_participants WHERE event_id = ? ORDER BY user_id ASC`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListByHousehold returns a household's events, optionally restricted to
// those overlapping [start, end). Zero times disable the range filter.
func (s *EventStore) ListByHousehold(householdID int64, start, end time.Time) ([]model.CalendarEvent, error) {
	query := `SELECT ` + eventCols + ` FROM calendar_events WHERE household_id = ?`
	args := []any{householdID}
	if !start.IsZero() && !end.IsZero() {
		query += ` AND start_time < ? AND end_time > ?`
		args = append(args, end, start)
	}
	query += ` ORDER BY start_time ASC`

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.CalendarEvent
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range events {
		if events[i].ParticipantIDs, err = s.listParticipants(events[i].ID); err != nil {
			return nil, err
		}
	}
	return events, nil
}

func (s *EventStore) Update(id int64, title, description string, start, end time.Time, typ model.EventType) (*model.CalendarEvent, error) {
	_, err := s.db.Exec(
		`UPDATE calendar_events SET title = ?, description = ?, start_time = ?, end_time = ?, type = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		title, description, start, end, string(typ), id,
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	return s.GetByID(id)
}

func (s *EventStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM calendar_events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}
