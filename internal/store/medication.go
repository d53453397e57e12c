package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hearthhq/hearth/internal/model"
)

type MedicationStore struct {
	db *sql.DB
}

func NewMedicationStore(db *sql.DB) *MedicationStore {
	return &MedicationStore{db: db}
}

func scanMedication(scanner interface{ Scan(...any) error }) (*model.Medication, error) {
	var m model.Medication
	var assignedTo sql.NullInt64
	var morning, afternoon, evening int

	err := scanner.Scan(
		&m.ID, &m.Name, &m.Dosage, &m.Instructions,
		&morning, &afternoon, &evening, &m.Inventory,
		&assignedTo, &m.HouseholdID, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Morning = morning != 0
	m.Afternoon = afternoon != 0
	m.Evening = evening != 0
	if assignedTo.Valid {
		m.AssignedTo = &assignedTo.Int64
	}
	return &m, nil
}

const medicationCols = `id, name, dosage, instructions, morning, afternoon, evening, inventory, assigned_to, household_id, created_at, updated_at`

func (s *MedicationStore) Create(householdID int64, name, dosage, instructions string, morning, afternoon, evening bool, inventory int, assignedTo *int64) (*model.Medication, error) {
	var aTo sql.NullInt64
	if assignedTo != nil {
		aTo = sql.NullInt64{Int64: *assignedTo, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO medications (name, dosage, instructions, morning, afternoon, evening, inventory, assigned_to, household_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		name, dosage, instructions, boolToInt(morning), boolToInt(afternoon), boolToInt(evening), inventory, aTo, householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert medication: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *MedicationStore) GetByID(id int64) (*model.Medication, error) {
	row := s.db.QueryRow(`SELECT `+medicationCols+` FROM medications WHERE id = ?`, id)
	m, err := scanMedication(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get medication: %w", err)
	}
	return m, nil
}

func (s *MedicationStore) ListByHousehold(householdID int64) ([]model.Medication, error) {
	rows, err := s.db.Query(
		`SELECT `+medicationCols+` FROM medications WHERE household_id = ? ORDER BY name ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	defer rows.Close()

	var meds []model.Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medication: %w", err)
		}
		meds = append(meds, *m)
	}
	return meds, rows.Err()
}

func (s *MedicationStore) UpdateInventory(id int64, inventory int) (*model.Medication, error) {
	_, err := s.db.Exec(
		`UPDATE medications SET inventory = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		inventory, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update inventory: %w", err)
	}
	return s.GetByID(id)
}

func (s *MedicationStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM medications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete medication: %w", err)
	}
	return nil
}

// --- Log methods ---

func scanMedicationLog(scanner interface{ Scan(...any) error }) (*model.MedicationLog, error) {
	var l model.MedicationLog
	var scheduled sql.NullTime
	err := scanner.Scan(
		&l.ID, &l.MedicationID, &l.UserID, &l.Status,
		&scheduled, &l.TakenTime, &l.Notes, &l.HouseholdID, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if scheduled.Valid {
		l.ScheduledTime = &scheduled.Time
	}
	return &l, nil
}

const medicationLogCols = `id, medication_id, user_id, status, scheduled_time, taken_time, notes, household_id, created_at`

func (s *MedicationStore) CreateLog(medicationID, userID, householdID int64, status model.MedicationLogStatus, scheduledTime *time.Time, takenTime time.Time, notes string) (*model.MedicationLog, error) {
	var sched sql.NullTime
	if scheduledTime != nil {
		sched = sql.NullTime{Time: *scheduledTime, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO medication_logs (medication_id, user_id, status, scheduled_time, taken_time, notes, household_id) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		medicationID, userID, string(status), sched, takenTime, notes, householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert medication log: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	row := s.db.QueryRow(`SELECT `+medicationLogCols+` FROM medication_logs WHERE id = ?`, id)
	l, err := scanMedicationLog(row)
	if err != nil {
		return nil, fmt.Errorf("get medication log: %w", err)
	}
	return l, nil
}

func (s *MedicationStore) ListLogs(medicationID int64) ([]model.MedicationLog, error) {
	rows, err := s.db.Query(
		`SELECT `+medicationLogCols+` FROM medication_logs WHERE medication_id = ? ORDER BY created_at DESC`,
		medicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list medication logs: %w", err)
	}
	defer rows.Close()

	var logs []model.MedicationLog
	for rows.Next() {
		l, err := scanMedicationLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medication log: %w", err)
		}
		logs = append(logs, *l)
	}
	return logs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
