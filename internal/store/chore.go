package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hearthhq/hearth/internal/model"
)

type ChoreStore struct {
	db *sql.DB
}

func NewChoreStore(db *sql.DB) *ChoreStore {
	return &ChoreStore{db: db}
}

func scanChore(scanner interface{ Scan(...any) error }) (*model.Chore, error) {
	var c model.Chore
	var assignedTo sql.NullInt64
	var startTime, completedAt sql.NullTime
	var completed int

	err := scanner.Scan(
		&c.ID, &c.Title, &c.Description, &assignedTo, &startTime,
		&c.DueDate, &c.Points, &completed, &completedAt,
		&c.HouseholdID, &c.CreatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Completed = completed != 0
	if assignedTo.Valid {
		c.AssignedTo = &assignedTo.Int64
	}
	if startTime.Valid {
		c.StartTime = &startTime.Time
	}
	if completedAt.Valid {
		c.CompletedAt = &completedAt.Time
	}
	return &c, nil
}

const choreCols = `id, title, description, assigned_to, start_time, due_date, points, completed, completed_at, household_id, created_by, created_at, updated_at`

func (s *ChoreStore) Create(householdID, createdBy int64, title, description string, assignedTo *int64, startTime *time.Time, dueDate time.Time, points int) (*model.Chore, error) {
	var aTo sql.NullInt64
	if assignedTo != nil {
		aTo = sql.NullInt64{Int64: *assignedTo, Valid: true}
	}
	var sTime sql.NullTime
	if startTime != nil {
		sTime = sql.NullTime{Time: *startTime, Valid: true}
	}

	result, err := s.db.Exec(
		`INSERT INTO chores (title, description, assigned_to, start_time, due_date, points, household_id, created_by) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		title, description, aTo, sTime, dueDate, points, householdID, createdBy,
	)
	if err != nil {
		return nil, fmt.Errorf("insert chore: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChoreStore) GetByID(id int64) (*model.Chore, error) {
	row := s.db.QueryRow(`SELECT `+choreCols+` FROM chores WHERE id = ?`, id)
	c, err := scanChore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get chore: %w", err)
	}
	return c, nil
}

func (s *ChoreStore) ListByHousehold(householdID int64) ([]model.Chore, error) {
	rows, err := s.db.Query(
		`SELECT `+choreCols+` FROM chores WHERE household_id = ? ORDER BY due_date ASC, created_at ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list chores: %w", err)
	}
	defer rows.Close()
	return collectChores(rows)
}

func (s *ChoreStore) ListByCompleted(householdID int64, completed bool) ([]model.Chore, error) {
	c := 0
	if completed {
		c = 1
	}
	rows, err := s.db.Query(
		`SELECT `+choreCols+` FROM chores WHERE household_id = ? AND completed = ? ORDER BY due_date ASC, created_at ASC`,
		householdID, c,
	)
	if err != nil {
		return nil, fmt.Errorf("list chores by completed: %w", err)
	}
	defer rows.Close()
	return collectChores(rows)
}

func collectChores(rows *sql.Rows) ([]model.Chore, error) {
	var chores []model.Chore
	for rows.Next() {
		c, err := scanChore(rows)
		if err != nil {
			return nil, fmt.Errorf("scan chore: %w", err)
		}
		chores = append(chores, *c)
	}
	return chores, rows.Err()
}

func (s *ChoreStore) Complete(id int64) (*model.Chore, error) {
	_, err := s.db.Exec(
		`UPDATE chores SET completed = 1, completed_at = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("complete chore: %w", err)
	}
	return s.GetByID(id)
}

func (s *ChoreStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM chores WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete chore: %w", err)
	}
	return nil
}

// Leaderboard sums completed-chore points per assignee for a household.
// Unassigned completions are excluded.
func (s *ChoreStore) Leaderboard(householdID int64) (map[int64]int, error) {
	rows, err := s.db.Query(
		`SELECT assigned_to, SUM(points) FROM chores
		 WHERE household_id = ? AND completed = 1 AND assigned_to IS NOT NULL
		 GROUP BY assigned_to`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	totals := make(map[int64]int)
	for rows.Next() {
		var userID int64
		var points int
		if err := rows.Scan(&userID, &points); err != nil {
			return nil, fmt.Errorf("scan leaderboard row: %w", err)
		}
		totals[userID] = points
	}
	return totals, rows.Err()
}
