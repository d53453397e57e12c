package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/hearthhq/hearth/internal/model"
)

type GroceryStore struct {
	db *sql.DB
}

func NewGroceryStore(db *sql.DB) *GroceryStore {
	return &GroceryStore{db: db}
}

func scanGroceryItem(scanner interface{ Scan(...any) error }) (*model.GroceryItem, error) {
	var item model.GroceryItem
	var checked int

	err := scanner.Scan(
		&item.ID, &item.Name, &item.Category, &item.NeededBy, &checked,
		&item.AddedBy, &item.HouseholdID, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.Checked = checked != 0
	return &item, nil
}

const groceryItemCols = `id, name, category, needed_by, checked, added_by, household_id, created_at, updated_at`

func (s *GroceryStore) Create(householdID, addedBy int64, name string, category model.GroceryCategory, neededBy time.Time) (*model.GroceryItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO grocery_items (name, category, needed_by, added_by, household_id) VALUES (?, ?, ?, ?, ?)`,
		name, string(category), neededBy, addedBy, householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("insert grocery item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *GroceryStore) GetByID(id int64) (*model.GroceryItem, error) {
	row := s.db.QueryRow(`SELECT `+groceryItemCols+` FROM grocery_items WHERE id = ?`, id)
	item, err := scanGroceryItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get grocery item: %w", err)
	}
	return item, nil
}

func (s *GroceryStore) ListByHousehold(householdID int64) ([]model.GroceryItem, error) {
	rows, err := s.db.Query(
		`SELECT `+groceryItemCols+` FROM grocery_items WHERE household_id = ? ORDER BY checked ASC, category ASC, created_at ASC`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("list grocery items: %w", err)
	}
	defer rows.Close()

	var items []model.GroceryItem
	for rows.Next() {
		item, err := scanGroceryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan grocery item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (s *GroceryStore) ToggleChecked(id int64) (*model.GroceryItem, error) {
	item, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	checked := 1
	if item.Checked {
		checked = 0
	}
	_, err = s.db.Exec(
		`UPDATE grocery_items SET checked = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		checked, id,
	)
	if err != nil {
		return nil, fmt.Errorf("toggle checked: %w", err)
	}
	return s.GetByID(id)
}

func (s *GroceryStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM grocery_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete grocery item: %w", err)
	}
	return nil
}

func (s *GroceryStore) ClearChecked(householdID int64) (int64, error) {
	result, err := s.db.Exec(
		`DELETE FROM grocery_items WHERE household_id = ? AND checked = 1`,
		householdID,
	)
	if err != nil {
		return 0, fmt.Errorf("clear checked: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
