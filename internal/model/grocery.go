package model

import (
	"strings"
	"time"
)

// GroceryCategory is the fixed set of grocery aisle categories.
type GroceryCategory string

const (
	CategoryProduce GroceryCategory = "PRODUCE"
	CategoryDairy   GroceryCategory = "DAIRY"
	CategoryMeat    GroceryCategory = "MEAT"
	CategoryPantry  GroceryCategory = "PANTRY"
	CategoryOther   GroceryCategory = "OTHER"
)

// ParseGroceryCategory matches s case-insensitively against the known
// categories. Anything unrecognized, including the empty string, resolves
// to OTHER.
func ParseGroceryCategory(s string) GroceryCategory {
	switch GroceryCategory(strings.ToUpper(strings.TrimSpace(s))) {
	case CategoryProduce:
		return CategoryProduce
	case CategoryDairy:
		return CategoryDairy
	case CategoryMeat:
		return CategoryMeat
	case CategoryPantry:
		return CategoryPantry
	default:
		return CategoryOther
	}
}

type GroceryItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Category    GroceryCategory `json:"category"`
	NeededBy    time.Time       `json:"needed_by"`
	Checked     bool            `json:"checked"`
	AddedBy     int64           `json:"added_by"`
	HouseholdID int64           `json:"household_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
