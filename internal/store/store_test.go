package store

import (
	"database/sql"
	"testing"

	"github.com/hearthhq/hearth/internal/database"
	"github.com/hearthhq/hearth/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestHousehold(t *testing.T, db *sql.DB, inviteCode string) *model.Household {
	t.Helper()
	household, err := NewHouseholdStore(db).Create("Test Household", inviteCode)
	if err != nil {
		t.Fatalf("create test household: %v", err)
	}
	return household
}

func createTestUser(t *testing.T, db *sql.DB, householdID int64, email, role string) *model.User {
	t.Helper()
	user, err := NewUserStore(db).Create(email, "hash", "Test User", role, householdID)
	if err != nil {
		t.Fatalf("create test user: %v", err)
	}
	return user
}
