package store

import (
	"testing"

	"github.com/hearthhq/hearth/internal/model"
)

func TestUserCRUD(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	household := createTestHousehold(t, db, "USERS001")

	user, err := us.Create("alice@example.com", "hashed", "Alice", model.RoleGuardian, household.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if user.Role != model.RoleGuardian {
		t.Errorf("role = %q, want guardian", user.Role)
	}

	got, err := us.GetByEmail("alice@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got == nil || got.ID != user.ID {
		t.Errorf("got %+v, want user %d", got, user.ID)
	}
	if got.PasswordHash != "hashed" {
		t.Errorf("password hash = %q, want stored hash", got.PasswordHash)
	}

	updated, err := us.UpdateProfile(user.ID, "Alice Smith", "cat")
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.Name != "Alice Smith" || updated.Avatar != "cat" {
		t.Errorf("updated = %+v", updated)
	}

	if err := us.Delete(user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err = us.GetByID(user.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}

func TestUserListByHousehold(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	h1 := createTestHousehold(t, db, "LIST0001")
	h2 := createTestHousehold(t, db, "LIST0002")

	createTestUser(t, db, h1.ID, "a@example.com", model.RoleGuardian)
	createTestUser(t, db, h1.ID, "b@example.com", model.RoleMember)
	createTestUser(t, db, h2.ID, "c@example.com", model.RoleGuardian)

	users, err := us.ListByHousehold(h1.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("got %d users, want 2", len(users))
	}
	for _, u := range users {
		if u.HouseholdID != h1.ID {
			t.Errorf("user %d belongs to household %d", u.ID, u.HouseholdID)
		}
	}
}

func TestUserGetByEmailMissing(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)

	got, err := us.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown email")
	}
}
