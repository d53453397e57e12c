package store

import (
	"testing"
	"time"

	"github.com/hearthhq/hearth/internal/model"
)

func TestChoreCreateAndComplete(t *testing.T) {
	db := setupTestDB(t)
	cs := NewChoreStore(db)
	household := createTestHousehold(t, db, "CHORE001")
	user := createTestUser(t, db, household.ID, "alice@example.com", model.RoleGuardian)

	due := time.Now().Add(24 * time.Hour).UTC().Truncate(time.Second)
	chore, err := cs.Create(household.ID, user.ID, "Dishes", "After dinner", &user.ID, nil, due, 10)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if chore.Completed {
		t.Error("new chore should not be completed")
	}
	if chore.Points != 10 {
		t.Errorf("points = %d, want 10", chore.Points)
	}
	if chore.AssignedTo == nil || *chore.AssignedTo != user.ID {
		t.Errorf("assigned_to = %v, want %d", chore.AssignedTo, user.ID)
	}

	completed, err := cs.Complete(chore.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !completed.Completed {
		t.Error("chore should be completed")
	}
	if completed.CompletedAt == nil {
		t.Error("completed_at should be set")
	}
}

func TestChoreListByCompleted(t *testing.T) {
	db := setupTestDB(t)
	cs := NewChoreStore(db)
	household := createTestHousehold(t, db, "CHORE002")
	user := createTestUser(t, db, household.ID, "alice@example.com", model.RoleGuardian)

	due := time.Now().Add(24 * time.Hour)
	done, err := cs.Create(household.ID, user.ID, "Done chore", "", nil, nil, due, 5)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := cs.Create(household.ID, user.ID, "Pending chore", "", nil, nil, due, 5); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := cs.Complete(done.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	pending, err := cs.ListByCompleted(household.ID, false)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(pending) != 1 || pending[0].Title != "Pending chore" {
		t.Errorf("pending = %+v, want only the pending chore", pending)
	}

	finished, err := cs.ListByCompleted(household.ID, true)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	if len(finished) != 1 || finished[0].Title != "Done chore" {
		t.Errorf("finished = %+v, want only the done chore", finished)
	}
}

func TestChoreLeaderboard(t *testing.T) {
	db := setupTestDB(t)
	cs := NewChoreStore(db)
	household := createTestHousehold(t, db, "CHORE003")
	alice := createTestUser(t, db, household.ID, "alice@example.com", model.RoleGuardian)
	bob := createTestUser(t, db, household.ID, "bob@example.com", model.RoleMember)

	due := time.Now().Add(24 * time.Hour)

	// Alice completes two chores, Bob one; one of Alice's stays pending
	// and an unassigned chore is completed but counts for nobody.
	for _, tc := range []struct {
		title    string
		assignee *int64
		points   int
		complete bool
	}{
		{"a1", &alice.ID, 10, true},
		{"a2", &alice.ID, 15, true},
		{"a3", &alice.ID, 50, false},
		{"b1", &bob.ID, 5, true},
		{"orphan", nil, 100, true},
	} {
		chore, err := cs.Create(household.ID, alice.ID, tc.title, "", tc.assignee, nil, due, tc.points)
		if err != nil {
			t.Fatalf("create %s: %v", tc.title, err)
		}
		if tc.complete {
			if _, err := cs.Complete(chore.ID); err != nil {
				t.Fatalf("complete %s: %v", tc.title, err)
			}
		}
	}

	board, err := cs.Leaderboard(household.ID)
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if board[alice.ID] != 25 {
		t.Errorf("alice points = %d, want 25", board[alice.ID])
	}
	if board[bob.ID] != 5 {
		t.Errorf("bob points = %d, want 5", board[bob.ID])
	}
	if len(board) != 2 {
		t.Errorf("leaderboard has %d entries, want 2", len(board))
	}
}

func TestChoreDelete(t *testing.T) {
	db := setupTestDB(t)
	cs := NewChoreStore(db)
	household := createTestHousehold(t, db, "CHORE004")
	user := createTestUser(t, db, household.ID, "alice@example.com", model.RoleGuardian)

	chore, err := cs.Create(household.ID, user.ID, "Temp", "", nil, nil, time.Now(), 1)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := cs.Delete(chore.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	got, err := cs.GetByID(chore.ID)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Error("expected nil after delete")
	}
}
