package schedule

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hearthhq/hearth/internal/model"
)

type fakeChoreStore struct {
	created []*model.Chore
	err     error
}

func (f *fakeChoreStore) Create(householdID, createdBy int64, title, description string, assignedTo *int64, startTime *time.Time, dueDate time.Time, points int) (*model.Chore, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := &model.Chore{
		ID:          int64(len(f.created) + 1),
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Points:      points,
		HouseholdID: householdID,
		CreatedBy:   createdBy,
	}
	f.created = append(f.created, c)
	return c, nil
}

type fakeEventStore struct {
	created []*model.CalendarEvent
	err     error
}

func (f *fakeEventStore) Create(householdID, createdBy int64, title, description string, start, end time.Time, typ model.EventType, participantIDs []int64) (*model.CalendarEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	e := &model.CalendarEvent{
		ID:          int64(len(f.created) + 1),
		Title:       title,
		StartTime:   start,
		EndTime:     end,
		Type:        typ,
		HouseholdID: householdID,
	}
	f.created = append(f.created, e)
	return e, nil
}

type fakeMedicationStore struct {
	created []*model.Medication
	err     error
}

func (f *fakeMedicationStore) Create(householdID int64, name, dosage, instructions string, morning, afternoon, evening bool, inventory int, assignedTo *int64) (*model.Medication, error) {
	if f.err != nil {
		return nil, f.err
	}
	m := &model.Medication{
		ID:          int64(len(f.created) + 1),
		Name:        name,
		Dosage:      dosage,
		Morning:     morning,
		Afternoon:   afternoon,
		Evening:     evening,
		Inventory:   inventory,
		HouseholdID: householdID,
	}
	f.created = append(f.created, m)
	return m, nil
}

type fakeGroceryStore struct {
	created []*model.GroceryItem
	err     error
	panic   bool
}

func (f *fakeGroceryStore) Create(householdID, addedBy int64, name string, category model.GroceryCategory, neededBy time.Time) (*model.GroceryItem, error) {
	if f.panic {
		panic("grocery store exploded")
	}
	if f.err != nil {
		return nil, f.err
	}
	g := &model.GroceryItem{
		ID:          int64(len(f.created) + 1),
		Name:        name,
		Category:    category,
		NeededBy:    neededBy,
		HouseholdID: householdID,
		AddedBy:     addedBy,
	}
	f.created = append(f.created, g)
	return g, nil
}

type fakeStores struct {
	chores      *fakeChoreStore
	events      *fakeEventStore
	medications *fakeMedicationStore
	groceries   *fakeGroceryStore
}

func (f *fakeStores) totalCreated() int {
	return len(f.chores.created) + len(f.events.created) +
		len(f.medications.created) + len(f.groceries.created)
}

func newFakeStores() *fakeStores {
	return &fakeStores{
		chores:      &fakeChoreStore{},
		events:      &fakeEventStore{},
		medications: &fakeMedicationStore{},
		groceries:   &fakeGroceryStore{},
	}
}

func newTestService(client *Client, stores *fakeStores) *Service {
	svc := NewService(client, stores.chores, stores.events, stores.medications, stores.groceries, slog.Default())
	svc.now = func() time.Time { return testNow }
	return svc
}

// replyServer serves a fixed chat completion payload wrapping content.
func replyServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(chatReply(content)))
	}))
	t.Cleanup(server.Close)
	return server
}

func processReply(t *testing.T, content string) (Response, *fakeStores) {
	t.Helper()
	server := replyServer(t, content)
	stores := newFakeStores()
	svc := newTestService(NewClient(ClientConfig{APIKey: "k", BaseURL: server.URL}), stores)
	return svc.ProcessText(context.Background(), "plan my week", 1, 2), stores
}

func TestProcessTextWithoutClient(t *testing.T) {
	stores := newFakeStores()
	svc := newTestService(nil, stores)

	resp := svc.ProcessText(context.Background(), "buy milk", 1, 2)

	if resp.Message != msgNoAPIKey {
		t.Errorf("message = %q, want api key message", resp.Message)
	}
	if stores.totalCreated() != 0 {
		t.Errorf("created %d items, want none", stores.totalCreated())
	}
	if resp.Items == nil || len(resp.Items) != 0 {
		t.Errorf("items = %v, want empty non-nil slice", resp.Items)
	}
}

func TestProcessTextSuccess(t *testing.T) {
	resp, stores := processReply(t, `[
		{"type":"chore","title":"Mow the lawn","dateTime":"2025-03-10T09:00:00","points":15},
		{"type":"event","title":"Dentist","dateTime":"2025-03-12T16:00:00"},
		{"type":"medication","title":"Vitamin D","times":["morning","evening"]},
		{"type":"grocery","title":"Chicken","category":"meat"}
	]`)

	if resp.Message != msgSuccess {
		t.Fatalf("message = %q, want success", resp.Message)
	}
	if resp.ChoresCreated != 1 || resp.EventsCreated != 1 || resp.MedicationsCreated != 1 || resp.GroceriesCreated != 1 {
		t.Errorf("counters = %d/%d/%d/%d, want 1 each",
			resp.ChoresCreated, resp.EventsCreated, resp.MedicationsCreated, resp.GroceriesCreated)
	}
	if len(resp.Items) != 4 {
		t.Fatalf("echoed %d items, want 4", len(resp.Items))
	}

	chore := stores.chores.created[0]
	if chore.Points != 15 {
		t.Errorf("chore points = %d, want 15", chore.Points)
	}
	if !chore.DueDate.Equal(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local)) {
		t.Errorf("chore due = %v, want parsed dateTime", chore.DueDate)
	}
	if resp.Items[0].Points == nil || *resp.Items[0].Points != 15 {
		t.Error("chore echo should carry persisted points")
	}
	if resp.Items[0].DateTime != "2025-03-10T09:00:00" {
		t.Errorf("chore echo dateTime = %q, want raw string back", resp.Items[0].DateTime)
	}

	event := stores.events.created[0]
	if !event.EndTime.Equal(event.StartTime.Add(time.Hour)) {
		t.Errorf("event end = %v, want start plus one hour", event.EndTime)
	}
	if event.Type != model.EventOther {
		t.Errorf("event type = %q, want OTHER", event.Type)
	}

	med := stores.medications.created[0]
	if med.Inventory != 30 {
		t.Errorf("medication inventory = %d, want 30", med.Inventory)
	}
	if !med.Morning || med.Afternoon || !med.Evening {
		t.Error("medication times should be morning and evening")
	}

	grocery := stores.groceries.created[0]
	if grocery.Category != model.CategoryMeat {
		t.Errorf("grocery category = %q, want MEAT", grocery.Category)
	}
	if !grocery.NeededBy.Equal(testNow.AddDate(0, 0, 7)) {
		t.Errorf("grocery needed by = %v, want seven days out", grocery.NeededBy)
	}
}

func TestProcessTextFencedReplyMatchesPlain(t *testing.T) {
	payload := `[{"type":"grocery","title":"Milk","category":"dairy"}]`

	plain, _ := processReply(t, payload)
	fenced, _ := processReply(t, "```json\n"+payload+"\n```")

	if plain.Message != fenced.Message || plain.GroceriesCreated != fenced.GroceriesCreated {
		t.Errorf("fenced reply diverged: %+v vs %+v", fenced, plain)
	}
	if fenced.Message != msgSuccess {
		t.Errorf("message = %q, want success", fenced.Message)
	}
}

func TestProcessTextSkipsUnusableItems(t *testing.T) {
	resp, stores := processReply(t, `[
		{"title":"no type"},
		{"type":"reminder","title":"unknown kind"},
		{"type":"chore"},
		{"type":"grocery","title":"Bread"}
	]`)

	if resp.Message != msgSuccess {
		t.Errorf("message = %q, want success despite skips", resp.Message)
	}
	if stores.totalCreated() != 1 {
		t.Errorf("created %d items, want only the valid grocery", stores.totalCreated())
	}
	if resp.GroceriesCreated != 1 || len(resp.Items) != 1 {
		t.Errorf("response = %+v, want one grocery echoed", resp)
	}
}

func TestProcessTextSkipsFailedPersistence(t *testing.T) {
	server := replyServer(t, `[
		{"type":"chore","title":"Dishes"},
		{"type":"grocery","title":"Bread"}
	]`)
	stores := newFakeStores()
	stores.chores.err = errors.New("disk full")
	svc := newTestService(NewClient(ClientConfig{APIKey: "k", BaseURL: server.URL}), stores)

	resp := svc.ProcessText(context.Background(), "chores and shopping", 1, 2)

	if resp.Message != msgSuccess {
		t.Errorf("message = %q, want success for the surviving item", resp.Message)
	}
	if resp.ChoresCreated != 0 || resp.GroceriesCreated != 1 {
		t.Errorf("counters = %d chores, %d groceries, want 0 and 1",
			resp.ChoresCreated, resp.GroceriesCreated)
	}
}

func TestProcessTextAllItemsRejected(t *testing.T) {
	resp, stores := processReply(t, `[{"title":"no type"},{"type":"mystery","title":"x"}]`)

	if resp.Message != msgNothingSaved {
		t.Errorf("message = %q, want nothing saved message", resp.Message)
	}
	if stores.totalCreated() != 0 {
		t.Errorf("created %d items, want none", stores.totalCreated())
	}
}

func TestProcessTextUnparseableReply(t *testing.T) {
	resp, stores := processReply(t, "I think you should mow the lawn tomorrow.")

	if resp.Message != msgNoItems {
		t.Errorf("message = %q, want no items message", resp.Message)
	}
	if stores.totalCreated() != 0 {
		t.Errorf("created %d items, want none", stores.totalCreated())
	}
}

func TestProcessTextBlankReply(t *testing.T) {
	resp, _ := processReply(t, "   ")

	if resp.Message != msgNoResponse {
		t.Errorf("message = %q, want no response message", resp.Message)
	}
}

func TestProcessTextUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	stores := newFakeStores()
	svc := newTestService(NewClient(ClientConfig{APIKey: "k", BaseURL: server.URL}), stores)

	resp := svc.ProcessText(context.Background(), "plan my week", 1, 2)

	if resp.Message != msgNoResponse {
		t.Errorf("message = %q, want no response message", resp.Message)
	}
	if stores.totalCreated() != 0 {
		t.Errorf("created %d items, want none", stores.totalCreated())
	}
}

func TestProcessTextRecoversFromPanic(t *testing.T) {
	server := replyServer(t, `[{"type":"grocery","title":"Milk"}]`)
	stores := newFakeStores()
	stores.groceries.panic = true
	svc := newTestService(NewClient(ClientConfig{APIKey: "k", BaseURL: server.URL}), stores)

	resp := svc.ProcessText(context.Background(), "buy milk", 1, 2)

	if resp.Message != msgUnintelligible {
		t.Errorf("message = %q, want fallback message", resp.Message)
	}
}
