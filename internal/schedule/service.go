package schedule

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/hearthhq/hearth/internal/model"
)

// Narrow persistence interfaces so the service only sees the create
// operations it needs. The store types satisfy these directly.
type ChoreCreator interface {
	Create(householdID, createdBy int64, title, description string, assignedTo *int64, startTime *time.Time, dueDate time.Time, points int) (*model.Chore, error)
}

type EventCreator interface {
	Create(householdID, createdBy int64, title, description string, start, end time.Time, typ model.EventType, participantIDs []int64) (*model.CalendarEvent, error)
}

type MedicationCreator interface {
	Create(householdID int64, name, dosage, instructions string, morning, afternoon, evening bool, inventory int, assignedTo *int64) (*model.Medication, error)
}

type GroceryCreator interface {
	Create(householdID, addedBy int64, name string, category model.GroceryCategory, neededBy time.Time) (*model.GroceryItem, error)
}

// Service turns free-form household text into persisted chores, events,
// medications, and grocery items via a chat completion model.
type Service struct {
	client      *Client
	chores      ChoreCreator
	events      EventCreator
	medications MedicationCreator
	groceries   GroceryCreator
	defaults    Defaults
	logger      *slog.Logger
	now         func() time.Time
}

// NewService creates the schedule service. client may be nil when no API
// key is configured; ProcessText then reports the feature as unavailable.
func NewService(client *Client, chores ChoreCreator, events EventCreator, medications MedicationCreator, groceries GroceryCreator, logger *slog.Logger) *Service {
	return &Service{
		client:      client,
		chores:      chores,
		events:      events,
		medications: medications,
		groceries:   groceries,
		defaults:    StandardDefaults(),
		logger:      logger,
		now:         time.Now,
	}
}

// ProcessText interprets text for the given household and persists every
// item it can. It always returns a Response; every failure mode maps to
// a canned message rather than an error, so callers reply 200 regardless.
func (s *Service) ProcessText(ctx context.Context, text string, householdID, userID int64) (resp Response) {
	// Interpretation must never take the request down with it.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("schedule interpretation panicked", "panic", r)
			resp = failure(msgUnintelligible)
		}
	}()

	if s.client == nil {
		return failure(msgNoAPIKey)
	}

	reply, err := s.client.Complete(ctx, SystemPrompt(s.now()), text)
	if err != nil {
		s.logger.Error("chat completion failed", "error", err)
		return failure(msgNoResponse)
	}
	if strings.TrimSpace(reply) == "" {
		return failure(msgNoResponse)
	}

	rawItems := ParseItems(reply)
	if len(rawItems) == 0 {
		s.logger.Warn("no items parsed from model reply", "reply_len", len(reply))
		return failure(msgNoItems)
	}

	resp = Response{Items: []ParsedItem{}}
	now := s.now()
	for _, raw := range rawItems {
		item, err := Classify(raw, now, s.defaults)
		if err != nil {
			s.logger.Warn("skipping unusable item", "error", err)
			continue
		}
		echo, err := s.materialize(item, householdID, userID)
		if err != nil {
			s.logger.Warn("skipping item that failed to persist",
				"kind", item.Kind, "title", item.Title, "error", err)
			continue
		}
		resp.Items = append(resp.Items, echo)
		switch item.Kind {
		case KindChore:
			resp.ChoresCreated++
		case KindEvent:
			resp.EventsCreated++
		case KindMedication:
			resp.MedicationsCreated++
		case KindGrocery:
			resp.GroceriesCreated++
		}
	}

	if len(resp.Items) == 0 {
		resp.Message = msgNothingSaved
		return resp
	}
	resp.Message = msgSuccess
	return resp
}

// materialize persists one classified item and builds its echo entry.
func (s *Service) materialize(item *Item, householdID, userID int64) (ParsedItem, error) {
	echo := ParsedItem{
		Type:        string(item.Kind),
		Title:       item.Title,
		Description: item.Description,
		DateTime:    item.RawDateTime,
	}

	switch item.Kind {
	case KindChore:
		chore, err := s.chores.Create(householdID, userID, item.Title, item.Description,
			nil, nil, item.Chore.DueDate, item.Chore.Points)
		if err != nil {
			return ParsedItem{}, err
		}
		echo.Points = &chore.Points

	case KindEvent:
		_, err := s.events.Create(householdID, userID, item.Title, item.Description,
			item.Event.Start, item.Event.End, model.EventOther, nil)
		if err != nil {
			return ParsedItem{}, err
		}

	case KindMedication:
		m := item.Medication
		_, err := s.medications.Create(householdID, item.Title, m.Dosage, item.Description,
			m.Morning, m.Afternoon, m.Evening, m.Inventory, nil)
		if err != nil {
			return ParsedItem{}, err
		}

	case KindGrocery:
		_, err := s.groceries.Create(householdID, userID, item.Title,
			item.Grocery.Category, item.Grocery.NeededBy)
		if err != nil {
			return ParsedItem{}, err
		}
	}

	return echo, nil
}
