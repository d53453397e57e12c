package schedule

import (
	"errors"
	"strings"
	"time"

	"github.com/hearthhq/hearth/internal/model"
)

// Defaults supplies the fallback values applied when the model omits a
// field. All materialization constants live here.
type Defaults struct {
	ChorePoints         int
	ChoreDueInDays      int
	EventStartHour      int
	EventDuration       time.Duration
	MedicationDosage    string
	MedicationInventory int
	GroceryNeededInDays int
}

func StandardDefaults() Defaults {
	return Defaults{
		ChorePoints:         10,
		ChoreDueInDays:      1,
		EventStartHour:      10,
		EventDuration:       time.Hour,
		MedicationDosage:    "As prescribed",
		MedicationInventory: 30,
		GroceryNeededInDays: 7,
	}
}

type ItemKind string

const (
	KindChore      ItemKind = "chore"
	KindEvent      ItemKind = "event"
	KindMedication ItemKind = "medication"
	KindGrocery    ItemKind = "grocery"
)

var (
	errMissingType  = errors.New("item has no type")
	errMissingTitle = errors.New("item has no title")
	errUnknownType  = errors.New("unknown item type")
)

// Item is one classified, fully defaulted item ready to persist. Exactly
// one of the kind-specific field structs is set.
type Item struct {
	Kind        ItemKind
	Title       string
	Description string
	RawDateTime string

	Chore      *ChoreFields
	Event      *EventFields
	Medication *MedicationFields
	Grocery    *GroceryFields
}

type ChoreFields struct {
	DueDate time.Time
	Points  int
}

type EventFields struct {
	Start time.Time
	End   time.Time
}

type MedicationFields struct {
	Dosage    string
	Morning   bool
	Afternoon bool
	Evening   bool
	Inventory int
}

type GroceryFields struct {
	Category model.GroceryCategory
	NeededBy time.Time
}

// Classify validates one raw item and converts it into a typed Item,
// applying defaults for anything missing. Items without a recognizable
// type or title are rejected here so the caller can skip them.
func Classify(raw RawItem, now time.Time, d Defaults) (*Item, error) {
	kind := strings.ToLower(strings.TrimSpace(raw.stringField("type")))
	if kind == "" {
		return nil, errMissingType
	}
	title := strings.TrimSpace(raw.stringField("title"))
	if title == "" {
		return nil, errMissingTitle
	}

	item := &Item{
		Kind:        ItemKind(kind),
		Title:       title,
		Description: raw.stringField("description"),
		RawDateTime: raw.stringField("dateTime"),
	}

	switch item.Kind {
	case KindChore:
		due, ok := parseDateTime(item.RawDateTime)
		if !ok {
			due = now.AddDate(0, 0, d.ChoreDueInDays)
		}
		points, ok := raw.intField("points")
		if !ok {
			points = d.ChorePoints
		}
		item.Chore = &ChoreFields{DueDate: due, Points: points}

	case KindEvent:
		start, ok := parseDateTime(item.RawDateTime)
		if !ok {
			tomorrow := now.AddDate(0, 0, 1)
			start = time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(),
				d.EventStartHour, 0, 0, 0, now.Location())
		}
		end, ok := parseDateTime(raw.stringField("endDateTime"))
		if !ok {
			end = start.Add(d.EventDuration)
		}
		item.Event = &EventFields{Start: start, End: end}

	case KindMedication:
		dosage := strings.TrimSpace(raw.stringField("dosage"))
		if dosage == "" {
			dosage = d.MedicationDosage
		}
		fields := &MedicationFields{Dosage: dosage, Inventory: d.MedicationInventory}
		for _, t := range raw.stringListField("times") {
			switch strings.ToLower(strings.TrimSpace(t)) {
			case "morning":
				fields.Morning = true
			case "afternoon":
				fields.Afternoon = true
			case "evening":
				fields.Evening = true
			}
		}
		item.Medication = fields

	case KindGrocery:
		item.Grocery = &GroceryFields{
			Category: model.ParseGroceryCategory(raw.stringField("category")),
			NeededBy: now.AddDate(0, 0, d.GroceryNeededInDays),
		}

	default:
		return nil, errUnknownType
	}

	return item, nil
}

// parseDateTime accepts the ISO local format the prompt asks for, with
// RFC 3339 and minute precision as fallbacks.
func parseDateTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{"2006-01-02T15:04:05", time.RFC3339, "2006-01-02T15:04"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
