package schedule

// ParsedItem echoes one materialized item back to the caller: the raw
// type and dateTime strings the model produced, plus points for chores.
type ParsedItem struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	DateTime    string `json:"date_time,omitempty"`
	Points      *int   `json:"points,omitempty"`
}

// Response is the outcome of one ProcessText call. Message is the only
// failure signal; failures never surface as errors to the HTTP layer.
type Response struct {
	Message            string       `json:"message"`
	Items              []ParsedItem `json:"items"`
	ChoresCreated      int          `json:"chores_created"`
	EventsCreated      int          `json:"events_created"`
	MedicationsCreated int          `json:"medications_created"`
	GroceriesCreated   int          `json:"groceries_created"`
}

// Canned user-facing outcome messages, mapped from internal outcomes in
// exactly one place (ProcessText).
const (
	msgNoAPIKey       = "AI scheduling requires an API key. Please configure OPENAI_API_KEY in your environment."
	msgNoResponse     = "Could not get a response from the assistant. Please try again."
	msgNoItems        = "I couldn't identify any tasks, events, medications, or grocery items in your message. Please try being more specific."
	msgNothingSaved   = "I understood your message but couldn't save any items. Please try again."
	msgSuccess        = "Successfully processed your schedule!"
	msgUnintelligible = "Sorry, I couldn't understand that. Please try again with clearer details."
)

func failure(message string) Response {
	return Response{Message: message, Items: []ParsedItem{}}
}
