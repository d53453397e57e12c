package schedule

import (
	"encoding/json"
	"strings"
)

// RawItem is one untyped object from the model's JSON array, exactly as
// decoded. All validation happens later in Classify.
type RawItem map[string]any

// ParseItems decodes the model's reply into raw items, tolerating a
// markdown code fence around the array. Any decode failure yields an
// empty list rather than an error; the caller treats that as "nothing
// identified".
func ParseItems(reply string) []RawItem {
	cleaned := stripFence(reply)

	var items []RawItem
	if err := json.Unmarshal([]byte(cleaned), &items); err != nil {
		return nil
	}
	return items
}

// stripFence removes a leading ```json or ``` marker and a trailing ```
// marker, if present.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = s[len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func (r RawItem) stringField(key string) string {
	if v, ok := r[key].(string); ok {
		return v
	}
	return ""
}

func (r RawItem) intField(key string) (int, bool) {
	if v, ok := r[key].(float64); ok {
		return int(v), true
	}
	return 0, false
}

func (r RawItem) stringListField(key string) []string {
	raw, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
