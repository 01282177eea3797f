package roster

import (
	"sort"
	"strings"
	"time"
)

// Upstream rows carry the literal string "null" where a value was never set.
// Treat it as absent everywhere, never as content.
func clean(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || strings.EqualFold(trimmed, "null") {
		return ""
	}
	return trimmed
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// NormalizeDate accepts the two shapes dates arrive in — a bare string or a
// {"value": "..."} envelope — and resolves them once at the ingestion
// boundary. The zero time with ok=false means "no usable date".
func NormalizeDate(raw any) (time.Time, bool) {
	switch v := raw.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		if v.IsZero() {
			return time.Time{}, false
		}
		return v, true
	case string:
		return parseDate(v)
	case map[string]any:
		inner, ok := v["value"].(string)
		if !ok {
			return time.Time{}, false
		}
		return parseDate(inner)
	default:
		return time.Time{}, false
	}
}

func parseDate(value string) (time.Time, bool) {
	cleaned := clean(value)
	if cleaned == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, cleaned); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

// noteLabelOrder fixes the display order of note fields. The set of populated
// labels varies by source era; absent labels are simply skipped.
var noteLabelOrder = []string{
	"purpose",
	"values",
	"challenges",
	"commitments",
	"followup",
	"notes",
}

// NormalizeNoteFields maps a raw note payload into ordered labeled fields,
// dropping empty and "null" values. Labels outside the known order are
// appended afterwards, alphabetically by label.
func NormalizeNoteFields(raw map[string]string) []NoteField {
	if len(raw) == 0 {
		return nil
	}
	fields := make([]NoteField, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, label := range noteLabelOrder {
		if value := clean(raw[label]); value != "" {
			fields = append(fields, NoteField{Label: label, Value: value})
		}
		seen[label] = true
	}
	// Unknown labels pass through so new source eras degrade gracefully.
	extras := make([]NoteField, 0)
	for label, rawValue := range raw {
		if seen[label] {
			continue
		}
		if value := clean(rawValue); value != "" {
			extras = append(extras, NoteField{Label: label, Value: value})
		}
	}
	sort.SliceStable(extras, func(i, j int) bool { return extras[i].Label < extras[j].Label })
	return append(fields, extras...)
}

// NoteSummary joins non-empty note values with " | " for list display.
func NoteSummary(fields []NoteField) string {
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		if field.Value != "" {
			parts = append(parts, field.Value)
		}
	}
	return strings.Join(parts, " | ")
}

// noteField returns the value of one labeled field, or "".
func noteField(fields []NoteField, label string) string {
	for _, field := range fields {
		if field.Label == label {
			return field.Value
		}
	}
	return ""
}
