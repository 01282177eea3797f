package roster

import (
	"sort"
	"strings"
)

// SortKey selects the comparator for ordering fused records.
type SortKey string

const (
	SortByName        SortKey = "name"
	SortByChapter     SortKey = "chapter"
	SortByTeam        SortKey = "team"
	SortByOrganizer   SortKey = "organizer"
	SortByLastContact SortKey = "lastContact"
	SortByMeetings    SortKey = "meetings"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// DefaultDirection gives text-like keys ascending order and date/count keys
// descending ("most recent / most active first").
func DefaultDirection(key SortKey) Direction {
	switch key {
	case SortByLastContact, SortByMeetings:
		return Descending
	default:
		return Ascending
	}
}

// Sort orders records by key. The sort is stable in ascending order and
// descending is the exact reverse of ascending, so toggling direction never
// reorders equal keys.
func Sort(records []FusedPersonRecord, key SortKey, direction Direction, teams TeamIndex) []FusedPersonRecord {
	out := make([]FusedPersonRecord, len(records))
	copy(out, records)

	less := comparator(key, teams)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	if direction == Descending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

// Page returns the first limit records of an already-sorted set. limit <= 0
// means no window.
func Page(records []FusedPersonRecord, limit int) []FusedPersonRecord {
	if limit <= 0 || limit >= len(records) {
		return records
	}
	return records[:limit]
}

func comparator(key SortKey, teams TeamIndex) func(a, b FusedPersonRecord) bool {
	switch key {
	case SortByChapter:
		return func(a, b FusedPersonRecord) bool {
			return strings.ToLower(a.Chapter) < strings.ToLower(b.Chapter)
		}
	case SortByTeam:
		return func(a, b FusedPersonRecord) bool {
			return teamSortValue(a, teams) < teamSortValue(b, teams)
		}
	case SortByOrganizer:
		return func(a, b FusedPersonRecord) bool {
			return firstOrEmpty(a.Organizers) < firstOrEmpty(b.Organizers)
		}
	case SortByLastContact:
		return func(a, b FusedPersonRecord) bool {
			return contactStamp(a) < contactStamp(b)
		}
	case SortByMeetings:
		return func(a, b FusedPersonRecord) bool {
			return a.InteractionCount < b.InteractionCount
		}
	default: // SortByName
		return func(a, b FusedPersonRecord) bool {
			aLast, aFull := nameSortKeys(a.DisplayName)
			bLast, bFull := nameSortKeys(b.DisplayName)
			if aLast != bLast {
				return aLast < bLast
			}
			return aFull < bFull
		}
	}
}

// nameSortKeys orders surname-first: the last whitespace token, then the full
// name as tie-break, both case-insensitive.
func nameSortKeys(name string) (string, string) {
	lowered := strings.ToLower(strings.TrimSpace(name))
	tokens := strings.Fields(lowered)
	if len(tokens) == 0 {
		return "", ""
	}
	return tokens[len(tokens)-1], lowered
}

// teamSortValue sorts by the first team name; the empty team sorts last.
func teamSortValue(record FusedPersonRecord, teams TeamIndex) string {
	names := teams[record.ID]
	if len(names) == 0 {
		return "￿"
	}
	return strings.ToLower(names[0])
}

func firstOrEmpty(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return strings.ToLower(values[0])
}

// contactStamp sorts no-date records as the oldest possible value so they
// land together at one end rather than scattering.
func contactStamp(record FusedPersonRecord) int64 {
	if record.MostRecentContact == nil {
		return -1 << 62
	}
	return record.MostRecentContact.Unix()
}
