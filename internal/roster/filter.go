package roster

import (
	"fmt"
	"strings"
	"time"
)

// DateBucket filters on recency of contact relative to "now".
type DateBucket string

const (
	BucketAny      DateBucket = ""
	BucketWithin7  DateBucket = "within_7"
	BucketWithin14 DateBucket = "within_14"
	BucketWithin30 DateBucket = "within_30"
	BucketWithin90 DateBucket = "within_90"
	BucketOver30   DateBucket = "over_30"
	BucketOver90   DateBucket = "over_90"
	BucketOver180  DateBucket = "over_180"
	BucketNever    DateBucket = "never"
)

// CountBucket filters on how many interactions a record has.
type CountBucket string

const (
	CountAny  CountBucket = ""
	CountZero CountBucket = "zero"
	CountSome CountBucket = "some"
)

// Criteria is the conjunction of independent filters. Zero values mean "no
// restriction" for every field.
type Criteria struct {
	Query       string
	Chapter     string
	Organizer   string // canonical name or id; expanded through the alias table
	Statuses    []string
	Leadership  []string
	LastContact DateBucket
	Meetings    CountBucket
	Asked       TriState
	Made        TriState
	Team        string
}

// HasIdentityOnlyFilter reports whether a criterion depends on fields a
// pledge-only synthesized record cannot carry (membership/leadership status).
// Merge callers use this to disable synthesis.
func (c Criteria) HasIdentityOnlyFilter() bool {
	return len(c.Statuses) > 0 || len(c.Leadership) > 0
}

// Filter applies criteria over records and returns the survivors in input
// order. An unrecognized bucket value is a programmer error and is reported,
// never silently tolerated.
func Filter(records []FusedPersonRecord, criteria Criteria, env Env) ([]FusedPersonRecord, error) {
	if err := validateCriteria(criteria); err != nil {
		return nil, err
	}
	out := make([]FusedPersonRecord, 0, len(records))
	for _, record := range records {
		if matches(record, criteria, env) {
			out = append(out, record)
		}
	}
	return out, nil
}

func validateCriteria(criteria Criteria) error {
	switch criteria.LastContact {
	case BucketAny, BucketWithin7, BucketWithin14, BucketWithin30, BucketWithin90,
		BucketOver30, BucketOver90, BucketOver180, BucketNever:
	default:
		return fmt.Errorf("unknown date bucket %q", criteria.LastContact)
	}
	switch criteria.Meetings {
	case CountAny, CountZero, CountSome:
	default:
		return fmt.Errorf("unknown count bucket %q", criteria.Meetings)
	}
	return nil
}

func matches(record FusedPersonRecord, criteria Criteria, env Env) bool {
	return matchesQuery(record, criteria.Query, env) &&
		matchesChapter(record, criteria.Chapter) &&
		matchesOrganizer(record, criteria.Organizer, env.Aliases) &&
		matchesVocab(record.MembershipStatus, criteria.Statuses) &&
		matchesVocab(record.LeadershipLevel, criteria.Leadership) &&
		matchesDateBucket(record.MostRecentContact, criteria.LastContact, env.Now) &&
		matchesCountBucket(record.InteractionCount, criteria.Meetings) &&
		matchesTriState(record.LatestAsked, criteria.Asked) &&
		matchesTriState(record.LatestMade, criteria.Made) &&
		matchesTeam(record, criteria.Team, env.Teams)
}

// Free text matches name or email unconditionally; the latest note summary
// only counts when the viewer is allowed to read that note, so restricted
// notes cannot leak through search.
func matchesQuery(record FusedPersonRecord, query string, env Env) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(record.DisplayName), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(record.Email), needle) {
		return true
	}
	if record.LatestNoteSummary != "" && NoteVisible(env.Viewer, record.LatestCounterpart, env) {
		return strings.Contains(strings.ToLower(record.LatestNoteSummary), needle)
	}
	return false
}

// NoteVisible implements the note visibility rule: oversight team members see
// everything, authors see their own notes, and anyone sharing a team with the
// note's counterpart sees it. Evaluated per interaction, not per person.
func NoteVisible(viewer ViewerContext, counterpartID string, env Env) bool {
	if env.OversightTeam != "" {
		for _, team := range viewer.Teams {
			if team == env.OversightTeam {
				return true
			}
		}
	}
	if viewer.UserID != "" && viewer.UserID == counterpartID {
		return true
	}
	counterpartTeams := env.Teams[counterpartID]
	for _, viewerTeam := range viewer.Teams {
		for _, theirTeam := range counterpartTeams {
			if viewerTeam == theirTeam {
				return true
			}
		}
	}
	return false
}

func matchesChapter(record FusedPersonRecord, chapter string) bool {
	if strings.TrimSpace(chapter) == "" {
		return true
	}
	return record.Chapter == chapter
}

// matchesOrganizer succeeds when any of the record's organizer assignments
// intersects the filter value's equivalence class from the alias table.
func matchesOrganizer(record FusedPersonRecord, organizer string, aliases AliasTable) bool {
	wanted := strings.TrimSpace(organizer)
	if wanted == "" {
		return true
	}
	equivalents := map[string]bool{strings.ToLower(wanted): true}
	for canonical, spellings := range aliases {
		inClass := strings.EqualFold(canonical, wanted)
		if !inClass {
			for _, spelling := range spellings {
				if strings.EqualFold(spelling, wanted) {
					inClass = true
					break
				}
			}
		}
		if inClass {
			equivalents[strings.ToLower(canonical)] = true
			for _, spelling := range spellings {
				equivalents[strings.ToLower(spelling)] = true
			}
		}
	}
	for _, assigned := range record.Organizers {
		if equivalents[strings.ToLower(assigned)] {
			return true
		}
	}
	return false
}

// OR semantics within the field: the record's value must be in the selected set.
func matchesVocab(value string, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, candidate := range selected {
		if value == candidate {
			return true
		}
	}
	return false
}

func matchesDateBucket(mostRecent *time.Time, bucket DateBucket, now time.Time) bool {
	if bucket == BucketAny {
		return true
	}
	if mostRecent == nil {
		// No-date records match "never" and every open-ended "over" bucket,
		// and no "within" bucket.
		switch bucket {
		case BucketNever, BucketOver30, BucketOver90, BucketOver180:
			return true
		default:
			return false
		}
	}
	age := now.Sub(*mostRecent)
	day := 24 * time.Hour
	switch bucket {
	case BucketWithin7:
		return age <= 7*day
	case BucketWithin14:
		return age <= 14*day
	case BucketWithin30:
		return age <= 30*day
	case BucketWithin90:
		return age <= 90*day
	case BucketOver30:
		return age > 30*day
	case BucketOver90:
		return age > 90*day
	case BucketOver180:
		return age > 180*day
	case BucketNever:
		return false
	default:
		return false
	}
}

func matchesCountBucket(count int, bucket CountBucket) bool {
	switch bucket {
	case CountAny:
		return true
	case CountZero:
		return count == 0
	case CountSome:
		return count >= 1
	default:
		return false
	}
}

func matchesTriState(value, wanted TriState) bool {
	if wanted == TriUnset {
		return true
	}
	return value == wanted
}

func matchesTeam(record FusedPersonRecord, team string, index TeamIndex) bool {
	wanted := strings.TrimSpace(team)
	if wanted == "" {
		return true
	}
	for _, name := range index[record.ID] {
		if name == wanted {
			return true
		}
	}
	return false
}
