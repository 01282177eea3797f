// Package roster fuses directory, meeting, and pledge records into one
// queryable per-person view. Every function in this package is a pure
// transformation over its inputs: callers own fetching, caching, and storage.
package roster

import "time"

// TriState is a yes/no answer that may be absent.
type TriState string

const (
	TriUnset TriState = ""
	TriYes   TriState = "yes"
	TriNo    TriState = "no"
)

// PersonIdentity is one directory entry. IDs are opaque and must be unique
// across the identity set handed to Merge.
type PersonIdentity struct {
	ID               string
	FirstName        string
	LastName         string
	DisplayName      string
	Category         string // "contact", "organizer", "staff"
	Chapter          string // may be "Unknown"
	Email            string
	Phone            string
	Organizers       []string // ordered, unique organizer ids
	MembershipStatus string   // open vocabulary, not an enum
	LeadershipLevel  string   // open vocabulary, not an enum
}

// NoteField is one labeled note value. Notes keep insertion order so the
// summary join is deterministic.
type NoteField struct {
	Label string
	Value string
}

// InteractionRecord is one logged one-on-one or meeting.
type InteractionRecord struct {
	SubjectID       string
	CounterpartID   string
	CounterpartName string // inline joined name, if the source row carried one
	OccurredOn      time.Time
	Kind            string
	Notes           []NoteField
	CommitmentAsked TriState
	CommitmentMade  TriState
}

// CommitmentRecord is a standalone signed pledge. It shares the
// most-recent-contact computation with interactions but is a distinct entity
// and is never deduplicated against them.
type CommitmentRecord struct {
	SubjectID   string
	SubjectName string
	SubmittedOn time.Time
	SponsorID   string
	SponsorName string
	Description string
}

// FusedPersonRecord is the merged, query-ready view of one person.
type FusedPersonRecord struct {
	ID                string
	DisplayName       string
	Category          string
	Chapter           string
	Email             string
	Phone             string
	Organizers        []string
	MembershipStatus  string
	LeadershipLevel   string
	MostRecentContact *time.Time
	InteractionCount  int
	LatestNoteSummary string
	LatestCounterpart string
	LatestAsked       TriState
	LatestMade        TriState
	Interactions      []InteractionRecord
	PledgeOnly        bool
}

// LookupEntry is a name/chapter pair in one of the resolver's tables.
type LookupEntry struct {
	Name    string
	Chapter string
}

// LookupTables are the resolver's fallback directories, highest authority
// first: the org roster, then the user/session map, then raw contacts.
type LookupTables struct {
	Roster   map[string]LookupEntry
	Users    map[string]LookupEntry
	Contacts map[string]LookupEntry
}

// AliasTable maps a canonical organizer to the historical ids and name
// spellings treated as equivalent when filtering.
type AliasTable map[string][]string

// TeamIndex maps a person or user id to the team names they belong to.
// It is supplied fully computed by the caller.
type TeamIndex map[string][]string

// ViewerContext identifies the requesting viewer for note visibility.
type ViewerContext struct {
	UserID string
	Teams  []string
}

// Env carries the cross-cutting inputs the filter and summary stages need.
type Env struct {
	Now           time.Time
	Viewer        ViewerContext
	Teams         TeamIndex
	Aliases       AliasTable
	OversightTeam string
}

// MergeStats reports recovered data-quality events for monitoring.
type MergeStats struct {
	DuplicatesDropped int
	MalformedSkipped  int
	OrphanedDropped   int
	ResolutionMisses  int
	PledgeSynthesized int
}

// MergeOptions tune merge behavior. SynthesizePledgeOnly is a policy flag:
// callers disable it when an identity-only status filter is active so
// pledge-only subjects are excluded instead of fabricated with empty status.
type MergeOptions struct {
	SynthesizePledgeOnly bool
	Tables               LookupTables
}

// Summary is the aggregation stage's output.
type Summary struct {
	TotalInteractions int            `json:"totalInteractions"`
	ByKind            map[string]int `json:"byKind"`
	CommitmentsMade   int            `json:"commitmentsMade"`
	MadeByKind        map[string]int `json:"madeByKind"`
}
