// Package fetch assembles the raw record sets the fusion engine consumes.
// Meeting rows are loaded in fixed-size chunks and the assembled snapshot is
// cached against the store's data version counters, so repeat queries between
// writes skip the database entirely.
package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"groundwork/api/internal/roster"
	"groundwork/api/internal/store"
)

// Store is the slice of the data layer the loader needs.
type Store interface {
	ListPeople(ctx context.Context) ([]store.Person, error)
	ListMeetingsForPeople(ctx context.Context, personIDs []string) ([]store.Meeting, error)
	ListPledgeEvents(ctx context.Context) ([]store.PledgeEvent, error)
	ListPledges(ctx context.Context) ([]store.Pledge, error)
	GetDataVersions(ctx context.Context) (store.DataVersions, error)
}

// Snapshot is one consistent pull of everything Merge takes as input.
type Snapshot struct {
	Identities   []roster.PersonIdentity
	Interactions []roster.InteractionRecord
	Commitments  []roster.CommitmentRecord
	Versions     store.DataVersions
}

type Loader struct {
	store     Store
	cache     *gocache.Cache
	batchSize int
}

func NewLoader(st Store, batchSize int) *Loader {
	if batchSize <= 0 {
		batchSize = 250
	}
	return &Loader{
		store:     st,
		cache:     gocache.New(10*time.Minute, 15*time.Minute),
		batchSize: batchSize,
	}
}

// Load returns the current snapshot, reusing the cached one while the
// version counters are unchanged.
func (l *Loader) Load(ctx context.Context) (*Snapshot, error) {
	versions, err := l.store.GetDataVersions(ctx)
	if err != nil {
		return nil, err
	}
	key := cacheKey(versions)
	if cached, ok := l.cache.Get(key); ok {
		return cached.(*Snapshot), nil
	}

	people, err := l.store.ListPeople(ctx)
	if err != nil {
		return nil, err
	}

	identities := make([]roster.PersonIdentity, 0, len(people))
	ids := make([]string, 0, len(people))
	for _, p := range people {
		identities = append(identities, identityFromPerson(p))
		ids = append(ids, p.ID)
	}

	meetings, err := l.loadMeetings(ctx, ids)
	if err != nil {
		return nil, err
	}
	interactions := make([]roster.InteractionRecord, 0, len(meetings))
	for _, m := range meetings {
		interactions = append(interactions, interactionFromMeeting(m))
	}

	commitments, err := l.loadCommitments(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Identities:   identities,
		Interactions: interactions,
		Commitments:  commitments,
		Versions:     versions,
	}
	l.cache.Set(key, snap, gocache.DefaultExpiration)
	return snap, nil
}

// Invalidate drops every cached snapshot. Writes bump the version counters so
// this is only needed when the counters themselves may be stale.
func (l *Loader) Invalidate() {
	l.cache.Flush()
}

func cacheKey(v store.DataVersions) string {
	return fmt.Sprintf("roster:%d:%d:%d", v.People, v.Meetings, v.Pledges)
}

// loadMeetings pulls meeting rows in chunks. A failed chunk is retried once
// before the whole load fails.
func (l *Loader) loadMeetings(ctx context.Context, personIDs []string) ([]store.Meeting, error) {
	var all []store.Meeting
	for start := 0; start < len(personIDs); start += l.batchSize {
		end := start + l.batchSize
		if end > len(personIDs) {
			end = len(personIDs)
		}
		chunk := personIDs[start:end]

		meetings, err := l.store.ListMeetingsForPeople(ctx, chunk)
		if err != nil {
			meetings, err = l.store.ListMeetingsForPeople(ctx, chunk)
			if err != nil {
				return nil, fmt.Errorf("load meetings chunk %d-%d: %w", start, end, err)
			}
		}
		all = append(all, meetings...)
	}
	return all, nil
}

func (l *Loader) loadCommitments(ctx context.Context) ([]roster.CommitmentRecord, error) {
	events, err := l.store.ListPledgeEvents(ctx)
	if err != nil {
		return nil, err
	}
	sponsors := make(map[string]store.PledgeEvent, len(events))
	for _, e := range events {
		sponsors[e.ID] = e
	}

	pledges, err := l.store.ListPledges(ctx)
	if err != nil {
		return nil, err
	}

	commitments := make([]roster.CommitmentRecord, 0, len(pledges))
	for _, p := range pledges {
		c := roster.CommitmentRecord{
			SubjectID:   p.PersonID,
			SubjectName: p.PersonName,
			SubmittedOn: p.SubmittedOn,
			Description: p.Description,
		}
		if e, ok := sponsors[p.EventID]; ok {
			c.SponsorID = e.SponsorID
			c.SponsorName = e.SponsorName
		}
		commitments = append(commitments, c)
	}
	return commitments, nil
}

func identityFromPerson(p store.Person) roster.PersonIdentity {
	return roster.PersonIdentity{
		ID:               p.ID,
		FirstName:        p.FirstName,
		LastName:         p.LastName,
		DisplayName:      p.DisplayName,
		Category:         p.Category,
		Chapter:          p.Chapter,
		Email:            p.Email,
		Phone:            p.Phone,
		Organizers:       p.Organizers,
		MembershipStatus: p.MembershipStatus,
		LeadershipLevel:  p.LeadershipLevel,
	}
}

func interactionFromMeeting(m store.Meeting) roster.InteractionRecord {
	return roster.InteractionRecord{
		SubjectID:       m.PersonID,
		CounterpartID:   m.OrganizerID,
		CounterpartName: m.OrganizerName,
		OccurredOn:      m.OccurredOn,
		Kind:            m.Kind,
		Notes:           roster.NormalizeNoteFields(m.Notes),
		CommitmentAsked: triState(m.CommitmentAsked),
		CommitmentMade:  triState(m.CommitmentMade),
	}
}

func triState(s string) roster.TriState {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "y":
		return roster.TriYes
	case "no", "false", "n":
		return roster.TriNo
	default:
		return roster.TriUnset
	}
}
