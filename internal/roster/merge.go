package roster

import (
	"fmt"
	"log"
	"strings"
)

// dupKey is the composite natural key for interaction deduplication.
// Overlapping chunk fetches deliver the same row more than once; two rows
// with equal keys are the same interaction.
type dupKey struct {
	counterpart string
	subject     string
	occurredOn  int64
	kind        string
	purpose     string
	commitments string
}

func interactionKey(rec InteractionRecord) dupKey {
	return dupKey{
		counterpart: rec.CounterpartID,
		subject:     rec.SubjectID,
		occurredOn:  rec.OccurredOn.Unix(),
		kind:        rec.Kind,
		purpose:     noteField(rec.Notes, "purpose"),
		commitments: noteField(rec.Notes, "commitments"),
	}
}

// Merge folds interactions and commitments onto the identity base and returns
// one fused record per distinct subject. Identity ids must be unique; a
// duplicate is a programmer error, not recoverable data damage.
func Merge(identities []PersonIdentity, interactions []InteractionRecord, commitments []CommitmentRecord, opts MergeOptions) ([]FusedPersonRecord, MergeStats, error) {
	var stats MergeStats

	records := make([]FusedPersonRecord, 0, len(identities))
	byID := make(map[string]int, len(identities))
	for _, identity := range identities {
		if _, exists := byID[identity.ID]; exists {
			return nil, stats, fmt.Errorf("duplicate identity id %q", identity.ID)
		}
		byID[identity.ID] = len(records)
		records = append(records, seedRecord(identity, opts.Tables, &stats))
	}

	seen := make(map[string]map[dupKey]bool)
	for _, interaction := range interactions {
		if clean(interaction.SubjectID) == "" && clean(interaction.CounterpartID) == "" {
			// Upstream data contains partial rows; drop them quietly.
			stats.MalformedSkipped++
			log.Printf("roster: skipping interaction with no subject or counterpart (kind=%q)", interaction.Kind)
			continue
		}
		idx, ok := byID[interaction.SubjectID]
		if !ok {
			// Interaction data is secondary evidence; it never introduces
			// identities of its own.
			stats.OrphanedDropped++
			continue
		}
		key := interactionKey(interaction)
		if seen[interaction.SubjectID] == nil {
			seen[interaction.SubjectID] = make(map[dupKey]bool)
		}
		if seen[interaction.SubjectID][key] {
			stats.DuplicatesDropped++
			continue
		}
		seen[interaction.SubjectID][key] = true
		attachInteraction(&records[idx], interaction)
	}

	for _, commitment := range commitments {
		if clean(commitment.SubjectID) == "" {
			stats.MalformedSkipped++
			continue
		}
		if idx, ok := byID[commitment.SubjectID]; ok {
			applyCommitment(&records[idx], commitment)
			continue
		}
		if !opts.SynthesizePledgeOnly {
			continue
		}
		byID[commitment.SubjectID] = len(records)
		records = append(records, synthesizeFromCommitment(commitment, opts.Tables, &stats))
		stats.PledgeSynthesized++
	}

	return records, stats, nil
}

func seedRecord(identity PersonIdentity, tables LookupTables, stats *MergeStats) FusedPersonRecord {
	name := clean(identity.DisplayName)
	if name == "" {
		resolved, hit := ResolveName(ResolveRef{
			RawID:       identity.ID,
			Category:    identity.Category,
			InlineFirst: identity.FirstName,
			InlineLast:  identity.LastName,
		}, tables)
		if !hit {
			stats.ResolutionMisses++
		}
		name = resolved
	}
	chapter := ResolveChapter(ResolveRef{RawID: identity.ID}, identity.Chapter, organizerChapter(identity.Organizers, tables), tables)
	return FusedPersonRecord{
		ID:               identity.ID,
		DisplayName:      name,
		Category:         identity.Category,
		Chapter:          chapter,
		Email:            clean(identity.Email),
		Phone:            clean(identity.Phone),
		Organizers:       dedupStrings(identity.Organizers),
		MembershipStatus: clean(identity.MembershipStatus),
		LeadershipLevel:  clean(identity.LeadershipLevel),
	}
}

func attachInteraction(record *FusedPersonRecord, interaction InteractionRecord) {
	record.Interactions = append(record.Interactions, interaction)
	record.InteractionCount++

	// Strictly-greater keeps the first-attached interaction on a date tie.
	if record.MostRecentContact == nil || interaction.OccurredOn.After(*record.MostRecentContact) {
		occurred := interaction.OccurredOn
		record.MostRecentContact = &occurred
		record.LatestNoteSummary = NoteSummary(interaction.Notes)
		record.LatestCounterpart = interaction.CounterpartID
		record.LatestAsked = interaction.CommitmentAsked
		record.LatestMade = interaction.CommitmentMade
	}

	// Identity-sourced organizer assignments always trump inferred ones.
	if len(record.Organizers) == 0 && clean(interaction.CounterpartID) != "" {
		record.Organizers = appendUnique(record.Organizers, interaction.CounterpartID)
	}
}

func applyCommitment(record *FusedPersonRecord, commitment CommitmentRecord) {
	// A pledge can only move the contact date forward, never backward.
	if record.MostRecentContact == nil || commitment.SubmittedOn.After(*record.MostRecentContact) {
		submitted := commitment.SubmittedOn
		record.MostRecentContact = &submitted
	}
	sponsor := clean(commitment.SponsorID)
	if sponsor == "" {
		sponsor = clean(commitment.SponsorName)
	}
	if sponsor != "" {
		record.Organizers = appendUnique(record.Organizers, sponsor)
	}
}

func synthesizeFromCommitment(commitment CommitmentRecord, tables LookupTables, stats *MergeStats) FusedPersonRecord {
	name := clean(commitment.SubjectName)
	if name == "" {
		resolved, hit := ResolveName(ResolveRef{RawID: commitment.SubjectID, Category: "contact"}, tables)
		if !hit {
			stats.ResolutionMisses++
		}
		name = resolved
	}
	record := FusedPersonRecord{
		ID:          commitment.SubjectID,
		DisplayName: name,
		Category:    "contact",
		Chapter:     "Unknown",
		PledgeOnly:  true,
	}
	applyCommitment(&record, commitment)
	return record
}

func organizerChapter(organizers []string, tables LookupTables) string {
	for _, id := range organizers {
		if entry, ok := tables.Roster[id]; ok && cleanChapter(entry.Chapter) != "" {
			return entry.Chapter
		}
		for _, key := range idSpellings(id) {
			if entry, ok := tables.Users[key]; ok && cleanChapter(entry.Chapter) != "" {
				return entry.Chapter
			}
		}
	}
	return ""
}

func dedupStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if clean(value) == "" {
			continue
		}
		out = appendUnique(out, strings.TrimSpace(value))
	}
	return out
}

func appendUnique(values []string, value string) []string {
	for _, existing := range values {
		if existing == value {
			return values
		}
	}
	return append(values, value)
}
