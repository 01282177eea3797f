package roster

import (
	"testing"
	"time"
)

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func meeting(subject, counterpart, date, kind string, notes ...NoteField) InteractionRecord {
	return InteractionRecord{
		SubjectID:     subject,
		CounterpartID: counterpart,
		OccurredOn:    day(date),
		Kind:          kind,
		Notes:         notes,
	}
}

func TestMergeDedupIdempotence(t *testing.T) {
	identities := []PersonIdentity{{ID: "P1", DisplayName: "Marisol Vega"}}
	one := meeting("P1", "O1", "2024-01-05", "1:1", NoteField{Label: "purpose", Value: "check-in"})

	// Same row arriving from two overlapping chunk fetches.
	records, stats, err := Merge(identities, []InteractionRecord{one, one}, nil, MergeOptions{})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if records[0].InteractionCount != 1 {
		t.Fatalf("InteractionCount = %d, want 1", records[0].InteractionCount)
	}
	if len(records[0].Interactions) != 1 {
		t.Fatalf("Interactions len = %d, want 1", len(records[0].Interactions))
	}
	if stats.DuplicatesDropped != 1 {
		t.Fatalf("DuplicatesDropped = %d, want 1", stats.DuplicatesDropped)
	}
}

func TestMergeLatestWinsRegardlessOfOrder(t *testing.T) {
	identities := []PersonIdentity{{ID: "P1", DisplayName: "Marisol Vega"}}
	older := meeting("P1", "O1", "2024-01-01", "1:1", NoteField{Label: "purpose", Value: "intro"})
	newer := meeting("P1", "O1", "2024-03-01", "1:1", NoteField{Label: "purpose", Value: "march follow-up"})
	newer.CommitmentAsked = TriYes
	newer.CommitmentMade = TriNo

	for _, order := range [][]InteractionRecord{{older, newer}, {newer, older}} {
		records, _, err := Merge(identities, order, nil, MergeOptions{})
		if err != nil {
			t.Fatalf("Merge() error = %v", err)
		}
		record := records[0]
		if !record.MostRecentContact.Equal(day("2024-03-01")) {
			t.Fatalf("MostRecentContact = %v, want 2024-03-01", record.MostRecentContact)
		}
		if record.LatestNoteSummary != "march follow-up" {
			t.Fatalf("LatestNoteSummary = %q", record.LatestNoteSummary)
		}
		if record.LatestAsked != TriYes || record.LatestMade != TriNo {
			t.Fatalf("commitment fields = %q/%q, want yes/no", record.LatestAsked, record.LatestMade)
		}
	}
}

func TestMergeDateTieKeepsFirstAttached(t *testing.T) {
	identities := []PersonIdentity{{ID: "P1", DisplayName: "Marisol Vega"}}
	first := meeting("P1", "O1", "2024-02-01", "1:1", NoteField{Label: "purpose", Value: "first"})
	second := meeting("P1", "O2", "2024-02-01", "house visit", NoteField{Label: "purpose", Value: "second"})

	records, _, err := Merge(identities, []InteractionRecord{first, second}, nil, MergeOptions{})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if records[0].LatestNoteSummary != "first" {
		t.Fatalf("LatestNoteSummary = %q, want first-attached to win the tie", records[0].LatestNoteSummary)
	}
	if records[0].InteractionCount != 2 {
		t.Fatalf("InteractionCount = %d, want 2", records[0].InteractionCount)
	}
}

func TestMergeDropsOrphanedInteractions(t *testing.T) {
	identities := []PersonIdentity{{ID: "P1", DisplayName: "Marisol Vega"}}
	orphan := meeting("P9", "O1", "2024-01-05", "1:1")

	records, stats, err := Merge(identities, []InteractionRecord{orphan}, nil, MergeOptions{})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records len = %d, want 1 (interactions never introduce identities)", len(records))
	}
	if stats.OrphanedDropped != 1 {
		t.Fatalf("OrphanedDropped = %d, want 1", stats.OrphanedDropped)
	}
}

func TestMergeSkipsMalformedRows(t *testing.T) {
	identities := []PersonIdentity{{ID: "P1", DisplayName: "Marisol Vega"}}
	malformed := InteractionRecord{OccurredOn: day("2024-01-05"), Kind: "1:1"}

	_, stats, err := Merge(identities, []InteractionRecord{malformed}, nil, MergeOptions{})
	if err != nil {
		t.Fatalf("Merge() error = %v (malformed rows are dropped, not raised)", err)
	}
	if stats.MalformedSkipped != 1 {
		t.Fatalf("MalformedSkipped = %d, want 1", stats.MalformedSkipped)
	}
}

func TestMergePledgeOnlySynthesis(t *testing.T) {
	pledge := CommitmentRecord{
		SubjectID:   "P7",
		SubjectName: "Dana Okafor",
		SubmittedOn: day("2024-04-10"),
		SponsorName: "Rosa Linden",
	}

	records, stats, err := Merge(nil, nil, []CommitmentRecord{pledge}, MergeOptions{SynthesizePledgeOnly: true})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records len = %d, want 1 synthesized record", len(records))
	}
	record := records[0]
	if !record.PledgeOnly {
		t.Fatal("expected PledgeOnly flag")
	}
	if record.InteractionCount != 0 {
		t.Fatalf("InteractionCount = %d, want 0", record.InteractionCount)
	}
	if !record.MostRecentContact.Equal(day("2024-04-10")) {
		t.Fatalf("MostRecentContact = %v, want submission date", record.MostRecentContact)
	}
	if len(record.Organizers) != 1 || record.Organizers[0] != "Rosa Linden" {
		t.Fatalf("Organizers = %v, want sponsor appended", record.Organizers)
	}
	if stats.PledgeSynthesized != 1 {
		t.Fatalf("PledgeSynthesized = %d, want 1", stats.PledgeSynthesized)
	}

	// With synthesis disabled the subject is excluded entirely.
	records, _, err = Merge(nil, nil, []CommitmentRecord{pledge}, MergeOptions{})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records len = %d, want 0 with synthesis disabled", len(records))
	}
}

func TestMergeCommitmentOnlyMovesDateForward(t *testing.T) {
	identities := []PersonIdentity{{ID: "P1", DisplayName: "Marisol Vega"}}
	interactions := []InteractionRecord{meeting("P1", "O1", "2024-05-01", "1:1")}
	stale := CommitmentRecord{SubjectID: "P1", SubmittedOn: day("2024-02-01"), SponsorID: "O2"}

	records, _, err := Merge(identities, interactions, []CommitmentRecord{stale}, MergeOptions{})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if !records[0].MostRecentContact.Equal(day("2024-05-01")) {
		t.Fatalf("MostRecentContact = %v, pledge must not move the date backward", records[0].MostRecentContact)
	}
}

func TestMergeIdentityOrganizersTrumpInferred(t *testing.T) {
	assigned := []PersonIdentity{{ID: "P1", DisplayName: "Marisol Vega", Organizers: []string{"O9"}}}
	interactions := []InteractionRecord{meeting("P1", "O1", "2024-01-05", "1:1")}

	records, _, err := Merge(assigned, interactions, nil, MergeOptions{})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if len(records[0].Organizers) != 1 || records[0].Organizers[0] != "O9" {
		t.Fatalf("Organizers = %v, identity assignment must not be overwritten", records[0].Organizers)
	}

	unassigned := []PersonIdentity{{ID: "P1", DisplayName: "Marisol Vega"}}
	records, _, err = Merge(unassigned, interactions, nil, MergeOptions{})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if len(records[0].Organizers) != 1 || records[0].Organizers[0] != "O1" {
		t.Fatalf("Organizers = %v, want counterpart inferred when identity had none", records[0].Organizers)
	}
}

func TestMergeRejectsDuplicateIdentityIDs(t *testing.T) {
	identities := []PersonIdentity{
		{ID: "P1", DisplayName: "Marisol Vega"},
		{ID: "P1", DisplayName: "M. Vega"},
	}
	if _, _, err := Merge(identities, nil, nil, MergeOptions{}); err == nil {
		t.Fatal("expected error for duplicate identity id")
	}
}

func TestMergeToleratesEmptyInputs(t *testing.T) {
	records, _, err := Merge(nil, nil, nil, MergeOptions{SynthesizePledgeOnly: true})
	if err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("records len = %d, want 0", len(records))
	}
}
