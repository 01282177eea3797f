package roster

import "testing"

func TestSummarizeCountsByKind(t *testing.T) {
	records := []FusedPersonRecord{
		{
			ID: "P1",
			Interactions: []InteractionRecord{
				{OccurredOn: day("2024-02-01"), Kind: "1:1", CommitmentMade: TriYes},
				{OccurredOn: day("2024-03-01"), Kind: "house visit"},
			},
		},
		{
			ID: "P2",
			Interactions: []InteractionRecord{
				{OccurredOn: day("2024-02-15"), Kind: "1:1"},
			},
		},
	}

	summary := Summarize(records, nil, nil)
	if summary.TotalInteractions != 3 {
		t.Fatalf("TotalInteractions = %d, want 3", summary.TotalInteractions)
	}
	if summary.ByKind["1:1"] != 2 || summary.ByKind["house visit"] != 1 {
		t.Fatalf("ByKind = %v", summary.ByKind)
	}
	if summary.CommitmentsMade != 1 || summary.MadeByKind["1:1"] != 1 {
		t.Fatalf("commitments = %d, made-by-kind = %v", summary.CommitmentsMade, summary.MadeByKind)
	}
}

func TestSummarizeDateRangeInclusive(t *testing.T) {
	records := []FusedPersonRecord{
		{
			ID: "P1",
			Interactions: []InteractionRecord{
				{OccurredOn: day("2024-01-31"), Kind: "1:1"},
				{OccurredOn: day("2024-02-01"), Kind: "1:1"},
				{OccurredOn: day("2024-02-29"), Kind: "1:1"},
				{OccurredOn: day("2024-03-01"), Kind: "1:1"},
			},
		},
	}
	from := day("2024-02-01")
	to := day("2024-02-29")
	summary := Summarize(records, &from, &to)
	if summary.TotalInteractions != 2 {
		t.Fatalf("TotalInteractions = %d, want 2 (bounds inclusive)", summary.TotalInteractions)
	}
}

func TestSummarizeEmptySet(t *testing.T) {
	summary := Summarize(nil, nil, nil)
	if summary.TotalInteractions != 0 || len(summary.ByKind) != 0 {
		t.Fatalf("empty set summary = %+v", summary)
	}
}
