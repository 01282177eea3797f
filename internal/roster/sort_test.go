package roster

import (
	"testing"
)

func named(id, name string) FusedPersonRecord {
	return FusedPersonRecord{ID: id, DisplayName: name}
}

func ids(records []FusedPersonRecord) []string {
	out := make([]string, len(records))
	for i, record := range records {
		out[i] = record.ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortByNameUsesSurnameFirst(t *testing.T) {
	records := []FusedPersonRecord{
		named("P1", "Dana Okafor"),
		named("P2", "Marisol Vega"),
		named("P3", "Avery Adams"),
	}
	sorted := Sort(records, SortByName, Ascending, nil)
	if got := ids(sorted); !equalIDs(got, []string{"P3", "P1", "P2"}) {
		t.Fatalf("ascending by surname = %v", got)
	}
}

func TestSortDescendingIsExactReverse(t *testing.T) {
	// Two records share a surname token so stability is observable.
	records := []FusedPersonRecord{
		named("P1", "Dana Vega"),
		named("P2", "Marisol Vega"),
		named("P3", "Avery Adams"),
		named("P4", "dana vega"), // equal sort keys with P1
	}
	asc := Sort(records, SortByName, Ascending, nil)
	desc := Sort(records, SortByName, Descending, nil)

	for i := range asc {
		if asc[i].ID != desc[len(desc)-1-i].ID {
			t.Fatalf("descending is not the exact reverse of ascending: asc=%v desc=%v", ids(asc), ids(desc))
		}
	}
}

func TestSortNoDateRecordsGroupAtOneEnd(t *testing.T) {
	records := []FusedPersonRecord{
		fused("P1", "A", ptr(day("2024-01-01")), 0),
		fused("P2", "B", nil, 0),
		fused("P3", "C", ptr(day("2024-03-01")), 0),
		fused("P4", "D", nil, 0),
	}
	asc := Sort(records, SortByLastContact, Ascending, nil)
	if got := ids(asc); !equalIDs(got[:2], []string{"P2", "P4"}) {
		t.Fatalf("ascending by contact = %v, want no-date records first in input order", got)
	}
	desc := Sort(records, SortByLastContact, Descending, nil)
	if got := ids(desc); !equalIDs(got[:2], []string{"P3", "P1"}) {
		t.Fatalf("descending by contact = %v, want dated records first", got)
	}
	// Equal keys reverse along with everything else, so the no-date pair
	// comes out in reverse input order.
	if got := ids(desc); !equalIDs(got[2:], []string{"P4", "P2"}) {
		t.Fatalf("descending by contact = %v, want no-date records together at the end", got)
	}
}

func TestSortByTeamEmptySortsLast(t *testing.T) {
	teams := TeamIndex{
		"P1": {"zeta"},
		"P3": {"alpha"},
	}
	records := []FusedPersonRecord{
		named("P1", "A"),
		named("P2", "B"), // no team
		named("P3", "C"),
	}
	sorted := Sort(records, SortByTeam, Ascending, teams)
	if got := ids(sorted); !equalIDs(got, []string{"P3", "P1", "P2"}) {
		t.Fatalf("team sort = %v, want empty team last", got)
	}
}

func TestDefaultDirection(t *testing.T) {
	if DefaultDirection(SortByName) != Ascending {
		t.Fatal("name should default ascending")
	}
	if DefaultDirection(SortByLastContact) != Descending {
		t.Fatal("lastContact should default descending")
	}
	if DefaultDirection(SortByMeetings) != Descending {
		t.Fatal("meetings should default descending")
	}
}

func TestSortDoesNotMutateInput(t *testing.T) {
	records := []FusedPersonRecord{
		named("P2", "Marisol Vega"),
		named("P1", "Avery Adams"),
	}
	_ = Sort(records, SortByName, Ascending, nil)
	if records[0].ID != "P2" {
		t.Fatal("Sort must not mutate the input slice")
	}
}

func TestPageWindow(t *testing.T) {
	records := []FusedPersonRecord{named("P1", "A"), named("P2", "B"), named("P3", "C")}
	if got := Page(records, 2); len(got) != 2 || got[1].ID != "P2" {
		t.Fatalf("Page(2) = %v", ids(got))
	}
	if got := Page(records, 10); len(got) != 3 {
		t.Fatalf("Page(10) len = %d, want all", len(got))
	}
	if got := Page(records, 0); len(got) != 3 {
		t.Fatalf("Page(0) len = %d, want all (no window)", len(got))
	}
}
