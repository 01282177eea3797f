package search

import (
	"errors"
	"testing"
)

type fakeSearcher struct {
	SearchFunc func(q Query) ([]Result, int, error)
}

func (f *fakeSearcher) Search(q Query) ([]Result, int, error) { return f.SearchFunc(q) }
func (f *fakeSearcher) Healthy() bool                         { return true }

func TestSearchFallsBackWithoutMeili(t *testing.T) {
	fallback := &fakeSearcher{
		SearchFunc: func(q Query) ([]Result, int, error) {
			return []Result{{Type: ResultPerson, ID: "per_1", Title: "Rosa Linden", PersonID: "per_1"}}, 1, nil
		},
	}
	svc := NewService(nil, fallback)

	resp := svc.Search(Query{Text: "rosa"})
	if resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("expected 1 result, got %+v", resp)
	}
	if resp.Results[0].Title != "Rosa Linden" {
		t.Errorf("unexpected result: %+v", resp.Results[0])
	}
}

func TestSearchDropsInvisibleNotes(t *testing.T) {
	fallback := &fakeSearcher{
		SearchFunc: func(q Query) ([]Result, int, error) {
			return []Result{
				{Type: ResultPerson, ID: "per_1", PersonID: "per_1"},
				{Type: ResultNote, ID: "mtg_1", PersonID: "per_1"},
				{Type: ResultNote, ID: "mtg_2", PersonID: "per_2"},
			}, 3, nil
		},
	}
	svc := NewService(nil, fallback)

	resp := svc.Search(Query{
		Text:        "canvass",
		NoteVisible: func(personID string) bool { return personID == "per_1" },
	})
	if len(resp.Results) != 2 {
		t.Fatalf("expected invisible note dropped, got %d results", len(resp.Results))
	}
	for _, r := range resp.Results {
		if r.ID == "mtg_2" {
			t.Error("note about per_2 should have been dropped")
		}
	}
}

func TestSearchHidesAllNotesWithoutVisibilityFunc(t *testing.T) {
	fallback := &fakeSearcher{
		SearchFunc: func(q Query) ([]Result, int, error) {
			return []Result{{Type: ResultNote, ID: "mtg_1", PersonID: "per_1"}}, 1, nil
		},
	}
	svc := NewService(nil, fallback)

	resp := svc.Search(Query{Text: "canvass"})
	if len(resp.Results) != 0 {
		t.Errorf("expected no note results without a visibility rule, got %d", len(resp.Results))
	}
}

func TestSearchReturnsEmptyEnvelopeOnError(t *testing.T) {
	fallback := &fakeSearcher{
		SearchFunc: func(q Query) ([]Result, int, error) {
			return nil, 0, errors.New("db down")
		},
	}
	svc := NewService(nil, fallback)

	resp := svc.Search(Query{Text: "rosa"})
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("expected empty non-nil results, got %#v", resp.Results)
	}
}
