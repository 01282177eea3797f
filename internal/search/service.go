package search

import "log"

// Service is the facade that tries Meilisearch first and falls back to PG FTS.
type Service struct {
	meili *Meili
	pgfts Searcher
}

// NewService creates a search service. meili may be nil if Meilisearch is not
// configured.
func NewService(meili *Meili, pgfts Searcher) *Service {
	return &Service{meili: meili, pgfts: pgfts}
}

// Search tries Meilisearch if healthy, otherwise falls back to PG FTS.
// Note hits the viewer may not see are dropped here, whichever backend served
// the query.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: sanitizeResults(nonNil(results), q.NoteVisible), Total: total, Query: q.Text}
		}
		log.Printf("search: meilisearch error, falling back to pgfts: %v", err)
	}

	results, total, err := s.pgfts.Search(q)
	if err != nil {
		log.Printf("search: pgfts error: %v", err)
		return Response{Results: []Result{}, Total: 0, Query: q.Text}
	}
	return Response{Results: sanitizeResults(nonNil(results), q.NoteVisible), Total: total, Query: q.Text}
}

// IndexPerson indexes a person (fire-and-forget to Meilisearch).
func (s *Service) IndexPerson(p PersonRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexPerson(p); err != nil {
			log.Printf("search: index person %s: %v", p.ID, err)
		}
	}()
}

// IndexNote indexes a meeting's note text (fire-and-forget to Meilisearch).
func (s *Service) IndexNote(n NoteRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexNote(n); err != nil {
			log.Printf("search: index note %s: %v", n.ID, err)
		}
	}()
}

// DeletePerson removes a person from the search index (fire-and-forget).
func (s *Service) DeletePerson(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeletePerson(id); err != nil {
			log.Printf("search: delete person %s: %v", id, err)
		}
	}()
}

// DeleteNote removes a note from the search index (fire-and-forget).
func (s *Service) DeleteNote(id string) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.DeleteNote(id); err != nil {
			log.Printf("search: delete note %s: %v", id, err)
		}
	}()
}

// ReindexAll pushes full record sets to Meilisearch. Called during bootstrap
// when Meilisearch is healthy.
func (s *Service) ReindexAll(people []PersonRecord, notes []NoteRecord) {
	if s.meili == nil || !s.meili.Healthy() {
		return
	}

	if len(people) > 0 {
		if err := s.meili.IndexPeople(people); err != nil {
			log.Printf("search: reindex people: %v", err)
		}
	}
	if len(notes) > 0 {
		if err := s.meili.IndexNotes(notes); err != nil {
			log.Printf("search: reindex notes: %v", err)
		}
	}
}

func nonNil(r []Result) []Result {
	if r == nil {
		return []Result{}
	}
	return r
}

func sanitizeResults(results []Result, noteVisible func(personID string) bool) []Result {
	filtered := make([]Result, 0, len(results))
	for _, result := range results {
		if result.Type == ResultNote {
			// Gate on the note's author when known; the subject otherwise.
			gateID := result.OrganizerID
			if gateID == "" {
				gateID = result.PersonID
			}
			if noteVisible == nil || !noteVisible(gateID) {
				continue
			}
		}
		filtered = append(filtered, result)
	}
	return filtered
}
