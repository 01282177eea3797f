package search

// ResultType identifies the kind of entity in a search result.
type ResultType string

const (
	ResultPerson ResultType = "person"
	ResultNote   ResultType = "note"
)

// Result is a single search hit returned to the caller. Note hits carry the
// person the note is about; visibility is enforced before results leave the
// service.
type Result struct {
	Type        ResultType `json:"type"`
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Snippet     string     `json:"snippet"`
	PersonID    string     `json:"personId"`
	Chapter     string     `json:"chapter,omitempty"`
	OrganizerID string     `json:"organizerId,omitempty"`
}

// Query describes a search request. NoteVisible decides whether the viewer
// may see notes attached to the given person or author id; nil means hide
// all notes.
type Query struct {
	Text        string
	FilterType  ResultType // empty = all types
	Chapter     string
	Limit       int
	Offset      int
	NoteVisible func(personID string) bool
}

// Response is the envelope returned by the search endpoint.
type Response struct {
	Results []Result `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a full-text search.
type Searcher interface {
	Search(q Query) ([]Result, int, error)
	Healthy() bool
}

// PersonRecord is the data we index for a person.
type PersonRecord struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Chapter     string `json:"chapter"`
	Category    string `json:"category"`
	Email       string `json:"email"`
}

// NoteRecord is the data we index for one meeting's notes.
type NoteRecord struct {
	ID          string `json:"id"`
	PersonID    string `json:"personId"`
	PersonName  string `json:"personName"`
	OrganizerID string `json:"organizerId"`
	Text        string `json:"text"`
}
