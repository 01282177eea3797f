package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"groundwork/api/internal/roster"
)

// Service renders roster exports.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Export generates an export of the given records in the requested format.
// Records arrive already filtered and sorted; this stage only renders them.
func (s *Service) Export(records []roster.FusedPersonRecord, req Request) (*Result, error) {
	title := req.Title
	if title == "" {
		title = "Roster Export"
	}

	switch req.Format {
	case FormatCSV:
		return exportCSV(records, title, req.NoteVisible)
	case FormatPDF:
		html, err := RenderRosterHTML(rosterTemplateData(records, title, req.NoteVisible))
		if err != nil {
			return nil, fmt.Errorf("render template: %w", err)
		}
		return exportPDF(html, title)
	default:
		return nil, fmt.Errorf("unsupported format: %s", req.Format)
	}
}

var csvHeader = []string{
	"Name", "Chapter", "Status", "Leadership", "Organizers",
	"Last Contact", "Meetings", "Asked", "Made", "Latest Note",
}

func exportCSV(records []roster.FusedPersonRecord, title string, noteVisible func(string) bool) (*Result, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range records {
		note := ""
		if noteVisible != nil && noteVisible(r.ID) {
			note = r.LatestNoteSummary
		}
		row := []string{
			r.DisplayName,
			r.Chapter,
			r.MembershipStatus,
			r.LeadershipLevel,
			joinComma(r.Organizers),
			formatContact(r.MostRecentContact),
			strconv.Itoa(r.InteractionCount),
			string(r.LatestAsked),
			string(r.LatestMade),
			note,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	return &Result{
		Data:     buf.Bytes(),
		Filename: sanitizeFilename(title) + ".csv",
		MimeType: "text/csv",
	}, nil
}

func formatContact(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}

func joinComma(values []string) string {
	out := ""
	for i, v := range values {
		if i > 0 {
			out += ", "
		}
		out += v
	}
	return out
}
