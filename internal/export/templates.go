package export

import (
	"bytes"
	"html/template"
	"time"

	"groundwork/api/internal/roster"
)

var rosterTemplate = template.Must(template.New("roster").Parse(rosterTemplateHTML))

// TemplateData holds data for roster template rendering
type TemplateData struct {
	Title       string
	GeneratedAt time.Time
	Rows        []TemplateRow
}

// TemplateRow is one person line in the rendered roster
type TemplateRow struct {
	Name        string
	Chapter     string
	Status      string
	Leadership  string
	LastContact string
	Meetings    int
	Asked       string
	Made        string
	Note        string
}

func rosterTemplateData(records []roster.FusedPersonRecord, title string, noteVisible func(string) bool) TemplateData {
	data := TemplateData{
		Title:       title,
		GeneratedAt: time.Now(),
	}
	for _, r := range records {
		row := TemplateRow{
			Name:        r.DisplayName,
			Chapter:     r.Chapter,
			Status:      r.MembershipStatus,
			Leadership:  r.LeadershipLevel,
			LastContact: formatContact(r.MostRecentContact),
			Meetings:    r.InteractionCount,
			Asked:       string(r.LatestAsked),
			Made:        string(r.LatestMade),
		}
		if noteVisible != nil && noteVisible(r.ID) {
			row.Note = r.LatestNoteSummary
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// RenderRosterHTML renders the roster template with provided data
func RenderRosterHTML(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := rosterTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const rosterTemplateHTML = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    body { font-family: Arial, sans-serif; font-size: 11px; margin: 1rem; }
    h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; font-size: 18px; }
    .meta { color: #666; margin-bottom: 1rem; }
    table { width: 100%; border-collapse: collapse; }
    th, td { text-align: left; padding: 4px 6px; border-bottom: 1px solid #ddd; }
    th { background: #f5f5f5; }
    td.num { text-align: right; }
  </style>
</head>
<body>
  <h1>{{.Title}}</h1>
  <div class="meta">Generated {{.GeneratedAt.Format "Jan 2, 2006 15:04"}} &middot; {{len .Rows}} people</div>
  <table>
    <thead>
      <tr>
        <th>Name</th><th>Chapter</th><th>Status</th><th>Leadership</th>
        <th>Last Contact</th><th>Meetings</th><th>Asked</th><th>Made</th><th>Latest Note</th>
      </tr>
    </thead>
    <tbody>
      {{range .Rows}}
      <tr>
        <td>{{.Name}}</td>
        <td>{{.Chapter}}</td>
        <td>{{.Status}}</td>
        <td>{{.Leadership}}</td>
        <td>{{.LastContact}}</td>
        <td class="num">{{.Meetings}}</td>
        <td>{{.Asked}}</td>
        <td>{{.Made}}</td>
        <td>{{.Note}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>
</body>
</html>`
