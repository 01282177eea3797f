package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"groundwork/api/internal/roster"
)

func sampleRecords() []roster.FusedPersonRecord {
	contact := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	return []roster.FusedPersonRecord{
		{
			ID:                "per_1",
			DisplayName:       "Rosa Linden",
			Chapter:           "Eastside",
			MembershipStatus:  "member",
			MostRecentContact: &contact,
			InteractionCount:  3,
			LatestAsked:       roster.TriYes,
			LatestMade:        roster.TriYes,
			LatestNoteSummary: "Intro call | wants to join canvass",
		},
		{
			ID:          "per_2",
			DisplayName: "Priya Nair",
			Chapter:     "Riverside",
		},
	}
}

func TestExportCSV(t *testing.T) {
	svc := NewService()
	result, err := svc.Export(sampleRecords(), Request{
		Format:      FormatCSV,
		Title:       "Eastside Outreach",
		NoteVisible: func(string) bool { return true },
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if result.MimeType != "text/csv" {
		t.Errorf("mime type = %s", result.MimeType)
	}
	if result.Filename != "Eastside-Outreach.csv" {
		t.Errorf("filename = %s", result.Filename)
	}

	rows, err := csv.NewReader(strings.NewReader(string(result.Data))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][0] != "Rosa Linden" || rows[1][5] != "2026-03-10" || rows[1][6] != "3" {
		t.Errorf("unexpected first row: %v", rows[1])
	}
	if rows[2][5] != "" {
		t.Errorf("no-contact person should have empty last contact, got %q", rows[2][5])
	}
}

func TestExportCSVHidesInvisibleNotes(t *testing.T) {
	svc := NewService()
	result, err := svc.Export(sampleRecords(), Request{
		Format:      FormatCSV,
		NoteVisible: func(personID string) bool { return personID == "per_2" },
	})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if strings.Contains(string(result.Data), "Intro call") {
		t.Error("note about per_1 leaked into export")
	}
}

func TestExportCSVHidesAllNotesWithoutRule(t *testing.T) {
	svc := NewService()
	result, err := svc.Export(sampleRecords(), Request{Format: FormatCSV})
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if strings.Contains(string(result.Data), "Intro call") {
		t.Error("notes must be hidden when no visibility rule is supplied")
	}
}

func TestRenderRosterHTML(t *testing.T) {
	data := rosterTemplateData(sampleRecords(), "Test Roster", func(string) bool { return true })
	html, err := RenderRosterHTML(data)
	if err != nil {
		t.Fatalf("RenderRosterHTML() error = %v", err)
	}
	for _, want := range []string{"Test Roster", "Rosa Linden", "Priya Nair", "2026-03-10"} {
		if !strings.Contains(html, want) {
			t.Errorf("rendered HTML missing %q", want)
		}
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	records := []roster.FusedPersonRecord{{ID: "per_9", DisplayName: "<script>alert(1)</script>"}}
	html, err := RenderRosterHTML(rosterTemplateData(records, "Roster", nil))
	if err != nil {
		t.Fatalf("RenderRosterHTML() error = %v", err)
	}
	if strings.Contains(html, "<script>alert") {
		t.Error("names must be escaped in rendered HTML")
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	svc := NewService()
	if _, err := svc.Export(nil, Request{Format: Format("xlsx")}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Eastside Outreach":  "Eastside-Outreach",
		"a/b\\c":             "abc",
		"":                   "roster",
		strings.Repeat("x", 60): strings.Repeat("x", 50),
	}
	for in, want := range cases {
		if got := sanitizeFilename(in); got != want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
