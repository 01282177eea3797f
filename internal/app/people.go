package app

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"groundwork/api/internal/export"
	"groundwork/api/internal/notesrepo"
	"groundwork/api/internal/roster"
	"groundwork/api/internal/search"
	"groundwork/api/internal/store"
	"groundwork/api/internal/util"
)

// RosterQuery is one parsed GET /api/people request.
type RosterQuery struct {
	Criteria  roster.Criteria
	Sort      roster.SortKey
	Direction roster.Direction
	Limit     int
}

// RosterResult carries the paged records plus the pre-paging total, so
// clients can tell a truncated page from a short result.
type RosterResult struct {
	People  []roster.FusedPersonRecord
	Total   int
	Stats   roster.MergeStats
	Summary roster.Summary
}

// ParseRosterQuery maps query parameters onto a RosterQuery. Unknown sort
// keys and bucket values are rejected rather than ignored.
func ParseRosterQuery(values url.Values) (RosterQuery, error) {
	q := RosterQuery{
		Criteria: roster.Criteria{
			Query:       values.Get("q"),
			Chapter:     values.Get("chapter"),
			Organizer:   values.Get("organizer"),
			Statuses:    splitMulti(values["status"]),
			Leadership:  splitMulti(values["leadership"]),
			LastContact: roster.DateBucket(values.Get("lastContact")),
			Meetings:    roster.CountBucket(values.Get("meetings")),
			Asked:       roster.TriState(values.Get("asked")),
			Made:        roster.TriState(values.Get("made")),
			Team:        values.Get("team"),
		},
	}

	switch q.Criteria.Asked {
	case roster.TriUnset, roster.TriYes, roster.TriNo:
	default:
		return RosterQuery{}, domainError(http.StatusBadRequest, "INVALID_FILTER", fmt.Sprintf("unknown asked value %q", q.Criteria.Asked), nil)
	}
	switch q.Criteria.Made {
	case roster.TriUnset, roster.TriYes, roster.TriNo:
	default:
		return RosterQuery{}, domainError(http.StatusBadRequest, "INVALID_FILTER", fmt.Sprintf("unknown made value %q", q.Criteria.Made), nil)
	}

	sortKey := roster.SortKey(values.Get("sort"))
	switch sortKey {
	case "":
		sortKey = roster.SortByName
	case roster.SortByName, roster.SortByChapter, roster.SortByTeam,
		roster.SortByOrganizer, roster.SortByLastContact, roster.SortByMeetings:
	default:
		return RosterQuery{}, domainError(http.StatusBadRequest, "INVALID_SORT", fmt.Sprintf("unknown sort key %q", sortKey), nil)
	}
	q.Sort = sortKey

	switch dir := values.Get("dir"); dir {
	case "":
		q.Direction = roster.DefaultDirection(sortKey)
	case string(roster.Ascending), string(roster.Descending):
		q.Direction = roster.Direction(dir)
	default:
		return RosterQuery{}, domainError(http.StatusBadRequest, "INVALID_SORT", fmt.Sprintf("unknown direction %q", dir), nil)
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return RosterQuery{}, domainError(http.StatusBadRequest, "INVALID_LIMIT", "limit must be a non-negative integer", nil)
		}
		q.Limit = limit
	}

	return q, nil
}

func splitMulti(raw []string) []string {
	var out []string
	for _, value := range raw {
		for _, part := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

// QueryRoster runs the full pipeline: load, merge, filter, sort, page.
// Pledge-only synthesis is disabled whenever an identity-only filter is
// active, so synthesized records with empty status never pollute status
// filters.
func (s *Service) QueryRoster(ctx context.Context, session Session, q RosterQuery) (RosterResult, error) {
	snap, err := s.loader.Load(ctx)
	if err != nil {
		return RosterResult{}, err
	}
	env, tables, err := s.buildEnv(ctx, session)
	if err != nil {
		return RosterResult{}, err
	}

	records, stats, err := roster.Merge(snap.Identities, snap.Interactions, snap.Commitments, roster.MergeOptions{
		SynthesizePledgeOnly: !q.Criteria.HasIdentityOnlyFilter(),
		Tables:               tables,
	})
	if err != nil {
		return RosterResult{}, err
	}

	filtered, err := roster.Filter(records, q.Criteria, env)
	if err != nil {
		return RosterResult{}, domainError(http.StatusBadRequest, "INVALID_FILTER", err.Error(), nil)
	}

	sorted := roster.Sort(filtered, q.Sort, q.Direction, env.Teams)
	total := len(sorted)
	summary := roster.Summarize(sorted, nil, nil)
	paged := roster.Page(sorted, q.Limit)
	sanitizeRecords(paged, env)

	return RosterResult{People: paged, Total: total, Stats: stats, Summary: summary}, nil
}

// sanitizeRecords blanks note content the viewer may not read. Records are
// already copies by the time they reach this point; the cached snapshot is
// never mutated.
func sanitizeRecords(records []roster.FusedPersonRecord, env roster.Env) {
	for i := range records {
		record := &records[i]
		if record.LatestNoteSummary != "" && !roster.NoteVisible(env.Viewer, record.LatestCounterpart, env) {
			record.LatestNoteSummary = ""
		}
		if len(record.Interactions) == 0 {
			continue
		}
		cleaned := make([]roster.InteractionRecord, len(record.Interactions))
		copy(cleaned, record.Interactions)
		for j := range cleaned {
			if !roster.NoteVisible(env.Viewer, cleaned[j].CounterpartID, env) {
				cleaned[j].Notes = nil
			}
		}
		record.Interactions = cleaned
	}
}

// FusedRecord returns the merged view of one person, interactions included.
func (s *Service) FusedRecord(ctx context.Context, session Session, personID string) (roster.FusedPersonRecord, error) {
	result, err := s.QueryRoster(ctx, session, RosterQuery{Sort: roster.SortByName, Direction: roster.Ascending})
	if err != nil {
		return roster.FusedPersonRecord{}, err
	}
	for _, record := range result.People {
		if record.ID == personID {
			return record, nil
		}
	}
	return roster.FusedPersonRecord{}, store.ErrNotFound
}

// Summary aggregates interactions for the filtered set within an optional
// inclusive date range.
func (s *Service) Summary(ctx context.Context, session Session, q RosterQuery, from, to *time.Time) (roster.Summary, error) {
	result, err := s.QueryRoster(ctx, session, RosterQuery{Criteria: q.Criteria, Sort: roster.SortByName, Direction: roster.Ascending})
	if err != nil {
		return roster.Summary{}, err
	}
	return roster.Summarize(result.People, from, to), nil
}

// Search runs full-text search with the viewer's note visibility applied.
func (s *Service) Search(ctx context.Context, session Session, q search.Query) (search.Response, error) {
	if s.search == nil {
		return search.Response{Results: []search.Result{}, Query: q.Text}, nil
	}
	env, _, err := s.buildEnv(ctx, session)
	if err != nil {
		return search.Response{}, err
	}
	q.NoteVisible = noteVisibleFunc(env)
	return s.search.Search(q), nil
}

// ExportRoster renders the filtered, sorted roster for download. Records are
// sanitized before rendering; the exporter gets a pass-through visibility
// rule so visible notes survive.
func (s *Service) ExportRoster(ctx context.Context, session Session, q RosterQuery, format export.Format) (*export.Result, error) {
	result, err := s.QueryRoster(ctx, session, RosterQuery{Criteria: q.Criteria, Sort: q.Sort, Direction: q.Direction})
	if err != nil {
		return nil, err
	}
	title := "Roster Export"
	if q.Criteria.Chapter != "" {
		title = q.Criteria.Chapter + " Roster"
	}
	return s.exporter.Export(result.People, export.Request{
		Format:      format,
		Title:       title,
		NoteVisible: func(string) bool { return true },
	})
}

// ---- person CRUD ----

type PersonInput struct {
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	DisplayName      string   `json:"displayName"`
	Category         string   `json:"category"`
	Chapter          string   `json:"chapter"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone"`
	MembershipStatus string   `json:"membershipStatus"`
	LeadershipLevel  string   `json:"leadershipLevel"`
	Organizers       []string `json:"organizers"`
}

func (in PersonInput) validate() error {
	if strings.TrimSpace(in.FirstName) == "" && strings.TrimSpace(in.LastName) == "" && strings.TrimSpace(in.DisplayName) == "" {
		return validationError("a name is required")
	}
	return nil
}

func (s *Service) CreatePerson(ctx context.Context, session Session, in PersonInput) (store.Person, error) {
	if err := in.validate(); err != nil {
		return store.Person{}, err
	}

	p := store.Person{
		ID:               util.NewID("per"),
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		DisplayName:      strings.TrimSpace(in.DisplayName),
		Category:         normalizeCategory(in.Category),
		Chapter:          defaultChapter(in.Chapter),
		Email:            strings.TrimSpace(in.Email),
		Phone:            strings.TrimSpace(in.Phone),
		MembershipStatus: strings.TrimSpace(in.MembershipStatus),
		LeadershipLevel:  strings.TrimSpace(in.LeadershipLevel),
		Organizers:       dedupIDs(in.Organizers),
		CreatedBy:        session.UserID,
	}
	if p.DisplayName == "" {
		p.DisplayName = strings.TrimSpace(p.FirstName + " " + p.LastName)
	}

	created, err := s.store.InsertPerson(ctx, p)
	if err != nil {
		return store.Person{}, err
	}
	if s.notes != nil {
		if err := s.notes.EnsurePersonRepo(created.ID, session.UserName); err != nil {
			return store.Person{}, fmt.Errorf("init notes history: %w", err)
		}
	}
	if s.search != nil {
		s.search.IndexPerson(personSearchRecord(created))
	}
	return created, nil
}

func (s *Service) UpdatePerson(ctx context.Context, personID string, in PersonInput) (store.Person, error) {
	if err := in.validate(); err != nil {
		return store.Person{}, err
	}
	existing, err := s.store.GetPerson(ctx, personID)
	if err != nil {
		return store.Person{}, err
	}

	existing.FirstName = strings.TrimSpace(in.FirstName)
	existing.LastName = strings.TrimSpace(in.LastName)
	existing.DisplayName = strings.TrimSpace(in.DisplayName)
	if existing.DisplayName == "" {
		existing.DisplayName = strings.TrimSpace(existing.FirstName + " " + existing.LastName)
	}
	existing.Category = normalizeCategory(in.Category)
	existing.Chapter = defaultChapter(in.Chapter)
	existing.Email = strings.TrimSpace(in.Email)
	existing.Phone = strings.TrimSpace(in.Phone)
	existing.MembershipStatus = strings.TrimSpace(in.MembershipStatus)
	existing.LeadershipLevel = strings.TrimSpace(in.LeadershipLevel)
	existing.Organizers = dedupIDs(in.Organizers)

	updated, err := s.store.UpdatePerson(ctx, existing)
	if err != nil {
		return store.Person{}, err
	}
	if s.search != nil {
		s.search.IndexPerson(personSearchRecord(updated))
	}
	return updated, nil
}

func (s *Service) DeletePerson(ctx context.Context, personID string) error {
	if err := s.store.DeletePerson(ctx, personID); err != nil {
		return err
	}
	if s.search != nil {
		s.search.DeletePerson(personID)
	}
	return nil
}

func (s *Service) GetPerson(ctx context.Context, personID string) (store.Person, error) {
	return s.store.GetPerson(ctx, personID)
}

func normalizeCategory(category string) string {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "organizer":
		return "organizer"
	case "staff":
		return "staff"
	default:
		return "contact"
	}
}

func defaultChapter(chapter string) string {
	trimmed := strings.TrimSpace(chapter)
	if trimmed == "" {
		return "Unknown"
	}
	return trimmed
}

func dedupIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	var out []string
	for _, id := range ids {
		trimmed := strings.TrimSpace(id)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// ---- meetings ----

type MeetingInput struct {
	OrganizerID     string            `json:"organizerId"`
	OrganizerName   string            `json:"organizerName"`
	OccurredOn      string            `json:"occurredOn"`
	Kind            string            `json:"kind"`
	Notes           map[string]string `json:"notes"`
	CommitmentAsked string            `json:"commitmentAsked"`
	CommitmentMade  string            `json:"commitmentMade"`
}

func (s *Service) ListMeetings(ctx context.Context, personID string) ([]store.Meeting, error) {
	if _, err := s.store.GetPerson(ctx, personID); err != nil {
		return nil, err
	}
	return s.store.ListMeetingsForPerson(ctx, personID)
}

func (s *Service) CreateMeeting(ctx context.Context, session Session, personID string, in MeetingInput) (store.Meeting, error) {
	person, err := s.store.GetPerson(ctx, personID)
	if err != nil {
		return store.Meeting{}, err
	}
	occurred, ok := roster.NormalizeDate(in.OccurredOn)
	if !ok {
		return store.Meeting{}, validationError("occurredOn is required")
	}

	organizerID := strings.TrimSpace(in.OrganizerID)
	if organizerID == "" {
		organizerID = session.UserID
	}
	organizerName := strings.TrimSpace(in.OrganizerName)
	if organizerName == "" {
		organizerName = session.UserName
	}

	m := store.Meeting{
		ID:              util.NewID("mtg"),
		PersonID:        person.ID,
		OrganizerID:     organizerID,
		OrganizerName:   organizerName,
		OccurredOn:      occurred,
		Kind:            defaultKind(in.Kind),
		Notes:           in.Notes,
		CommitmentAsked: strings.TrimSpace(in.CommitmentAsked),
		CommitmentMade:  strings.TrimSpace(in.CommitmentMade),
	}

	created, err := s.store.InsertMeeting(ctx, m)
	if err != nil {
		return store.Meeting{}, err
	}
	s.recordNotesRevision(ctx, session, person, "Log meeting "+created.ID)
	if s.search != nil {
		if rec, ok := noteSearchRecord(created, displayName(person)); ok {
			s.search.IndexNote(rec)
		}
	}
	return created, nil
}

func (s *Service) UpdateMeeting(ctx context.Context, session Session, meetingID string, in MeetingInput) (store.Meeting, error) {
	existing, err := s.store.GetMeeting(ctx, meetingID)
	if err != nil {
		return store.Meeting{}, err
	}
	person, err := s.store.GetPerson(ctx, existing.PersonID)
	if err != nil {
		return store.Meeting{}, err
	}
	if in.OccurredOn != "" {
		occurred, ok := roster.NormalizeDate(in.OccurredOn)
		if !ok {
			return store.Meeting{}, validationError("occurredOn is malformed")
		}
		existing.OccurredOn = occurred
	}
	if in.OrganizerID != "" {
		existing.OrganizerID = strings.TrimSpace(in.OrganizerID)
	}
	if in.OrganizerName != "" {
		existing.OrganizerName = strings.TrimSpace(in.OrganizerName)
	}
	if in.Kind != "" {
		existing.Kind = defaultKind(in.Kind)
	}
	if in.Notes != nil {
		existing.Notes = in.Notes
	}
	existing.CommitmentAsked = strings.TrimSpace(in.CommitmentAsked)
	existing.CommitmentMade = strings.TrimSpace(in.CommitmentMade)

	updated, err := s.store.UpdateMeeting(ctx, existing)
	if err != nil {
		return store.Meeting{}, err
	}
	s.recordNotesRevision(ctx, session, person, "Edit meeting "+updated.ID)
	if s.search != nil {
		if rec, ok := noteSearchRecord(updated, displayName(person)); ok {
			s.search.IndexNote(rec)
		} else {
			s.search.DeleteNote(updated.ID)
		}
	}
	return updated, nil
}

func (s *Service) DeleteMeeting(ctx context.Context, session Session, meetingID string) error {
	existing, err := s.store.GetMeeting(ctx, meetingID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteMeeting(ctx, meetingID); err != nil {
		return err
	}
	if person, err := s.store.GetPerson(ctx, existing.PersonID); err == nil {
		s.recordNotesRevision(ctx, session, person, "Remove meeting "+meetingID)
	}
	if s.search != nil {
		s.search.DeleteNote(meetingID)
	}
	return nil
}

// recordNotesRevision snapshots all of a person's meeting notes into the git
// history. Failures are logged by the notes layer; a meeting write never
// fails because the audit trail hiccupped.
func (s *Service) recordNotesRevision(ctx context.Context, session Session, person store.Person, message string) {
	if s.notes == nil {
		return
	}
	meetings, err := s.store.ListMeetingsForPerson(ctx, person.ID)
	if err != nil {
		return
	}
	notes := notesrepo.Notes{}
	for _, m := range meetings {
		if len(m.Notes) > 0 {
			notes[m.ID] = m.Notes
		}
	}
	if err := s.notes.EnsurePersonRepo(person.ID, session.UserName); err != nil {
		return
	}
	_, _ = s.notes.CommitNotes(person.ID, notes, session.UserName, message)
}

// NotesHistory lists note revisions for a person, gated by visibility: a
// viewer who cannot read any of the person's notes gets nothing.
func (s *Service) NotesHistory(ctx context.Context, session Session, personID string, limit int) ([]store.NoteRevision, error) {
	if s.notes == nil {
		return nil, nil
	}
	if _, err := s.store.GetPerson(ctx, personID); err != nil {
		return nil, err
	}
	if allowed, err := s.canReadAnyNotes(ctx, session, personID); err != nil {
		return nil, err
	} else if !allowed {
		return nil, forbiddenError()
	}
	return s.notes.History(personID, limit)
}

// NotesAtRevision returns a person's notes as of one revision.
func (s *Service) NotesAtRevision(ctx context.Context, session Session, personID, hash string) (notesrepo.Notes, error) {
	if s.notes == nil {
		return nil, domainError(http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	}
	if _, err := s.store.GetPerson(ctx, personID); err != nil {
		return nil, err
	}
	if allowed, err := s.canReadAnyNotes(ctx, session, personID); err != nil {
		return nil, err
	} else if !allowed {
		return nil, forbiddenError()
	}
	return s.notes.GetNotesByHash(personID, hash)
}

func (s *Service) canReadAnyNotes(ctx context.Context, session Session, personID string) (bool, error) {
	env, _, err := s.buildEnv(ctx, session)
	if err != nil {
		return false, err
	}
	meetings, err := s.store.ListMeetingsForPerson(ctx, personID)
	if err != nil {
		return false, err
	}
	for _, m := range meetings {
		if roster.NoteVisible(env.Viewer, m.OrganizerID, env) {
			return true, nil
		}
	}
	// Nothing logged yet: fall back to the subject rule.
	if len(meetings) == 0 {
		return roster.NoteVisible(env.Viewer, personID, env), nil
	}
	return false, nil
}

func defaultKind(kind string) string {
	trimmed := strings.TrimSpace(kind)
	if trimmed == "" {
		return "1:1"
	}
	return trimmed
}

// ---- pledge events ----

type PledgeEventInput struct {
	Name        string `json:"name"`
	SponsorID   string `json:"sponsorId"`
	SponsorName string `json:"sponsorName"`
	HeldOn      string `json:"heldOn"`
}

type PledgeInput struct {
	PersonID    string `json:"personId"`
	PersonName  string `json:"personName"`
	SubmittedOn string `json:"submittedOn"`
	Description string `json:"description"`
}

func (s *Service) ListPledgeEvents(ctx context.Context) ([]store.PledgeEvent, error) {
	return s.store.ListPledgeEvents(ctx)
}

func (s *Service) ListPledges(ctx context.Context) ([]store.Pledge, error) {
	return s.store.ListPledges(ctx)
}

func (s *Service) ListEventPledges(ctx context.Context, eventID string) ([]store.Pledge, error) {
	return s.store.ListPledgesForEvent(ctx, eventID)
}

func (s *Service) CreatePledgeEvent(ctx context.Context, in PledgeEventInput) (store.PledgeEvent, error) {
	if strings.TrimSpace(in.Name) == "" {
		return store.PledgeEvent{}, validationError("name is required")
	}
	held, ok := roster.NormalizeDate(in.HeldOn)
	if !ok {
		held = time.Now()
	}
	return s.store.InsertPledgeEvent(ctx, store.PledgeEvent{
		ID:          util.NewID("evt"),
		Name:        strings.TrimSpace(in.Name),
		SponsorID:   strings.TrimSpace(in.SponsorID),
		SponsorName: strings.TrimSpace(in.SponsorName),
		HeldOn:      held,
	})
}

func (s *Service) DeletePledgeEvent(ctx context.Context, eventID string) error {
	return s.store.DeletePledgeEvent(ctx, eventID)
}

// AddPledge records a signed pledge under an event. The subject does not
// have to exist in the directory; the fusion engine synthesizes a record
// when policy allows.
func (s *Service) AddPledge(ctx context.Context, eventID string, in PledgeInput) (store.Pledge, error) {
	if strings.TrimSpace(in.PersonID) == "" && strings.TrimSpace(in.PersonName) == "" {
		return store.Pledge{}, validationError("personId or personName is required")
	}
	submitted, ok := roster.NormalizeDate(in.SubmittedOn)
	if !ok {
		submitted = time.Now()
	}
	return s.store.InsertPledge(ctx, store.Pledge{
		ID:          util.NewID("plg"),
		EventID:     eventID,
		PersonID:    strings.TrimSpace(in.PersonID),
		PersonName:  strings.TrimSpace(in.PersonName),
		SubmittedOn: submitted,
		Description: strings.TrimSpace(in.Description),
	})
}

func (s *Service) ConfirmPledge(ctx context.Context, pledgeID string) error {
	return s.store.ConfirmPledge(ctx, pledgeID)
}

// ---- attachments ----

func (s *Service) ListAttachments(ctx context.Context, personID string) ([]store.Attachment, error) {
	if _, err := s.store.GetPerson(ctx, personID); err != nil {
		return nil, err
	}
	return s.store.ListAttachments(ctx, personID)
}

func (s *Service) UploadAttachment(ctx context.Context, session Session, personID, fileName, contentType string, size int64, body io.Reader) (store.Attachment, error) {
	if s.blobs == nil {
		return store.Attachment{}, domainError(http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Attachment storage not configured", nil)
	}
	if strings.TrimSpace(fileName) == "" {
		return store.Attachment{}, validationError("file name is required")
	}
	person, err := s.store.GetPerson(ctx, personID)
	if err != nil {
		return store.Attachment{}, err
	}

	id := util.NewID("att")
	objectKey := person.ID + "/" + id + "/" + fileName
	if err := s.blobs.Put(ctx, objectKey, body, size, contentType); err != nil {
		return store.Attachment{}, fmt.Errorf("store attachment: %w", err)
	}
	created, err := s.store.InsertAttachment(ctx, store.Attachment{
		ID:          id,
		PersonID:    person.ID,
		FileName:    fileName,
		ContentType: contentType,
		ObjectKey:   objectKey,
		Size:        size,
		UploadedBy:  session.UserID,
	})
	if err != nil {
		// Keep the bucket consistent with the table.
		_ = s.blobs.Delete(ctx, objectKey)
		return store.Attachment{}, err
	}
	return created, nil
}

func (s *Service) AttachmentDownloadURL(ctx context.Context, attachmentID string) (string, error) {
	if s.blobs == nil {
		return "", domainError(http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "Attachment storage not configured", nil)
	}
	a, err := s.store.GetAttachment(ctx, attachmentID)
	if err != nil {
		return "", err
	}
	return s.blobs.PresignedGetURL(ctx, a.ObjectKey, a.FileName, 15*time.Minute)
}

func (s *Service) DeleteAttachment(ctx context.Context, attachmentID string) error {
	a, err := s.store.GetAttachment(ctx, attachmentID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteAttachment(ctx, attachmentID); err != nil {
		return err
	}
	if s.blobs != nil {
		_ = s.blobs.Delete(ctx, a.ObjectKey)
	}
	return nil
}
