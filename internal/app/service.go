package app

import (
	"context"
	"strings"
	"time"

	"groundwork/api/internal/auth"
	"groundwork/api/internal/authpw"
	"groundwork/api/internal/blob"
	"groundwork/api/internal/config"
	"groundwork/api/internal/email"
	"groundwork/api/internal/export"
	"groundwork/api/internal/fetch"
	"groundwork/api/internal/notesrepo"
	"groundwork/api/internal/rbac"
	"groundwork/api/internal/roster"
	"groundwork/api/internal/search"
	"groundwork/api/internal/store"
	"groundwork/api/internal/util"
)

type Session struct {
	Token        string
	RefreshToken string
	UserID       string
	UserName     string
	Role         string
	Chapter      string
	JTI          string
	ExpiresAt    time.Time
}

type dataStore interface {
	GetUserByID(ctx context.Context, userID string) (store.User, error)
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	ListUsers(ctx context.Context) ([]store.User, error)

	ListPeople(ctx context.Context) ([]store.Person, error)
	GetPerson(ctx context.Context, personID string) (store.Person, error)
	InsertPerson(ctx context.Context, p store.Person) (store.Person, error)
	UpdatePerson(ctx context.Context, p store.Person) (store.Person, error)
	DeletePerson(ctx context.Context, personID string) error

	ListMeetingsForPeople(ctx context.Context, personIDs []string) ([]store.Meeting, error)
	ListMeetingsForPerson(ctx context.Context, personID string) ([]store.Meeting, error)
	GetMeeting(ctx context.Context, meetingID string) (store.Meeting, error)
	InsertMeeting(ctx context.Context, m store.Meeting) (store.Meeting, error)
	UpdateMeeting(ctx context.Context, m store.Meeting) (store.Meeting, error)
	DeleteMeeting(ctx context.Context, meetingID string) error

	ListPledgeEvents(ctx context.Context) ([]store.PledgeEvent, error)
	InsertPledgeEvent(ctx context.Context, e store.PledgeEvent) (store.PledgeEvent, error)
	DeletePledgeEvent(ctx context.Context, eventID string) error
	ListPledges(ctx context.Context) ([]store.Pledge, error)
	ListPledgesForEvent(ctx context.Context, eventID string) ([]store.Pledge, error)
	InsertPledge(ctx context.Context, p store.Pledge) (store.Pledge, error)
	ConfirmPledge(ctx context.Context, pledgeID string) error

	ListTeams(ctx context.Context) ([]store.Team, error)
	GetTeam(ctx context.Context, teamID string) (store.Team, error)
	InsertTeam(ctx context.Context, t store.Team) (store.Team, error)
	UpdateTeam(ctx context.Context, t store.Team) (store.Team, error)
	DeleteTeam(ctx context.Context, teamID string) error
	ListTeamMembers(ctx context.Context, teamID string) ([]store.TeamMember, error)
	ListAllTeamMembers(ctx context.Context) ([]store.TeamMember, error)
	AddTeamMember(ctx context.Context, m store.TeamMember) error
	RemoveTeamMember(ctx context.Context, teamID, memberID string) error

	ListOrganizerAliases(ctx context.Context) ([]store.OrganizerAlias, error)

	InsertAttachment(ctx context.Context, a store.Attachment) (store.Attachment, error)
	ListAttachments(ctx context.Context, personID string) ([]store.Attachment, error)
	GetAttachment(ctx context.Context, attachmentID string) (store.Attachment, error)
	DeleteAttachment(ctx context.Context, attachmentID string) error

	GetDataVersions(ctx context.Context) (store.DataVersions, error)
	Ping(ctx context.Context) error
}

// SessionStore is satisfied by both the Redis store and the Postgres
// fallback; main picks one.
type SessionStore interface {
	SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error
	LookupRefreshSession(ctx context.Context, tokenHash string) (string, error)
	RevokeRefreshSession(ctx context.Context, tokenHash string) error
	RevokeAccessToken(ctx context.Context, jti string, expiresAt time.Time) error
	IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error)
}

type notesService interface {
	EnsurePersonRepo(personID, author string) error
	CommitNotes(personID string, notes notesrepo.Notes, author, message string) (store.NoteRevision, error)
	History(personID string, limit int) ([]store.NoteRevision, error)
	GetNotesByHash(personID, hash string) (notesrepo.Notes, error)
}

type Service struct {
	cfg      config.Config
	store    dataStore
	sessions SessionStore
	loader   *fetch.Loader
	notes    notesService
	search   *search.Service
	exporter *export.Service
	blobs    *blob.Service
	mailer   *email.Service
	authpw   *authpw.Service
}

func New(cfg config.Config, ds dataStore, sessions SessionStore, notes notesService, searchSvc *search.Service, blobs *blob.Service, mailer *email.Service, authSvc *authpw.Service) *Service {
	return &Service{
		cfg:      cfg,
		store:    ds,
		sessions: sessions,
		loader:   fetch.NewLoader(ds, cfg.MeetingBatchSize),
		notes:    notes,
		search:   searchSvc,
		exporter: export.NewService(),
		blobs:    blobs,
		mailer:   mailer,
		authpw:   authSvc,
	}
}

// Bootstrap reindexes search from the store. People and notes live in
// Postgres either way; Meilisearch is a cache that can always be rebuilt.
func (s *Service) Bootstrap(ctx context.Context) error {
	if s.search == nil {
		return nil
	}

	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return err
	}
	records := make([]search.PersonRecord, 0, len(people))
	ids := make([]string, 0, len(people))
	nameByID := make(map[string]string, len(people))
	for _, p := range people {
		records = append(records, personSearchRecord(p))
		ids = append(ids, p.ID)
		nameByID[p.ID] = displayName(p)
	}

	meetings, err := s.store.ListMeetingsForPeople(ctx, ids)
	if err != nil {
		return err
	}
	notes := make([]search.NoteRecord, 0, len(meetings))
	for _, m := range meetings {
		if rec, ok := noteSearchRecord(m, nameByID[m.PersonID]); ok {
			notes = append(notes, rec)
		}
	}

	s.search.ReindexAll(records, notes)
	return nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) Can(role string, action rbac.Action) bool {
	return rbac.Can(rbac.Normalize(role), action)
}

func (s *Service) AuthPasswordService() *authpw.Service {
	return s.authpw
}

func (s *Service) Mailer() *email.Service {
	return s.mailer
}

func (s *Service) SMTPConfigured() bool {
	return s.mailer != nil && s.mailer.IsConfigured()
}

func (s *Service) ListUsers(ctx context.Context) ([]store.User, error) {
	return s.store.ListUsers(ctx)
}

func (s *Service) AppBaseURL() string {
	return strings.TrimRight(s.cfg.AppBaseURL, "/")
}

// ---- sessions ----

func (s *Service) Refresh(ctx context.Context, refreshToken string) (Session, error) {
	tokenHash := auth.HashToken(refreshToken)
	userID, err := s.sessions.LookupRefreshSession(ctx, tokenHash)
	if err != nil {
		return Session{}, err
	}
	if err := s.sessions.RevokeRefreshSession(ctx, tokenHash); err != nil {
		return Session{}, err
	}
	user, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return Session{}, err
	}
	return s.IssueSession(ctx, user)
}

func (s *Service) IssueSession(ctx context.Context, user store.User) (Session, error) {
	now := time.Now()
	expiresAt := now.Add(s.cfg.AccessTTL)
	jti := util.NewID("jti")

	token, err := auth.IssueToken([]byte(s.cfg.JWTSecret), auth.Claims{
		Sub:     user.ID,
		Name:    user.DisplayName,
		Role:    user.Role,
		Chapter: user.Chapter,
		JTI:     jti,
		Exp:     expiresAt.Unix(),
	})
	if err != nil {
		return Session{}, err
	}

	refresh := util.NewID("rft") + util.NewID("")
	refreshExpires := now.Add(s.cfg.RefreshTTL)
	if err := s.sessions.SaveRefreshSession(ctx, auth.HashToken(refresh), user.ID, refreshExpires); err != nil {
		return Session{}, err
	}

	return Session{
		Token:        token,
		RefreshToken: refresh,
		UserID:       user.ID,
		UserName:     user.DisplayName,
		Role:         user.Role,
		Chapter:      user.Chapter,
		JTI:          jti,
		ExpiresAt:    expiresAt,
	}, nil
}

func (s *Service) SessionFromToken(ctx context.Context, token string) (Session, error) {
	claims, err := auth.ParseToken([]byte(s.cfg.JWTSecret), token)
	if err != nil {
		return Session{}, err
	}
	revoked, err := s.sessions.IsAccessTokenRevoked(ctx, claims.JTI)
	if err != nil {
		return Session{}, err
	}
	if revoked {
		return Session{}, auth.ErrInvalidToken
	}

	user, err := s.store.GetUserByID(ctx, claims.Sub)
	if err != nil {
		return Session{}, err
	}

	return Session{
		Token:     token,
		UserID:    user.ID,
		UserName:  user.DisplayName,
		Role:      user.Role,
		Chapter:   user.Chapter,
		JTI:       claims.JTI,
		ExpiresAt: time.Unix(claims.Exp, 0),
	}, nil
}

func (s *Service) Logout(ctx context.Context, session Session, refreshToken string) error {
	if session.JTI != "" {
		_ = s.sessions.RevokeAccessToken(ctx, session.JTI, session.ExpiresAt)
	}
	if refreshToken != "" {
		_ = s.sessions.RevokeRefreshSession(ctx, auth.HashToken(refreshToken))
	}
	return nil
}

// ---- query environment ----

// buildEnv assembles lookup tables, aliases, and team membership for one
// request. All of it comes from small tables; the heavy data is the meeting
// set, which the loader caches separately.
func (s *Service) buildEnv(ctx context.Context, session Session) (roster.Env, roster.LookupTables, error) {
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return roster.Env{}, roster.LookupTables{}, err
	}
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return roster.Env{}, roster.LookupTables{}, err
	}
	aliasRows, err := s.store.ListOrganizerAliases(ctx)
	if err != nil {
		return roster.Env{}, roster.LookupTables{}, err
	}
	teams, err := s.store.ListTeams(ctx)
	if err != nil {
		return roster.Env{}, roster.LookupTables{}, err
	}
	members, err := s.store.ListAllTeamMembers(ctx)
	if err != nil {
		return roster.Env{}, roster.LookupTables{}, err
	}

	tables := roster.LookupTables{
		Roster:   map[string]roster.LookupEntry{},
		Users:    map[string]roster.LookupEntry{},
		Contacts: map[string]roster.LookupEntry{},
	}
	for _, p := range people {
		entry := roster.LookupEntry{Name: displayName(p), Chapter: p.Chapter}
		if strings.EqualFold(p.Category, "contact") {
			tables.Contacts[p.ID] = entry
		} else {
			tables.Roster[p.ID] = entry
		}
	}
	for _, u := range users {
		tables.Users[u.ID] = roster.LookupEntry{Name: u.DisplayName, Chapter: u.Chapter}
	}

	aliases := roster.AliasTable{}
	for _, row := range aliasRows {
		aliases[row.Canonical] = append(aliases[row.Canonical], row.Alias)
	}

	teamName := make(map[string]string, len(teams))
	for _, t := range teams {
		teamName[t.ID] = t.Name
	}
	index := roster.TeamIndex{}
	for _, m := range members {
		name, ok := teamName[m.TeamID]
		if !ok {
			continue
		}
		index[m.MemberID] = append(index[m.MemberID], name)
	}

	env := roster.Env{
		Now:           time.Now(),
		Viewer:        roster.ViewerContext{UserID: session.UserID, Teams: index[session.UserID]},
		Teams:         index,
		Aliases:       aliases,
		OversightTeam: s.cfg.OversightTeam,
	}
	return env, tables, nil
}

// noteVisibleFunc adapts the note visibility rule for the search and export
// layers, which only know person ids.
func noteVisibleFunc(env roster.Env) func(personID string) bool {
	return func(personID string) bool {
		return roster.NoteVisible(env.Viewer, personID, env)
	}
}

func displayName(p store.Person) string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func personSearchRecord(p store.Person) search.PersonRecord {
	return search.PersonRecord{
		ID:          p.ID,
		DisplayName: displayName(p),
		Chapter:     p.Chapter,
		Category:    p.Category,
		Email:       p.Email,
	}
}

func noteSearchRecord(m store.Meeting, personName string) (search.NoteRecord, bool) {
	parts := make([]string, 0, len(m.Notes))
	for _, field := range roster.NormalizeNoteFields(m.Notes) {
		if field.Value != "" {
			parts = append(parts, field.Value)
		}
	}
	if len(parts) == 0 {
		return search.NoteRecord{}, false
	}
	return search.NoteRecord{
		ID:          m.ID,
		PersonID:    m.PersonID,
		PersonName:  personName,
		OrganizerID: m.OrganizerID,
		Text:        strings.Join(parts, " "),
	}, true
}
