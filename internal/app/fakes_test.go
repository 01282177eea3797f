package app

import (
	"context"
	"time"

	"groundwork/api/internal/notesrepo"
	"groundwork/api/internal/store"
)

// fakeData implements dataStore with overridable function fields. Methods
// without an override return empty results.
type fakeData struct {
	getUserByID    func(ctx context.Context, userID string) (store.User, error)
	getUserByEmail func(ctx context.Context, email string) (store.User, error)
	listUsers      func(ctx context.Context) ([]store.User, error)

	listPeople   func(ctx context.Context) ([]store.Person, error)
	getPerson    func(ctx context.Context, personID string) (store.Person, error)
	insertPerson func(ctx context.Context, p store.Person) (store.Person, error)
	updatePerson func(ctx context.Context, p store.Person) (store.Person, error)
	deletePerson func(ctx context.Context, personID string) error

	listMeetingsForPeople func(ctx context.Context, personIDs []string) ([]store.Meeting, error)
	listMeetingsForPerson func(ctx context.Context, personID string) ([]store.Meeting, error)
	getMeeting            func(ctx context.Context, meetingID string) (store.Meeting, error)
	insertMeeting         func(ctx context.Context, m store.Meeting) (store.Meeting, error)
	updateMeeting         func(ctx context.Context, m store.Meeting) (store.Meeting, error)
	deleteMeeting         func(ctx context.Context, meetingID string) error

	listPledgeEvents    func(ctx context.Context) ([]store.PledgeEvent, error)
	insertPledgeEvent   func(ctx context.Context, e store.PledgeEvent) (store.PledgeEvent, error)
	deletePledgeEvent   func(ctx context.Context, eventID string) error
	listPledges         func(ctx context.Context) ([]store.Pledge, error)
	listPledgesForEvent func(ctx context.Context, eventID string) ([]store.Pledge, error)
	insertPledge        func(ctx context.Context, p store.Pledge) (store.Pledge, error)
	confirmPledge       func(ctx context.Context, pledgeID string) error

	listTeams          func(ctx context.Context) ([]store.Team, error)
	getTeam            func(ctx context.Context, teamID string) (store.Team, error)
	insertTeam         func(ctx context.Context, t store.Team) (store.Team, error)
	updateTeam         func(ctx context.Context, t store.Team) (store.Team, error)
	deleteTeam         func(ctx context.Context, teamID string) error
	listTeamMembers    func(ctx context.Context, teamID string) ([]store.TeamMember, error)
	listAllTeamMembers func(ctx context.Context) ([]store.TeamMember, error)
	addTeamMember      func(ctx context.Context, m store.TeamMember) error
	removeTeamMember   func(ctx context.Context, teamID, memberID string) error

	listOrganizerAliases func(ctx context.Context) ([]store.OrganizerAlias, error)

	insertAttachment func(ctx context.Context, a store.Attachment) (store.Attachment, error)
	listAttachments  func(ctx context.Context, personID string) ([]store.Attachment, error)
	getAttachment    func(ctx context.Context, attachmentID string) (store.Attachment, error)
	deleteAttachment func(ctx context.Context, attachmentID string) error

	getDataVersions func(ctx context.Context) (store.DataVersions, error)
	ping            func(ctx context.Context) error
}

func (f *fakeData) GetUserByID(ctx context.Context, userID string) (store.User, error) {
	if f.getUserByID != nil {
		return f.getUserByID(ctx, userID)
	}
	return store.User{}, store.ErrNotFound
}

func (f *fakeData) GetUserByEmail(ctx context.Context, email string) (store.User, error) {
	if f.getUserByEmail != nil {
		return f.getUserByEmail(ctx, email)
	}
	return store.User{}, store.ErrNotFound
}

func (f *fakeData) ListUsers(ctx context.Context) ([]store.User, error) {
	if f.listUsers != nil {
		return f.listUsers(ctx)
	}
	return nil, nil
}

func (f *fakeData) ListPeople(ctx context.Context) ([]store.Person, error) {
	if f.listPeople != nil {
		return f.listPeople(ctx)
	}
	return nil, nil
}

func (f *fakeData) GetPerson(ctx context.Context, personID string) (store.Person, error) {
	if f.getPerson != nil {
		return f.getPerson(ctx, personID)
	}
	return store.Person{}, store.ErrNotFound
}

func (f *fakeData) InsertPerson(ctx context.Context, p store.Person) (store.Person, error) {
	if f.insertPerson != nil {
		return f.insertPerson(ctx, p)
	}
	return p, nil
}

func (f *fakeData) UpdatePerson(ctx context.Context, p store.Person) (store.Person, error) {
	if f.updatePerson != nil {
		return f.updatePerson(ctx, p)
	}
	return p, nil
}

func (f *fakeData) DeletePerson(ctx context.Context, personID string) error {
	if f.deletePerson != nil {
		return f.deletePerson(ctx, personID)
	}
	return nil
}

func (f *fakeData) ListMeetingsForPeople(ctx context.Context, personIDs []string) ([]store.Meeting, error) {
	if f.listMeetingsForPeople != nil {
		return f.listMeetingsForPeople(ctx, personIDs)
	}
	return nil, nil
}

func (f *fakeData) ListMeetingsForPerson(ctx context.Context, personID string) ([]store.Meeting, error) {
	if f.listMeetingsForPerson != nil {
		return f.listMeetingsForPerson(ctx, personID)
	}
	return nil, nil
}

func (f *fakeData) GetMeeting(ctx context.Context, meetingID string) (store.Meeting, error) {
	if f.getMeeting != nil {
		return f.getMeeting(ctx, meetingID)
	}
	return store.Meeting{}, store.ErrNotFound
}

func (f *fakeData) InsertMeeting(ctx context.Context, m store.Meeting) (store.Meeting, error) {
	if f.insertMeeting != nil {
		return f.insertMeeting(ctx, m)
	}
	return m, nil
}

func (f *fakeData) UpdateMeeting(ctx context.Context, m store.Meeting) (store.Meeting, error) {
	if f.updateMeeting != nil {
		return f.updateMeeting(ctx, m)
	}
	return m, nil
}

func (f *fakeData) DeleteMeeting(ctx context.Context, meetingID string) error {
	if f.deleteMeeting != nil {
		return f.deleteMeeting(ctx, meetingID)
	}
	return nil
}

func (f *fakeData) ListPledgeEvents(ctx context.Context) ([]store.PledgeEvent, error) {
	if f.listPledgeEvents != nil {
		return f.listPledgeEvents(ctx)
	}
	return nil, nil
}

func (f *fakeData) InsertPledgeEvent(ctx context.Context, e store.PledgeEvent) (store.PledgeEvent, error) {
	if f.insertPledgeEvent != nil {
		return f.insertPledgeEvent(ctx, e)
	}
	return e, nil
}

func (f *fakeData) DeletePledgeEvent(ctx context.Context, eventID string) error {
	if f.deletePledgeEvent != nil {
		return f.deletePledgeEvent(ctx, eventID)
	}
	return nil
}

func (f *fakeData) ListPledges(ctx context.Context) ([]store.Pledge, error) {
	if f.listPledges != nil {
		return f.listPledges(ctx)
	}
	return nil, nil
}

func (f *fakeData) ListPledgesForEvent(ctx context.Context, eventID string) ([]store.Pledge, error) {
	if f.listPledgesForEvent != nil {
		return f.listPledgesForEvent(ctx, eventID)
	}
	return nil, nil
}

func (f *fakeData) InsertPledge(ctx context.Context, p store.Pledge) (store.Pledge, error) {
	if f.insertPledge != nil {
		return f.insertPledge(ctx, p)
	}
	return p, nil
}

func (f *fakeData) ConfirmPledge(ctx context.Context, pledgeID string) error {
	if f.confirmPledge != nil {
		return f.confirmPledge(ctx, pledgeID)
	}
	return nil
}

func (f *fakeData) ListTeams(ctx context.Context) ([]store.Team, error) {
	if f.listTeams != nil {
		return f.listTeams(ctx)
	}
	return nil, nil
}

func (f *fakeData) GetTeam(ctx context.Context, teamID string) (store.Team, error) {
	if f.getTeam != nil {
		return f.getTeam(ctx, teamID)
	}
	return store.Team{}, store.ErrNotFound
}

func (f *fakeData) InsertTeam(ctx context.Context, t store.Team) (store.Team, error) {
	if f.insertTeam != nil {
		return f.insertTeam(ctx, t)
	}
	return t, nil
}

func (f *fakeData) UpdateTeam(ctx context.Context, t store.Team) (store.Team, error) {
	if f.updateTeam != nil {
		return f.updateTeam(ctx, t)
	}
	return t, nil
}

func (f *fakeData) DeleteTeam(ctx context.Context, teamID string) error {
	if f.deleteTeam != nil {
		return f.deleteTeam(ctx, teamID)
	}
	return nil
}

func (f *fakeData) ListTeamMembers(ctx context.Context, teamID string) ([]store.TeamMember, error) {
	if f.listTeamMembers != nil {
		return f.listTeamMembers(ctx, teamID)
	}
	return nil, nil
}

func (f *fakeData) ListAllTeamMembers(ctx context.Context) ([]store.TeamMember, error) {
	if f.listAllTeamMembers != nil {
		return f.listAllTeamMembers(ctx)
	}
	return nil, nil
}

func (f *fakeData) AddTeamMember(ctx context.Context, m store.TeamMember) error {
	if f.addTeamMember != nil {
		return f.addTeamMember(ctx, m)
	}
	return nil
}

func (f *fakeData) RemoveTeamMember(ctx context.Context, teamID, memberID string) error {
	if f.removeTeamMember != nil {
		return f.removeTeamMember(ctx, teamID, memberID)
	}
	return nil
}

func (f *fakeData) ListOrganizerAliases(ctx context.Context) ([]store.OrganizerAlias, error) {
	if f.listOrganizerAliases != nil {
		return f.listOrganizerAliases(ctx)
	}
	return nil, nil
}

func (f *fakeData) InsertAttachment(ctx context.Context, a store.Attachment) (store.Attachment, error) {
	if f.insertAttachment != nil {
		return f.insertAttachment(ctx, a)
	}
	return a, nil
}

func (f *fakeData) ListAttachments(ctx context.Context, personID string) ([]store.Attachment, error) {
	if f.listAttachments != nil {
		return f.listAttachments(ctx, personID)
	}
	return nil, nil
}

func (f *fakeData) GetAttachment(ctx context.Context, attachmentID string) (store.Attachment, error) {
	if f.getAttachment != nil {
		return f.getAttachment(ctx, attachmentID)
	}
	return store.Attachment{}, store.ErrNotFound
}

func (f *fakeData) DeleteAttachment(ctx context.Context, attachmentID string) error {
	if f.deleteAttachment != nil {
		return f.deleteAttachment(ctx, attachmentID)
	}
	return nil
}

func (f *fakeData) GetDataVersions(ctx context.Context) (store.DataVersions, error) {
	if f.getDataVersions != nil {
		return f.getDataVersions(ctx)
	}
	return store.DataVersions{}, nil
}

func (f *fakeData) Ping(ctx context.Context) error {
	if f.ping != nil {
		return f.ping(ctx)
	}
	return nil
}

// fakeSessions implements sessionStore in memory.
type fakeSessions struct {
	refresh map[string]string
	revoked map[string]bool
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{refresh: map[string]string{}, revoked: map[string]bool{}}
}

func (f *fakeSessions) SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	f.refresh[tokenHash] = userID
	return nil
}

func (f *fakeSessions) LookupRefreshSession(ctx context.Context, tokenHash string) (string, error) {
	userID, ok := f.refresh[tokenHash]
	if !ok {
		return "", store.ErrNotFound
	}
	return userID, nil
}

func (f *fakeSessions) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	delete(f.refresh, tokenHash)
	return nil
}

func (f *fakeSessions) RevokeAccessToken(ctx context.Context, jti string, expiresAt time.Time) error {
	f.revoked[jti] = true
	return nil
}

func (f *fakeSessions) IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error) {
	return f.revoked[jti], nil
}

// fakeNotes records commits without touching disk.
type fakeNotes struct {
	ensured  []string
	commits  []string
	history  []store.NoteRevision
	contents notesrepo.Notes
}

func (f *fakeNotes) EnsurePersonRepo(personID, author string) error {
	f.ensured = append(f.ensured, personID)
	return nil
}

func (f *fakeNotes) CommitNotes(personID string, notes notesrepo.Notes, author, message string) (store.NoteRevision, error) {
	f.commits = append(f.commits, message)
	f.contents = notes
	return store.NoteRevision{Hash: "abc123", Message: message, Author: author}, nil
}

func (f *fakeNotes) History(personID string, limit int) ([]store.NoteRevision, error) {
	return f.history, nil
}

func (f *fakeNotes) GetNotesByHash(personID, hash string) (notesrepo.Notes, error) {
	if f.contents == nil {
		return notesrepo.Notes{}, nil
	}
	return f.contents, nil
}
