package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"groundwork/api/internal/store"
)

func newTestServer(data *fakeData) (*HTTPServer, *Service) {
	svc := newTestService(data)
	return NewHTTPServer(svc, "*"), svc
}

func userFixture(role string) *fakeData {
	data := rosterFixture()
	data.getUserByID = func(ctx context.Context, userID string) (store.User, error) {
		return store.User{ID: userID, DisplayName: "Sam Ortiz", Role: role, IsEmailVerified: true}, nil
	}
	return data
}

func issueTestSession(t *testing.T, svc *Service, role string) Session {
	t.Helper()
	session, err := svc.IssueSession(context.Background(), store.User{ID: "usr_9", DisplayName: "Sam Ortiz", Role: role})
	if err != nil {
		t.Fatalf("IssueSession: %v", err)
	}
	return session
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(recorder.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v (%s)", err, recorder.Body.String())
	}
	return payload
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(rosterFixture())
	recorder := doJSON(t, server.Handler(), http.MethodGet, "/api/health", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
	if payload := decodeResponse(t, recorder); payload["ok"] != true {
		t.Fatalf("payload = %v", payload)
	}
}

func TestReadyReportsDatabaseFailure(t *testing.T) {
	data := rosterFixture()
	data.ping = func(ctx context.Context) error {
		return context.DeadlineExceeded
	}
	server, _ := newTestServer(data)

	recorder := doJSON(t, server.Handler(), http.MethodGet, "/api/ready", "", nil)
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", recorder.Code)
	}
}

func TestRequestsWithoutTokenAreUnauthorized(t *testing.T) {
	server, _ := newTestServer(rosterFixture())
	recorder := doJSON(t, server.Handler(), http.MethodGet, "/api/people", "", nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", recorder.Code)
	}
}

func TestSessionEndpointReportsAnonymous(t *testing.T) {
	server, _ := newTestServer(rosterFixture())
	recorder := doJSON(t, server.Handler(), http.MethodGet, "/api/session", "", nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
	if payload := decodeResponse(t, recorder); payload["authenticated"] != false {
		t.Fatalf("payload = %v", payload)
	}
}

func TestRosterEndpointReturnsPeople(t *testing.T) {
	server, svc := newTestServer(userFixture("lead"))
	session := issueTestSession(t, svc, "lead")

	recorder := doJSON(t, server.Handler(), http.MethodGet, "/api/people?sort=name", session.Token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", recorder.Code, recorder.Body.String())
	}
	payload := decodeResponse(t, recorder)
	people, ok := payload["people"].([]any)
	if !ok || len(people) != 3 {
		t.Fatalf("people = %v", payload["people"])
	}
	if payload["total"] != float64(3) {
		t.Fatalf("total = %v", payload["total"])
	}
}

func TestRosterEndpointRejectsUnknownSort(t *testing.T) {
	server, svc := newTestServer(userFixture("lead"))
	session := issueTestSession(t, svc, "lead")

	recorder := doJSON(t, server.Handler(), http.MethodGet, "/api/people?sort=height", session.Token, nil)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", recorder.Code)
	}
	if payload := decodeResponse(t, recorder); payload["code"] != "INVALID_SORT" {
		t.Fatalf("payload = %v", payload)
	}
}

func TestViewerCannotWrite(t *testing.T) {
	server, svc := newTestServer(userFixture("viewer"))
	session := issueTestSession(t, svc, "viewer")

	recorder := doJSON(t, server.Handler(), http.MethodPost, "/api/people", session.Token, PersonInput{FirstName: "Jo"})
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d", recorder.Code)
	}
}

func TestOrganizerCannotConfirmPledges(t *testing.T) {
	server, svc := newTestServer(userFixture("organizer"))
	session := issueTestSession(t, svc, "organizer")

	recorder := doJSON(t, server.Handler(), http.MethodPost, "/api/pledges/plg_1/confirm", session.Token, nil)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d", recorder.Code)
	}
}

func TestLeadConfirmsPledge(t *testing.T) {
	data := userFixture("lead")
	confirmed := ""
	data.confirmPledge = func(ctx context.Context, pledgeID string) error {
		confirmed = pledgeID
		return nil
	}
	server, svc := newTestServer(data)
	session := issueTestSession(t, svc, "lead")

	recorder := doJSON(t, server.Handler(), http.MethodPost, "/api/pledges/plg_1/confirm", session.Token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", recorder.Code, recorder.Body.String())
	}
	if confirmed != "plg_1" {
		t.Fatalf("confirmed = %q", confirmed)
	}
}

func TestCreatePersonEndpoint(t *testing.T) {
	data := userFixture("organizer")
	var inserted store.Person
	data.insertPerson = func(ctx context.Context, p store.Person) (store.Person, error) {
		inserted = p
		return p, nil
	}
	server, svc := newTestServer(data)
	session := issueTestSession(t, svc, "organizer")

	recorder := doJSON(t, server.Handler(), http.MethodPost, "/api/people", session.Token, PersonInput{
		FirstName: "Jo", LastName: "Reed", Chapter: "Eastside",
	})
	if recorder.Code != http.StatusCreated {
		t.Fatalf("status = %d (%s)", recorder.Code, recorder.Body.String())
	}
	if inserted.ID == "" || inserted.Chapter != "Eastside" {
		t.Fatalf("inserted = %+v", inserted)
	}
}

func TestUnknownPersonIs404(t *testing.T) {
	server, svc := newTestServer(userFixture("lead"))
	session := issueTestSession(t, svc, "lead")

	recorder := doJSON(t, server.Handler(), http.MethodGet, "/api/people/per_missing", session.Token, nil)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d", recorder.Code)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	server, svc := newTestServer(userFixture("organizer"))
	session := issueTestSession(t, svc, "organizer")

	recorder := doJSON(t, server.Handler(), http.MethodPost, "/api/session/refresh", "", map[string]string{
		"refreshToken": session.RefreshToken,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", recorder.Code, recorder.Body.String())
	}
	payload := decodeResponse(t, recorder)
	if payload["accessToken"] == "" || payload["refreshToken"] == session.RefreshToken {
		t.Fatalf("payload = %v", payload)
	}

	// The old refresh token is single use.
	recorder = doJSON(t, server.Handler(), http.MethodPost, "/api/session/refresh", "", map[string]string{
		"refreshToken": session.RefreshToken,
	})
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("replayed refresh status = %d", recorder.Code)
	}
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	server, svc := newTestServer(userFixture("organizer"))
	session := issueTestSession(t, svc, "organizer")

	recorder := doJSON(t, server.Handler(), http.MethodPost, "/api/session/logout", session.Token, map[string]string{
		"refreshToken": session.RefreshToken,
	})
	if recorder.Code != http.StatusOK {
		t.Fatalf("logout status = %d", recorder.Code)
	}

	recorder = doJSON(t, server.Handler(), http.MethodGet, "/api/people", session.Token, nil)
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("post-logout status = %d", recorder.Code)
	}
}

func TestSignInUnavailableWithoutAuthService(t *testing.T) {
	server, _ := newTestServer(rosterFixture())
	recorder := doJSON(t, server.Handler(), http.MethodPost, "/api/auth/signin", "", map[string]string{
		"email": "a@example.org", "password": "secret",
	})
	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d", recorder.Code)
	}
}

func TestExportRequiresKnownFormat(t *testing.T) {
	server, svc := newTestServer(userFixture("lead"))
	session := issueTestSession(t, svc, "lead")

	recorder := doJSON(t, server.Handler(), http.MethodGet, "/api/export?format=xlsx", session.Token, nil)
	if recorder.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", recorder.Code)
	}
}

func TestExportCSVEndpoint(t *testing.T) {
	server, svc := newTestServer(userFixture("lead"))
	session := issueTestSession(t, svc, "lead")

	recorder := doJSON(t, server.Handler(), http.MethodGet, "/api/export?format=csv", session.Token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", recorder.Code, recorder.Body.String())
	}
	if got := recorder.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("content type = %q", got)
	}
	if recorder.Header().Get("Content-Disposition") == "" {
		t.Fatal("missing content disposition")
	}
}

func TestTeamMemberNamesAreResolved(t *testing.T) {
	data := userFixture("lead")
	data.listTeams = func(ctx context.Context) ([]store.Team, error) {
		return []store.Team{{ID: "team_1", Name: "Turf cutters", Chapter: "Eastside"}}, nil
	}
	data.getTeam = func(ctx context.Context, teamID string) (store.Team, error) {
		return store.Team{ID: teamID, Name: "Turf cutters", Chapter: "Eastside"}, nil
	}
	data.listTeamMembers = func(ctx context.Context, teamID string) ([]store.TeamMember, error) {
		return []store.TeamMember{
			{TeamID: teamID, MemberID: "per_1"},
			{TeamID: teamID, MemberID: "ghost-4"},
		}, nil
	}
	server, svc := newTestServer(data)
	session := issueTestSession(t, svc, "lead")

	recorder := doJSON(t, server.Handler(), http.MethodGet, "/api/teams/team_1", session.Token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", recorder.Code, recorder.Body.String())
	}
	payload := decodeResponse(t, recorder)
	members, ok := payload["members"].([]any)
	if !ok || len(members) != 2 {
		t.Fatalf("members = %v", payload["members"])
	}
	first := members[0].(map[string]any)
	if first["name"] != "Rosa Linden" {
		t.Fatalf("resolved name = %v", first["name"])
	}
	second := members[1].(map[string]any)
	name, _ := second["name"].(string)
	if name == "" {
		t.Fatal("unresolvable member should still get a placeholder name")
	}
}

func TestSearchEndpointEmptyWithoutBackend(t *testing.T) {
	server, svc := newTestServer(userFixture("viewer"))
	session := issueTestSession(t, svc, "viewer")

	recorder := doJSON(t, server.Handler(), http.MethodGet, "/api/search?q=rosa", session.Token, nil)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d", recorder.Code)
	}
	payload := decodeResponse(t, recorder)
	if results, ok := payload["results"].([]any); !ok || len(results) != 0 {
		t.Fatalf("results = %v", payload["results"])
	}
}
