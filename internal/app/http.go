package app

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"groundwork/api/internal/auth"
	"groundwork/api/internal/authpw"
	"groundwork/api/internal/export"
	"groundwork/api/internal/rbac"
	"groundwork/api/internal/roster"
	"groundwork/api/internal/search"
	"groundwork/api/internal/store"
)

type HTTPServer struct {
	service    *Service
	corsOrigin string
}

func NewHTTPServer(service *Service, corsOrigin string) *HTTPServer {
	return &HTTPServer{service: service, corsOrigin: corsOrigin}
}

func (s *HTTPServer) Handler() http.Handler {
	return s.withMiddleware(http.HandlerFunc(s.handle))
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		writeJSON(w, http.StatusNoContent, map[string]any{})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/api/ready" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := "ready"
		statusCode := http.StatusOK
		checks := map[string]any{
			"database": map[string]any{"status": "ok"},
		}

		if err := s.service.Ping(ctx); err != nil {
			status = "not_ready"
			statusCode = http.StatusServiceUnavailable
			checks["database"] = map[string]any{
				"status": "error",
				"error":  err.Error(),
			}
		}

		writeJSON(w, statusCode, map[string]any{
			"ok":     status == "ready",
			"status": status,
			"checks": checks,
		})
		return
	}

	// Auth routes (no session required)
	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/signup" {
		s.handleAuthSignUp(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/signin" {
		s.handleAuthSignIn(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/verify-email" {
		s.handleAuthVerifyEmail(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/reset-password/request" {
		s.handleAuthRequestReset(w, r)
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/auth/reset-password" {
		s.handleAuthResetPassword(w, r)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/session" {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "userName": nil})
			return
		}
		session, err := s.service.SessionFromToken(r.Context(), token)
		if err != nil {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false, "userName": nil})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "userName": session.UserName, "userId": session.UserID, "role": session.Role, "chapter": session.Chapter})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/refresh" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		session, err := s.service.Refresh(r.Context(), body.RefreshToken)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Refresh token invalid", nil)
			return
		}
		writeJSON(w, http.StatusOK, sessionPayload(session))
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/api/session/logout" {
		session := Session{}
		if token := bearerToken(r); token != "" {
			if parsed, err := s.service.SessionFromToken(r.Context(), token); err == nil {
				session = parsed
			}
		}
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		_ = decodeBody(r, &body)
		_ = s.service.Logout(r.Context(), session, body.RefreshToken)
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	session, ok := s.requireSession(w, r)
	if !ok {
		return
	}

	if r.URL.Path == "/api/people" {
		switch r.Method {
		case http.MethodGet:
			s.handleQueryRoster(w, r, session)
		case http.MethodPost:
			if !s.service.Can(session.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body PersonInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			person, err := s.service.CreatePerson(r.Context(), session, body)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"person": personPayload(person)})
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/summary" {
		s.handleSummary(w, r, session)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/search" {
		s.handleSearch(w, r, session)
		return
	}

	if r.URL.Path == "/api/export" && (r.Method == http.MethodGet || r.Method == http.MethodPost) {
		s.handleExport(w, r, session)
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/pledges" {
		pledges, err := s.service.ListPledges(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Could not list pledges", nil)
			return
		}
		payload := make([]map[string]any, 0, len(pledges))
		for _, p := range pledges {
			payload = append(payload, pledgePayload(p))
		}
		writeJSON(w, http.StatusOK, map[string]any{"pledges": payload})
		return
	}

	if r.URL.Path == "/api/pledge-events" {
		switch r.Method {
		case http.MethodGet:
			events, err := s.service.ListPledgeEvents(r.Context())
			if err != nil {
				writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Could not list pledge events", nil)
				return
			}
			payload := make([]map[string]any, 0, len(events))
			for _, event := range events {
				payload = append(payload, pledgeEventPayload(event))
			}
			writeJSON(w, http.StatusOK, map[string]any{"events": payload})
		case http.MethodPost:
			if !s.service.Can(session.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body PledgeEventInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			event, err := s.service.CreatePledgeEvent(r.Context(), body)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"event": pledgeEventPayload(event)})
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	if r.URL.Path == "/api/teams" {
		switch r.Method {
		case http.MethodGet:
			views, err := s.service.ListTeams(r.Context(), session)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Could not list teams", nil)
				return
			}
			payload := make([]map[string]any, 0, len(views))
			for _, view := range views {
				payload = append(payload, teamViewPayload(view))
			}
			writeJSON(w, http.StatusOK, map[string]any{"teams": payload})
		case http.MethodPost:
			if !s.service.Can(session.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body TeamInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			team, err := s.service.CreateTeam(r.Context(), session, body)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"team": teamPayload(team)})
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	if r.Method == http.MethodGet && r.URL.Path == "/api/users" {
		if !s.service.Can(session.Role, rbac.ActionAdmin) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		users, err := s.service.ListUsers(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Could not list users", nil)
			return
		}
		payload := make([]map[string]any, 0, len(users))
		for _, user := range users {
			payload = append(payload, userPayload(user))
		}
		writeJSON(w, http.StatusOK, map[string]any{"users": payload})
		return
	}

	parts := splitPath(r.URL.Path)

	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "people" {
		s.routePeople(w, r, session, parts[2:])
		return
	}

	if len(parts) == 3 && parts[0] == "api" && parts[1] == "meetings" {
		s.routeMeeting(w, r, session, parts[2])
		return
	}

	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "pledge-events" {
		s.routePledgeEvent(w, r, session, parts[2:])
		return
	}

	if len(parts) == 4 && parts[0] == "api" && parts[1] == "pledges" && parts[3] == "confirm" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		if !s.service.Can(session.Role, rbac.ActionConfirm) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		if err := s.service.ConfirmPledge(r.Context(), parts[2]); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "teams" {
		s.routeTeam(w, r, session, parts[2:])
		return
	}

	if len(parts) >= 3 && parts[0] == "api" && parts[1] == "attachments" {
		s.routeAttachment(w, r, session, parts[2:])
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) handleQueryRoster(w http.ResponseWriter, r *http.Request, session Session) {
	query, err := ParseRosterQuery(r.URL.Query())
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	result, err := s.service.QueryRoster(r.Context(), session, query)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	people := make([]map[string]any, 0, len(result.People))
	for _, record := range result.People {
		people = append(people, rosterRecordPayload(record, false))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"people":  people,
		"total":   result.Total,
		"summary": result.Summary,
		"stats": map[string]any{
			"duplicatesDropped": result.Stats.DuplicatesDropped,
			"malformedSkipped":  result.Stats.MalformedSkipped,
			"orphanedDropped":   result.Stats.OrphanedDropped,
			"resolutionMisses":  result.Stats.ResolutionMisses,
			"pledgeSynthesized": result.Stats.PledgeSynthesized,
		},
	})
}

func (s *HTTPServer) handleSummary(w http.ResponseWriter, r *http.Request, session Session) {
	query, err := ParseRosterQuery(r.URL.Query())
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	from, err := parseDateParam(r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "from must be YYYY-MM-DD", nil)
		return
	}
	to, err := parseDateParam(r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "to must be YYYY-MM-DD", nil)
		return
	}
	summary, err := s.service.Summary(r.Context(), session, query, from, to)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *HTTPServer) handleSearch(w http.ResponseWriter, r *http.Request, session Session) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	filterType := strings.TrimSpace(r.URL.Query().Get("type"))
	chapter := strings.TrimSpace(r.URL.Query().Get("chapter"))
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "limit must be an integer", nil)
			return
		}
		limit = parsed
	}
	offset := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("offset")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "offset must be an integer", nil)
			return
		}
		offset = parsed
	}

	payload, err := s.service.Search(r.Context(), session, search.Query{
		Text:       q,
		FilterType: search.ResultType(filterType),
		Chapter:    chapter,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// Export accepts the criteria either as query parameters (GET) or as a JSON
// body (POST); both go through the same parser.
func (s *HTTPServer) handleExport(w http.ResponseWriter, r *http.Request, session Session) {
	values := r.URL.Query()
	if r.Method == http.MethodPost {
		var body struct {
			Format      string   `json:"format"`
			Query       string   `json:"q"`
			Chapter     string   `json:"chapter"`
			Organizer   string   `json:"organizer"`
			Statuses    []string `json:"status"`
			Leadership  []string `json:"leadership"`
			LastContact string   `json:"lastContact"`
			Meetings    string   `json:"meetings"`
			Asked       string   `json:"asked"`
			Made        string   `json:"made"`
			Team        string   `json:"team"`
			Sort        string   `json:"sort"`
			Dir         string   `json:"dir"`
		}
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		values = url.Values{
			"format":      {body.Format},
			"q":           {body.Query},
			"chapter":     {body.Chapter},
			"organizer":   {body.Organizer},
			"lastContact": {body.LastContact},
			"meetings":    {body.Meetings},
			"asked":       {body.Asked},
			"made":        {body.Made},
			"team":        {body.Team},
			"sort":        {body.Sort},
			"dir":         {body.Dir},
		}
		values["status"] = body.Statuses
		values["leadership"] = body.Leadership
	}

	query, err := ParseRosterQuery(values)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	format := export.Format(values.Get("format"))
	if format != export.FormatCSV && format != export.FormatPDF {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "format must be 'csv' or 'pdf'", nil)
		return
	}
	result, err := s.service.ExportRoster(r.Context(), session, query, format)
	if err != nil {
		if errors.Is(err, export.ErrPDFDependencyMissing) {
			writeError(w, http.StatusNotImplemented, "EXPORT_UNAVAILABLE", "PDF rendering is not available on this server", nil)
			return
		}
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	w.Header().Set("Content-Disposition", "attachment; filename=\""+result.Filename+"\"")
	w.Header().Set("Content-Type", result.MimeType)
	w.Write(result.Data)
}

func (s *HTTPServer) routePeople(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	personID := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			person, err := s.service.GetPerson(r.Context(), personID)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"person": personPayload(person)})
		case http.MethodPut:
			if !s.service.Can(session.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body PersonInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			person, err := s.service.UpdatePerson(r.Context(), personID, body)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"person": personPayload(person)})
		case http.MethodDelete:
			if !s.service.Can(session.Role, rbac.ActionAdmin) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			if err := s.service.DeletePerson(r.Context(), personID); err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	if len(parts) == 2 && parts[1] == "record" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		record, err := s.service.FusedRecord(r.Context(), session, personID)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"record": rosterRecordPayload(record, true)})
		return
	}

	if len(parts) == 2 && parts[1] == "meetings" {
		switch r.Method {
		case http.MethodGet:
			meetings, err := s.service.ListMeetings(r.Context(), personID)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			payload := make([]map[string]any, 0, len(meetings))
			for _, m := range meetings {
				payload = append(payload, meetingPayload(m))
			}
			writeJSON(w, http.StatusOK, map[string]any{"meetings": payload})
		case http.MethodPost:
			if !s.service.Can(session.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body MeetingInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			meeting, err := s.service.CreateMeeting(r.Context(), session, personID, body)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"meeting": meetingPayload(meeting)})
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	if len(parts) == 3 && parts[1] == "notes" && parts[2] == "history" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		limit := 50
		if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "limit must be an integer", nil)
				return
			}
			limit = parsed
		}
		revisions, err := s.service.NotesHistory(r.Context(), session, personID, limit)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		if revisions == nil {
			revisions = []store.NoteRevision{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"revisions": revisions})
		return
	}

	if len(parts) == 3 && parts[1] == "notes" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		notes, err := s.service.NotesAtRevision(r.Context(), session, personID, parts[2])
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"notes": notes})
		return
	}

	if len(parts) == 2 && parts[1] == "attachments" {
		switch r.Method {
		case http.MethodGet:
			attachments, err := s.service.ListAttachments(r.Context(), personID)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			payload := make([]map[string]any, 0, len(attachments))
			for _, a := range attachments {
				payload = append(payload, attachmentPayload(a))
			}
			writeJSON(w, http.StatusOK, map[string]any{"attachments": payload})
		case http.MethodPost:
			if !s.service.Can(session.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			s.handleUploadAttachment(w, r, session, personID)
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

// Uploads are multipart; the file part is named "file".
func (s *HTTPServer) handleUploadAttachment(w http.ResponseWriter, r *http.Request, session Session, personID string) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "expected multipart form data", nil)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "VALIDATION_ERROR", "file part is required", nil)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	attachment, err := s.service.UploadAttachment(r.Context(), session, personID, header.Filename, contentType, header.Size, file)
	if err != nil {
		status, code, message, details := mapError(err)
		writeError(w, status, code, message, details)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"attachment": attachmentPayload(attachment)})
}

func (s *HTTPServer) routeMeeting(w http.ResponseWriter, r *http.Request, session Session, meetingID string) {
	switch r.Method {
	case http.MethodPut:
		if !s.service.Can(session.Role, rbac.ActionWrite) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		var body MeetingInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		meeting, err := s.service.UpdateMeeting(r.Context(), session, meetingID, body)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"meeting": meetingPayload(meeting)})
	case http.MethodDelete:
		if !s.service.Can(session.Role, rbac.ActionWrite) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		if err := s.service.DeleteMeeting(r.Context(), session, meetingID); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	default:
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	}
}

func (s *HTTPServer) routePledgeEvent(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	eventID := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodDelete:
			if !s.service.Can(session.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			if err := s.service.DeletePledgeEvent(r.Context(), eventID); err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	if len(parts) == 2 && parts[1] == "pledges" {
		switch r.Method {
		case http.MethodGet:
			pledges, err := s.service.ListEventPledges(r.Context(), eventID)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			payload := make([]map[string]any, 0, len(pledges))
			for _, p := range pledges {
				payload = append(payload, pledgePayload(p))
			}
			writeJSON(w, http.StatusOK, map[string]any{"pledges": payload})
		case http.MethodPost:
			if !s.service.Can(session.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body PledgeInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			pledge, err := s.service.AddPledge(r.Context(), eventID, body)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"pledge": pledgePayload(pledge)})
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) routeTeam(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	teamID := parts[0]

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			view, err := s.service.GetTeam(r.Context(), session, teamID)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, teamViewPayload(view))
		case http.MethodPut:
			if !s.service.Can(session.Role, rbac.ActionWrite) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			var body TeamInput
			if err := decodeBody(r, &body); err != nil {
				writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
				return
			}
			team, err := s.service.UpdateTeam(r.Context(), teamID, body)
			if err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"team": teamPayload(team)})
		case http.MethodDelete:
			if !s.service.Can(session.Role, rbac.ActionAdmin) {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
				return
			}
			if err := s.service.DeleteTeam(r.Context(), teamID); err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	if len(parts) == 2 && parts[1] == "members" {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
			return
		}
		if !s.service.Can(session.Role, rbac.ActionWrite) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		var body TeamMemberInput
		if err := decodeBody(r, &body); err != nil {
			writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
			return
		}
		if err := s.service.AddTeamMember(r.Context(), teamID, body); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]any{"ok": true})
		return
	}

	if len(parts) == 3 && parts[1] == "members" {
		if !s.service.Can(session.Role, rbac.ActionWrite) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		memberID := parts[2]
		switch r.Method {
		case http.MethodPost:
			var body TeamMemberInput
			_ = decodeBody(r, &body)
			body.MemberID = memberID
			if err := s.service.AddTeamMember(r.Context(), teamID, body); err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusCreated, map[string]any{"ok": true})
		case http.MethodDelete:
			if err := s.service.RemoveTeamMember(r.Context(), teamID, memberID); err != nil {
				status, code, message, details := mapError(err)
				writeError(w, status, code, message, details)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		default:
			writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		}
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

func (s *HTTPServer) routeAttachment(w http.ResponseWriter, r *http.Request, session Session, parts []string) {
	attachmentID := parts[0]

	if len(parts) == 1 && r.Method == http.MethodGet {
		target, err := s.service.AttachmentDownloadURL(r.Context(), attachmentID)
		if err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		// Presigned URL; the object store serves the bytes.
		w.Header().Del("Content-Type")
		http.Redirect(w, r, target, http.StatusFound)
		return
	}

	if len(parts) == 1 && r.Method == http.MethodDelete {
		if !s.service.Can(session.Role, rbac.ActionWrite) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
			return
		}
		if err := s.service.DeleteAttachment(r.Context(), attachmentID); err != nil {
			status, code, message, details := mapError(err)
			writeError(w, status, code, message, details)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	writeError(w, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
}

// ---- payload builders ----

func sessionPayload(session Session) map[string]any {
	return map[string]any{
		"accessToken":  session.Token,
		"refreshToken": session.RefreshToken,
		"userId":       session.UserID,
		"userName":     session.UserName,
		"role":         session.Role,
		"chapter":      session.Chapter,
		"expiresAt":    session.ExpiresAt.Unix(),
	}
}

func personPayload(p store.Person) map[string]any {
	return map[string]any{
		"id":               p.ID,
		"firstName":        p.FirstName,
		"lastName":         p.LastName,
		"displayName":      p.DisplayName,
		"category":         p.Category,
		"chapter":          p.Chapter,
		"email":            p.Email,
		"phone":            p.Phone,
		"membershipStatus": p.MembershipStatus,
		"leadershipLevel":  p.LeadershipLevel,
		"organizers":       nonNilStrings(p.Organizers),
		"createdAt":        p.CreatedAt,
		"updatedAt":        p.UpdatedAt,
	}
}

func meetingPayload(m store.Meeting) map[string]any {
	notes := m.Notes
	if notes == nil {
		notes = map[string]string{}
	}
	return map[string]any{
		"id":              m.ID,
		"personId":        m.PersonID,
		"organizerId":     m.OrganizerID,
		"organizerName":   m.OrganizerName,
		"occurredOn":      m.OccurredOn.Format("2006-01-02"),
		"kind":            m.Kind,
		"notes":           notes,
		"commitmentAsked": m.CommitmentAsked,
		"commitmentMade":  m.CommitmentMade,
	}
}

func pledgeEventPayload(e store.PledgeEvent) map[string]any {
	return map[string]any{
		"id":          e.ID,
		"name":        e.Name,
		"sponsorId":   e.SponsorID,
		"sponsorName": e.SponsorName,
		"heldOn":      e.HeldOn.Format("2006-01-02"),
	}
}

func pledgePayload(p store.Pledge) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"eventId":     p.EventID,
		"personId":    p.PersonID,
		"personName":  p.PersonName,
		"submittedOn": p.SubmittedOn.Format("2006-01-02"),
		"description": p.Description,
		"confirmed":   p.Confirmed,
	}
}

func teamPayload(t store.Team) map[string]any {
	return map[string]any{
		"id":          t.ID,
		"name":        t.Name,
		"chapter":     t.Chapter,
		"description": t.Description,
	}
}

func teamViewPayload(view TeamView) map[string]any {
	members := make([]map[string]any, 0, len(view.Members))
	for _, m := range view.Members {
		members = append(members, map[string]any{
			"memberId": m.MemberID,
			"name":     m.Name,
			"roleNote": m.RoleNote,
		})
	}
	payload := teamPayload(view.Team)
	payload["members"] = members
	return payload
}

func userPayload(u store.User) map[string]any {
	return map[string]any{
		"id":          u.ID,
		"displayName": u.DisplayName,
		"email":       u.Email,
		"role":        u.Role,
		"chapter":     u.Chapter,
		"verified":    u.IsEmailVerified,
		"deactivated": u.DeactivatedAt != nil,
	}
}

func attachmentPayload(a store.Attachment) map[string]any {
	return map[string]any{
		"id":          a.ID,
		"personId":    a.PersonID,
		"fileName":    a.FileName,
		"contentType": a.ContentType,
		"size":        a.Size,
		"uploadedBy":  a.UploadedBy,
		"createdAt":   a.CreatedAt,
	}
}

func rosterRecordPayload(record roster.FusedPersonRecord, includeInteractions bool) map[string]any {
	var contact any
	if record.MostRecentContact != nil {
		contact = record.MostRecentContact.Format("2006-01-02")
	}
	payload := map[string]any{
		"id":                record.ID,
		"displayName":       record.DisplayName,
		"category":          record.Category,
		"chapter":           record.Chapter,
		"email":             record.Email,
		"phone":             record.Phone,
		"organizers":        nonNilStrings(record.Organizers),
		"membershipStatus":  record.MembershipStatus,
		"leadershipLevel":   record.LeadershipLevel,
		"mostRecentContact": contact,
		"interactionCount":  record.InteractionCount,
		"latestNoteSummary": record.LatestNoteSummary,
		"latestAsked":       record.LatestAsked,
		"latestMade":        record.LatestMade,
		"pledgeOnly":        record.PledgeOnly,
	}
	if includeInteractions {
		interactions := make([]map[string]any, 0, len(record.Interactions))
		for _, interaction := range record.Interactions {
			notes := make([]map[string]string, 0, len(interaction.Notes))
			for _, field := range interaction.Notes {
				notes = append(notes, map[string]string{"label": field.Label, "value": field.Value})
			}
			interactions = append(interactions, map[string]any{
				"counterpartId":   interaction.CounterpartID,
				"counterpartName": interaction.CounterpartName,
				"occurredOn":      interaction.OccurredOn.Format("2006-01-02"),
				"kind":            interaction.Kind,
				"notes":           notes,
				"commitmentAsked": interaction.CommitmentAsked,
				"commitmentMade":  interaction.CommitmentMade,
			})
		}
		payload["interactions"] = interactions
	}
	return payload
}

func nonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func parseDateParam(raw string) (*time.Time, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", trimmed)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func (s *HTTPServer) requireSession(w http.ResponseWriter, r *http.Request) (Session, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
		return Session{}, false
	}
	session, err := s.service.SessionFromToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) || errors.Is(err, auth.ErrInvalidToken) {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil)
			return Session{}, false
		}
		var domainErr *DomainError
		if errors.As(err, &domainErr) && domainErr.Status == http.StatusUnauthorized {
			writeError(w, domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details)
			return Session{}, false
		}
		writeError(w, http.StatusInternalServerError, "SERVER_ERROR", "Session lookup failed", nil)
		return Session{}, false
	}
	return session, true
}

func (s *HTTPServer) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = randomRequestID()
		}
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		started := time.Now()
		writer := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		setCORSHeaders(writer.Header(), s.corsOrigin)
		writer.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(writer, r)

		log.Printf(`{"request_id":"%s","method":"%s","path":"%s","status":%d,"duration_ms":%d}`,
			requestID,
			r.Method,
			r.URL.Path,
			writer.status,
			time.Since(started).Milliseconds(),
		)
	})
}

type requestIDKey struct{}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func randomRequestID() string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

func setCORSHeaders(header http.Header, corsOrigin string) {
	header.Set("Access-Control-Allow-Origin", corsOrigin)
	header.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
	header.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	header.Set("Cache-Control", "no-store")
	header.Set("Content-Type", "application/json")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, message string, details any) {
	response := map[string]any{
		"code":  code,
		"error": message,
	}
	if details != nil {
		response["details"] = details
	}
	writeJSON(w, status, response)
}

func decodeBody(r *http.Request, target any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(target); err != nil {
		if errors.Is(err, http.ErrBodyReadAfterClose) {
			return nil
		}
		return fmt.Errorf("invalid JSON body")
	}
	return nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}

func splitPath(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

func mapError(err error) (status int, code, message string, details any) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Status, domainErr.Code, domainErr.Message, domainErr.Details
	}
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, sql.ErrNoRows) {
		return http.StatusNotFound, "NOT_FOUND", "Not found", nil
	}
	if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) {
		return http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", nil
	}
	return http.StatusInternalServerError, "SERVER_ERROR", "Server error", nil
}

// Auth handlers for email/password authentication

func (s *HTTPServer) handleAuthSignUp(w http.ResponseWriter, r *http.Request) {
	authSvc := s.service.AuthPasswordService()
	if authSvc == nil {
		writeError(w, http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Authentication service not configured", nil)
		return
	}

	var body struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"displayName"`
		Chapter     string `json:"chapter"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	resp, err := authSvc.SignUp(r.Context(), authpw.SignUpRequest{
		Email:       body.Email,
		Password:    body.Password,
		DisplayName: body.DisplayName,
		Chapter:     body.Chapter,
	})
	if err != nil {
		if err.Error() == "email already registered" {
			writeError(w, http.StatusConflict, "EMAIL_EXISTS", "Email already registered", nil)
			return
		}
		writeError(w, http.StatusBadRequest, "SIGNUP_FAILED", err.Error(), nil)
		return
	}

	emailConfigured := s.service.SMTPConfigured()
	if emailConfigured {
		verificationURL := s.service.AppBaseURL() + "/verify-email?token=" + resp.VerificationToken
		go func() {
			if err := s.service.Mailer().SendVerificationEmail(body.Email, body.DisplayName, verificationURL); err != nil {
				log.Printf("send verification email: %v", err)
			}
		}()
	}

	response := map[string]any{
		"userId":  resp.UserID,
		"message": "Please check your email to verify your account",
	}
	// Dev bypass: include verification token in response when email not configured
	if !emailConfigured {
		response["devVerificationToken"] = resp.VerificationToken
		response["message"] = "Account created. Verify your email to continue."
	}

	writeJSON(w, http.StatusCreated, response)
}

func (s *HTTPServer) handleAuthSignIn(w http.ResponseWriter, r *http.Request) {
	authSvc := s.service.AuthPasswordService()
	if authSvc == nil {
		writeError(w, http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Authentication service not configured", nil)
		return
	}

	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	resp, err := authSvc.SignIn(r.Context(), authpw.SignInRequest{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		writeError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password", nil)
		return
	}

	if resp.RequiresVerify {
		writeError(w, http.StatusForbidden, "EMAIL_NOT_VERIFIED", "Please verify your email before signing in", nil)
		return
	}

	session, err := s.service.IssueSession(r.Context(), resp.User)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "SESSION_FAILED", "Failed to create session", nil)
		return
	}

	writeJSON(w, http.StatusOK, sessionPayload(session))
}

func (s *HTTPServer) handleAuthVerifyEmail(w http.ResponseWriter, r *http.Request) {
	authSvc := s.service.AuthPasswordService()
	if authSvc == nil {
		writeError(w, http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Authentication service not configured", nil)
		return
	}

	var body struct {
		Token string `json:"token"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	if _, err := authSvc.VerifyEmail(r.Context(), body.Token); err != nil {
		writeError(w, http.StatusBadRequest, "VERIFICATION_FAILED", err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Email verified successfully",
	})
}

func (s *HTTPServer) handleAuthRequestReset(w http.ResponseWriter, r *http.Request) {
	authSvc := s.service.AuthPasswordService()
	if authSvc == nil {
		writeError(w, http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Authentication service not configured", nil)
		return
	}

	var body struct {
		Email string `json:"email"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	token, _ := authSvc.RequestPasswordReset(r.Context(), body.Email)

	emailConfigured := s.service.SMTPConfigured()
	if emailConfigured && token != "" {
		resetURL := s.service.AppBaseURL() + "/reset-password?token=" + token
		email := body.Email
		go func() {
			if err := s.service.Mailer().SendPasswordResetEmail(email, "", resetURL); err != nil {
				log.Printf("send reset email: %v", err)
			}
		}()
	}

	response := map[string]any{
		"message": "If an account exists, a reset email has been sent",
	}
	// Dev bypass: include reset token in response when email not configured and token was created
	if !emailConfigured && token != "" {
		response["devResetToken"] = token
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *HTTPServer) handleAuthResetPassword(w http.ResponseWriter, r *http.Request) {
	authSvc := s.service.AuthPasswordService()
	if authSvc == nil {
		writeError(w, http.StatusServiceUnavailable, "AUTH_UNAVAILABLE", "Authentication service not configured", nil)
		return
	}

	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", err.Error(), nil)
		return
	}

	if err := authSvc.ResetPassword(r.Context(), authpw.ResetPasswordRequest{
		Token:       body.Token,
		NewPassword: body.NewPassword,
	}); err != nil {
		writeError(w, http.StatusBadRequest, "RESET_FAILED", err.Error(), nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Password reset successfully",
	})
}
