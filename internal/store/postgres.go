package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var ErrNotFound = errors.New("not found")

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) DB() *sql.DB {
	return s.db
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// ---- users ----

func (s *PostgresStore) CreateUser(ctx context.Context, displayName, email, passwordHash, role, chapter string) (User, error) {
	var user User
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (display_name, email, password_hash, role, chapter)
		VALUES ($1, LOWER($2), $3, $4, $5)
		RETURNING id, display_name, email, password_hash, role, chapter, is_email_verified, created_at, updated_at
	`, displayName, email, passwordHash, role, chapter).Scan(
		&user.ID, &user.DisplayName, &user.Email, &user.PasswordHash, &user.Role,
		&user.Chapter, &user.IsEmailVerified, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, userSelect+` WHERE email = LOWER($1)`, email))
}

func (s *PostgresStore) GetUserByID(ctx context.Context, userID string) (User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx, userSelect+` WHERE id = $1`, userID))
}

const userSelect = `
	SELECT id, display_name, email, password_hash, role, chapter,
	       is_email_verified, verification_token, verification_expires_at,
	       deactivated_at, created_at, updated_at
	FROM users`

func (s *PostgresStore) scanUser(row *sql.Row) (User, error) {
	var user User
	var token sql.NullString
	err := row.Scan(&user.ID, &user.DisplayName, &user.Email, &user.PasswordHash,
		&user.Role, &user.Chapter, &user.IsEmailVerified, &token,
		&user.VerificationExpiresAt, &user.DeactivatedAt, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("scan user: %w", err)
	}
	user.VerificationToken = token.String
	return user, nil
}

func (s *PostgresStore) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, display_name, email, role, chapter, is_email_verified, created_at, updated_at
		FROM users
		ORDER BY display_name
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.ID, &user.DisplayName, &user.Email, &user.Role,
			&user.Chapter, &user.IsEmailVerified, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan users: %w", err)
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (s *PostgresStore) SetVerificationToken(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE users SET verification_token=$2, verification_expires_at=$3, updated_at=NOW()
		WHERE id=$1
	`, userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("set verification token: %w", err)
	}
	return nil
}

func (s *PostgresStore) VerifyEmail(ctx context.Context, token string) (User, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE users
		SET is_email_verified=TRUE, verification_token=NULL, verification_expires_at=NULL, updated_at=NOW()
		WHERE verification_token=$1 AND verification_expires_at > NOW()
		RETURNING id, display_name, email, role, chapter
	`, token)
	var user User
	err := row.Scan(&user.ID, &user.DisplayName, &user.Email, &user.Role, &user.Chapter)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	if err != nil {
		return User{}, fmt.Errorf("verify email: %w", err)
	}
	user.IsEmailVerified = true
	return user, nil
}

func (s *PostgresStore) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET password_hash=$2, updated_at=NOW() WHERE id=$1
	`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CreatePasswordReset(ctx context.Context, token, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO password_resets (token, user_id, expires_at) VALUES ($1, $2, $3)
	`, token, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("create password reset: %w", err)
	}
	return nil
}

func (s *PostgresStore) ConsumePasswordReset(ctx context.Context, token string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `
		UPDATE password_resets SET used_at=NOW()
		WHERE token=$1 AND used_at IS NULL AND expires_at > NOW()
		RETURNING user_id
	`, token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("consume password reset: %w", err)
	}
	return userID, nil
}

// ---- sessions ----

func (s *PostgresStore) SaveRefreshSession(ctx context.Context, tokenHash, userID string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO refresh_sessions (token_hash, user_id, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token_hash) DO UPDATE SET user_id=EXCLUDED.user_id, expires_at=EXCLUDED.expires_at, revoked_at=NULL
	`, tokenHash, userID, expiresAt)
	if err != nil {
		return fmt.Errorf("save refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) RevokeRefreshSession(ctx context.Context, tokenHash string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE refresh_sessions SET revoked_at=NOW() WHERE token_hash=$1`, tokenHash)
	if err != nil {
		return fmt.Errorf("revoke refresh session: %w", err)
	}
	return nil
}

func (s *PostgresStore) LookupRefreshSession(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id FROM refresh_sessions
		WHERE token_hash=$1 AND revoked_at IS NULL AND expires_at > NOW()
	`, tokenHash).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup refresh session: %w", err)
	}
	return userID, nil
}

func (s *PostgresStore) RevokeAccessToken(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO revoked_access_tokens (jti, expires_at) VALUES ($1, $2)
		ON CONFLICT (jti) DO NOTHING
	`, jti, expiresAt)
	if err != nil {
		return fmt.Errorf("revoke access token: %w", err)
	}
	return nil
}

func (s *PostgresStore) IsAccessTokenRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM revoked_access_tokens WHERE jti=$1 AND expires_at > NOW())
	`, jti).Scan(&revoked)
	if err != nil {
		return false, fmt.Errorf("check revoked token: %w", err)
	}
	return revoked, nil
}

// ---- people ----

const personSelect = `
	SELECT p.id, p.first_name, p.last_name, p.display_name, p.category, p.chapter,
	       p.email, p.phone, p.membership_status, p.leadership_level, p.created_by,
	       p.created_at, p.updated_at
	FROM people p`

func (s *PostgresStore) ListPeople(ctx context.Context) ([]Person, error) {
	rows, err := s.db.QueryContext(ctx, personSelect+` ORDER BY p.last_name, p.first_name, p.id`)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	var people []Person
	index := map[string]int{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		index[p.ID] = len(people)
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachOrganizers(ctx, people, index); err != nil {
		return nil, err
	}
	return people, nil
}

func (s *PostgresStore) GetPerson(ctx context.Context, personID string) (Person, error) {
	rows, err := s.db.QueryContext(ctx, personSelect+` WHERE p.id=$1`, personID)
	if err != nil {
		return Person{}, fmt.Errorf("get person: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return Person{}, err
		}
		return Person{}, ErrNotFound
	}
	p, err := scanPerson(rows)
	if err != nil {
		return Person{}, err
	}
	people := []Person{p}
	if err := s.attachOrganizers(ctx, people, map[string]int{p.ID: 0}); err != nil {
		return Person{}, err
	}
	return people[0], nil
}

func scanPerson(rows *sql.Rows) (Person, error) {
	var p Person
	if err := rows.Scan(&p.ID, &p.FirstName, &p.LastName, &p.DisplayName, &p.Category,
		&p.Chapter, &p.Email, &p.Phone, &p.MembershipStatus, &p.LeadershipLevel,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return Person{}, fmt.Errorf("scan person: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) attachOrganizers(ctx context.Context, people []Person, index map[string]int) error {
	if len(people) == 0 {
		return nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT person_id, organizer_id FROM person_organizers ORDER BY person_id, position
	`)
	if err != nil {
		return fmt.Errorf("list organizers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var personID, organizerID string
		if err := rows.Scan(&personID, &organizerID); err != nil {
			return fmt.Errorf("scan organizer: %w", err)
		}
		if i, ok := index[personID]; ok {
			people[i].Organizers = append(people[i].Organizers, organizerID)
		}
	}
	return rows.Err()
}

func (s *PostgresStore) InsertPerson(ctx context.Context, p Person) (Person, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Person{}, fmt.Errorf("begin insert person: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO people (id, first_name, last_name, display_name, category, chapter,
		                    email, phone, membership_status, leadership_level, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`, p.ID, p.FirstName, p.LastName, p.DisplayName, p.Category, p.Chapter,
		p.Email, p.Phone, p.MembershipStatus, p.LeadershipLevel, p.CreatedBy).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Person{}, fmt.Errorf("insert person: %w", err)
	}
	if err := replaceOrganizers(ctx, tx, p.ID, p.Organizers); err != nil {
		return Person{}, err
	}
	if err := bumpVersion(ctx, tx, "people"); err != nil {
		return Person{}, err
	}
	if err := tx.Commit(); err != nil {
		return Person{}, fmt.Errorf("commit insert person: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) UpdatePerson(ctx context.Context, p Person) (Person, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Person{}, fmt.Errorf("begin update person: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		UPDATE people
		SET first_name=$2, last_name=$3, display_name=$4, category=$5, chapter=$6,
		    email=$7, phone=$8, membership_status=$9, leadership_level=$10, updated_at=NOW()
		WHERE id=$1
		RETURNING created_by, created_at, updated_at
	`, p.ID, p.FirstName, p.LastName, p.DisplayName, p.Category, p.Chapter,
		p.Email, p.Phone, p.MembershipStatus, p.LeadershipLevel).
		Scan(&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Person{}, ErrNotFound
	}
	if err != nil {
		return Person{}, fmt.Errorf("update person: %w", err)
	}
	if err := replaceOrganizers(ctx, tx, p.ID, p.Organizers); err != nil {
		return Person{}, err
	}
	if err := bumpVersion(ctx, tx, "people"); err != nil {
		return Person{}, err
	}
	if err := tx.Commit(); err != nil {
		return Person{}, fmt.Errorf("commit update person: %w", err)
	}
	return p, nil
}

func replaceOrganizers(ctx context.Context, tx *sql.Tx, personID string, organizers []string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM person_organizers WHERE person_id=$1`, personID); err != nil {
		return fmt.Errorf("clear organizers: %w", err)
	}
	for i, organizerID := range organizers {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO person_organizers (person_id, organizer_id, position) VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, personID, organizerID, i); err != nil {
			return fmt.Errorf("insert organizer: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) DeletePerson(ctx context.Context, personID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete person: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM people WHERE id=$1`, personID)
	if err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := bumpVersion(ctx, tx, "people"); err != nil {
		return err
	}
	if err := bumpVersion(ctx, tx, "meetings"); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete person: %w", err)
	}
	return nil
}

// ---- meetings ----

const meetingSelect = `
	SELECT id, person_id, organizer_id, organizer_name, occurred_on, kind, notes,
	       commitment_asked, commitment_made, created_at, updated_at
	FROM meetings`

func (s *PostgresStore) ListMeetingsForPeople(ctx context.Context, personIDs []string) ([]Meeting, error) {
	if len(personIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(personIDs))
	args := make([]any, len(personIDs))
	for i, id := range personIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := meetingSelect + ` WHERE person_id IN (` + strings.Join(placeholders, ", ") + `) ORDER BY occurred_on, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer rows.Close()
	return scanMeetings(rows)
}

func (s *PostgresStore) ListMeetingsForPerson(ctx context.Context, personID string) ([]Meeting, error) {
	return s.ListMeetingsForPeople(ctx, []string{personID})
}

func (s *PostgresStore) GetMeeting(ctx context.Context, meetingID string) (Meeting, error) {
	rows, err := s.db.QueryContext(ctx, meetingSelect+` WHERE id=$1`, meetingID)
	if err != nil {
		return Meeting{}, fmt.Errorf("get meeting: %w", err)
	}
	defer rows.Close()

	meetings, err := scanMeetings(rows)
	if err != nil {
		return Meeting{}, err
	}
	if len(meetings) == 0 {
		return Meeting{}, ErrNotFound
	}
	return meetings[0], nil
}

func scanMeetings(rows *sql.Rows) ([]Meeting, error) {
	var meetings []Meeting
	for rows.Next() {
		var m Meeting
		var notesRaw []byte
		if err := rows.Scan(&m.ID, &m.PersonID, &m.OrganizerID, &m.OrganizerName,
			&m.OccurredOn, &m.Kind, &notesRaw, &m.CommitmentAsked, &m.CommitmentMade,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		if len(notesRaw) > 0 {
			if err := json.Unmarshal(notesRaw, &m.Notes); err != nil {
				return nil, fmt.Errorf("decode meeting notes: %w", err)
			}
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

func (s *PostgresStore) InsertMeeting(ctx context.Context, m Meeting) (Meeting, error) {
	notesRaw, noteText, err := encodeNotes(m.Notes)
	if err != nil {
		return Meeting{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Meeting{}, fmt.Errorf("begin insert meeting: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO meetings (id, person_id, organizer_id, organizer_name, occurred_on,
		                      kind, notes, note_text, commitment_asked, commitment_made)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`, m.ID, m.PersonID, m.OrganizerID, m.OrganizerName, m.OccurredOn,
		m.Kind, notesRaw, noteText, m.CommitmentAsked, m.CommitmentMade).
		Scan(&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return Meeting{}, fmt.Errorf("insert meeting: %w", err)
	}
	if err := bumpVersion(ctx, tx, "meetings"); err != nil {
		return Meeting{}, err
	}
	if err := tx.Commit(); err != nil {
		return Meeting{}, fmt.Errorf("commit insert meeting: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) UpdateMeeting(ctx context.Context, m Meeting) (Meeting, error) {
	notesRaw, noteText, err := encodeNotes(m.Notes)
	if err != nil {
		return Meeting{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Meeting{}, fmt.Errorf("begin update meeting: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		UPDATE meetings
		SET organizer_id=$2, organizer_name=$3, occurred_on=$4, kind=$5, notes=$6,
		    note_text=$7, commitment_asked=$8, commitment_made=$9, updated_at=NOW()
		WHERE id=$1
		RETURNING person_id, created_at, updated_at
	`, m.ID, m.OrganizerID, m.OrganizerName, m.OccurredOn, m.Kind, notesRaw,
		noteText, m.CommitmentAsked, m.CommitmentMade).
		Scan(&m.PersonID, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Meeting{}, ErrNotFound
	}
	if err != nil {
		return Meeting{}, fmt.Errorf("update meeting: %w", err)
	}
	if err := bumpVersion(ctx, tx, "meetings"); err != nil {
		return Meeting{}, err
	}
	if err := tx.Commit(); err != nil {
		return Meeting{}, fmt.Errorf("commit update meeting: %w", err)
	}
	return m, nil
}

func (s *PostgresStore) DeleteMeeting(ctx context.Context, meetingID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete meeting: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM meetings WHERE id=$1`, meetingID)
	if err != nil {
		return fmt.Errorf("delete meeting: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := bumpVersion(ctx, tx, "meetings"); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete meeting: %w", err)
	}
	return nil
}

func encodeNotes(notes map[string]string) ([]byte, string, error) {
	if notes == nil {
		notes = map[string]string{}
	}
	raw, err := json.Marshal(notes)
	if err != nil {
		return nil, "", fmt.Errorf("encode meeting notes: %w", err)
	}
	labels := make([]string, 0, len(notes))
	for label := range notes {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		if notes[label] != "" {
			parts = append(parts, notes[label])
		}
	}
	return raw, strings.Join(parts, " "), nil
}

// ---- pledge events ----

func (s *PostgresStore) ListPledgeEvents(ctx context.Context) ([]PledgeEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, sponsor_id, sponsor_name, held_on, created_at
		FROM pledge_events ORDER BY held_on DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list pledge events: %w", err)
	}
	defer rows.Close()

	var events []PledgeEvent
	for rows.Next() {
		var e PledgeEvent
		if err := rows.Scan(&e.ID, &e.Name, &e.SponsorID, &e.SponsorName, &e.HeldOn, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pledge event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (s *PostgresStore) InsertPledgeEvent(ctx context.Context, e PledgeEvent) (PledgeEvent, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO pledge_events (id, name, sponsor_id, sponsor_name, held_on)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, e.ID, e.Name, e.SponsorID, e.SponsorName, e.HeldOn).Scan(&e.CreatedAt)
	if err != nil {
		return PledgeEvent{}, fmt.Errorf("insert pledge event: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) DeletePledgeEvent(ctx context.Context, eventID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete pledge event: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM pledge_events WHERE id=$1`, eventID)
	if err != nil {
		return fmt.Errorf("delete pledge event: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := bumpVersion(ctx, tx, "pledges"); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete pledge event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListPledges(ctx context.Context) ([]Pledge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, person_id, person_name, submitted_on, description, confirmed, created_at
		FROM pledges ORDER BY submitted_on, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list pledges: %w", err)
	}
	defer rows.Close()

	var pledges []Pledge
	for rows.Next() {
		var p Pledge
		if err := rows.Scan(&p.ID, &p.EventID, &p.PersonID, &p.PersonName,
			&p.SubmittedOn, &p.Description, &p.Confirmed, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pledge: %w", err)
		}
		pledges = append(pledges, p)
	}
	return pledges, rows.Err()
}

func (s *PostgresStore) ListPledgesForEvent(ctx context.Context, eventID string) ([]Pledge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, person_id, person_name, submitted_on, description, confirmed, created_at
		FROM pledges WHERE event_id=$1 ORDER BY submitted_on, id
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event pledges: %w", err)
	}
	defer rows.Close()

	var pledges []Pledge
	for rows.Next() {
		var p Pledge
		if err := rows.Scan(&p.ID, &p.EventID, &p.PersonID, &p.PersonName,
			&p.SubmittedOn, &p.Description, &p.Confirmed, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan pledge: %w", err)
		}
		pledges = append(pledges, p)
	}
	return pledges, rows.Err()
}

func (s *PostgresStore) InsertPledge(ctx context.Context, p Pledge) (Pledge, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Pledge{}, fmt.Errorf("begin insert pledge: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO pledges (id, event_id, person_id, person_name, submitted_on, description, confirmed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, p.ID, p.EventID, p.PersonID, p.PersonName, p.SubmittedOn, p.Description, p.Confirmed).
		Scan(&p.CreatedAt)
	if err != nil {
		return Pledge{}, fmt.Errorf("insert pledge: %w", err)
	}
	if err := bumpVersion(ctx, tx, "pledges"); err != nil {
		return Pledge{}, err
	}
	if err := tx.Commit(); err != nil {
		return Pledge{}, fmt.Errorf("commit insert pledge: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ConfirmPledge(ctx context.Context, pledgeID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin confirm pledge: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE pledges SET confirmed=TRUE WHERE id=$1`, pledgeID)
	if err != nil {
		return fmt.Errorf("confirm pledge: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := bumpVersion(ctx, tx, "pledges"); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit confirm pledge: %w", err)
	}
	return nil
}

// ---- teams ----

func (s *PostgresStore) ListTeams(ctx context.Context) ([]Team, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, chapter, description, created_by, created_at, updated_at
		FROM teams ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Chapter, &t.Description, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (s *PostgresStore) GetTeam(ctx context.Context, teamID string) (Team, error) {
	var t Team
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, chapter, description, created_by, created_at, updated_at
		FROM teams WHERE id=$1
	`, teamID).Scan(&t.ID, &t.Name, &t.Chapter, &t.Description, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Team{}, ErrNotFound
	}
	if err != nil {
		return Team{}, fmt.Errorf("get team: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) InsertTeam(ctx context.Context, t Team) (Team, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO teams (id, name, chapter, description, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, t.ID, t.Name, t.Chapter, t.Description, t.CreatedBy).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return Team{}, fmt.Errorf("insert team: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) UpdateTeam(ctx context.Context, t Team) (Team, error) {
	err := s.db.QueryRowContext(ctx, `
		UPDATE teams SET name=$2, chapter=$3, description=$4, updated_at=NOW()
		WHERE id=$1
		RETURNING created_by, created_at, updated_at
	`, t.ID, t.Name, t.Chapter, t.Description).Scan(&t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Team{}, ErrNotFound
	}
	if err != nil {
		return Team{}, fmt.Errorf("update team: %w", err)
	}
	return t, nil
}

func (s *PostgresStore) DeleteTeam(ctx context.Context, teamID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM teams WHERE id=$1`, teamID)
	if err != nil {
		return fmt.Errorf("delete team: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListTeamMembers(ctx context.Context, teamID string) ([]TeamMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT team_id, member_id, role_note, added_at
		FROM team_members WHERE team_id=$1 ORDER BY added_at, member_id
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()
	return scanTeamMembers(rows)
}

func (s *PostgresStore) ListAllTeamMembers(ctx context.Context) ([]TeamMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT team_id, member_id, role_note, added_at
		FROM team_members ORDER BY team_id, added_at, member_id
	`)
	if err != nil {
		return nil, fmt.Errorf("list all team members: %w", err)
	}
	defer rows.Close()
	return scanTeamMembers(rows)
}

func scanTeamMembers(rows *sql.Rows) ([]TeamMember, error) {
	var members []TeamMember
	for rows.Next() {
		var m TeamMember
		if err := rows.Scan(&m.TeamID, &m.MemberID, &m.RoleNote, &m.AddedAt); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (s *PostgresStore) AddTeamMember(ctx context.Context, m TeamMember) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO team_members (team_id, member_id, role_note)
		VALUES ($1, $2, $3)
		ON CONFLICT (team_id, member_id) DO UPDATE SET role_note=EXCLUDED.role_note
	`, m.TeamID, m.MemberID, m.RoleNote)
	if err != nil {
		return fmt.Errorf("add team member: %w", err)
	}
	return nil
}

func (s *PostgresStore) RemoveTeamMember(ctx context.Context, teamID, memberID string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM team_members WHERE team_id=$1 AND member_id=$2
	`, teamID, memberID)
	if err != nil {
		return fmt.Errorf("remove team member: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- organizer aliases ----

func (s *PostgresStore) ListOrganizerAliases(ctx context.Context) ([]OrganizerAlias, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT canonical, alias FROM organizer_aliases ORDER BY canonical, alias
	`)
	if err != nil {
		return nil, fmt.Errorf("list organizer aliases: %w", err)
	}
	defer rows.Close()

	var aliases []OrganizerAlias
	for rows.Next() {
		var a OrganizerAlias
		if err := rows.Scan(&a.Canonical, &a.Alias); err != nil {
			return nil, fmt.Errorf("scan organizer alias: %w", err)
		}
		aliases = append(aliases, a)
	}
	return aliases, rows.Err()
}

// ---- attachments ----

func (s *PostgresStore) InsertAttachment(ctx context.Context, a Attachment) (Attachment, error) {
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO attachments (id, person_id, file_name, content_type, object_key, size_bytes, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, a.ID, a.PersonID, a.FileName, a.ContentType, a.ObjectKey, a.Size, a.UploadedBy).Scan(&a.CreatedAt)
	if err != nil {
		return Attachment{}, fmt.Errorf("insert attachment: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) ListAttachments(ctx context.Context, personID string) ([]Attachment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, person_id, file_name, content_type, object_key, size_bytes, uploaded_by, created_at
		FROM attachments WHERE person_id=$1 ORDER BY created_at DESC, id
	`, personID)
	if err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	defer rows.Close()

	var attachments []Attachment
	for rows.Next() {
		var a Attachment
		if err := rows.Scan(&a.ID, &a.PersonID, &a.FileName, &a.ContentType,
			&a.ObjectKey, &a.Size, &a.UploadedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

func (s *PostgresStore) GetAttachment(ctx context.Context, attachmentID string) (Attachment, error) {
	var a Attachment
	err := s.db.QueryRowContext(ctx, `
		SELECT id, person_id, file_name, content_type, object_key, size_bytes, uploaded_by, created_at
		FROM attachments WHERE id=$1
	`, attachmentID).Scan(&a.ID, &a.PersonID, &a.FileName, &a.ContentType,
		&a.ObjectKey, &a.Size, &a.UploadedBy, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Attachment{}, ErrNotFound
	}
	if err != nil {
		return Attachment{}, fmt.Errorf("get attachment: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) DeleteAttachment(ctx context.Context, attachmentID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM attachments WHERE id=$1`, attachmentID)
	if err != nil {
		return fmt.Errorf("delete attachment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- data versions ----

func (s *PostgresStore) GetDataVersions(ctx context.Context) (DataVersions, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, version FROM data_versions`)
	if err != nil {
		return DataVersions{}, fmt.Errorf("read data versions: %w", err)
	}
	defer rows.Close()

	var versions DataVersions
	for rows.Next() {
		var name string
		var version int64
		if err := rows.Scan(&name, &version); err != nil {
			return DataVersions{}, fmt.Errorf("scan data version: %w", err)
		}
		switch name {
		case "people":
			versions.People = version
		case "meetings":
			versions.Meetings = version
		case "pledges":
			versions.Pledges = version
		}
	}
	return versions, rows.Err()
}

func bumpVersion(ctx context.Context, tx *sql.Tx, name string) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO data_versions (name, version) VALUES ($1, 1)
		ON CONFLICT (name) DO UPDATE SET version = data_versions.version + 1
	`, name)
	if err != nil {
		return fmt.Errorf("bump %s version: %w", name, err)
	}
	return nil
}

// ---- search fallback ----

// SearchPeople backs the Postgres FTS fallback when Meilisearch is down.
func (s *PostgresStore) SearchPeople(ctx context.Context, query string, limit int) ([]Person, error) {
	if limit <= 0 {
		limit = 25
	}
	rows, err := s.db.QueryContext(ctx, personSelect+`
		WHERE p.fts @@ plainto_tsquery('simple', $1)
		ORDER BY ts_rank(p.fts, plainto_tsquery('simple', $1)) DESC, p.id
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search people: %w", err)
	}
	defer rows.Close()

	var people []Person
	index := map[string]int{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		index[p.ID] = len(people)
		people = append(people, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachOrganizers(ctx, people, index); err != nil {
		return nil, err
	}
	return people, nil
}

// SearchMeetings matches meeting note text; the caller applies note
// visibility before returning anything to a client.
func (s *PostgresStore) SearchMeetings(ctx context.Context, query string, limit int) ([]Meeting, error) {
	if limit <= 0 {
		limit = 25
	}
	rows, err := s.db.QueryContext(ctx, meetingSelect+`
		WHERE fts @@ plainto_tsquery('simple', $1)
		ORDER BY ts_rank(fts, plainto_tsquery('simple', $1)) DESC, id
		LIMIT $2
	`, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search meetings: %w", err)
	}
	defer rows.Close()
	return scanMeetings(rows)
}
