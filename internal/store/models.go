package store

import "time"

type User struct {
	ID                    string
	DisplayName           string
	Email                 string
	PasswordHash          string
	Role                  string
	Chapter               string
	IsEmailVerified       bool
	VerificationToken     string
	VerificationExpiresAt *time.Time
	DeactivatedAt         *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type Person struct {
	ID               string
	FirstName        string
	LastName         string
	DisplayName      string
	Category         string
	Chapter          string
	Email            string
	Phone            string
	MembershipStatus string
	LeadershipLevel  string
	Organizers       []string
	CreatedBy        string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Meeting struct {
	ID              string
	PersonID        string
	OrganizerID     string
	OrganizerName   string
	OccurredOn      time.Time
	Kind            string
	Notes           map[string]string
	CommitmentAsked string
	CommitmentMade  string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// PledgeEvent is one submission event; it carries zero or more pledges.
type PledgeEvent struct {
	ID          string
	Name        string
	SponsorID   string
	SponsorName string
	HeldOn      time.Time
	CreatedAt   time.Time
}

type Pledge struct {
	ID          string
	EventID     string
	PersonID    string
	PersonName  string
	SubmittedOn time.Time
	Description string
	Confirmed   bool
	CreatedAt   time.Time
}

type Team struct {
	ID          string
	Name        string
	Chapter     string
	Description string
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TeamMember is one raw membership row. MemberID may point at a person, a
// user, or a raw contact id depending on which era wrote it; the service
// layer reconciles the name.
type TeamMember struct {
	TeamID   string
	MemberID string
	RoleNote string
	AddedAt  time.Time
}

type OrganizerAlias struct {
	Canonical string
	Alias     string
}

type Attachment struct {
	ID          string
	PersonID    string
	FileName    string
	ContentType string
	ObjectKey   string
	Size        int64
	UploadedBy  string
	CreatedAt   time.Time
}

// NoteRevision is one commit in a person's note history.
type NoteRevision struct {
	Hash      string    `json:"hash"`
	Message   string    `json:"message"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"createdAt"`
}

// DataVersions is the cache key triple for the fused roster: each counter
// bumps when its collection changes.
type DataVersions struct {
	People   int64
	Meetings int64
	Pledges  int64
}
