package rbac

type Role string
type Action string

const (
	RoleViewer    Role = "viewer"
	RoleOrganizer Role = "organizer"
	RoleLead      Role = "lead"
	RoleAdmin     Role = "admin"
)

const (
	ActionRead    Action = "read"
	ActionWrite   Action = "write"
	ActionConfirm Action = "confirm"
	ActionAdmin   Action = "admin"
)

func Can(role Role, action Action) bool {
	switch role {
	case RoleAdmin:
		return true
	case RoleLead:
		return action == ActionRead || action == ActionWrite || action == ActionConfirm
	case RoleOrganizer:
		return action == ActionRead || action == ActionWrite
	case RoleViewer:
		return action == ActionRead
	default:
		return false
	}
}

func Normalize(role string) Role {
	switch Role(role) {
	case RoleViewer, RoleOrganizer, RoleLead, RoleAdmin:
		return Role(role)
	default:
		return RoleViewer
	}
}
