package rbac

import "testing"

func TestCan(t *testing.T) {
	cases := []struct {
		name   string
		role   Role
		action Action
		allow  bool
	}{
		{name: "viewer read", role: RoleViewer, action: ActionRead, allow: true},
		{name: "viewer write", role: RoleViewer, action: ActionWrite, allow: false},
		{name: "organizer write", role: RoleOrganizer, action: ActionWrite, allow: true},
		{name: "organizer confirm", role: RoleOrganizer, action: ActionConfirm, allow: false},
		{name: "lead confirm", role: RoleLead, action: ActionConfirm, allow: true},
		{name: "lead admin", role: RoleLead, action: ActionAdmin, allow: false},
		{name: "admin admin", role: RoleAdmin, action: ActionAdmin, allow: true},
		{name: "unknown role", role: Role("guest"), action: ActionRead, allow: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Can(tc.role, tc.action); got != tc.allow {
				t.Fatalf("Can(%q, %q) = %v, want %v", tc.role, tc.action, got, tc.allow)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("lead"); got != RoleLead {
		t.Fatalf("Normalize(lead) = %q", got)
	}
	if got := Normalize("superuser"); got != RoleViewer {
		t.Fatalf("Normalize(superuser) = %q, want viewer", got)
	}
}
