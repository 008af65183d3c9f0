package access

import (
	"testing"

	"github.com/appdex-dev/appdex/internal/types"
)

func TestPolicyMatrix(t *testing.T) {
	cases := []struct {
		role   string
		action string
		want   bool
	}{
		{types.RoleViewer, ActionApplicationsRead, true},
		{types.RoleUser, ActionApplicationsRead, true},
		{types.RoleAdmin, ActionApplicationsRead, true},

		{types.RoleViewer, ActionApplicationsWrite, false},
		{types.RoleUser, ActionApplicationsWrite, true},
		{types.RoleAdmin, ActionApplicationsWrite, true},

		{types.RoleViewer, ActionApplicationsDelete, false},
		{types.RoleUser, ActionApplicationsDelete, false},
		{types.RoleAdmin, ActionApplicationsDelete, true},

		{types.RoleViewer, ActionApplicationsImport, false},
		{types.RoleUser, ActionApplicationsImport, false},
		{types.RoleAdmin, ActionApplicationsImport, true},

		{types.RoleViewer, ActionUsersManage, false},
		{types.RoleUser, ActionUsersManage, false},
		{types.RoleAdmin, ActionUsersManage, true},
	}

	for _, tc := range cases {
		if got := Can(tc.role, tc.action); got != tc.want {
			t.Errorf("Can(%q, %q) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestUnknownActionDeniesEveryone(t *testing.T) {
	for _, role := range []string{types.RoleViewer, types.RoleUser, types.RoleAdmin} {
		if Can(role, "applications.reboot") {
			t.Errorf("unknown action allowed for role %q", role)
		}
	}
}

func TestUnknownRoleDenied(t *testing.T) {
	if Can("superadmin", ActionApplicationsRead) {
		t.Error("unknown role should not be allowed")
	}

	if Evaluate("", types.RoleAdmin) {
		t.Error("empty role should not be allowed")
	}
}
