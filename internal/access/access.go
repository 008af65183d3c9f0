// Package access is the single source of truth for which roles may perform
// which actions. Every route consults the same policy table; there are no
// per-route copies of the matrix.
package access

import "github.com/appdex-dev/appdex/internal/types"

const (
	ActionApplicationsRead   = "applications.read"
	ActionApplicationsWrite  = "applications.write"
	ActionApplicationsDelete = "applications.delete"
	ActionApplicationsImport = "applications.import"
	ActionUsersManage        = "users.manage"
)

var policies = map[string][]string{
	ActionApplicationsRead:   {types.RoleViewer, types.RoleUser, types.RoleAdmin},
	ActionApplicationsWrite:  {types.RoleUser, types.RoleAdmin},
	ActionApplicationsDelete: {types.RoleAdmin},
	ActionApplicationsImport: {types.RoleAdmin},
	ActionUsersManage:        {types.RoleAdmin},
}

// Allowed returns the roles permitted to perform action. Unknown actions
// have no permitted roles.
func Allowed(action string) []string {
	return policies[action]
}

// Evaluate reports whether role is in the allowed set. It is a pure
// decision over the current request's identity; callers must have already
// authenticated the identity before asking.
func Evaluate(role string, allowed ...string) bool {
	for _, candidate := range allowed {
		if role == candidate {
			return true
		}
	}
	return false
}

// Can reports whether role may perform action under the policy table.
func Can(role string, action string) bool {
	return Evaluate(role, Allowed(action)...)
}
