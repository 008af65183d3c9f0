package types

import (
	"os"
	"strings"
)

const ContextUserKey = "user"

// Roles known to the access policy. There is no implied ordering between
// them; every action lists the roles it accepts.
const (
	RoleViewer = "viewer"
	RoleUser   = "user"
	RoleAdmin  = "admin"
)

// Reachability statuses stamped onto application records by the prober.
const (
	StatusUp      = "up"
	StatusDown    = "down"
	StatusUnknown = "unknown"
)

// SeedAdminEmail is the bootstrap admin identity created at startup.
// It cannot be deleted through the user-management routes.
const SeedAdminEmail = "admin@appdex.local"

// SeedViewerEmail is a read-only bootstrap identity.
const SeedViewerEmail = "viewer@appdex.local"

var (
	// Default allowed origins for development
	defaultOrigins = []string{
		"http://localhost:3000",
		"http://localhost:5173",
	}

	AllowedOrigins = initAllowedOrigins()
)

func initAllowedOrigins() []string {
	origins := make([]string, len(defaultOrigins))
	copy(origins, defaultOrigins)

	if clientURL := os.Getenv("CLIENT_URL"); clientURL != "" {
		origins = append(origins, clientURL)
	}

	if allowedOrigins := os.Getenv("ALLOWED_ORIGINS"); allowedOrigins != "" {
		envOrigins := strings.Split(allowedOrigins, ",")
		for _, origin := range envOrigins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}

	return origins
}
