package permissions

import (
	_ "embed"
	"encoding/json"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"
)

// RoleAdmin may act for every tenant.
const RoleAdmin = "admin"

//go:embed permissions.json
var permissionsData []byte

// Permission lists the roles allowed on a route pattern. Public routes need no token.
type Permission struct {
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Roles  []string `json:"roles"`
	Public bool     `json:"public"`
}

// Allows reports whether role may call the route. An empty role list admits
// every authenticated caller.
func (p Permission) Allows(role string) bool {
	return len(p.Roles) == 0 || slices.Contains(p.Roles, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`
}

// FindPermissions returns the permission of a chi route pattern, or a zero
// Permission when the route is not listed. A trailing slash is ignored.
func (r *PermissionData) FindPermissions(path, method string) Permission {
	path = trimSlash(path)

	idx := slices.IndexFunc(r.Endpoints, func(rp Permission) bool {
		return trimSlash(rp.Path) == path && rp.Method == method
	})

	if idx == -1 {
		return Permission{}
	}

	return r.Endpoints[idx]
}

func trimSlash(path string) string {
	if len(path) > 1 {
		return strings.TrimSuffix(path, "/")
	}

	return path
}

func Parse(data []byte) (*PermissionData, error) {
	var permissions PermissionData

	if err := json.Unmarshal(data, &permissions); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &permissions, nil
}

func Get() *PermissionData {
	permissions, err := Parse(permissionsData)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return permissions
}
