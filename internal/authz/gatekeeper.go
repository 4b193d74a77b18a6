package authz

import "borrow-system/pkg/constants"

type Gatekeeper struct{}

func NewGatekeeper() *Gatekeeper {
	return &Gatekeeper{}
}

// Can reports whether the role holds the permission. Roles are static; there
// is no per-user permission storage.
func (g *Gatekeeper) Can(role string, permission string) bool {
	if role == constants.RoleAdmin {
		return true
	}
	return rolePermissions[role][permission]
}
