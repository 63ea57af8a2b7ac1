package workflow

// Role is a named capability grouping. A user holds a set of roles, not a
// single exclusive one.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleRequester      Role = "requester"
	RoleProcurement    Role = "procurement"
	RoleFinancial      Role = "financial"
	RoleManagement     Role = "management"
	RoleCOO            Role = "coo"
	RoleDevManager     Role = "dev_manager"
	RoleProjectControl Role = "project_control"
)

var validRoles = map[Role]bool{
	RoleAdmin:          true,
	RoleRequester:      true,
	RoleProcurement:    true,
	RoleFinancial:      true,
	RoleManagement:     true,
	RoleCOO:            true,
	RoleDevManager:     true,
	RoleProjectControl: true,
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// IsValid returns true if the role is one of the known roles.
func (r Role) IsValid() bool {
	return validRoles[r]
}

// Actor is the strongly-typed identity of the user performing an action.
// It is always passed explicitly into engine calls, never read from
// ambient state.
type Actor struct {
	ID          string
	DisplayName string
	Roles       []Role
}

// HasRole returns true if the actor holds the given role.
func (a Actor) HasRole(role Role) bool {
	for _, r := range a.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin returns true if the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.HasRole(RoleAdmin)
}

// Authorized reports whether the actor may perform an action restricted to
// the given roles. Authorization is non-empty set intersection; admins are
// authorized unconditionally.
func (a Actor) Authorized(required []Role) bool {
	if a.IsAdmin() {
		return true
	}
	for _, r := range required {
		if a.HasRole(r) {
			return true
		}
	}
	return false
}
