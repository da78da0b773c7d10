package entity

// Role is a custom type for bitwise role flags.
//
// Roles are stored as a single bigint column instead of a join table,
// so membership checks never require a second query.
type Role int64

const (
	// RoleUser is the default role granted at registration.
	// It carries no extra rights beyond ownership of the user's own notes.
	RoleUser Role = 1 << iota

	// RoleAdministrator grants full capability over every non-deleted note,
	// system-wide note listing grouped by owner, and the user-management
	// surface (delete, promote).
	RoleAdministrator
)

// Has checks if the role bitmask contains ALL bits requested in 'target'.
// Logic: (r & target) == target
func (r Role) Has(target Role) bool {
	return (r & target) == target
}

// Add appends a role to the bitmask
func (r Role) Add(role Role) Role {
	return r | role
}

// Remove clears a role from the bitmask
func (r Role) Remove(role Role) Role {
	return r &^ role
}

// IsAdmin reports whether the bitmask includes RoleAdministrator.
func (r Role) IsAdmin() bool {
	return r.Has(RoleAdministrator)
}

// Names returns the human-readable role names for API responses.
func (r Role) Names() []string {
	names := []string{}
	if r.Has(RoleUser) {
		names = append(names, "User")
	}
	if r.Has(RoleAdministrator) {
		names = append(names, "Admin")
	}
	return names
}
