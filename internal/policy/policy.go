// Package policy maps a user role to the board actions it may attempt.
//
// This is a UX gate, not a security boundary: it disables controls so the
// user never attempts something the server would reject. The server enforces
// authorization independently on every request.
package policy

// Role is the label the server returns on login/register/guest entry.
// The client trusts it as-is.
type Role string

const (
	RoleProductOwner Role = "product_owner"
	RoleNormal       Role = "normal"
	RoleGuest        Role = "invitado"
)

// ParseRole maps a server label to a Role. Unknown labels floor to guest so
// a surprising response never unlocks controls.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleProductOwner, RoleNormal:
		return Role(s)
	}
	return RoleGuest
}

// Action is a mutation class the UI can attempt.
type Action int

const (
	ActionCreate Action = iota
	ActionMove   // status changes and field edits
	ActionDelete
)

// Can reports whether role may attempt action. Pure; re-evaluate on every
// check rather than caching across role changes.
func Can(role Role, action Action) bool {
	switch role {
	case RoleProductOwner:
		return true
	case RoleNormal:
		return action == ActionCreate || action == ActionDelete
	}
	return false
}

// IsGuest reports whether role has no mutation rights at all. Guests get the
// whole action cluster hidden rather than disabled.
func IsGuest(role Role) bool {
	return role != RoleProductOwner && role != RoleNormal
}
