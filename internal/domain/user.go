package domain

// Role represents the role of a user in the reservation system
type Role string

const (
	RoleResident Role = "Resident"
	RoleStaff    Role = "Staff"
	RoleAdmin    Role = "Admin"
)

// User carries the fields the rule engine consumes; the full profile lives
// in the user service.
type User struct {
	ID       int64
	Name     string
	Email    string
	Verified bool
	Role     Role
}

// IsPrivileged returns true for roles that are always treated as verified
func (u *User) IsPrivileged() bool {
	return u.Role == RoleStaff || u.Role == RoleAdmin
}
