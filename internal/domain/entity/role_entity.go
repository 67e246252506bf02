package entity

// Role represents an authorization role.
// Accounts reference exactly one role; this service never mutates roles.
type Role struct {
	ID   int64
	Name string
}

// Seeded role ids.
const (
	RoleAdminID int64 = 1
	RoleUserID  int64 = 2
)
