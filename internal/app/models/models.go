package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent    RoleType = "STUDENT"
	RoleAdmin      RoleType = "ADMIN"
	RoleSuperAdmin RoleType = "SUPERADMIN"
)

// IsStaff reports whether the role carries staff capability.
// The role field is the single source of truth; there is no separate
// is_staff flag anywhere else.
func (r RoleType) IsStaff() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Priority defines the request priority level
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ValidPriority reports whether p is a member of the priority enumeration.
func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}
