package models

import "time"

// UserRole is the platform-wide role carried in access tokens.
type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPERADMIN"
	RoleUser       UserRole = "USER"
)

// AcademyRole is the role a user holds inside one academy.
type AcademyRole string

const (
	AcademyRoleDirector  AcademyRole = "DIRECTOR"
	AcademyRoleProfessor AcademyRole = "PROFESSOR"
	AcademyRoleGuardian  AcademyRole = "GUARDIAN"
)

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// AcademyMember links a user to an academy with a role.
type AcademyMember struct {
	AcademyID string      `db:"academy_id" json:"academy_id"`
	UserID    string      `db:"user_id" json:"user_id"`
	Role      AcademyRole `db:"role" json:"role"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
