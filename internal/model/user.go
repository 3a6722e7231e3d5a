package model

import "time"

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// IsTeacher reports whether the user may own teacher-side resources.
func (u *User) IsTeacher() bool {
	return u.Role == RoleTeacher
}

// IsAdmin reports whether the user may use the administrative surface.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
