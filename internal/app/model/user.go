package model

import (
	"strings"
	"time"
)

type UserRole string   // access-level tag resolved per session
type UserStatus string // account status

const (
	RoleCustomer UserRole = "customer" // places and reviews own orders
	RoleManager  UserRole = "manager"  // triages orders, administers roles

	// RoleUnauthorized is the fail-closed sentinel: resolved for any
	// authenticated identity without a matching user record, and for any
	// lookup failure. It is also storable, so a manager can park an account.
	RoleUnauthorized UserRole = "unauthorized"

	StatusActive    UserStatus = "active"
	StatusSuspended UserStatus = "suspended"
)

// Valid reports whether the role is one of the storable roles
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleManager, RoleUnauthorized:
		return true
	}
	return false
}

func (s UserStatus) Valid() bool {
	return s == StatusActive || s == StatusSuspended
}

type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"` // normalized (lower, trimmed), lookup key
	PasswordHash string     `gorm:"not null" json:"-"`
	Name         string     `gorm:"not null" json:"name"`
	NameKana     string     `json:"name_kana"` // フリガナ
	Role         UserRole   `gorm:"type:varchar(20);default:'customer'" json:"role"`
	Status       UserStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// NormalizeEmail lowercases and trims an email for use as the users lookup key
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
