package models

import (
	"time"
)

// UserRole is the single role flag carried by every account
type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// User mirrors the `users` collection. Field names follow the stored record shape.
type User struct {
	ID                   string    `json:"uid" gorm:"primaryKey;size:36"`
	DisplayName          string    `json:"displayName"`
	Email                string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash         string    `json:"-" gorm:"not null"`
	Address              string    `json:"address"`
	ProfilePic           string    `json:"profilePic"`
	Role                 UserRole  `json:"role" gorm:"not null;default:'user'"`
	EmailVerified        bool      `json:"emailVerified"`
	NotificationsEnabled bool      `json:"notificationsEnabled"`
	CreatedAt            time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// ProfileFields is the partial update the profile manager writes in one call.
type ProfileFields struct {
	DisplayName string
	Address     string
	ProfilePic  string
}
