package models

import (
	"time"

	"github.com/angelmondragon/sirene-backend/pkg/enums"
)

// User is an account that can log in and write reviews.
type User struct {
	ID           int64          `gorm:"column:id;primaryKey;autoIncrement"`
	Username     string         `gorm:"column:username;not null;uniqueIndex"`
	Email        string         `gorm:"column:email;not null;uniqueIndex"`
	PasswordHash string         `gorm:"column:password_hash;not null"`
	Role         enums.UserRole `gorm:"column:role;not null;default:user"`
	LastLoginAt  *time.Time     `gorm:"column:last_login_at"`
	CreatedAt    time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (User) TableName() string { return "users" }

// IsAdmin reports whether the account carries the admin role.
func (u User) IsAdmin() bool {
	return u.Role == enums.UserRoleAdmin
}
