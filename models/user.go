package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	Username string `gorm:"unique;not null" json:"username"`
	Email    string `gorm:"unique;not null" json:"email"`
	Name     string `json:"name"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash; empty for OAuth-only accounts
	Role     Role   `gorm:"not null;default:reporter" json:"role"`
}
