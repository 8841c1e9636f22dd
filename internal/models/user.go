// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered dreamer.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Username    string         `gorm:"unique;not null" json:"username"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	Bio         string         `json:"bio"`
	DateOfBirth *time.Time     `json:"date_of_birth,omitempty"`
	IsStaff     bool           `gorm:"default:false" json:"is_staff"`
	IsPremium   bool           `gorm:"default:false" json:"is_premium"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Dreams      []Dream        `gorm:"foreignKey:UserID" json:"dreams,omitempty"`
}
