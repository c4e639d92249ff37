// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. Usernames are normalized to lowercase
// before persistence so lookups are case-insensitive.
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     string         `gorm:"unique;not null" json:"email"`
	Password  string         `gorm:"not null" json:"-"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Tickets   []Ticket       `gorm:"foreignKey:UserID" json:"tickets,omitempty"`
	Reviews   []Review       `gorm:"foreignKey:UserID" json:"reviews,omitempty"`
}
