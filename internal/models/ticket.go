// Package models contains data structures for the application's domain models.
package models

import "time"

// Content kind tags carried by feed entries.
const (
	ContentKindTicket = "TICKET"
	ContentKindReview = "REVIEW"
)

// Field length bounds for tickets.
const (
	TicketTitleMaxLen       = 128
	TicketDescriptionMaxLen = 2048
)

// Ticket is a user-authored request for a book review. HasReview is flipped to
// true the first time a review referencing the ticket is created and is never
// reset.
type Ticket struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	Description string    `gorm:"size:2048" json:"description"`
	ImagePath   string    `json:"image_path,omitempty"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	HasReview   bool      `gorm:"not null;default:false" json:"has_review"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
