// Package models contains data structures for the application's domain models.
package models

import "time"

// Rating and field bounds for reviews.
const (
	ReviewRatingMin      = 0
	ReviewRatingMax      = 5
	ReviewHeadlineMaxLen = 128
	ReviewBodyMaxLen     = 8192
)

// Review is a rated commentary attached to exactly one ticket. The ON DELETE
// CASCADE constraint keeps referential integrity in the store; repository
// delete paths additionally remove reviews inside the same transaction so the
// contract holds on backends without enforced foreign keys.
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TicketID  uint      `gorm:"not null;index" json:"ticket_id"`
	Ticket    Ticket    `gorm:"foreignKey:TicketID;constraint:OnDelete:CASCADE" json:"ticket,omitempty"`
	Rating    int       `gorm:"not null" json:"rating"`
	Headline  string    `gorm:"size:128;not null" json:"headline"`
	Body      string    `gorm:"size:8192" json:"body"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
