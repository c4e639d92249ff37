// Package models contains data structures for the application's domain models.
package models

import "time"

// Follow is a directed edge: the follower's feed includes the followed user's
// content. The (follower_id, followed_id) pair carries a composite unique
// index; the store's uniqueness violation is the sole mechanism preventing
// duplicate edges under concurrent requests.
type Follow struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FollowerID uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FollowedID uint      `gorm:"not null;uniqueIndex:idx_follow_pair" json:"followed_id"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Follower User `gorm:"foreignKey:FollowerID" json:"follower,omitempty"`
	Followed User `gorm:"foreignKey:FollowedID" json:"followed,omitempty"`
}

// TableName specifies the table name for GORM
func (Follow) TableName() string {
	return "follows"
}
