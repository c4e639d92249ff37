package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix      = "user:%d"
	TicketKeyPrefix    = "ticket:%d"
	FollowingKeyPrefix = "user:%d:following"
	FollowersKeyPrefix = "user:%d:followers"
	FeedKeyPrefix      = "user:%d:feed:%s"
)

const (
	UserTTL      = 5 * time.Minute
	TicketTTL    = 10 * time.Minute
	FollowingTTL = 2 * time.Minute
	FeedTTL      = 30 * time.Second
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func TicketKey(ticketID uint) string {
	return fmt.Sprintf(TicketKeyPrefix, ticketID)
}

func FollowingKey(userID uint) string {
	return fmt.Sprintf(FollowingKeyPrefix, userID)
}

func FollowersKey(userID uint) string {
	return fmt.Sprintf(FollowersKeyPrefix, userID)
}

func FeedKey(userID uint, scope string) string {
	return fmt.Sprintf(FeedKeyPrefix, userID, scope)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidateTicket(ctx context.Context, ticketID uint) {
	Invalidate(ctx, TicketKey(ticketID))
}

// InvalidateFollowGraph drops the cached follow lists for both sides of
// an edge mutation along with the follower's feeds, which depend on the
// set of followed users.
func InvalidateFollowGraph(ctx context.Context, followerID, followedID uint) {
	Invalidate(ctx, FollowingKey(followerID))
	Invalidate(ctx, FollowersKey(followedID))
	InvalidateFeeds(ctx, followerID)
}

func InvalidateFeeds(ctx context.Context, userID uint) {
	Invalidate(ctx, FeedKey(userID, "self"))
	Invalidate(ctx, FeedKey(userID, "self_and_followed"))
}
