// Package service implements the business logic layer.
package service

import (
	"context"

	"github.com/LaurentJouron/LITReview/internal/models"
	"github.com/LaurentJouron/LITReview/internal/observability"
	"github.com/LaurentJouron/LITReview/internal/repository"
)

// FollowService manages the directed follow graph between users.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow creates an edge from the acting user to the user named by
// targetUsername. Lookup is case-insensitive. Self-follow is always
// rejected and a duplicate edge yields Conflict with the graph unchanged.
func (s *FollowService) Follow(ctx context.Context, userID uint, targetUsername string) (*models.Follow, error) {
	target, err := s.userRepo.GetByUsername(ctx, targetUsername)
	if err != nil {
		observability.RecordFollowOperation("follow", "not_found")
		return nil, err
	}

	if target.ID == userID {
		observability.RecordFollowOperation("follow", "self")
		return nil, models.NewInvalidOperationError("You cannot follow yourself")
	}

	follow := &models.Follow{
		FollowerID: userID,
		FollowedID: target.ID,
	}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		observability.RecordFollowOperation("follow", "error")
		return nil, err
	}

	observability.RecordFollowOperation("follow", "ok")
	return s.followRepo.GetByID(ctx, follow.ID)
}

// Unfollow deletes a follow edge. Only the edge's own follower may remove
// it; anyone else gets Forbidden and the edge stays.
func (s *FollowService) Unfollow(ctx context.Context, userID, followID uint) error {
	follow, err := s.followRepo.GetByID(ctx, followID)
	if err != nil {
		return err
	}

	if follow.FollowerID != userID {
		observability.RecordFollowOperation("unfollow", "forbidden")
		return models.NewForbiddenError("You can only remove your own subscriptions")
	}

	if err := s.followRepo.Delete(ctx, followID); err != nil {
		observability.RecordFollowOperation("unfollow", "error")
		return err
	}
	observability.RecordFollowOperation("unfollow", "ok")
	return nil
}

// Following returns the edges where the user is the follower, newest first.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.Follow, error) {
	return s.followRepo.ListFollowing(ctx, userID)
}

// Followers returns the edges where the user is the followed side, newest first.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.Follow, error) {
	return s.followRepo.ListFollowers(ctx, userID)
}

// FollowedAuthors returns the IDs of users the given user follows.
func (s *FollowService) FollowedAuthors(ctx context.Context, userID uint) ([]uint, error) {
	return s.followRepo.FollowedIDs(ctx, userID)
}
