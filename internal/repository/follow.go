package repository

import (
	"context"
	"errors"

	"github.com/LaurentJouron/LITReview/internal/cache"
	"github.com/LaurentJouron/LITReview/internal/models"

	"gorm.io/gorm"
)

// FollowRepository defines persistence operations for the follow graph.
type FollowRepository interface {
	Create(ctx context.Context, follow *models.Follow) error
	GetByID(ctx context.Context, id uint) (*models.Follow, error)
	GetByPair(ctx context.Context, followerID, followedID uint) (*models.Follow, error)
	ListFollowing(ctx context.Context, userID uint) ([]models.Follow, error)
	ListFollowers(ctx context.Context, userID uint) ([]models.Follow, error)
	FollowedIDs(ctx context.Context, userID uint) ([]uint, error)
	Delete(ctx context.Context, id uint) error
}

type followRepository struct {
	db *gorm.DB
}

// NewFollowRepository returns a new FollowRepository implementation.
func NewFollowRepository(db *gorm.DB) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, follow *models.Follow) error {
	if err := r.db.WithContext(ctx).Create(follow).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.NewConflictError("already following this user")
		}
		return models.NewInternalError(err)
	}
	cache.InvalidateFollowGraph(ctx, follow.FollowerID, follow.FollowedID)
	return nil
}

func (r *followRepository) GetByID(ctx context.Context, id uint) (*models.Follow, error) {
	var follow models.Follow
	if err := r.db.WithContext(ctx).
		Preload("Follower").
		Preload("Followed").
		First(&follow, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Follow", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &follow, nil
}

func (r *followRepository) GetByPair(ctx context.Context, followerID, followedID uint) (*models.Follow, error) {
	var follow models.Follow
	if err := r.db.WithContext(ctx).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		First(&follow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil // no edge exists
		}
		return nil, models.NewInternalError(err)
	}
	return &follow, nil
}

func (r *followRepository) ListFollowing(ctx context.Context, userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	if err := r.db.WithContext(ctx).
		Where("follower_id = ?", userID).
		Preload("Followed").
		Order("created_at DESC").
		Find(&follows).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return follows, nil
}

func (r *followRepository) ListFollowers(ctx context.Context, userID uint) ([]models.Follow, error) {
	var follows []models.Follow
	err := cache.CacheAside(ctx, cache.FollowersKey(userID), &follows, cache.FollowingTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("followed_id = ?", userID).
			Preload("Follower").
			Order("created_at DESC").
			Find(&follows).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return follows, nil
}

// FollowedIDs returns the IDs of every user the given user follows. The set
// is cached; edge mutations drop the key via InvalidateFollowGraph.
func (r *followRepository) FollowedIDs(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := cache.CacheAside(ctx, cache.FollowingKey(userID), &ids, cache.FollowingTTL, func() error {
		if err := r.db.WithContext(ctx).
			Model(&models.Follow{}).
			Where("follower_id = ?", userID).
			Pluck("followed_id", &ids).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *followRepository) Delete(ctx context.Context, id uint) error {
	follow, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Delete(&models.Follow{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateFollowGraph(ctx, follow.FollowerID, follow.FollowedID)
	return nil
}
