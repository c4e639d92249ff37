package service

import (
	"context"
	"errors"
	"testing"

	"github.com/LaurentJouron/LITReview/internal/models"
)

type followRepoStub struct {
	createFn        func(context.Context, *models.Follow) error
	getByIDFn       func(context.Context, uint) (*models.Follow, error)
	getByPairFn     func(context.Context, uint, uint) (*models.Follow, error)
	listFollowingFn func(context.Context, uint) ([]models.Follow, error)
	listFollowersFn func(context.Context, uint) ([]models.Follow, error)
	followedIDsFn   func(context.Context, uint) ([]uint, error)
	deleteFn        func(context.Context, uint) error
}

func (s *followRepoStub) Create(ctx context.Context, f *models.Follow) error {
	return s.createFn(ctx, f)
}
func (s *followRepoStub) GetByID(ctx context.Context, id uint) (*models.Follow, error) {
	return s.getByIDFn(ctx, id)
}
func (s *followRepoStub) GetByPair(ctx context.Context, followerID, followedID uint) (*models.Follow, error) {
	return s.getByPairFn(ctx, followerID, followedID)
}
func (s *followRepoStub) ListFollowing(ctx context.Context, userID uint) ([]models.Follow, error) {
	return s.listFollowingFn(ctx, userID)
}
func (s *followRepoStub) ListFollowers(ctx context.Context, userID uint) ([]models.Follow, error) {
	return s.listFollowersFn(ctx, userID)
}
func (s *followRepoStub) FollowedIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.followedIDsFn(ctx, userID)
}
func (s *followRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	deleteFn        func(context.Context, uint) error
	listFn          func(context.Context, int, int) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *userRepoStub) List(ctx context.Context, limit, offset int) ([]models.User, error) {
	return s.listFn(ctx, limit, offset)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		createFn:        func(context.Context, *models.Follow) error { return nil },
		getByIDFn:       func(context.Context, uint) (*models.Follow, error) { return &models.Follow{}, nil },
		getByPairFn:     func(context.Context, uint, uint) (*models.Follow, error) { return nil, nil },
		listFollowingFn: func(context.Context, uint) ([]models.Follow, error) { return nil, nil },
		listFollowersFn: func(context.Context, uint) ([]models.Follow, error) { return nil, nil },
		followedIDsFn:   func(context.Context, uint) ([]uint, error) { return nil, nil },
		deleteFn:        func(context.Context, uint) error { return nil },
	}
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(context.Context, uint) (*models.User, error) { return &models.User{}, nil },
		getByEmailFn:    func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		getByUsernameFn: func(context.Context, string) (*models.User, error) { return &models.User{}, nil },
		createFn:        func(context.Context, *models.User) error { return nil },
		updateFn:        func(context.Context, *models.User) error { return nil },
		deleteFn:        func(context.Context, uint) error { return nil },
		listFn:          func(context.Context, int, int) ([]models.User, error) { return nil, nil },
	}
}

func TestFollowServiceSelfFollow(t *testing.T) {
	users := noopUserRepo()
	users.getByUsernameFn = func(context.Context, string) (*models.User, error) {
		return &models.User{ID: 3, Username: "me"}, nil
	}
	follows := noopFollowRepo()
	created := false
	follows.createFn = func(context.Context, *models.Follow) error {
		created = true
		return nil
	}

	svc := NewFollowService(follows, users)
	_, err := svc.Follow(context.Background(), 3, "me")
	if err == nil {
		t.Fatal("expected invalid-operation error")
	}
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "INVALID_OPERATION" {
		t.Fatalf("expected invalid-operation app error, got %#v", err)
	}
	if created {
		t.Fatal("self-follow must not create an edge")
	}
}

func TestFollowServiceUnknownTarget(t *testing.T) {
	users := noopUserRepo()
	users.getByUsernameFn = func(_ context.Context, username string) (*models.User, error) {
		return nil, models.NewNotFoundError("User", username)
	}

	svc := NewFollowService(noopFollowRepo(), users)
	_, err := svc.Follow(context.Background(), 1, "ghost")
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "NOT_FOUND" {
		t.Fatalf("expected not-found app error, got %#v", err)
	}
}

func TestFollowServiceDuplicateEdge(t *testing.T) {
	users := noopUserRepo()
	users.getByUsernameFn = func(context.Context, string) (*models.User, error) {
		return &models.User{ID: 7, Username: "target"}, nil
	}
	follows := noopFollowRepo()
	follows.createFn = func(context.Context, *models.Follow) error {
		return models.NewConflictError("already following this user")
	}

	svc := NewFollowService(follows, users)
	_, err := svc.Follow(context.Background(), 1, "target")
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "CONFLICT" {
		t.Fatalf("expected conflict app error, got %#v", err)
	}
}

func TestFollowServiceUnfollowNotOwner(t *testing.T) {
	follows := noopFollowRepo()
	follows.getByIDFn = func(context.Context, uint) (*models.Follow, error) {
		return &models.Follow{ID: 9, FollowerID: 10, FollowedID: 11}, nil
	}
	deleted := false
	follows.deleteFn = func(context.Context, uint) error {
		deleted = true
		return nil
	}

	svc := NewFollowService(follows, noopUserRepo())
	err := svc.Unfollow(context.Background(), 12, 9)
	var appErr *models.AppError
	if !errors.As(err, &appErr) || appErr.Code != "FORBIDDEN" {
		t.Fatalf("expected forbidden app error, got %#v", err)
	}
	if deleted {
		t.Fatal("edge must survive a forbidden unfollow")
	}
}

func TestFollowServiceUnfollowOwner(t *testing.T) {
	follows := noopFollowRepo()
	follows.getByIDFn = func(context.Context, uint) (*models.Follow, error) {
		return &models.Follow{ID: 9, FollowerID: 10, FollowedID: 11}, nil
	}

	svc := NewFollowService(follows, noopUserRepo())
	if err := svc.Unfollow(context.Background(), 10, 9); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
