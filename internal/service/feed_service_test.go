package service

import (
	"context"
	"testing"
	"time"

	"github.com/LaurentJouron/LITReview/internal/cache"
	"github.com/LaurentJouron/LITReview/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type ticketRepoStub struct {
	createFn            func(context.Context, *models.Ticket) error
	getByIDFn           func(context.Context, uint) (*models.Ticket, error)
	updateFn            func(context.Context, *models.Ticket) error
	deleteWithReviewsFn func(context.Context, uint) error
	listByUserIDsFn     func(context.Context, []uint) ([]models.Ticket, error)
	listOpenByUserIDsFn func(context.Context, []uint) ([]models.Ticket, error)
}

func (s *ticketRepoStub) Create(ctx context.Context, t *models.Ticket) error {
	return s.createFn(ctx, t)
}
func (s *ticketRepoStub) GetByID(ctx context.Context, id uint) (*models.Ticket, error) {
	return s.getByIDFn(ctx, id)
}
func (s *ticketRepoStub) Update(ctx context.Context, t *models.Ticket) error {
	return s.updateFn(ctx, t)
}
func (s *ticketRepoStub) DeleteWithReviews(ctx context.Context, id uint) error {
	return s.deleteWithReviewsFn(ctx, id)
}
func (s *ticketRepoStub) ListByUserIDs(ctx context.Context, ids []uint) ([]models.Ticket, error) {
	return s.listByUserIDsFn(ctx, ids)
}
func (s *ticketRepoStub) ListOpenByUserIDs(ctx context.Context, ids []uint) ([]models.Ticket, error) {
	return s.listOpenByUserIDsFn(ctx, ids)
}

type reviewRepoStub struct {
	createAndFlagTicketFn func(context.Context, *models.Review) error
	createWithTicketFn    func(context.Context, *models.Ticket, *models.Review) error
	getByIDFn             func(context.Context, uint) (*models.Review, error)
	getByTicketIDFn       func(context.Context, uint) (*models.Review, error)
	updateFn              func(context.Context, *models.Review) error
	deleteFn              func(context.Context, uint) error
	listByUserIDsFn       func(context.Context, []uint) ([]models.Review, error)
}

func (s *reviewRepoStub) CreateAndFlagTicket(ctx context.Context, r *models.Review) error {
	return s.createAndFlagTicketFn(ctx, r)
}
func (s *reviewRepoStub) CreateWithTicket(ctx context.Context, t *models.Ticket, r *models.Review) error {
	return s.createWithTicketFn(ctx, t, r)
}
func (s *reviewRepoStub) GetByID(ctx context.Context, id uint) (*models.Review, error) {
	return s.getByIDFn(ctx, id)
}
func (s *reviewRepoStub) GetByTicketID(ctx context.Context, ticketID uint) (*models.Review, error) {
	return s.getByTicketIDFn(ctx, ticketID)
}
func (s *reviewRepoStub) Update(ctx context.Context, r *models.Review) error {
	return s.updateFn(ctx, r)
}
func (s *reviewRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *reviewRepoStub) ListByUserIDs(ctx context.Context, ids []uint) ([]models.Review, error) {
	return s.listByUserIDsFn(ctx, ids)
}

func noopTicketRepo() *ticketRepoStub {
	return &ticketRepoStub{
		createFn:            func(context.Context, *models.Ticket) error { return nil },
		getByIDFn:           func(context.Context, uint) (*models.Ticket, error) { return &models.Ticket{}, nil },
		updateFn:            func(context.Context, *models.Ticket) error { return nil },
		deleteWithReviewsFn: func(context.Context, uint) error { return nil },
		listByUserIDsFn:     func(context.Context, []uint) ([]models.Ticket, error) { return nil, nil },
		listOpenByUserIDsFn: func(context.Context, []uint) ([]models.Ticket, error) { return nil, nil },
	}
}

func noopReviewRepo() *reviewRepoStub {
	return &reviewRepoStub{
		createAndFlagTicketFn: func(context.Context, *models.Review) error { return nil },
		createWithTicketFn:    func(context.Context, *models.Ticket, *models.Review) error { return nil },
		getByIDFn:             func(context.Context, uint) (*models.Review, error) { return &models.Review{}, nil },
		getByTicketIDFn:       func(context.Context, uint) (*models.Review, error) { return nil, nil },
		updateFn:              func(context.Context, *models.Review) error { return nil },
		deleteFn:              func(context.Context, uint) error { return nil },
		listByUserIDsFn:       func(context.Context, []uint) ([]models.Review, error) { return nil, nil },
	}
}

func TestFeedMergeOrdering(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	follows := noopFollowRepo()
	follows.followedIDsFn = func(context.Context, uint) ([]uint, error) {
		return []uint{2}, nil
	}

	tickets := noopTicketRepo()
	tickets.listByUserIDsFn = func(_ context.Context, ids []uint) ([]models.Ticket, error) {
		if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
			t.Fatalf("unexpected author set: %v", ids)
		}
		return []models.Ticket{
			{ID: 2, Title: "T2", UserID: 1, CreatedAt: base.Add(15 * time.Minute)},
			{ID: 1, Title: "T1", UserID: 2, CreatedAt: base.Add(10 * time.Minute)},
		}, nil
	}

	reviews := noopReviewRepo()
	reviews.listByUserIDsFn = func(context.Context, []uint) ([]models.Review, error) {
		return []models.Review{
			{ID: 1, Headline: "R1", UserID: 2, CreatedAt: base.Add(20 * time.Minute)},
		}, nil
	}

	svc := NewFeedService(follows, tickets, reviews)
	feed, err := svc.BuildFeed(context.Background(), 1, FeedScopeSelfAndFollowed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(feed) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(feed))
	}
	wantKinds := []string{"REVIEW", "TICKET", "TICKET"}
	for i, kind := range wantKinds {
		if feed[i].Kind != kind {
			t.Fatalf("entry %d: expected kind %s, got %s", i, kind, feed[i].Kind)
		}
	}
	if feed[0].CreatedAt.Before(feed[1].CreatedAt) || feed[1].CreatedAt.Before(feed[2].CreatedAt) {
		t.Fatal("feed must be ordered newest first")
	}
}

// Not parallel: swaps the shared cache client.
func TestFeedServedFromCache(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	prev := cache.GetClient()
	cache.SetClient(rdb)
	t.Cleanup(func() {
		cache.SetClient(prev)
		_ = rdb.Close()
	})

	fetches := 0
	tickets := noopTicketRepo()
	tickets.listByUserIDsFn = func(context.Context, []uint) ([]models.Ticket, error) {
		fetches++
		return []models.Ticket{{ID: 1, Title: "T1", UserID: 7, CreatedAt: time.Now()}}, nil
	}

	svc := NewFeedService(noopFollowRepo(), tickets, noopReviewRepo())

	first, err := svc.BuildFeed(context.Background(), 7, FeedScopeSelf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(first) != 1 || fetches != 1 {
		t.Fatalf("expected 1 entry from 1 fetch, got %d/%d", len(first), fetches)
	}
	if !mr.Exists(cache.FeedKey(7, string(FeedScopeSelf))) {
		t.Fatal("feed build must populate the cache")
	}

	second, err := svc.BuildFeed(context.Background(), 7, FeedScopeSelf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetches != 1 {
		t.Fatalf("cached feed must not refetch, got %d fetches", fetches)
	}
	if len(second) != 1 || second[0].Kind != "TICKET" {
		t.Fatalf("unexpected cached feed: %+v", second)
	}

	// Dropping the key forces a rebuild.
	cache.InvalidateFeeds(context.Background(), 7)
	if _, err := svc.BuildFeed(context.Background(), 7, FeedScopeSelf); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fetches != 2 {
		t.Fatalf("invalidated feed must refetch, got %d fetches", fetches)
	}
}

func TestFeedSelfScopeSkipsFollowLookup(t *testing.T) {
	follows := noopFollowRepo()
	follows.followedIDsFn = func(context.Context, uint) ([]uint, error) {
		t.Fatal("self scope must not query the follow graph")
		return nil, nil
	}

	tickets := noopTicketRepo()
	tickets.listByUserIDsFn = func(_ context.Context, ids []uint) ([]models.Ticket, error) {
		if len(ids) != 1 || ids[0] != 5 {
			t.Fatalf("expected viewer-only author set, got %v", ids)
		}
		return nil, nil
	}

	svc := NewFeedService(follows, tickets, noopReviewRepo())
	feed, err := svc.BuildFeed(context.Background(), 5, FeedScopeSelf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(feed) != 0 {
		t.Fatalf("expected empty feed, got %d entries", len(feed))
	}
}

func TestFeedStableTieBreak(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tickets := noopTicketRepo()
	tickets.listByUserIDsFn = func(context.Context, []uint) ([]models.Ticket, error) {
		return []models.Ticket{{ID: 1, Title: "T", UserID: 1, CreatedAt: ts}}, nil
	}
	reviews := noopReviewRepo()
	reviews.listByUserIDsFn = func(context.Context, []uint) ([]models.Review, error) {
		return []models.Review{{ID: 1, Headline: "R", UserID: 1, CreatedAt: ts}}, nil
	}

	svc := NewFeedService(noopFollowRepo(), tickets, reviews)
	feed, err := svc.BuildFeed(context.Background(), 1, FeedScopeSelf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Equal timestamps keep union order: tickets first.
	if len(feed) != 2 || feed[0].Kind != "TICKET" || feed[1].Kind != "REVIEW" {
		t.Fatalf("unexpected tie order: %+v", feed)
	}
}
