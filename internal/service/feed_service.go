package service

import (
	"context"
	"sort"
	"time"

	"github.com/LaurentJouron/LITReview/internal/cache"
	"github.com/LaurentJouron/LITReview/internal/models"
	"github.com/LaurentJouron/LITReview/internal/observability"
	"github.com/LaurentJouron/LITReview/internal/repository"
)

// FeedScope selects whose content appears in a feed.
type FeedScope string

const (
	// FeedScopeSelf limits the feed to the viewer's own items.
	FeedScopeSelf FeedScope = "self"
	// FeedScopeSelfAndFollowed includes the viewer and everyone they follow.
	FeedScopeSelfAndFollowed FeedScope = "self_and_followed"
)

// FeedEntry is one item of a merged feed.
type FeedEntry struct {
	Kind      string    `json:"kind"`
	Data      any       `json:"data"`
	CreatedAt time.Time `json:"created_at"`
}

// FeedService assembles merged ticket and review feeds.
type FeedService struct {
	followRepo repository.FollowRepository
	ticketRepo repository.TicketRepository
	reviewRepo repository.ReviewRepository
}

// NewFeedService returns a new FeedService.
func NewFeedService(followRepo repository.FollowRepository, ticketRepo repository.TicketRepository, reviewRepo repository.ReviewRepository) *FeedService {
	return &FeedService{
		followRepo: followRepo,
		ticketRepo: ticketRepo,
		reviewRepo: reviewRepo,
	}
}

// BuildFeed returns the viewer's merged feed, newest first. The author set
// is the viewer alone for FeedScopeSelf, or the viewer plus everyone they
// follow for FeedScopeSelfAndFollowed. Items by any other author never
// appear. Equal timestamps keep tickets before reviews (stable sort over
// the union order).
func (s *FeedService) BuildFeed(ctx context.Context, viewerID uint, scope FeedScope) ([]FeedEntry, error) {
	start := time.Now()

	// Served from cache when a recent build exists. Content writes drop the
	// author's own feed keys; followers' copies age out within FeedTTL.
	var entries []FeedEntry
	err := cache.CacheAside(ctx, cache.FeedKey(viewerID, string(scope)), &entries, cache.FeedTTL, func() error {
		built, buildErr := s.buildFeed(ctx, viewerID, scope)
		if buildErr != nil {
			return buildErr
		}
		entries = built
		return nil
	})
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []FeedEntry{}
	}

	observability.ObserveFeedBuild(string(scope), len(entries), start)
	return entries, nil
}

func (s *FeedService) buildFeed(ctx context.Context, viewerID uint, scope FeedScope) ([]FeedEntry, error) {
	authorIDs := []uint{viewerID}
	if scope == FeedScopeSelfAndFollowed {
		followed, err := s.followRepo.FollowedIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		authorIDs = append(authorIDs, followed...)
	}

	tickets, err := s.ticketRepo.ListByUserIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}
	reviews, err := s.reviewRepo.ListByUserIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]FeedEntry, 0, len(tickets)+len(reviews))
	for i := range tickets {
		entries = append(entries, FeedEntry{
			Kind:      models.ContentKindTicket,
			Data:      tickets[i],
			CreatedAt: tickets[i].CreatedAt,
		})
	}
	for i := range reviews {
		entries = append(entries, FeedEntry{
			Kind:      models.ContentKindReview,
			Data:      reviews[i],
			CreatedAt: reviews[i].CreatedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})

	return entries, nil
}

// OpenTickets returns tickets in the viewer's scope that have no review
// yet, newest first.
func (s *FeedService) OpenTickets(ctx context.Context, viewerID uint) ([]models.Ticket, error) {
	followed, err := s.followRepo.FollowedIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	authorIDs := append([]uint{viewerID}, followed...)
	return s.ticketRepo.ListOpenByUserIDs(ctx, authorIDs)
}
