package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/topevent/topevent-go/internal/domain"
	"github.com/topevent/topevent-go/internal/query"
	"github.com/topevent/topevent-go/internal/repository"
)

var ErrNotAuthenticated = errors.New("not authenticated")

type SubscriptionRepositoryAPI interface {
	Create(ctx context.Context, eventID int) (domain.Subscription, error)
	ForEvent(ctx context.Context, eventID int) ([]domain.Subscription, error)
	Mine(ctx context.Context) ([]domain.Subscription, error)
	Cancel(ctx context.Context, subscriptionID int) error
}

// SessionReader exposes the current user to the service layer without
// coupling it to the full session store.
type SessionReader interface {
	User() *domain.AuthUser
}

type SubscriptionService struct {
	repo    SubscriptionRepositoryAPI
	cache   *query.Cache
	session SessionReader
}

func NewSubscriptionService(repo SubscriptionRepositoryAPI, cache *query.Cache, session SessionReader) *SubscriptionService {
	return &SubscriptionService{
		repo:    repo,
		cache:   cache,
		session: session,
	}
}

// Subscribe registers the current user for an event and invalidates the
// event's detail key, the event listings, the user's subscription list and
// the per-event-per-user lookup.
func (s *SubscriptionService) Subscribe(ctx context.Context, eventID int) (domain.Subscription, error) {
	user := s.session.User()
	if user == nil {
		return domain.Subscription{}, ErrNotAuthenticated
	}

	sub, err := s.repo.Create(ctx, eventID)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.cache.Invalidate(query.EventDetail(sub.EventID))
	s.cache.InvalidatePrefix(query.PrefixEventsList)
	s.cache.Invalidate(query.UserSubscriptions(user.ID))
	s.cache.Invalidate(query.UserEventSubscription(sub.EventID, user.ID))

	zap.L().Info("subscribed to event", zap.Int("eventId", sub.EventID), zap.Int("subscriptionId", sub.ID))

	return sub, nil
}

// Cancel destroys a subscription and invalidates every subscription key
// plus the event listings.
func (s *SubscriptionService) Cancel(ctx context.Context, subscriptionID int) error {
	if err := s.repo.Cancel(ctx, subscriptionID); err != nil {
		return fmt.Errorf("s.repo.Cancel -> %w", err)
	}

	s.cache.InvalidatePrefix(query.PrefixSubscriptions)
	s.cache.InvalidatePrefix(query.PrefixEventsList)

	zap.L().Info("subscription cancelled", zap.Int("subscriptionId", subscriptionID))

	return nil
}

// Mine returns the current user's subscriptions.
func (s *SubscriptionService) Mine(ctx context.Context) ([]domain.Subscription, error) {
	user := s.session.User()
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	return query.Resolve(ctx, s.cache, query.UserSubscriptions(user.ID), s.repo.Mine)
}

// UserSubscription reports whether the current user is registered for an
// event: the event's subscriptions are fetched and filtered by user id
// client-side. No match, and a backend not-found alike, both mean "no
// subscription" (nil), not an error.
func (s *SubscriptionService) UserSubscription(ctx context.Context, eventID int) (*domain.Subscription, error) {
	user := s.session.User()
	if user == nil {
		return nil, ErrNotAuthenticated
	}

	return query.Resolve(ctx, s.cache, query.UserEventSubscription(eventID, user.ID),
		func(ctx context.Context) (*domain.Subscription, error) {
			subs, err := s.repo.ForEvent(ctx, eventID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return nil, nil
				}

				return nil, fmt.Errorf("s.repo.ForEvent -> %w", err)
			}

			for i := range subs {
				if subs[i].UserID == user.ID {
					return &subs[i], nil
				}
			}

			return nil, nil
		})
}
