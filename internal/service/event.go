// Package service composes the remote repositories with the query cache:
// reads resolve through cache keys, mutations declare which keys go stale
// on success so dependent reads refetch.
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/topevent/topevent-go/internal/api/request"
	"github.com/topevent/topevent-go/internal/domain"
	"github.com/topevent/topevent-go/internal/query"
	"github.com/topevent/topevent-go/internal/repository"
)

type EventRepositoryAPI interface {
	List(ctx context.Context, filters repository.EventFilters) ([]domain.Event, error)
	Top(ctx context.Context) ([]domain.Event, error)
	AdminList(ctx context.Context) ([]domain.Event, error)
	Get(ctx context.Context, eventID int) (domain.Event, error)
	Create(ctx context.Context, input request.EventInput) (domain.Event, error)
	Update(ctx context.Context, eventID int, input request.EventInput) (domain.Event, error)
	Delete(ctx context.Context, eventID int) error
	Roster(ctx context.Context, eventID int) ([]domain.SubscriptionWithUser, error)
}

type EventService struct {
	repo  EventRepositoryAPI
	cache *query.Cache
}

func NewEventService(repo EventRepositoryAPI, cache *query.Cache) *EventService {
	return &EventService{
		repo:  repo,
		cache: cache,
	}
}

func (s *EventService) List(ctx context.Context, filters repository.EventFilters) ([]domain.Event, error) {
	return query.Resolve(ctx, s.cache, query.EventsList(filters.Encode()),
		func(ctx context.Context) ([]domain.Event, error) {
			return s.repo.List(ctx, filters)
		})
}

// CachedList returns the last listing for filters, fresh or stale, for
// callers that keep previous results visible while a refetch is pending.
func (s *EventService) CachedList(filters repository.EventFilters) ([]domain.Event, bool) {
	return query.Cached[[]domain.Event](s.cache, query.EventsList(filters.Encode()))
}

func (s *EventService) Top(ctx context.Context) ([]domain.Event, error) {
	return query.Resolve(ctx, s.cache, query.EventsTop(), s.repo.Top)
}

func (s *EventService) AdminList(ctx context.Context) ([]domain.Event, error) {
	return query.Resolve(ctx, s.cache, query.EventsAdminList(), s.repo.AdminList)
}

func (s *EventService) Get(ctx context.Context, eventID int) (domain.Event, error) {
	return query.Resolve(ctx, s.cache, query.EventDetail(eventID),
		func(ctx context.Context) (domain.Event, error) {
			return s.repo.Get(ctx, eventID)
		})
}

func (s *EventService) Roster(ctx context.Context, eventID int) ([]domain.SubscriptionWithUser, error) {
	return query.Resolve(ctx, s.cache, query.EventRoster(eventID),
		func(ctx context.Context) ([]domain.SubscriptionWithUser, error) {
			return s.repo.Roster(ctx, eventID)
		})
}

// Create creates an event and invalidates the listings plus the new
// event's detail key, so the next read of any of them refetches.
func (s *EventService) Create(ctx context.Context, input request.EventInput) (domain.Event, error) {
	event, err := s.repo.Create(ctx, input)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	s.cache.InvalidatePrefix(query.PrefixEventsList)
	s.cache.InvalidatePrefix(query.PrefixEventsAdmin)
	s.cache.Invalidate(query.EventDetail(event.ID))

	zap.L().Info("event created", zap.Int("id", event.ID), zap.String("name", event.Name))

	return event, nil
}

func (s *EventService) Update(ctx context.Context, eventID int, input request.EventInput) (domain.Event, error) {
	event, err := s.repo.Update(ctx, eventID, input)
	if err != nil {
		return domain.Event{}, fmt.Errorf("s.repo.Update -> %w", err)
	}

	s.cache.InvalidatePrefix(query.PrefixEventsList)
	s.cache.InvalidatePrefix(query.PrefixEventsAdmin)
	s.cache.Invalidate(query.EventDetail(eventID))

	return event, nil
}

// Delete invalidates listings and the detail key defensively rather than
// relying on the next natural refetch.
func (s *EventService) Delete(ctx context.Context, eventID int) error {
	if err := s.repo.Delete(ctx, eventID); err != nil {
		return fmt.Errorf("s.repo.Delete -> %w", err)
	}

	s.cache.InvalidatePrefix(query.PrefixEventsList)
	s.cache.InvalidatePrefix(query.PrefixEventsAdmin)
	s.cache.Invalidate(query.EventDetail(eventID))

	zap.L().Info("event deleted", zap.Int("id", eventID))

	return nil
}
