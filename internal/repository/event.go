// Package repository binds each remote resource to typed operations:
// request building and validation on the way out, response parsing and
// validation on the way in. It is the only layer that knows the REST paths.
package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/topevent/topevent-go/internal/api"
	"github.com/topevent/topevent-go/internal/api/request"
	"github.com/topevent/topevent-go/internal/api/response"
	"github.com/topevent/topevent-go/internal/domain"
)

// HTTPClient is the transport surface the repositories consume.
type HTTPClient interface {
	Get(ctx context.Context, path string) (json.RawMessage, error)
	Post(ctx context.Context, path string, body any) (json.RawMessage, error)
	Put(ctx context.Context, path string, body any) (json.RawMessage, error)
	Patch(ctx context.Context, path string, body any) (json.RawMessage, error)
	Delete(ctx context.Context, path string) (json.RawMessage, error)
}

var _ HTTPClient = (*api.Client)(nil)

type EventRepository struct {
	client HTTPClient
}

func NewEventRepository(client HTTPClient) *EventRepository {
	return &EventRepository{
		client: client,
	}
}

func (r *EventRepository) List(ctx context.Context, filters EventFilters) ([]domain.Event, error) {
	path := "/events/all"
	if q := filters.Encode(); q != "" {
		path += "?" + q
	}

	raw, err := r.client.Get(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("r.client.Get -> %w", err)
	}

	events, err := response.DecodeEvents(raw)
	if err != nil {
		return nil, fmt.Errorf("response.DecodeEvents -> %w", err)
	}

	return events, nil
}

func (r *EventRepository) Top(ctx context.Context) ([]domain.Event, error) {
	raw, err := r.client.Get(ctx, "/events/top")
	if err != nil {
		return nil, fmt.Errorf("r.client.Get -> %w", err)
	}

	events, err := response.DecodeEvents(raw)
	if err != nil {
		return nil, fmt.Errorf("response.DecodeEvents -> %w", err)
	}

	return events, nil
}

func (r *EventRepository) AdminList(ctx context.Context) ([]domain.Event, error) {
	raw, err := r.client.Get(ctx, "/admins/events/all")
	if err != nil {
		return nil, fmt.Errorf("r.client.Get -> %w", err)
	}

	events, err := response.DecodeEvents(raw)
	if err != nil {
		return nil, fmt.Errorf("response.DecodeEvents -> %w", err)
	}

	return events, nil
}

func (r *EventRepository) Get(ctx context.Context, eventID int) (domain.Event, error) {
	raw, err := r.client.Get(ctx, fmt.Sprintf("/event/%d", eventID))
	if err != nil {
		if api.IsNotFound(err) {
			return domain.Event{}, ErrNotFound
		}

		return domain.Event{}, fmt.Errorf("r.client.Get -> %w", err)
	}

	event, err := response.DecodeEvent(raw)
	if err != nil {
		return domain.Event{}, fmt.Errorf("response.DecodeEvent -> %w", err)
	}

	return event, nil
}

// Create validates the input before any network call and returns the
// created event as the backend recorded it.
func (r *EventRepository) Create(ctx context.Context, input request.EventInput) (domain.Event, error) {
	body, err := input.Body()
	if err != nil {
		return domain.Event{}, err
	}

	raw, err := r.client.Post(ctx, "/admin/event", body)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.client.Post -> %w", err)
	}

	event, err := response.DecodeEvent(raw)
	if err != nil {
		return domain.Event{}, fmt.Errorf("response.DecodeEvent -> %w", err)
	}

	return event, nil
}

// Update applies the same validation rules as Create.
func (r *EventRepository) Update(ctx context.Context, eventID int, input request.EventInput) (domain.Event, error) {
	body, err := input.Body()
	if err != nil {
		return domain.Event{}, err
	}

	raw, err := r.client.Put(ctx, fmt.Sprintf("/admin/event/%d", eventID), body)
	if err != nil {
		return domain.Event{}, fmt.Errorf("r.client.Put -> %w", err)
	}

	event, err := response.DecodeEvent(raw)
	if err != nil {
		return domain.Event{}, fmt.Errorf("response.DecodeEvent -> %w", err)
	}

	return event, nil
}

func (r *EventRepository) Delete(ctx context.Context, eventID int) error {
	if _, err := r.client.Delete(ctx, fmt.Sprintf("/admin/event/%d", eventID)); err != nil {
		if api.IsNotFound(err) {
			return ErrNotFound
		}

		return fmt.Errorf("r.client.Delete -> %w", err)
	}

	return nil
}

// Roster returns the registrations for an event together with each
// registrant's secure projection. Admin only.
func (r *EventRepository) Roster(ctx context.Context, eventID int) ([]domain.SubscriptionWithUser, error) {
	raw, err := r.client.Get(ctx, fmt.Sprintf("/admin/event/%d/subscriptions", eventID))
	if err != nil {
		return nil, fmt.Errorf("r.client.Get -> %w", err)
	}

	roster, err := response.DecodeRoster(raw)
	if err != nil {
		return nil, fmt.Errorf("response.DecodeRoster -> %w", err)
	}

	return roster, nil
}
