package repository

import (
	"context"
	"fmt"

	"github.com/topevent/topevent-go/internal/api"
	"github.com/topevent/topevent-go/internal/api/request"
	"github.com/topevent/topevent-go/internal/api/response"
	"github.com/topevent/topevent-go/internal/domain"
)

type SubscriptionRepository struct {
	client HTTPClient
}

func NewSubscriptionRepository(client HTTPClient) *SubscriptionRepository {
	return &SubscriptionRepository{
		client: client,
	}
}

// Create registers the authenticated user for an event; the user is
// implicit from the bearer token.
func (r *SubscriptionRepository) Create(ctx context.Context, eventID int) (domain.Subscription, error) {
	input := request.CreateSubscriptionInput{EventID: eventID}
	if err := input.Validate(); err != nil {
		return domain.Subscription{}, err
	}

	raw, err := r.client.Post(ctx, "/user/subscription", input)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("r.client.Post -> %w", err)
	}

	sub, err := response.DecodeSubscription(raw)
	if err != nil {
		return domain.Subscription{}, fmt.Errorf("response.DecodeSubscription -> %w", err)
	}

	return sub, nil
}

// ForEvent returns every subscription recorded for an event. A backend 404
// becomes ErrNotFound; callers interpreting absence as "nobody subscribed"
// handle that themselves.
func (r *SubscriptionRepository) ForEvent(ctx context.Context, eventID int) ([]domain.Subscription, error) {
	raw, err := r.client.Get(ctx, fmt.Sprintf("/user/subscription/%d", eventID))
	if err != nil {
		if api.IsNotFound(err) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("r.client.Get -> %w", err)
	}

	subs, err := response.DecodeSubscriptions(raw)
	if err != nil {
		return nil, fmt.Errorf("response.DecodeSubscriptions -> %w", err)
	}

	return subs, nil
}

// Mine returns the authenticated user's subscriptions.
func (r *SubscriptionRepository) Mine(ctx context.Context) ([]domain.Subscription, error) {
	raw, err := r.client.Get(ctx, "/user/subscriptions")
	if err != nil {
		return nil, fmt.Errorf("r.client.Get -> %w", err)
	}

	subs, err := response.DecodeSubscriptions(raw)
	if err != nil {
		return nil, fmt.Errorf("response.DecodeSubscriptions -> %w", err)
	}

	return subs, nil
}

func (r *SubscriptionRepository) Cancel(ctx context.Context, subscriptionID int) error {
	if _, err := r.client.Delete(ctx, fmt.Sprintf("/user/subscription/%d", subscriptionID)); err != nil {
		if api.IsNotFound(err) {
			return ErrNotFound
		}

		return fmt.Errorf("r.client.Delete -> %w", err)
	}

	return nil
}
