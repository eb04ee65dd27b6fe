package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topevent/topevent-go/internal/domain"
	"github.com/topevent/topevent-go/internal/query"
	"github.com/topevent/topevent-go/internal/repository"
)

type fakeSubscriptionRepo struct {
	forEventCalls int
	mineCalls     int

	subs        []domain.Subscription
	forEventErr error
	cancelErr   error
}

func (f *fakeSubscriptionRepo) Create(ctx context.Context, eventID int) (domain.Subscription, error) {
	return domain.Subscription{ID: 3, UserID: 12, EventID: eventID}, nil
}

func (f *fakeSubscriptionRepo) ForEvent(ctx context.Context, eventID int) ([]domain.Subscription, error) {
	f.forEventCalls++
	if f.forEventErr != nil {
		return nil, f.forEventErr
	}

	return f.subs, nil
}

func (f *fakeSubscriptionRepo) Mine(ctx context.Context) ([]domain.Subscription, error) {
	f.mineCalls++
	return f.subs, nil
}

func (f *fakeSubscriptionRepo) Cancel(ctx context.Context, subscriptionID int) error {
	return f.cancelErr
}

type fakeSession struct {
	user *domain.AuthUser
}

func (f *fakeSession) User() *domain.AuthUser {
	return f.user
}

func loggedIn() *fakeSession {
	return &fakeSession{user: &domain.AuthUser{ID: 12, Mail: "ada@example.com", Role: domain.RoleUser}}
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	t.Run("requires a session", func(t *testing.T) {
		svc := NewSubscriptionService(&fakeSubscriptionRepo{}, query.NewCache(), &fakeSession{})

		_, err := svc.Subscribe(context.Background(), 7)
		require.ErrorIs(t, err, ErrNotAuthenticated)
	})

	t.Run("invalidates the per-event lookup and the user's list", func(t *testing.T) {
		repo := &fakeSubscriptionRepo{}
		cache := query.NewCache()
		svc := NewSubscriptionService(repo, cache, loggedIn())
		ctx := context.Background()

		_, err := svc.UserSubscription(ctx, 7)
		require.NoError(t, err)
		_, err = svc.Mine(ctx)
		require.NoError(t, err)

		sub, err := svc.Subscribe(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, 7, sub.EventID)

		repo.subs = []domain.Subscription{{ID: 3, UserID: 12, EventID: 7}}

		got, err := svc.UserSubscription(ctx, 7)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 2, repo.forEventCalls)

		_, err = svc.Mine(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, repo.mineCalls)
	})
}

func TestSubscriptionService_Cancel(t *testing.T) {
	repo := &fakeSubscriptionRepo{subs: []domain.Subscription{{ID: 3, UserID: 12, EventID: 7}}}
	cache := query.NewCache()
	svc := NewSubscriptionService(repo, cache, loggedIn())
	ctx := context.Background()

	_, err := svc.Mine(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, 3))

	_, err = svc.Mine(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.mineCalls)
}

func TestSubscriptionService_UserSubscription(t *testing.T) {
	ctx := context.Background()

	t.Run("finds the current user's registration", func(t *testing.T) {
		repo := &fakeSubscriptionRepo{subs: []domain.Subscription{
			{ID: 2, UserID: 99, EventID: 7},
			{ID: 3, UserID: 12, EventID: 7},
		}}
		svc := NewSubscriptionService(repo, query.NewCache(), loggedIn())

		sub, err := svc.UserSubscription(ctx, 7)
		require.NoError(t, err)
		require.NotNil(t, sub)
		assert.Equal(t, 3, sub.ID)
	})

	t.Run("other users' registrations do not count", func(t *testing.T) {
		repo := &fakeSubscriptionRepo{subs: []domain.Subscription{{ID: 2, UserID: 99, EventID: 7}}}
		svc := NewSubscriptionService(repo, query.NewCache(), loggedIn())

		sub, err := svc.UserSubscription(ctx, 7)
		require.NoError(t, err)
		assert.Nil(t, sub)
	})

	t.Run("a not-found event reads as no subscription", func(t *testing.T) {
		repo := &fakeSubscriptionRepo{forEventErr: repository.ErrNotFound}
		svc := NewSubscriptionService(repo, query.NewCache(), loggedIn())

		sub, err := svc.UserSubscription(ctx, 7)
		require.NoError(t, err)
		assert.Nil(t, sub)
	})

	t.Run("the answer is cached per event and user", func(t *testing.T) {
		repo := &fakeSubscriptionRepo{}
		svc := NewSubscriptionService(repo, query.NewCache(), loggedIn())

		_, err := svc.UserSubscription(ctx, 7)
		require.NoError(t, err)
		_, err = svc.UserSubscription(ctx, 7)
		require.NoError(t, err)

		assert.Equal(t, 1, repo.forEventCalls)
	})
}
