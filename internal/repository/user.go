package repository

import (
	"context"
	"fmt"

	"github.com/topevent/topevent-go/internal/api/request"
	"github.com/topevent/topevent-go/internal/api/response"
	"github.com/topevent/topevent-go/internal/domain"
)

type UserRepository struct {
	client HTTPClient
}

func NewUserRepository(client HTTPClient) *UserRepository {
	return &UserRepository{
		client: client,
	}
}

func (r *UserRepository) Register(ctx context.Context, input request.RegisterInput) (domain.AuthSession, error) {
	if err := input.Validate(); err != nil {
		return domain.AuthSession{}, err
	}

	raw, err := r.client.Post(ctx, "/user/create", input)
	if err != nil {
		return domain.AuthSession{}, fmt.Errorf("r.client.Post -> %w", err)
	}

	sess, err := response.DecodeAuth(raw)
	if err != nil {
		return domain.AuthSession{}, fmt.Errorf("response.DecodeAuth -> %w", err)
	}

	return sess, nil
}

func (r *UserRepository) Login(ctx context.Context, input request.LoginInput) (domain.AuthSession, error) {
	if err := input.Validate(); err != nil {
		return domain.AuthSession{}, err
	}

	raw, err := r.client.Post(ctx, "/user/login", input)
	if err != nil {
		return domain.AuthSession{}, fmt.Errorf("r.client.Post -> %w", err)
	}

	sess, err := response.DecodeAuth(raw)
	if err != nil {
		return domain.AuthSession{}, fmt.Errorf("response.DecodeAuth -> %w", err)
	}

	return sess, nil
}

func (r *UserRepository) Update(ctx context.Context, userID int, input request.UserUpdateInput) (domain.AuthUser, error) {
	if err := input.Validate(); err != nil {
		return domain.AuthUser{}, err
	}

	raw, err := r.client.Patch(ctx, fmt.Sprintf("/user/%d", userID), input)
	if err != nil {
		return domain.AuthUser{}, fmt.Errorf("r.client.Patch -> %w", err)
	}

	user, err := response.DecodeUpdatedUser(raw)
	if err != nil {
		return domain.AuthUser{}, fmt.Errorf("response.DecodeUpdatedUser -> %w", err)
	}

	return user, nil
}
