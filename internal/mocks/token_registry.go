package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ajling/tokenward/internal/model"
)

// TokenRegistry is a mock implementation of model.TokenRegistry.
type TokenRegistry struct {
	mock.Mock
}

func (m *TokenRegistry) Add(ctx context.Context, claims model.TokenClaims) error {
	args := m.Called(ctx, claims)
	return args.Error(0)
}

func (m *TokenRegistry) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TokenRegistry) FindLive(ctx context.Context, id string) (model.TokenClaims, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.TokenClaims), args.Error(1)
}

func (m *TokenRegistry) SweepExpired(ctx context.Context, now time.Time) (int, error) {
	args := m.Called(ctx, now)
	return args.Int(0), args.Error(1)
}
