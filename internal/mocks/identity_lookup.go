package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/ajling/tokenward/internal/model"
)

// IdentityLookup is a mock implementation of model.IdentityLookup.
type IdentityLookup struct {
	mock.Mock
}

func (m *IdentityLookup) Lookup(ctx context.Context, provider string, identity model.Identity) (model.User, error) {
	args := m.Called(ctx, provider, identity)
	return args.Get(0).(model.User), args.Error(1)
}
