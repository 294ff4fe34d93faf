package mocks

import (
	"github.com/stretchr/testify/mock"

	"github.com/ajling/tokenward/internal/model"
)

// TokenSigner is a mock implementation of model.TokenSigner.
type TokenSigner struct {
	mock.Mock
}

func (m *TokenSigner) Sign(claims model.TokenClaims) (string, error) {
	args := m.Called(claims)
	return args.String(0), args.Error(1)
}

func (m *TokenSigner) Verify(tokenString string) (model.TokenClaims, error) {
	args := m.Called(tokenString)
	return args.Get(0).(model.TokenClaims), args.Error(1)
}
