package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ajling/tokenward/internal/claims"
	"github.com/ajling/tokenward/internal/lookup"
	"github.com/ajling/tokenward/internal/mocks"
	"github.com/ajling/tokenward/internal/model"
	"github.com/ajling/tokenward/internal/registry"
	"github.com/ajling/tokenward/internal/testutil"
	"github.com/ajling/tokenward/internal/token"
)

const testIssuer = "BOILERPLATE"

func newBuilder() *claims.Builder {
	return claims.NewBuilder(testIssuer, 15*time.Minute, []string{"user"})
}

// newLiveSession wires a session authority from real components and a
// static directory holding one local user.
func newLiveSession(t *testing.T) (*Session, *registry.InMemory, model.TokenSigner) {
	t.Helper()

	directory := lookup.NewStatic(map[string][]model.User{
		"local": {
			{ID: "u1", Email: "a@b.com", Group: "engineering"},
		},
	})
	reg := registry.New()
	signer := token.NewJWT("secret")
	s := NewSession(directory, newBuilder(), reg, signer, testIssuer, testutil.MakeNoopLogger())
	return s, reg, signer
}

func TestSession_Issue(t *testing.T) {
	ctx := context.Background()
	s, reg, signer := newLiveSession(t)

	signed, err := s.Issue(ctx, "local", model.Identity{UserID: "u1"})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	decoded, err := signer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "u1", decoded.Subject.ID)
	assert.Equal(t, "a@b.com", decoded.Subject.Email)
	assert.Equal(t, []string{"user"}, decoded.Scope)
	assert.Equal(t, "local", decoded.Provider.Name)
	assert.Equal(t, testIssuer, decoded.Issuer)

	assert.True(t, s.IsLive(ctx, decoded))
	assert.Equal(t, 1, reg.Len())
}

func TestSession_Issue_UnknownIdentity(t *testing.T) {
	ctx := context.Background()
	s, reg, _ := newLiveSession(t)

	_, err := s.Issue(ctx, "local", model.Identity{UserID: "nobody"})
	require.ErrorIs(t, err, model.ErrUnauthorized)
	assert.Equal(t, 0, reg.Len())
}

func TestSession_Issue_LookupFailure_Distinct(t *testing.T) {
	ctx := context.Background()
	identity := model.Identity{UserID: "u1"}

	lk := &mocks.IdentityLookup{}
	reg := &mocks.TokenRegistry{}
	signer := &mocks.TokenSigner{}

	lk.On("Lookup", ctx, "local", identity).
		Return(model.User{}, errors.New("upstream timeout")).Once()

	s := NewSession(lk, newBuilder(), reg, signer, testIssuer, testutil.MakeNoopLogger())

	_, err := s.Issue(ctx, "local", identity)
	require.Error(t, err)
	// "could not determine" is not the same outcome as "no such identity".
	require.NotErrorIs(t, err, model.ErrUnauthorized)

	reg.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestSession_Issue_RegistryRejection(t *testing.T) {
	ctx := context.Background()
	identity := model.Identity{UserID: "u1"}

	lk := &mocks.IdentityLookup{}
	reg := &mocks.TokenRegistry{}
	signer := &mocks.TokenSigner{}

	lk.On("Lookup", ctx, "local", identity).
		Return(model.User{ID: "u1"}, nil).Once()
	reg.On("Add", ctx, mock.AnythingOfType("model.TokenClaims")).
		Return(model.ErrDuplicateTokenID).Once()

	s := NewSession(lk, newBuilder(), reg, signer, testIssuer, testutil.MakeNoopLogger())

	_, err := s.Issue(ctx, "local", identity)
	require.ErrorIs(t, err, model.ErrDuplicateTokenID)

	signer.AssertNotCalled(t, "Sign", mock.Anything)
}

func TestSession_Issue_SignFailure_Unregisters(t *testing.T) {
	ctx := context.Background()
	identity := model.Identity{UserID: "u1"}

	lk := &mocks.IdentityLookup{}
	reg := &mocks.TokenRegistry{}
	signer := &mocks.TokenSigner{}

	var registeredID string

	lk.On("Lookup", ctx, "local", identity).
		Return(model.User{ID: "u1"}, nil).Once()
	reg.On("Add", ctx, mock.AnythingOfType("model.TokenClaims")).
		Run(func(args mock.Arguments) {
			registeredID = args.Get(1).(model.TokenClaims).ID
		}).
		Return(nil).Once()
	signer.On("Sign", mock.AnythingOfType("model.TokenClaims")).
		Return("", errors.New("keystore unavailable")).Once()
	reg.On("Remove", ctx, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			assert.Equal(t, registeredID, args.String(1))
		}).
		Return(nil).Once()

	s := NewSession(lk, newBuilder(), reg, signer, testIssuer, testutil.MakeNoopLogger())

	_, err := s.Issue(ctx, "local", identity)
	require.Error(t, err)
	reg.AssertExpectations(t)
}

func TestSession_Renew_IssueBeforeRevoke(t *testing.T) {
	ctx := context.Background()

	current := model.TokenClaims{
		ID:     "old-jti",
		Issuer: testIssuer,
		Provider: model.ProviderIdentity{
			Name:     "local",
			Identity: model.Identity{UserID: "u1"},
		},
		ExpiresAt: time.Now().Add(time.Minute),
	}

	lk := &mocks.IdentityLookup{}
	reg := &mocks.TokenRegistry{}
	signer := &mocks.TokenSigner{}

	newRegistered := false

	lk.On("Lookup", ctx, "local", current.Provider.Identity).
		Return(model.User{ID: "u1"}, nil).Once()
	reg.On("Add", ctx, mock.AnythingOfType("model.TokenClaims")).
		Run(func(mock.Arguments) { newRegistered = true }).
		Return(nil).Once()
	signer.On("Sign", mock.AnythingOfType("model.TokenClaims")).
		Return("signed-new", nil).Once()
	reg.On("Remove", ctx, "old-jti").
		Run(func(mock.Arguments) {
			assert.True(t, newRegistered, "old token removed before new one was registered")
		}).
		Return(nil).Once()

	s := NewSession(lk, newBuilder(), reg, signer, testIssuer, testutil.MakeNoopLogger())

	signed, err := s.Renew(ctx, current)
	require.NoError(t, err)
	assert.Equal(t, "signed-new", signed)
	reg.AssertExpectations(t)
}

func TestSession_Renew_SupersededTokenRevoked(t *testing.T) {
	ctx := context.Background()
	s, reg, signer := newLiveSession(t)

	signedA, err := s.Issue(ctx, "local", model.Identity{UserID: "u1"})
	require.NoError(t, err)
	a, err := signer.Verify(signedA)
	require.NoError(t, err)

	signedB, err := s.Renew(ctx, a)
	require.NoError(t, err)
	b, err := signer.Verify(signedB)
	require.NoError(t, err)
	require.NotEqual(t, a.ID, b.ID)

	assert.False(t, s.IsLive(ctx, a))
	assert.True(t, s.IsLive(ctx, b))

	// Revoking the already-superseded token is a no-op and must not
	// affect the replacement.
	require.NoError(t, s.Revoke(ctx, a.ID))
	assert.True(t, s.IsLive(ctx, b))
	assert.Equal(t, 1, reg.Len())
}

func TestSession_Renew_UnknownIdentity(t *testing.T) {
	ctx := context.Background()
	s, reg, _ := newLiveSession(t)

	current := model.TokenClaims{
		ID:     "old-jti",
		Issuer: testIssuer,
		Provider: model.ProviderIdentity{
			Name:     "local",
			Identity: model.Identity{UserID: "deleted-user"},
		},
	}

	_, err := s.Renew(ctx, current)
	require.ErrorIs(t, err, model.ErrUnauthorized)
	assert.Equal(t, 0, reg.Len())
}

func TestSession_Revoke(t *testing.T) {
	ctx := context.Background()
	s, _, signer := newLiveSession(t)

	signed, err := s.Issue(ctx, "local", model.Identity{UserID: "u1"})
	require.NoError(t, err)
	decoded, err := signer.Verify(signed)
	require.NoError(t, err)
	require.True(t, s.IsLive(ctx, decoded))

	require.NoError(t, s.Revoke(ctx, decoded.ID))
	assert.False(t, s.IsLive(ctx, decoded))

	// Idempotent: repeated and unknown revocations succeed.
	require.NoError(t, s.Revoke(ctx, decoded.ID))
	require.NoError(t, s.Revoke(ctx, "never-issued"))
}

func TestSession_IsLive(t *testing.T) {
	ctx := context.Background()
	s, reg, _ := newLiveSession(t)

	live := model.TokenClaims{
		ID:        "live-jti",
		Issuer:    testIssuer,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, reg.Add(ctx, live))

	tests := []struct {
		name   string
		claims model.TokenClaims
		want   bool
	}{
		{
			name:   "registered and fresh",
			claims: live,
			want:   true,
		},
		{
			name: "issuer mismatch",
			claims: model.TokenClaims{
				ID:        "live-jti",
				Issuer:    "SOMEONE_ELSE",
				ExpiresAt: time.Now().Add(time.Hour),
			},
			want: false,
		},
		{
			name: "expired claims",
			claims: model.TokenClaims{
				ID:        "live-jti",
				Issuer:    testIssuer,
				ExpiresAt: time.Now().Add(-time.Second),
			},
			want: false,
		},
		{
			name: "not registered",
			claims: model.TokenClaims{
				ID:        "unknown-jti",
				Issuer:    testIssuer,
				ExpiresAt: time.Now().Add(time.Hour),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.IsLive(ctx, tt.claims))
		})
	}
}

func TestSession_IsLive_ExpiredEntryStillInRegistry(t *testing.T) {
	ctx := context.Background()
	s, reg, _ := newLiveSession(t)

	// Simulates clock skew: the entry sits unswept in the registry with an
	// expiry already in the past.
	skewed := model.TokenClaims{
		ID:        "skewed-jti",
		Issuer:    testIssuer,
		IssuedAt:  time.Now().Add(-time.Minute),
		ExpiresAt: time.Now().Add(-time.Second),
	}
	require.NoError(t, reg.Add(ctx, skewed))
	require.Equal(t, 1, reg.Len())

	assert.False(t, s.IsLive(ctx, skewed))
}

func TestSession_RenewalContinuity(t *testing.T) {
	ctx := context.Background()
	s, reg, signer := newLiveSession(t)

	signed, err := s.Issue(ctx, "local", model.Identity{UserID: "u1"})
	require.NoError(t, err)
	current, err := signer.Verify(signed)
	require.NoError(t, err)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		// The old entry is only removed after the new one is registered,
		// so the registry can never be observed empty mid-renewal.
		for {
			select {
			case <-stop:
				return
			default:
				assert.GreaterOrEqual(t, reg.Len(), 1)
			}
		}
	}()

	for i := 0; i < 100; i++ {
		renewed, err := s.Renew(ctx, current)
		require.NoError(t, err)
		current, err = signer.Verify(renewed)
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()

	assert.Equal(t, 1, reg.Len())
	assert.True(t, s.IsLive(ctx, current))
}
