package claims

import (
	"time"

	"github.com/google/uuid"

	"github.com/ajling/tokenward/internal/model"
)

// Builder assembles claim sets for new tokens from caller-supplied identity
// data and deployment configuration. It holds no mutable state and never
// touches the registry.
type Builder struct {
	issuer string
	ttl    time.Duration
	scope  []string
}

// NewBuilder creates a Builder for the given issuer, token lifetime, and
// default scope. An empty scope falls back to ["user"].
func NewBuilder(issuer string, ttl time.Duration, scope []string) *Builder {
	if len(scope) == 0 {
		scope = []string{"user"}
	}
	return &Builder{issuer: issuer, ttl: ttl, scope: scope}
}

// Build mints a claim set for the given provider identity and upstream
// user record. Only the allow-listed subject fields are projected into the
// claims; provider-specific extras are dropped. Returns
// model.ErrInvalidUserRecord when the upstream record is absent.
func (b *Builder) Build(provider string, identity model.Identity, user model.User) (model.TokenClaims, error) {
	if user.ID == "" {
		return model.TokenClaims{}, model.ErrInvalidUserRecord
	}

	now := time.Now()
	return model.TokenClaims{
		ID:        uuid.NewString(),
		Issuer:    b.issuer,
		IssuedAt:  now,
		ExpiresAt: now.Add(b.ttl),
		Scope:     append([]string(nil), b.scope...),
		Provider: model.ProviderIdentity{
			Name:     provider,
			Identity: identity,
		},
		Subject: model.Subject{
			ID:        user.ID,
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
			Scope:     user.Scope,
			Group:     user.Group,
		},
	}, nil
}
