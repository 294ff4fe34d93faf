package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajling/tokenward/internal/claims"
	"github.com/ajling/tokenward/internal/logger"
	"github.com/ajling/tokenward/internal/model"
)

// Session is the token lifecycle authority. It orchestrates issuance
// (lookup → build → register → sign), renewal, revocation, and the
// liveness predicate consumed by the host's request-authentication path.
type Session struct {
	lookup   model.IdentityLookup
	builder  *claims.Builder
	registry model.TokenRegistry
	signer   model.TokenSigner
	issuer   string
	logger   *logger.Logger
}

func NewSession(
	lookup model.IdentityLookup,
	builder *claims.Builder,
	registry model.TokenRegistry,
	signer model.TokenSigner,
	issuer string,
	logger *logger.Logger,
) *Session {
	return &Session{
		lookup:   lookup,
		builder:  builder,
		registry: registry,
		signer:   signer,
		issuer:   issuer,
		logger:   logger,
	}
}

// Issue mints, registers, and signs a new token for the identity resolved
// by the upstream lookup. The registry is never mutated before the lookup
// succeeds. Returns model.ErrUnauthorized when no such identity exists;
// lookup transport failures propagate as distinct wrapped errors.
func (s *Session) Issue(ctx context.Context, provider string, identity model.Identity) (string, error) {
	user, err := s.lookup.Lookup(ctx, provider, identity)
	if errors.Is(err, model.ErrUserNotFound) {
		s.logger.Info("Session: identity not found",
			"provider", provider)
		return "", model.ErrUnauthorized
	}
	if err != nil {
		s.logger.Error("Session: identity lookup failed",
			"provider", provider,
			"error", err.Error())
		return "", fmt.Errorf("identity lookup: %w", err)
	}

	c, err := s.builder.Build(provider, identity, user)
	if errors.Is(err, model.ErrInvalidUserRecord) {
		return "", model.ErrUnauthorized
	}
	if err != nil {
		return "", fmt.Errorf("build claims: %w", err)
	}

	if err := s.registry.Add(ctx, c); err != nil {
		s.logger.Error("Session: failed to register token",
			"jti", c.ID,
			"provider", provider,
			"error", err.Error())
		return "", fmt.Errorf("register token: %w", err)
	}

	signed, err := s.signer.Sign(c)
	if err != nil {
		// Do not leave an entry for a token that was never handed out.
		if rmErr := s.registry.Remove(ctx, c.ID); rmErr != nil {
			s.logger.Error("Session: failed to unregister unsigned token",
				"jti", c.ID,
				"error", rmErr.Error())
		}
		return "", fmt.Errorf("sign token: %w", err)
	}

	s.logger.Debug("Session: token issued",
		"jti", c.ID,
		"provider", provider,
		"subject", c.Subject.ID,
		"expires_at", c.ExpiresAt)

	return signed, nil
}

// Renew issues a fresh token for the identity embedded in current, then
// removes the superseded claim set. Issue-then-revoke ordering: a caller
// is never left without a live token mid-renewal.
func (s *Session) Renew(ctx context.Context, current model.TokenClaims) (string, error) {
	signed, err := s.Issue(ctx, current.Provider.Name, current.Provider.Identity)
	if err != nil {
		return "", err
	}

	if err := s.registry.Remove(ctx, current.ID); err != nil {
		// The new token is already live; the stale entry is left for
		// the sweeper.
		s.logger.Error("Session: failed to remove superseded token",
			"jti", current.ID,
			"error", err.Error())
	}

	s.logger.Debug("Session: token renewed",
		"previous_jti", current.ID,
		"provider", current.Provider.Name)

	return signed, nil
}

// Revoke removes the token with the given id from the registry. Revoking
// an unknown id is a no-op.
func (s *Session) Revoke(ctx context.Context, id string) error {
	if err := s.registry.Remove(ctx, id); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	s.logger.Debug("Session: token revoked", "jti", id)
	return nil
}

// IsLive reports whether a verified, decoded claim set still represents a
// live session: issuer match, expiry in the future, and a live registry
// entry. "Not live" is an ordinary outcome, never an error.
func (s *Session) IsLive(ctx context.Context, c model.TokenClaims) bool {
	if c.Issuer != s.issuer {
		return false
	}
	if !c.ExpiresAt.After(time.Now()) {
		return false
	}
	if _, err := s.registry.FindLive(ctx, c.ID); err != nil {
		return false
	}
	return true
}
