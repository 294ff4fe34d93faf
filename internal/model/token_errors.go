package model

import "errors"

var (
	// ErrUnauthorized means the identity lookup found no matching user.
	// Retrying with the same input will not change the outcome.
	ErrUnauthorized = errors.New("invalid credential")

	// ErrUserNotFound is returned by IdentityLookup implementations when
	// no user matches the presented identity data.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidUserRecord means the upstream record handed to the claims
	// builder is absent or unusable.
	ErrInvalidUserRecord = errors.New("invalid upstream user record")

	// ErrDuplicateTokenID means a jti collision on registration. This is
	// an invariant violation, not an expected runtime condition.
	ErrDuplicateTokenID = errors.New("duplicate token id")

	// ErrTokenNotFound means the registry holds no live entry for the id.
	ErrTokenNotFound = errors.New("token not found")
)
