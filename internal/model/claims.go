package model

import "time"

// Identity is the opaque key data presented to an identity provider,
// e.g. a user id for a local provider or an email for an OAuth one.
type Identity struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
}

// ProviderIdentity records which provider authenticated the subject and the
// key data that was used, so a renewal can repeat the same lookup.
type ProviderIdentity struct {
	Name string `json:"name"`
	Identity
}

// Subject is the projection of an upstream user record that is allowed to
// travel inside a token. Anything not listed here never leaves the lookup
// boundary.
type Subject struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
	Email     string `json:"email,omitempty"`
	Scope     string `json:"scope,omitempty"`
	Group     string `json:"group,omitempty"`
}

// TokenClaims is the claim set of one issued token. A claim set is
// immutable once minted; renewal mints a new one with a new ID.
type TokenClaims struct {
	ID        string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Scope     []string
	Provider  ProviderIdentity
	Subject   Subject
}
