package model

import "context"

// IdentityLookup resolves provider identity data to an upstream user
// record. Implementations return ErrUserNotFound when no such identity
// exists; any other error means the lookup could not be performed at all.
type IdentityLookup interface {
	Lookup(ctx context.Context, provider string, identity Identity) (User, error)
}

// User is the upstream user record shape at the lookup boundary. Extra
// carries provider-specific fields; the claims builder drops it.
type User struct {
	ID        string         `json:"_id"`
	FirstName string         `json:"firstname,omitempty"`
	LastName  string         `json:"lastname,omitempty"`
	Email     string         `json:"email,omitempty"`
	Scope     string         `json:"scope,omitempty"`
	Group     string         `json:"group,omitempty"`
	Extra     map[string]any `json:"-"`
}
