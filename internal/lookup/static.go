package lookup

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ajling/tokenward/internal/model"
)

// Static is an in-process IdentityLookup backed by a fixed per-provider
// user list. Hosts use it for local development and bootstrap; production
// deployments inject their own lookup implementation.
type Static struct {
	users map[string][]model.User
}

// NewStatic creates a Static directory from per-provider user lists.
func NewStatic(users map[string][]model.User) *Static {
	if users == nil {
		users = make(map[string][]model.User)
	}
	return &Static{users: users}
}

// NewStaticFromJSON creates a Static directory from a JSON object mapping
// provider names to user arrays.
func NewStaticFromJSON(data []byte) (*Static, error) {
	var users map[string][]model.User
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, fmt.Errorf("failed to parse user seed: %w", err)
	}
	return NewStatic(users), nil
}

// Lookup matches on user id or email within the given provider's list.
func (s *Static) Lookup(_ context.Context, provider string, identity model.Identity) (model.User, error) {
	for _, u := range s.users[provider] {
		if identity.UserID != "" && u.ID == identity.UserID {
			return u, nil
		}
		if identity.Email != "" && u.Email == identity.Email {
			return u, nil
		}
	}
	return model.User{}, model.ErrUserNotFound
}
