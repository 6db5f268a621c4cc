// Package roles resolves a user's role from their profile document.
package roles

import (
	"context"
	"errors"

	"github.com/wolfpackhq/wolfpack/internal/platform/docstore"
)

// DefaultRole is assumed when a user has no profile or no role field.
const DefaultRole = "member"

// Resolver point-reads user roles. It is not a subscription: role changes
// made elsewhere are picked up on the next lookup.
type Resolver struct {
	docs docstore.Client
}

// NewResolver creates a resolver.
func NewResolver(docs docstore.Client) *Resolver {
	return &Resolver{docs: docs}
}

// Role returns the role stored on users/<uid>. A missing document or a
// missing role field both resolve to DefaultRole; only transport failures
// return an error.
func (r *Resolver) Role(ctx context.Context, uid string) (string, error) {
	doc, err := r.docs.Get(ctx, "users", uid)
	if errors.Is(err, docstore.ErrNotFound) {
		return DefaultRole, nil
	}
	if err != nil {
		return "", err
	}
	if role := doc.String("role"); role != "" {
		return role, nil
	}
	return DefaultRole, nil
}
