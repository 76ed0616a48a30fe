// Package session tells the engine which ledger a request belongs to. A request with a signed-in user
// works on that user's ledger; without one it works on the per-device ledger.
package session

import (
	"context"

	"github.com/vsinha/bakeshop/pkg/domain/repositories"
)

// Provider reports the signed-in user of a request context
type Provider interface {
	CurrentUser(ctx context.Context) (userID string, ok bool)
}

type userKey struct{}

// WithUser returns a context carrying userID
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userKey{}, userID)
}

// ContextProvider reads the user stored by WithUser
type ContextProvider struct{}

var _ Provider = ContextProvider{}

func (ContextProvider) CurrentUser(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userKey{}).(string)
	return userID, ok && userID != ""
}

// Anonymous never has a user, so every request uses the per-device ledger
type Anonymous struct{}

var _ Provider = Anonymous{}

func (Anonymous) CurrentUser(context.Context) (string, bool) {
	return "", false
}

// OwnerOf maps a request to its ledger owner; "" selects the per-device ledger
func OwnerOf(ctx context.Context, p Provider) string {
	if userID, ok := p.CurrentUser(ctx); ok {
		return repositories.UserOwner(userID)
	}
	return ""
}
