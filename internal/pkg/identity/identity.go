// Package identity carries the already-authenticated caller through a request
// context. Authentication happens upstream; values here are trusted.
package identity

import (
	"context"
	"errors"
)

var (
	ErrMissingIdentity = errors.New("caller identity missing from context")
	ErrAdminRequired   = errors.New("admin privilege required")
)

type Identity struct {
	StaffID string
	Role    string
	IsAdmin bool
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (Identity, error) {
	id, ok := ctx.Value(ctxKey{}).(Identity)
	if !ok || id.StaffID == "" {
		return Identity{}, ErrMissingIdentity
	}
	return id, nil
}
