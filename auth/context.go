package auth

import (
	"context"
)

const (
	identityKey privateKey = "identity"
)

type privateKey string

// SetIdentity stores a verified identity in the context.
func SetIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// GetIdentity returns the verified identity stored in the context,
// or nil if the request was never authenticated.
func GetIdentity(ctx context.Context) *Identity {
	if temp := ctx.Value(identityKey); temp != nil {
		if identity, ok := temp.(*Identity); ok {
			return identity
		}
	}
	return nil
}
