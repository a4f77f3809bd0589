// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// ActorContext identifies the authenticated actor performing a request.
// Identity resolution (token validation) is entirely the transport
// layer's responsibility; the domain only ever sees this struct.
type ActorContext struct {
	ActorID  string
	Username string
}

type actorContextKey struct{}

// WithActor adds ActorContext to context.
func WithActor(ctx context.Context, actor *ActorContext) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// GetActor returns ActorContext from context.
func GetActor(ctx context.Context) *ActorContext {
	if v, ok := ctx.Value(actorContextKey{}).(*ActorContext); ok {
		return v
	}
	return nil
}

// GetActorID returns actor ID from context or empty string.
func GetActorID(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.ActorID
	}
	return ""
}
