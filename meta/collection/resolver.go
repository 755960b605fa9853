package collection

import "context"

// ResolveData is the collection that applies to a resolution. A nil
// Collection means none is active and records are computed directly.
type ResolveData struct {
	Collection *Collection
}

// Valid reports whether a collection was identified.
func (d ResolveData) Valid() bool { return d.Collection != nil }

// Resolver picks the collection for the object being processed.
type Resolver interface {
	IdentifyCollection(ctx context.Context, obj any) ResolveData
}

type ctxKey struct{}

// WithCollection returns a context naming c as the current collection.
func WithCollection(ctx context.Context, c *Collection) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the collection stored by WithCollection.
func FromContext(ctx context.Context) (*Collection, bool) {
	c, ok := ctx.Value(ctxKey{}).(*Collection)
	return c, ok && c != nil
}

// ContextResolver reads the collection from the context and falls back to
// the manager's default collection.
type ContextResolver struct {
	Manager *Manager
}

func (r ContextResolver) IdentifyCollection(ctx context.Context, _ any) ResolveData {
	if c, ok := FromContext(ctx); ok {
		return ResolveData{Collection: c}
	}
	if r.Manager == nil {
		return ResolveData{}
	}
	return ResolveData{Collection: r.Manager.Default()}
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, obj any) ResolveData

func (f ResolverFunc) IdentifyCollection(ctx context.Context, obj any) ResolveData {
	return f(ctx, obj)
}
