package models

import "context"

type sourceKey struct{}

// WithSource tags ctx with the origin of a save. An existing tag is kept so
// the outermost caller decides.
func WithSource(ctx context.Context, source string) context.Context {
	if _, ok := ctx.Value(sourceKey{}).(string); ok {
		return ctx
	}
	return context.WithValue(ctx, sourceKey{}, source)
}

// SourceFrom returns the save origin recorded in ctx, or SourceAction.
func SourceFrom(ctx context.Context) string {
	if s, ok := ctx.Value(sourceKey{}).(string); ok {
		return s
	}
	return SourceAction
}
