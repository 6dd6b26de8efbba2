package session

import (
	"context"

	"github.com/google/uuid"
)

type (
	episodeIDCtxKey struct{}
	ifaceCtxKey     struct{}
)

// WithNewEpisode returns a context carrying a fresh outage episode id.
// Unlike a trace id, an existing episode id is always replaced.
func WithNewEpisode(ctx context.Context) context.Context {
	return context.WithValue(ctx, episodeIDCtxKey{}, newEpisodeID())
}

// EpisodeIDFrom extracts the episode id from the context, if one exists.
func EpisodeIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(episodeIDCtxKey{}).(string)
	return id, ok
}

// WithInterface returns a new context carrying the watched interface name.
func WithInterface(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ifaceCtxKey{}, name)
}

// InterfaceFrom extracts the watched interface name from the context, if one exists.
func InterfaceFrom(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(ifaceCtxKey{}).(string)
	return name, ok
}

// newEpisodeID keeps the first block of a random uuid.
func newEpisodeID() string {
	return uuid.NewString()[:8]
}
