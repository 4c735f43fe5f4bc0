package ports

import "context"

// Watchable defines an interface for sources that can notify about changes.
// This is used by the watch command to hot-reload roots.
type Watchable interface {
	// Watch returns a channel carrying the ID of each changed document.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
