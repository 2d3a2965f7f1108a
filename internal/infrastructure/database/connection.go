package database

import (
	"context"
	"sync"

	"github.com/mongodb/grip"
	"github.com/mongodb/grip/message"
)

// Dialer opens a store connection.
type Dialer[T any] func(ctx context.Context) (T, error)

// Handle dials its store on first use and hands the same connection to every
// later caller for the rest of the process. A failed dial is not remembered,
// so the next Acquire tries again.
type Handle[T any] struct {
	name string
	dial Dialer[T]

	mu    sync.Mutex
	conn  T
	ready bool
}

// NewHandle returns a Handle that has not dialed yet. name identifies the
// store in logs.
func NewHandle[T any](name string, dial Dialer[T]) *Handle[T] {
	return &Handle[T]{name: name, dial: dial}
}

// Acquire returns the memoized connection, dialing it if needed. Concurrent
// first callers share a single dial.
func (h *Handle[T]) Acquire(ctx context.Context) (T, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.ready {
		return h.conn, nil
	}
	conn, err := h.dial(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	h.conn = conn
	h.ready = true
	grip.Info(message.Fields{
		"message": "store connected",
		"store":   h.name,
	})
	return conn, nil
}

// Current returns the connection if one has been established.
func (h *Handle[T]) Current() (T, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.conn, h.ready
}

// WarmUp dials eagerly at startup. Failure is logged and otherwise ignored:
// the process keeps serving and later requests retry the dial.
func (h *Handle[T]) WarmUp(ctx context.Context) {
	if _, err := h.Acquire(ctx); err != nil {
		grip.Error(message.WrapError(err, message.Fields{
			"message": "initial store connection failed, continuing without it",
			"store":   h.name,
		}))
	}
}
