package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/arabshield/portal/internal/modules/model"
	"go.uber.org/zap"
)

// snapshotTimeout bounds the re-query triggered by a change event.
const snapshotTimeout = 10 * time.Second

var (
	ErrUnknownEntity = errors.New("unknown entity")
	ErrScopeDenied   = errors.New("scope not authorized")
)

// SnapshotFunc returns the full current collection for a scope key, in the
// collection's declared sort order.
type SnapshotFunc func(ctx context.Context, scopeKey string) (any, error)

// AuthorizeFunc decides whether the principal may subscribe to a scope key.
// Returning an error denies the subscription; the error is surfaced to the
// client, never swallowed.
type AuthorizeFunc func(ctx context.Context, principal *model.User, scopeKey string) error

// EntityStream describes one subscribable collection.
type EntityStream struct {
	Snapshot  SnapshotFunc
	Authorize AuthorizeFunc
}

// Hub routes change events to connected clients. Each client holds at most
// one subscription per entity; re-subscribing replaces the previous scope.
type Hub struct {
	mu       sync.RWMutex
	entities map[string]EntityStream
	clients  map[*Client]struct{}

	bus Bus
	log *zap.Logger
}

func NewHub(bus Bus, log *zap.Logger) *Hub {
	return &Hub{
		entities: make(map[string]EntityStream),
		clients:  make(map[*Client]struct{}),
		bus:      bus,
		log:      log,
	}
}

// RegisterEntity wires a subscribable collection into the hub. Called once
// per entity during bootstrap, before Run.
func (h *Hub) RegisterEntity(name string, stream EntityStream) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entities[name] = stream
}

// Run consumes the change bus until ctx is cancelled. For every event it
// re-queries the affected collection once and delivers the snapshot to each
// client subscribed to that (entity, scope) pair.
func (h *Hub) Run(ctx context.Context) {
	events, cancel := h.bus.Subscribe(ctx)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			h.deliver(ctx, ev)
		}
	}
}

func (h *Hub) deliver(ctx context.Context, ev Event) {
	h.mu.RLock()
	stream, known := h.entities[ev.Entity]
	var targets []*Client
	for c := range h.clients {
		if c.subscribedTo(ev.Entity, ev.ScopeKey) {
			targets = append(targets, c)
		}
	}
	h.mu.RUnlock()

	if !known || len(targets) == 0 {
		return
	}

	qctx, qcancel := context.WithTimeout(ctx, snapshotTimeout)
	items, err := stream.Snapshot(qctx, ev.ScopeKey)
	qcancel()
	if err != nil {
		h.log.Error("snapshot query failed",
			zap.String("entity", ev.Entity),
			zap.String("scope_key", ev.ScopeKey),
			zap.Error(err))
		for _, c := range targets {
			c.sendError(ev.Entity, "snapshot query failed")
		}
		return
	}

	for _, c := range targets {
		c.sendSnapshot(ev.Entity, ev.ScopeKey, items)
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Debug("realtime client registered", zap.Int("total", total))
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	delete(h.clients, c)
	total := len(h.clients)
	h.mu.Unlock()
	// Closed outside h.mu through the client's own guard: a deliver that
	// already collected this client as a target may still be pushing.
	c.closeSend()
	h.log.Debug("realtime client unregistered", zap.Int("total", total))
}

// subscribe validates and installs a (entity, scope) subscription for the
// client, replacing any previous subscription for the same entity, then
// sends the initial snapshot. An empty scope key opens nothing and yields
// an immediate empty snapshot.
func (h *Hub) subscribe(ctx context.Context, c *Client, entity, scopeKey string) error {
	h.mu.RLock()
	stream, known := h.entities[entity]
	h.mu.RUnlock()
	if !known {
		return ErrUnknownEntity
	}

	if scopeKey == "" {
		c.clearSubscription(entity)
		c.sendSnapshot(entity, "", []any{})
		return nil
	}

	if err := stream.Authorize(ctx, c.principal, scopeKey); err != nil {
		return err
	}

	qctx, qcancel := context.WithTimeout(ctx, snapshotTimeout)
	defer qcancel()
	items, err := stream.Snapshot(qctx, scopeKey)
	if err != nil {
		// A failed subscribe must not leave a live stream behind; the
		// previous subscription for this entity, if any, stays in place.
		return err
	}

	// Replacing under the same entity closes the old scope implicitly:
	// subscriptions are a map keyed by entity, so at most one is live.
	c.setSubscription(entity, scopeKey)
	c.sendSnapshot(entity, scopeKey, items)
	return nil
}

func (h *Hub) unsubscribe(c *Client, entity string) {
	c.clearSubscription(entity)
}

// ClientCount reports how many clients are connected.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
