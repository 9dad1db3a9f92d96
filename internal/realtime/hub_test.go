package realtime

import (
	"context"
	"errors"
	"testing"

	"github.com/arabshield/portal/internal/modules/model"
	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type nopBus struct{}

func (nopBus) Publish(context.Context, Event) error { return nil }
func (nopBus) Subscribe(context.Context) (<-chan Event, func()) {
	ch := make(chan Event)
	return ch, func() { close(ch) }
}

func newTestClient(h *Hub) *Client {
	return &Client{
		hub:           h,
		principal:     &model.User{ID: uuid.New(), Role: model.RoleClient},
		log:           zap.NewNop(),
		subscriptions: make(map[string]string),
		send:          make(chan []byte, sendBuffer),
	}
}

func decodeFrame(t *testing.T, c *Client) ServerFrame {
	t.Helper()
	select {
	case raw := <-c.send:
		var frame ServerFrame
		require.NoError(t, sonic.Unmarshal(raw, &frame))
		return frame
	default:
		t.Fatal("no frame queued")
		return ServerFrame{}
	}
}

func allowAll(context.Context, *model.User, string) error { return nil }

func TestHub_Subscribe_UnknownEntity(t *testing.T) {
	h := NewHub(nopBus{}, zap.NewNop())
	c := newTestClient(h)

	err := h.subscribe(context.Background(), c, "widgets", "scope")
	assert.ErrorIs(t, err, ErrUnknownEntity)
}

func TestHub_Subscribe_EmptyScopeYieldsEmptySnapshot(t *testing.T) {
	h := NewHub(nopBus{}, zap.NewNop())
	authorized := false
	h.RegisterEntity(EntityTasks, EntityStream{
		Snapshot: func(context.Context, string) (any, error) { return []string{"x"}, nil },
		Authorize: func(context.Context, *model.User, string) error {
			authorized = true
			return nil
		},
	})
	c := newTestClient(h)

	require.NoError(t, h.subscribe(context.Background(), c, EntityTasks, "p1"))
	<-c.send // drain the initial snapshot

	// An empty scope closes the subscription without an authorization check.
	authorized = false
	require.NoError(t, h.subscribe(context.Background(), c, EntityTasks, ""))
	assert.False(t, c.subscribedTo(EntityTasks, "p1"))

	frame := decodeFrame(t, c)
	assert.Equal(t, "snapshot", frame.Type)
	assert.Empty(t, frame.ScopeKey)
	assert.False(t, authorized)
}

func TestHub_Subscribe_ReplacesPreviousScope(t *testing.T) {
	h := NewHub(nopBus{}, zap.NewNop())
	h.RegisterEntity(EntityTasks, EntityStream{
		Snapshot:  func(_ context.Context, scope string) (any, error) { return []string{scope}, nil },
		Authorize: allowAll,
	})
	c := newTestClient(h)

	require.NoError(t, h.subscribe(context.Background(), c, EntityTasks, "p1"))
	require.NoError(t, h.subscribe(context.Background(), c, EntityTasks, "p2"))

	assert.False(t, c.subscribedTo(EntityTasks, "p1"))
	assert.True(t, c.subscribedTo(EntityTasks, "p2"))
}

func TestHub_Subscribe_DeniedScope(t *testing.T) {
	h := NewHub(nopBus{}, zap.NewNop())
	h.RegisterEntity(EntityProjects, EntityStream{
		Snapshot:  func(context.Context, string) (any, error) { return nil, nil },
		Authorize: func(context.Context, *model.User, string) error { return ErrScopeDenied },
	})
	c := newTestClient(h)

	err := h.subscribe(context.Background(), c, EntityProjects, "someone-else")
	assert.ErrorIs(t, err, ErrScopeDenied)
	assert.False(t, c.subscribedTo(EntityProjects, "someone-else"))
	assert.Empty(t, c.send)
}

func TestHub_Deliver_RoutesByScope(t *testing.T) {
	h := NewHub(nopBus{}, zap.NewNop())
	h.RegisterEntity(EntityTasks, EntityStream{
		Snapshot:  func(_ context.Context, scope string) (any, error) { return []string{"task for " + scope}, nil },
		Authorize: allowAll,
	})

	subscribed := newTestClient(h)
	other := newTestClient(h)
	h.register(subscribed)
	h.register(other)

	require.NoError(t, h.subscribe(context.Background(), subscribed, EntityTasks, "p1"))
	require.NoError(t, h.subscribe(context.Background(), other, EntityTasks, "p2"))
	<-subscribed.send
	<-other.send

	h.deliver(context.Background(), Event{Entity: EntityTasks, ScopeKey: "p1"})

	frame := decodeFrame(t, subscribed)
	assert.Equal(t, "snapshot", frame.Type)
	assert.Equal(t, "p1", frame.ScopeKey)
	assert.Empty(t, other.send)
}

func TestHub_Deliver_SnapshotFailureSendsError(t *testing.T) {
	h := NewHub(nopBus{}, zap.NewNop())
	good := true
	h.RegisterEntity(EntityTickets, EntityStream{
		Snapshot: func(context.Context, string) (any, error) {
			if good {
				return []string{}, nil
			}
			return nil, errors.New("db down")
		},
		Authorize: allowAll,
	})

	c := newTestClient(h)
	h.register(c)
	require.NoError(t, h.subscribe(context.Background(), c, EntityTickets, AdminScope))
	<-c.send

	good = false
	h.deliver(context.Background(), Event{Entity: EntityTickets, ScopeKey: AdminScope})

	frame := decodeFrame(t, c)
	assert.Equal(t, "error", frame.Type)
	assert.Equal(t, EntityTickets, frame.Entity)
}

func TestHub_Subscribe_FailedInitialQueryInstallsNothing(t *testing.T) {
	h := NewHub(nopBus{}, zap.NewNop())
	broken := false
	h.RegisterEntity(EntityProjects, EntityStream{
		Snapshot: func(_ context.Context, scope string) (any, error) {
			if broken {
				return nil, errors.New("db down")
			}
			return []string{scope}, nil
		},
		Authorize: allowAll,
	})
	c := newTestClient(h)

	require.NoError(t, h.subscribe(context.Background(), c, EntityProjects, "o1"))
	<-c.send

	// A failed subscribe leaves the previous scope live, not the new one.
	broken = true
	err := h.subscribe(context.Background(), c, EntityProjects, "o2")
	assert.Error(t, err)
	assert.True(t, c.subscribedTo(EntityProjects, "o1"))
	assert.False(t, c.subscribedTo(EntityProjects, "o2"))
}

func TestHub_Deliver_ClientDisconnectsDuringQuery(t *testing.T) {
	h := NewHub(nopBus{}, zap.NewNop())
	c := newTestClient(h)
	disconnect := false
	h.RegisterEntity(EntityTasks, EntityStream{
		Snapshot: func(context.Context, string) (any, error) {
			if disconnect {
				h.unregister(c)
			}
			return []string{}, nil
		},
		Authorize: allowAll,
	})

	h.register(c)
	require.NoError(t, h.subscribe(context.Background(), c, EntityTasks, "p1"))
	<-c.send

	// The connection drops while the re-query is in flight. The hub already
	// collected the client as a delivery target; the frame must be dropped,
	// not sent into the closed channel.
	disconnect = true
	assert.NotPanics(t, func() {
		h.deliver(context.Background(), Event{Entity: EntityTasks, ScopeKey: "p1"})
	})
	assert.Equal(t, 0, h.ClientCount())
}

func TestHub_RegisterUnregister(t *testing.T) {
	h := NewHub(nopBus{}, zap.NewNop())
	c := newTestClient(h)

	h.register(c)
	assert.Equal(t, 1, h.ClientCount())

	h.unregister(c)
	assert.Equal(t, 0, h.ClientCount())

	// Unregistering twice must not panic on the closed send channel.
	h.unregister(c)
	assert.Equal(t, 0, h.ClientCount())
}
