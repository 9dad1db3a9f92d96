package realtime

import (
	"context"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// changeChannel is the single Redis pub/sub channel carrying change events
// for every entity collection. Routing happens in the hub by (entity, scope).
const changeChannel = "portal.changes"

// Event marks that the collection identified by Entity changed within the
// given scope. Subscribers re-query and receive a fresh snapshot; the event
// itself carries no document data.
type Event struct {
	Entity   string `json:"entity"`
	ScopeKey string `json:"scope_key"`
}

// Bus fans mutation events out to every running replica's hub.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(ctx context.Context) (<-chan Event, func())
}

type redisBus struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisBus(rdb *redis.Client, log *zap.Logger) Bus {
	return &redisBus{rdb: rdb, log: log}
}

func (b *redisBus) Publish(ctx context.Context, ev Event) error {
	payload, err := sonic.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, changeChannel, payload).Err()
}

// Subscribe opens a standing subscription and returns a channel of events
// plus a cancel func that must be called to release the connection.
func (b *redisBus) Subscribe(ctx context.Context) (<-chan Event, func()) {
	sub := b.rdb.Subscribe(ctx, changeChannel)
	out := make(chan Event, 256)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ev Event
			if err := sonic.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.Warn("bad change event payload", zap.Error(err))
				continue
			}
			select {
			case out <- ev:
			default:
				// A full buffer means the hub is stalled; dropping is safe
				// because snapshots are re-queried, not accumulated.
				b.log.Warn("change event dropped", zap.String("entity", ev.Entity))
			}
		}
	}()

	return out, func() { _ = sub.Close() }
}
