package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const Channel = "storefront:events"

// RedisBus delivers through Redis pub/sub so every instance behind the load
// balancer sees every change.
type RedisBus struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewRedisBus(rdb *redis.Client, log *zap.Logger) *RedisBus {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisBus{rdb: rdb, log: log.Named("events")}
}

func (b *RedisBus) Publish(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, Channel, data).Err()
}

func (b *RedisBus) Subscribe(ctx context.Context) (<-chan Event, func()) {
	ps := b.rdb.Subscribe(ctx, Channel)
	out := make(chan Event, subscriberBuffer)
	done := make(chan struct{})

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = ps.Close()
		})
	}

	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var e Event
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					b.log.Warn("dropping malformed event", zap.Error(err))
					continue
				}
				select {
				case out <- e:
				default:
				}
			}
		}
	}()

	return out, cancel
}
