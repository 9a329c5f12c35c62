package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisBroadcaster carries events across process boundaries over redis
// pub/sub, one channel per recipient. It satisfies the same contract as
// the in-process Hub; pick it when more than one server instance serves
// the same store.
type RedisBroadcaster struct {
	rdb *redis.Client
}

func NewRedisBroadcaster(addr string) *RedisBroadcaster {
	return &RedisBroadcaster{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
	}
}

func channelFor(userID uint) string {
	return fmt.Sprintf("organizo:events:%d", userID)
}

func (b *RedisBroadcaster) Publish(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return
	}
	ctx := context.Background()
	seen := make(map[uint]bool, len(ev.Recipients))
	for _, id := range ev.Recipients {
		if seen[id] {
			continue
		}
		seen[id] = true
		b.rdb.Publish(ctx, channelFor(id), payload)
	}
}

func (b *RedisBroadcaster) Subscribe(userID uint) (<-chan Event, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	sub := b.rdb.Subscribe(ctx, channelFor(userID))
	out := make(chan Event, subscriberBuffer)

	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				continue
			}
			select {
			case out <- ev:
			default:
			}
		}
	}()

	return out, func() {
		_ = sub.Close()
		cancel()
	}
}

func (b *RedisBroadcaster) Close() error {
	return b.rdb.Close()
}
