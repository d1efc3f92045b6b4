package events

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"microloan-ledger/internal/domain/event"

	"github.com/redis/go-redis/v9"
)

var _ event.Emitter = (*RedisPublisher)(nil)

const publishTimeout = 2 * time.Second

// RedisPublisher pushes credit-history notifications onto a redis pub/sub
// channel. Emission is fire-and-forget: a broker failure is logged and
// swallowed, it must never fail the ledger operation that triggered it.
type RedisPublisher struct {
	rdb     *redis.Client
	channel string
}

func NewRedisPublisher(rdb *redis.Client, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

func (p *RedisPublisher) Emit(ctx context.Context, ev event.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("events: marshal %s: %v", ev.Type, err)
		return
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		log.Printf("events: publish %s for loan %s: %v", ev.Type, ev.LoanID, err)
	}
}
