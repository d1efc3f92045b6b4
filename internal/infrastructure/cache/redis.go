// Package cache opens the redis client shared by the idempotency middleware
// and the credit-history event publisher.
package cache

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const connectTimeout = 5 * time.Second

// OpenRedis connects to the given address/db and verifies the broker is
// reachable before the server starts taking writes.
func OpenRedis(addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{
		Addr:         addr,
		DB:           db,
		DialTimeout:  connectTimeout,
		MinIdleConns: 2,
	})
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := r.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	log.Println("redis: connected")
	return r, nil
}
