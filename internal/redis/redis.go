// Package redis wires the shared client used for the tournament list cache,
// payment rate limiting and the join-event pub/sub channel.
package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Connect parses the redis URL, opens a client and verifies it with a ping.
func Connect(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
