// Package redis provides the Redis-backed storage used by the transaction
// flow: a per-sender lock that keeps concurrent processes from building
// transactions with the same nonce.
package redis

import (
	"context"
	"sync"

	redis "github.com/redis/go-redis/v9"
)

type client struct {
	conn *redis.Client

	mu     sync.Mutex
	tokens map[string]string // lock key -> token held by this process
}

func (c *client) Close() error {
	return c.conn.Close()
}

// NewClient connects to Redis and checks the connection with PING.
func NewClient(ctx context.Context, addr, username, password string, db int) (*client, error) {
	conn := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: username,
		Password: password,
		DB:       db,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &client{
		conn:   conn,
		tokens: make(map[string]string),
	}, nil
}
