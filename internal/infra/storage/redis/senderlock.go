package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gabapcia/txflow/internal/transfer"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// senderLockKeyPrefix is the namespace of sender lock keys.
const senderLockKeyPrefix = "txflow"

// senderLockKey returns the key guarding a sender on a network.
//
// Format: "txflow:sender-lock:{network}:{address}"
func senderLockKey(network, address string) string {
	return fmt.Sprintf("%s:sender-lock:%s:%s", senderLockKeyPrefix, network, strings.ToLower(address))
}

// releaseScript deletes the lock only when it still holds our token, so an
// expired lock taken over by another process is left alone.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Acquire implements transfer.SenderLock with SET NX and a TTL.
func (c *client) Acquire(ctx context.Context, network, address string, ttl time.Duration) error {
	key := senderLockKey(network, address)
	token := uuid.NewString()

	ok, err := c.conn.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return err
	}

	if !ok {
		return transfer.ErrSenderBusy
	}

	c.mu.Lock()
	c.tokens[key] = token
	c.mu.Unlock()

	return nil
}

// Release implements transfer.SenderLock. Releasing a lock this process does
// not hold is a no-op.
func (c *client) Release(ctx context.Context, network, address string) error {
	key := senderLockKey(network, address)

	c.mu.Lock()
	token, ok := c.tokens[key]
	delete(c.tokens, key)
	c.mu.Unlock()

	if !ok {
		return nil
	}

	return releaseScript.Run(ctx, c.conn, []string{key}, token).Err()
}

var _ transfer.SenderLock = (*client)(nil)
