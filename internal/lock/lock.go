// Package lock provides the side-channel mutual-exclusion primitive used to
// serialize concurrent completion attempts before any transactional work
// begins. Locks are advisory: the TaskEvent unique constraint remains the
// correctness backstop, and a lock lost to TTL expiry can at worst cost a
// wasted transaction, never a duplicated reward.
//
// Two implementations exist — a Redis-backed store for deployments and an
// in-memory store for tests and single-node development — selected by
// configuration at startup.
package lock

import (
	"context"
	"time"
)

// Store is the contract for a TTL'd exclusive lock.
//
// Acquire is a non-blocking test-and-set: it returns false immediately when
// the key is already held. On success the caller must Release the key on
// every path, including errors; the TTL only exists so a crashed holder
// cannot wedge the key forever.
type Store interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// TaskKey returns the per-(user, task) completion lock key. Locks are scoped
// to the pair so unrelated completions proceed unimpeded.
func TaskKey(userID, taskID string) string {
	return "lock:task:" + userID + ":" + taskID
}

// FaucetProcessKey is the single global lock guarding faucet batch runs.
const FaucetProcessKey = "lock:faucet_process"
