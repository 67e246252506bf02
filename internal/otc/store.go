// Package otc keeps short-lived one-time codes keyed by account email.
//
// A key holds at most one live code. Setting a key again replaces the code
// and restarts its TTL. An expired code is indistinguishable from a missing one.
package otc

import (
	"context"
	"time"
)

// Store is safe for concurrent use.
type Store interface {
	Set(ctx context.Context, key, code string, ttl time.Duration) error
	Get(ctx context.Context, key string) (code string, found bool, err error)
	// Consume removes the key only if it currently holds code. It reports
	// whether this caller was the one that consumed it.
	Consume(ctx context.Context, key, code string) (bool, error)
	Invalidate(ctx context.Context, key string) error
}
