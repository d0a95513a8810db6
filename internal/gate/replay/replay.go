// Package replay makes temp tokens single-use. The default guard accepts
// every token; the redis guard remembers each token id until the token
// would have expired anyway.
package replay

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/cohortgate/pkg/cryptox"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cohortgate:temp-jti:"

var (
	ErrReplayed  = errors.New("replay: token already used")
	ErrMissingID = errors.New("replay: token has no jti")
)

// Guard records a token id and rejects it if seen before.
type Guard interface {
	Consume(ctx context.Context, jti string, expiresAt time.Time) error
}

// Nop keeps temp tokens stateless: any number of uses within their lifetime.
type Nop struct{}

func (Nop) Consume(context.Context, string, time.Time) error { return nil }

// Redis is a Guard backed by SET NX with a TTL running to token expiry.
type Redis struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedis(client redis.Cmdable) *Redis {
	return &Redis{client: client, now: time.Now}
}

// Consume stores the fingerprint of jti. A second call for the same jti
// before expiresAt returns ErrReplayed.
func (r *Redis) Consume(ctx context.Context, jti string, expiresAt time.Time) error {
	if jti == "" {
		return ErrMissingID
	}

	ttl := max(expiresAt.Sub(r.now()), time.Second)

	ok, err := r.client.SetNX(ctx, Key(jti), "1", ttl).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrReplayed
	}
	return nil
}

// Key is the redis key a token id is stored under.
func Key(jti string) string {
	return keyPrefix + cryptox.FingerprintToken(jti)
}

// Ping checks the redis connection for readiness probes.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
