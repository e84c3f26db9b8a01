package redis

import (
	"github.com/redis/go-redis/v9"
)

// Client wraps redis.UniversalClient so repositories can be handed a
// single instance, a failover client or miniredis in tests.
type Client interface {
	redis.UniversalClient
}
