// Package rulecache is a cache-aside layer in front of rule listings.
package rulecache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/railzwaylabs/supportdesk/internal/config"
	"github.com/railzwaylabs/supportdesk/pkg/sortutil"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const defaultTTL = 5 * time.Minute

// setIfCurrent stores a listing only while the kind's generation still matches
// the one read before the database query.
var setIfCurrent = redis.NewScript(`
local current = redis.call("GET", KEYS[1]) or "0"
if current ~= ARGV[1] then
	return 0
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[3])
return 1
`)

var Module = fx.Module("rulecache",
	fx.Provide(New),
)

type Params struct {
	fx.In

	Log    *zap.Logger
	Config config.Config
	Client *redis.Client `optional:"true"`
}

// Cache is safe to use with a nil client: every lookup misses and every write
// is a no-op. Failures talking to redis are logged and never surface to the
// caller, since the database stays authoritative.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func New(p Params) *Cache {
	ttl := p.Config.Redis.CacheTTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: p.Client, ttl: ttl, log: p.Log.Named("rulecache")}
}

func ListKey(kind string, order sortutil.Order) string {
	return fmt.Sprintf("%s:list:%s", kind, order)
}

func GenerationKey(kind string) string {
	return kind + ":gen"
}

// Generation is the invalidation counter of a kind, read before a listing is
// loaded from the database. The zero value never allows a store.
type Generation struct {
	value string
	ok    bool
}

// Generation must be read before the database query whose result is later
// handed to SetList.
func (c *Cache) Generation(ctx context.Context, kind string) Generation {
	if c == nil || c.client == nil {
		return Generation{}
	}
	v, err := c.client.Get(ctx, GenerationKey(kind)).Result()
	switch {
	case errors.Is(err, redis.Nil):
		return Generation{value: "0", ok: true}
	case err != nil:
		c.log.Warn("cache generation read failed", zap.String("kind", kind), zap.Error(err))
		return Generation{}
	}
	return Generation{value: v, ok: true}
}

// GetList decodes a cached listing into dst and reports whether it was a hit.
func (c *Cache) GetList(ctx context.Context, kind string, order sortutil.Order, dst any) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, ListKey(kind, order)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache read failed", zap.String("kind", kind), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		c.log.Warn("cache decode failed", zap.String("kind", kind), zap.Error(err))
		return false
	}
	return true
}

// SetList caches v unless kind was invalidated after gen was read, so a slow
// reader cannot put back a listing that a concurrent write already replaced.
func (c *Cache) SetList(ctx context.Context, kind string, order sortutil.Order, gen Generation, v any) {
	if c == nil || c.client == nil || !gen.ok {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		c.log.Warn("cache encode failed", zap.String("kind", kind), zap.Error(err))
		return
	}
	stored, err := setIfCurrent.Run(ctx, c.client,
		[]string{GenerationKey(kind), ListKey(kind, order)},
		gen.value, raw, c.ttl.Milliseconds(),
	).Int()
	if err != nil {
		c.log.Warn("cache write failed", zap.String("kind", kind), zap.Error(err))
		return
	}
	if stored == 0 {
		c.log.Debug("stale listing not cached", zap.String("kind", kind))
	}
}

// Invalidate bumps the generation of kind and drops its cached listings.
func (c *Cache) Invalidate(ctx context.Context, kind string) {
	if c == nil || c.client == nil {
		return
	}
	orders := sortutil.Orders()
	keys := make([]string, 0, len(orders))
	for _, o := range orders {
		keys = append(keys, ListKey(kind, o))
	}
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey(kind))
		pipe.Del(ctx, keys...)
		return nil
	})
	if err != nil {
		c.log.Warn("cache invalidate failed", zap.String("kind", kind), zap.Error(err))
	}
}
