package rulecache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/railzwaylabs/supportdesk/internal/config"
	"github.com/railzwaylabs/supportdesk/pkg/sortutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return New(Params{
		Log:    zap.NewNop(),
		Config: config.Config{Redis: config.RedisConfig{CacheTTL: time.Minute}},
		Client: client,
	}), mr
}

func TestSetGetList(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	var got []string
	assert.False(t, c.GetList(ctx, "pricing_rules", sortutil.OrderName, &got))

	c.SetList(ctx, "pricing_rules", sortutil.OrderName, c.Generation(ctx, "pricing_rules"), []string{"a", "b"})
	require.True(t, mr.Exists("pricing_rules:list:name"))
	assert.Equal(t, time.Minute, mr.TTL("pricing_rules:list:name"))

	require.True(t, c.GetList(ctx, "pricing_rules", sortutil.OrderName, &got))
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestInvalidateDropsEveryOrder(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	for _, o := range sortutil.Orders() {
		c.SetList(ctx, "commission_rules", o, c.Generation(ctx, "commission_rules"), []int{1})
	}
	c.SetList(ctx, "pricing_rules", sortutil.OrderNone, c.Generation(ctx, "pricing_rules"), []int{2})

	c.Invalidate(ctx, "commission_rules")

	for _, o := range sortutil.Orders() {
		assert.False(t, mr.Exists(ListKey("commission_rules", o)))
	}
	assert.True(t, mr.Exists("pricing_rules:list:none"))
}

func TestSetListSkipsListingReadBeforeInvalidate(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	// A reader loads the listing, then a write lands before it stores it.
	stale := c.Generation(ctx, "pricing_rules")
	c.Invalidate(ctx, "pricing_rules")
	c.SetList(ctx, "pricing_rules", sortutil.OrderName, stale, []string{"old"})
	assert.False(t, mr.Exists("pricing_rules:list:name"))

	fresh := c.Generation(ctx, "pricing_rules")
	c.SetList(ctx, "pricing_rules", sortutil.OrderName, fresh, []string{"new"})

	var got []string
	require.True(t, c.GetList(ctx, "pricing_rules", sortutil.OrderName, &got))
	assert.Equal(t, []string{"new"}, got)

	// Other kinds keep their own counter.
	c.SetList(ctx, "commission_rules", sortutil.OrderName, c.Generation(ctx, "commission_rules"), []string{"c"})
	assert.True(t, mr.Exists("commission_rules:list:name"))
}

func TestZeroGenerationNeverStores(t *testing.T) {
	c, mr := newCache(t)

	c.SetList(context.Background(), "pricing_rules", sortutil.OrderNone, Generation{}, []int{1})
	assert.False(t, mr.Exists("pricing_rules:list:none"))
}

func TestExpiry(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	c.SetList(ctx, "pricing_rules", sortutil.OrderNone, c.Generation(ctx, "pricing_rules"), []int{1})
	mr.FastForward(2 * time.Minute)

	var got []int
	assert.False(t, c.GetList(ctx, "pricing_rules", sortutil.OrderNone, &got))
}

func TestNilClientIsNoop(t *testing.T) {
	c := New(Params{Log: zap.NewNop()})
	ctx := context.Background()

	c.SetList(ctx, "pricing_rules", sortutil.OrderNone, c.Generation(ctx, "pricing_rules"), []int{1})
	c.Invalidate(ctx, "pricing_rules")

	var got []int
	assert.False(t, c.GetList(ctx, "pricing_rules", sortutil.OrderNone, &got))
	assert.Equal(t, defaultTTL, c.ttl)
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	c, mr := newCache(t)
	require.NoError(t, mr.Set("pricing_rules:list:none", "{not json"))

	var got []int
	assert.False(t, c.GetList(context.Background(), "pricing_rules", sortutil.OrderNone, &got))
}
