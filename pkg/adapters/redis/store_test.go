package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/watercap/pkg/adapters/redis"
	"github.com/aretw0/watercap/pkg/domain"
	"github.com/aretw0/watercap/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunSolutionStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()
	key := "solution-ttl"

	// 1. Save
	err := store.Save(ctx, key, ports.ContractSolution())
	assert.NoError(t, err)

	// 2. Listed immediately
	keys, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, keys, key)

	// 3. Key expiration is driven by miniredis time
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, key)
	assert.ErrorIs(t, err, domain.ErrSolutionNotFound)

	// 4. Index cleanup compares against the wall clock
	time.Sleep(1200 * time.Millisecond)

	keys, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, keys)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()
	key := "s6:b0/5,0/3:t0=4"

	err := store.Save(ctx, key, ports.ContractSolution())
	assert.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:"+key), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, key)
}

func TestRedisStore_DefaultPrefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client)
	err := store.Save(context.Background(), "k", ports.ContractSolution())
	require.NoError(t, err)

	assert.True(t, mr.Exists(redis.DefaultPrefix+"k"))
}

func TestRedisStore_IndexScores(t *testing.T) {
	mr, client := newClient(t)
	ctx := context.Background()

	require.NoError(t, redis.NewFromClient(client).Save(ctx, "forever", ports.ContractSolution()))
	score, err := mr.ZScore(redis.DefaultPrefix+"index", "forever")
	require.NoError(t, err)
	assert.Equal(t, float64(4102444800), score)

	before := time.Now()
	require.NoError(t, redis.NewFromClient(client, redis.WithTTL(time.Hour)).Save(ctx, "hour", ports.ContractSolution()))
	score, err = mr.ZScore(redis.DefaultPrefix+"index", "hour")
	require.NoError(t, err)
	assert.InDelta(t, float64(before.Add(time.Hour).Unix()), score, 2)

	require.NoError(t, redis.NewFromClient(client).Delete(ctx, "hour"))
	members, err := mr.ZMembers(redis.DefaultPrefix + "index")
	require.NoError(t, err)
	assert.Equal(t, []string{"forever"}, members)
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	mr, client := newClient(t)

	require.NoError(t, mr.Set(redis.DefaultPrefix+"broken", "{not json"))

	store := redis.NewFromClient(client)
	_, err := store.Load(context.Background(), "broken")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrSolutionNotFound)
}

func TestNewFromURL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store, err := redis.NewFromURL("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(context.Background(), "k", ports.ContractSolution()))
	assert.True(t, mr.Exists(redis.DefaultPrefix+"k"))

	_, err = redis.NewFromURL("://nope")
	assert.Error(t, err)
}
