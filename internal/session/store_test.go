package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreMergeSave(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid", map[string]any{"userId": 7, "nickname": "도라"}))
	require.NoError(t, store.Save(ctx, "sid", map[string]any{"accessToken": "at-1"}))

	rec, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(7), rec.UserID, "merge keeps earlier fields")
	assert.Equal(t, "도라", rec.Nickname)
	assert.Equal(t, "at-1", rec.AccessToken)
}

func TestMemoryStoreLastWriteWinsPerField(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid", map[string]any{"nickname": "도라", "userId": 7}))
	require.NoError(t, store.Save(ctx, "sid", map[string]any{"nickname": "새도라"}))

	rec, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "새도라", rec.Nickname)
	assert.Equal(t, int64(7), rec.UserID)
}

func TestMemoryStoreAbsentAndClear(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec, err := store.Load(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, rec)

	require.NoError(t, store.Save(ctx, "sid", map[string]any{"userId": 7}))
	require.NoError(t, store.Clear(ctx, "sid"))

	rec, err = store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMemoryStoreCorruptRecordReadsAsAbsent(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	store.seed("sid", []byte("{not json"))

	rec, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, rec)

	// A save on top of the corrupt blob starts fresh instead of failing.
	require.NoError(t, store.Save(ctx, "sid", map[string]any{"userId": 7}))
	rec, err = store.Load(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(7), rec.UserID)
}

func newRedisTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client), mr
}

func TestRedisStoreMergeSave(t *testing.T) {
	store, _ := newRedisTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid", map[string]any{"userId": 7}))
	require.NoError(t, store.Save(ctx, "sid", map[string]any{"refreshToken": "rt-1"}))

	rec, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, int64(7), rec.UserID)
	assert.Equal(t, "rt-1", rec.RefreshToken)
}

func TestRedisStoreRecordsHaveNoTTL(t *testing.T) {
	store, mr := newRedisTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid", map[string]any{"userId": 7}))
	assert.Zero(t, mr.TTL("session:sid"))
}

func TestRedisStoreClear(t *testing.T) {
	store, _ := newRedisTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sid", map[string]any{"userId": 7}))
	require.NoError(t, store.Clear(ctx, "sid"))

	rec, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestRedisStoreCorruptValue(t *testing.T) {
	store, mr := newRedisTestStore(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("session:sid", "%%%"))

	rec, err := store.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestConnectRejectsBadURL(t *testing.T) {
	assert.Nil(t, Connect("redis://:bad@[::1]:namedport"))
}
