package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisKV_SetGetDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	kv := NewRedisKV(client, "personal-system:")
	ctx := context.Background()

	_, err := kv.Get(ctx, "sessionToken")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "sessionToken", "abc", 0))
	v, err := kv.Get(ctx, "sessionToken")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)
	assert.True(t, mr.Exists("personal-system:sessionToken"))

	require.NoError(t, kv.Delete(ctx, "sessionToken", "currentUser"))
	_, err = kv.Get(ctx, "sessionToken")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisKV_TTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	kv := NewRedisKV(client, "")
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, "k", "v", time.Minute))

	mr.FastForward(2 * time.Minute)
	_, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestFileKV_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	ctx := context.Background()

	first := NewFileKV(path)
	require.NoError(t, first.Set(ctx, "currentUser", `{"username":"u1"}`, 0))

	second := NewFileKV(path)
	v, err := second.Get(ctx, "currentUser")
	require.NoError(t, err)
	assert.Equal(t, `{"username":"u1"}`, v)

	require.NoError(t, second.Delete(ctx, "currentUser"))
	_, err = first.Get(ctx, "currentUser")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestFileKV_Expiry(t *testing.T) {
	kv := NewFileKV(filepath.Join(t.TempDir(), "s.json"))
	now := time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)
	kv.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "sessionToken", "t", time.Hour))
	_, err := kv.Get(ctx, "sessionToken")
	require.NoError(t, err)

	now = now.Add(2 * time.Hour)
	_, err = kv.Get(ctx, "sessionToken")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestFileKV_MissingFile(t *testing.T) {
	kv := NewFileKV(filepath.Join(t.TempDir(), "absent.json"))
	_, err := kv.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrMiss)
}
