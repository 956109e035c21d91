package data_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RikVoorhaar/routing-game-sub002/internal/data"
	"github.com/RikVoorhaar/routing-game-sub002/internal/testutil"
)

func TestRedisCacheRepoSetGetDelete(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	repo := data.NewRedisCacheRepo(client)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "route:shared:a:b", []byte(`{"points":[]}`), time.Minute))

	got, err := repo.Get(ctx, "route:shared:a:b")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"points":[]}`), got)

	deleted, err := repo.Delete(ctx, "route:shared:a:b")
	require.NoError(t, err)
	assert.True(t, deleted)

	// a second delete reports nothing removed
	deleted, err = repo.Delete(ctx, "route:shared:a:b")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestRedisCacheRepoGetMissingKey(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	repo := data.NewRedisCacheRepo(client)

	got, err := repo.Get(context.Background(), "route:shared:never:stored")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCacheRepoRejectsEmptyKey(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	repo := data.NewRedisCacheRepo(client)
	ctx := context.Background()

	assert.Error(t, repo.Set(ctx, "", []byte("x"), time.Minute))
	_, err := repo.Get(ctx, "")
	assert.Error(t, err)
	_, err = repo.Delete(ctx, "")
	assert.Error(t, err)
}

func TestRedisCacheRepoTTLExpiry(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	repo := data.NewRedisCacheRepo(client)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "route:shared:ttl", []byte("v"), 50*time.Millisecond))
	time.Sleep(100 * time.Millisecond)

	got, err := repo.Get(ctx, "route:shared:ttl")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCacheRepoHealth(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	defer client.Close()

	repo := data.NewRedisCacheRepo(client)
	assert.NoError(t, repo.Health(context.Background()))
}
