package cache

import (
	"Aviary/config"
	"Aviary/models"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStorage(t *testing.T) (*BirdStorage, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rds.Close() })
	conf := &config.Config{Redis: &config.Redis{TTL: time.Minute}}
	return NewBirdStorage(rds, conf), mr
}

func cacheBird(t *testing.T, s *BirdStorage, bird *models.Bird) {
	t.Helper()
	ctx := context.Background()
	v, err := s.Version(ctx, bird.ID)
	require.NoError(t, err)
	ok, err := s.SetIfVersion(ctx, bird, v)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestBirdStorage_SetGetInvalidate(t *testing.T) {
	s, mr := newStorage(t)
	ctx := context.Background()

	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	cacheBird(t, s, &models.Bird{ID: 1, Name: "robin", Likes: 3})
	assert.Equal(t, time.Minute, mr.TTL("aviary:bird:{1}"))

	got, err = s.Get(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "robin", got.Name)
	assert.EqualValues(t, 3, got.Likes)

	require.NoError(t, s.Invalidate(ctx, 1))
	got, err = s.Get(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	v, err := s.Version(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

func TestBirdStorage_SetIfVersion_RejectsRowLoadedBeforeMutation(t *testing.T) {
	s, mr := newStorage(t)
	ctx := context.Background()

	before, err := s.Version(ctx, 1)
	require.NoError(t, err)

	// 读库之后、回填之前发生了一次写
	require.NoError(t, s.Invalidate(ctx, 1))

	ok, err := s.SetIfVersion(ctx, &models.Bird{ID: 1, Likes: 0}, before)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("aviary:bird:{1}"))

	cacheBird(t, s, &models.Bird{ID: 1, Likes: 1})
	got, err := s.Get(ctx, 1)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Likes)
}

func TestBirdStorage_Expires(t *testing.T) {
	s, mr := newStorage(t)
	ctx := context.Background()

	cacheBird(t, s, &models.Bird{ID: 2, Name: "wren"})
	mr.FastForward(2 * time.Minute)

	got, err := s.Get(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBirdStorage_CorruptEntryIsAMiss(t *testing.T) {
	s, mr := newStorage(t)
	require.NoError(t, mr.Set("aviary:bird:{3}", "{not json"))

	got, err := s.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, mr.Exists("aviary:bird:{3}"))
}

func TestBirdStorage_NilClient(t *testing.T) {
	s := NewBirdStorage(nil, nil)
	ctx := context.Background()

	v, err := s.Version(ctx, 1)
	assert.NoError(t, err)
	ok, err := s.SetIfVersion(ctx, &models.Bird{ID: 1}, v)
	assert.NoError(t, err)
	assert.False(t, ok)
	got, err := s.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, s.Invalidate(ctx, 1))

	var none *BirdStorage
	got, err = none.Get(ctx, 1)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
