package service

import (
	"Aviary/config"
	"Aviary/dao"
	"Aviary/dao/cache"
	"Aviary/pkg/database/dbtest"
	"Aviary/pkg/rocketmq"
	"Aviary/types"
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/apache/rocketmq-client-go/v2/primitive"
	"github.com/redis/go-redis/v9"
	"github.com/sourcegraph/conc/pool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func newBirdService(t *testing.T) (*BirdService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rds := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rds.Close() })

	conf := &config.Config{Redis: &config.Redis{Enabled: true, TTL: time.Minute}}
	return &BirdService{
		BirdDAO: dao.NewBirdDAO(dbtest.New(t)),
		Cache:   cache.NewBirdStorage(rds, conf),
	}, mr
}

func ptr[T any](v T) *T { return &v }

func TestBirdService_CreateValidation(t *testing.T) {
	s, _ := newBirdService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, &types.CreateBirdRequest{Name: "   "})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Create(ctx, &types.CreateBirdRequest{Name: strings.Repeat("a", 101)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Create(ctx, &types.CreateBirdRequest{Name: "robin", Species: strings.Repeat("b", 101)})
	assert.ErrorIs(t, err, ErrValidation)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	bird, err := s.Create(ctx, &types.CreateBirdRequest{Name: "  robin ", Species: "turdidae"})
	require.NoError(t, err)
	assert.Equal(t, "robin", bird.Name)
	assert.EqualValues(t, 0, bird.Likes)
}

func TestBirdService_UnknownID(t *testing.T) {
	s, _ := newBirdService(t)
	ctx := context.Background()

	_, err := s.Get(ctx, 42)
	assert.ErrorIs(t, err, ErrBirdNotFound)
	_, err = s.Update(ctx, 42, &types.UpdateBirdRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, ErrBirdNotFound)
	_, err = s.Like(ctx, 42)
	assert.ErrorIs(t, err, ErrBirdNotFound)
	assert.ErrorIs(t, s.Destroy(ctx, 42), ErrBirdNotFound)

	list, err := s.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestBirdService_UpdatePartial(t *testing.T) {
	s, _ := newBirdService(t)
	ctx := context.Background()
	bird, err := s.Create(ctx, &types.CreateBirdRequest{Name: "robin", Species: "turdidae"})
	require.NoError(t, err)

	got, err := s.Update(ctx, bird.ID, &types.UpdateBirdRequest{Name: ptr("european robin")})
	require.NoError(t, err)
	assert.Equal(t, "european robin", got.Name)
	assert.Equal(t, "turdidae", got.Species)

	_, err = s.Update(ctx, bird.ID, &types.UpdateBirdRequest{Likes: ptr(int64(-1))})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Update(ctx, bird.ID, &types.UpdateBirdRequest{Name: ptr("")})
	assert.ErrorIs(t, err, ErrValidation)

	got, err = s.Update(ctx, bird.ID, &types.UpdateBirdRequest{Likes: ptr(int64(10))})
	require.NoError(t, err)
	assert.EqualValues(t, 10, got.Likes)

	same, err := s.Update(ctx, bird.ID, &types.UpdateBirdRequest{})
	require.NoError(t, err)
	assert.Equal(t, got.Name, same.Name)
	assert.EqualValues(t, 10, same.Likes)
}

func TestBirdService_LikeInvalidatesCache(t *testing.T) {
	s, mr := newBirdService(t)
	ctx := context.Background()
	bird, err := s.Create(ctx, &types.CreateBirdRequest{Name: "robin"})
	require.NoError(t, err)

	_, err = s.Get(ctx, bird.ID)
	require.NoError(t, err)
	assert.True(t, mr.Exists("aviary:bird:{1}"))

	for i := 0; i < 3; i++ {
		_, err = s.Like(ctx, bird.ID)
		require.NoError(t, err)
	}
	assert.False(t, mr.Exists("aviary:bird:{1}"))

	got, err := s.Get(ctx, bird.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, got.Likes)
}

func TestBirdService_DestroyInvalidatesCache(t *testing.T) {
	s, mr := newBirdService(t)
	ctx := context.Background()
	bird, err := s.Create(ctx, &types.CreateBirdRequest{Name: "robin"})
	require.NoError(t, err)

	_, err = s.Get(ctx, bird.ID)
	require.NoError(t, err)
	require.NoError(t, s.Destroy(ctx, bird.ID))
	assert.False(t, mr.Exists("aviary:bird:{1}"))

	_, err = s.Get(ctx, bird.ID)
	assert.ErrorIs(t, err, ErrBirdNotFound)
}

func TestBirdService_CacheDownFallsBackToStore(t *testing.T) {
	s, mr := newBirdService(t)
	ctx := context.Background()
	bird, err := s.Create(ctx, &types.CreateBirdRequest{Name: "robin"})
	require.NoError(t, err)

	mr.Close()

	got, err := s.Get(ctx, bird.ID)
	require.NoError(t, err)
	assert.Equal(t, "robin", got.Name)

	_, err = s.Like(ctx, bird.ID)
	require.NoError(t, err)
}

func TestBirdService_ConcurrentLikes(t *testing.T) {
	const n = 40
	s, _ := newBirdService(t)
	ctx := context.Background()
	bird, err := s.Create(ctx, &types.CreateBirdRequest{Name: "robin"})
	require.NoError(t, err)

	p := pool.New().WithErrors().WithMaxGoroutines(8)
	for i := 0; i < n; i++ {
		p.Go(func() error {
			_, err := s.Like(ctx, bird.ID)
			return err
		})
	}
	require.NoError(t, p.Wait())

	got, err := s.Get(ctx, bird.ID)
	require.NoError(t, err)
	assert.EqualValues(t, n, got.Likes)
}

// Get loads the row, a like commits, then Get writes its copy back.
func TestBirdService_GetDoesNotCacheRowOlderThanLike(t *testing.T) {
	s, _ := newBirdService(t)
	ctx := context.Background()
	bird, err := s.Create(ctx, &types.CreateBirdRequest{Name: "robin"})
	require.NoError(t, err)

	version, err := s.Cache.Version(ctx, bird.ID)
	require.NoError(t, err)
	stale, err := s.BirdDAO.FindByID(ctx, bird.ID)
	require.NoError(t, err)

	_, err = s.Like(ctx, bird.ID)
	require.NoError(t, err)

	written, err := s.Cache.SetIfVersion(ctx, stale, version)
	require.NoError(t, err)
	assert.False(t, written)

	got, err := s.Get(ctx, bird.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Likes)

	// 之后的读取走缓存, 仍是最新值
	got, err = s.Get(ctx, bird.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Likes)
}

type recordingSender struct {
	mu   sync.Mutex
	msgs []*primitive.Message
	err  error
}

func (r *recordingSender) SendSync(_ context.Context, msgs ...*primitive.Message) (*primitive.SendResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	r.msgs = append(r.msgs, msgs...)
	return &primitive.SendResult{MsgID: strconv.Itoa(len(r.msgs))}, nil
}

func (r *recordingSender) Shutdown() error { return nil }

func (r *recordingSender) sent() []*primitive.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*primitive.Message(nil), r.msgs...)
}

func TestBirdService_PublishesEvents(t *testing.T) {
	s, _ := newBirdService(t)
	rec := &recordingSender{}
	s.Producer = rocketmq.NewProducerWithSender("bird_events", rec)
	ctx := context.Background()

	bird, err := s.Create(ctx, &types.CreateBirdRequest{Name: "robin"})
	require.NoError(t, err)
	key := strconv.FormatUint(bird.ID, 10)

	_, err = s.Like(ctx, bird.ID)
	require.NoError(t, err)
	_, err = s.Like(ctx, bird.ID)
	require.NoError(t, err)
	_, err = s.Update(ctx, bird.ID, &types.UpdateBirdRequest{Species: ptr("turdidae")})
	require.NoError(t, err)

	// 空更新与失败的操作都不发事件
	_, err = s.Update(ctx, bird.ID, &types.UpdateBirdRequest{})
	require.NoError(t, err)
	_, err = s.Like(ctx, 999)
	require.ErrorIs(t, err, ErrBirdNotFound)

	require.NoError(t, s.Destroy(ctx, bird.ID))

	msgs := rec.sent()
	tags := make([]string, 0, len(msgs))
	for _, m := range msgs {
		tags = append(tags, m.GetTags())
		assert.Equal(t, "bird_events", m.Topic)
		assert.Equal(t, key, m.GetKeys())
		assert.EqualValues(t, bird.ID, gjson.GetBytes(m.Body, "bird_id").Uint())
		assert.NotEmpty(t, gjson.GetBytes(m.Body, "id").String())
	}
	assert.Equal(t, []string{
		types.BirdCreated,
		types.BirdLiked,
		types.BirdLiked,
		types.BirdUpdated,
		types.BirdDestroyed,
	}, tags)

	require.Len(t, msgs, 5)
	assert.EqualValues(t, 2, gjson.GetBytes(msgs[2].Body, "likes").Int())
	assert.Equal(t, types.BirdDestroyed, gjson.GetBytes(msgs[4].Body, "type").String())
	assert.EqualValues(t, 2, gjson.GetBytes(msgs[4].Body, "likes").Int())
}

func TestBirdService_PublishFailureDoesNotFailRequest(t *testing.T) {
	s, _ := newBirdService(t)
	s.Producer = rocketmq.NewProducerWithSender("bird_events", &recordingSender{err: errors.New("broker down")})
	ctx := context.Background()

	bird, err := s.Create(ctx, &types.CreateBirdRequest{Name: "robin"})
	require.NoError(t, err)

	liked, err := s.Like(ctx, bird.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, liked.Likes)

	require.NoError(t, s.Destroy(ctx, bird.ID))
	_, err = s.Get(ctx, bird.ID)
	assert.ErrorIs(t, err, ErrBirdNotFound)
}
