package cache

import (
	"Aviary/config"
	"Aviary/models"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultBirdTTL = 30 * time.Second

// setIfVersion 仅当版本号未变化时回填缓存.
// KEYS[1] 缓存key, KEYS[2] 版本key, ARGV[1] 读库前的版本, ARGV[2] 数据, ARGV[3] 过期毫秒
var setIfVersion = redis.NewScript(`
local v = redis.call('GET', KEYS[2]) or '0'
if v ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2], 'PX', ARGV[3])
return 1
`)

// BirdStorage 鸟类读缓存. A nil storage or nil client turns every call into a
// miss, so the service can run without redis.
//
// Every mutation bumps a per-bird version before dropping the entry. A reader
// captures the version before it loads the row and only writes the row back
// while that version is still current, so a row loaded before a mutation can
// never be cached after it.
type BirdStorage struct {
	redis *redis.Client
	ttl   time.Duration
}

func NewBirdStorage(rds *redis.Client, conf *config.Config) *BirdStorage {
	ttl := defaultBirdTTL
	if conf != nil && conf.Redis != nil && conf.Redis.TTL > 0 {
		ttl = conf.Redis.TTL
	}
	return &BirdStorage{redis: rds, ttl: ttl}
}

func (s *BirdStorage) enabled() bool {
	return s != nil && s.redis != nil
}

// Get returns (nil, nil) on a miss.
func (s *BirdStorage) Get(ctx context.Context, id uint64) (*models.Bird, error) {
	if !s.enabled() {
		return nil, nil
	}
	raw, err := s.redis.Get(ctx, s.name(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var bird models.Bird
	if err := json.Unmarshal(raw, &bird); err != nil {
		// 脏数据直接丢弃
		_ = s.redis.Del(ctx, s.name(id)).Err()
		return nil, nil
	}
	return &bird, nil
}

// Version 读库前调用, 传给 SetIfVersion
func (s *BirdStorage) Version(ctx context.Context, id uint64) (string, error) {
	if !s.enabled() {
		return "", nil
	}
	v, err := s.redis.Get(ctx, s.versionName(id)).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return v, err
}

// SetIfVersion caches bird unless the bird was mutated since version was read.
// It reports whether the entry was written.
func (s *BirdStorage) SetIfVersion(ctx context.Context, bird *models.Bird, version string) (bool, error) {
	if !s.enabled() || bird == nil {
		return false, nil
	}
	raw, err := json.Marshal(bird)
	if err != nil {
		return false, err
	}
	keys := []string{s.name(bird.ID), s.versionName(bird.ID)}
	n, err := setIfVersion.Run(ctx, s.redis, keys, version, raw, s.ttl.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Invalidate 写库成功后调用: bump the version, then drop the entry.
func (s *BirdStorage) Invalidate(ctx context.Context, id uint64) error {
	if !s.enabled() {
		return nil
	}
	pipe := s.redis.TxPipeline()
	pipe.Incr(ctx, s.versionName(id))
	// 版本key比缓存活得久, 避免过期归零后与旧版本号重合
	pipe.Expire(ctx, s.versionName(id), 10*s.ttl)
	pipe.Del(ctx, s.name(id))
	_, err := pipe.Exec(ctx)
	return err
}

// 两个key落在同一个 hash slot, 脚本可在集群下执行
func (s *BirdStorage) name(id uint64) string {
	return fmt.Sprintf("aviary:bird:{%d}", id)
}

func (s *BirdStorage) versionName(id uint64) string {
	return fmt.Sprintf("aviary:bird:{%d}:ver", id)
}
