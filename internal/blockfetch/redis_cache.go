package blockfetch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisOption 为区块缓存的 Redis 配置。
type RedisOption struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
	TTLHours  int // 0 表示不过期
}

// RedisCache 将缓存条目以 JSON 存入 Redis，多实例回填时共享进度。
type RedisCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(opt RedisOption) (*RedisCache, error) {
	if opt.KeyPrefix == "" {
		opt.KeyPrefix = "solblock"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opt.Addr,
		Password: opt.Password,
		DB:       opt.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", opt.Addr, err)
	}

	return &RedisCache{
		client: client,
		prefix: opt.KeyPrefix,
		ttl:    time.Duration(opt.TTLHours) * time.Hour,
	}, nil
}

func (c *RedisCache) key(slot uint64) string {
	return fmt.Sprintf("%s:block:%d", c.prefix, slot)
}

func (c *RedisCache) Get(ctx context.Context, slot uint64) (*CachedBlock, bool, error) {
	raw, err := c.client.Get(ctx, c.key(slot)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get slot %d: %w", slot, err)
	}

	var entry CachedBlock
	if err := json.Unmarshal(raw, &entry); err != nil {
		// 条目损坏按不存在处理，随后会被覆盖写修复
		return nil, false, nil
	}
	return &entry, true, nil
}

func (c *RedisCache) Set(ctx context.Context, slot uint64, entry *CachedBlock) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode cache entry slot %d: %w", slot, err)
	}
	if err := c.client.Set(ctx, c.key(slot), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set slot %d: %w", slot, err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
