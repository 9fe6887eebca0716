package blockfetch

import (
	"context"
	"sync"
)

// MemoryCache 进程内缓存，用于测试与单机回填场景。
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[uint64]*CachedBlock
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[uint64]*CachedBlock)}
}

func (c *MemoryCache) Get(ctx context.Context, slot uint64) (*CachedBlock, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[slot]
	return entry, ok, nil
}

func (c *MemoryCache) Set(ctx context.Context, slot uint64, entry *CachedBlock) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[slot] = entry
	return nil
}
