package store

import (
	"context"
	"sync"

	"sol-block-etl/internal/logic/core"
)

// MemoryWriter 将批次保存在内存中，供测试与本地调试使用。
type MemoryWriter struct {
	mu      sync.Mutex
	batches []*core.RecordBatch
}

func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{}
}

func (w *MemoryWriter) WriteBatch(ctx context.Context, batch *core.RecordBatch) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.batches = append(w.batches, batch)
	return nil
}

func (w *MemoryWriter) Close() {}

// Batches 返回已写入的批次快照。
func (w *MemoryWriter) Batches() []*core.RecordBatch {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]*core.RecordBatch, len(w.batches))
	copy(out, w.batches)
	return out
}
