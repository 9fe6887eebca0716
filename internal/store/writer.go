// Package store 定义记录落地的边界。上游按区块产出 RecordBatch，
// 由 RecordWriter 的具体实现负责持久化（Kafka、内存等）。
package store

import (
	"context"

	"sol-block-etl/internal/logic/core"
)

// RecordWriter 批量写出一个区块的全部记录。
// 实现必须保证：返回 nil 时整批已被接收；返回 error 时调用方可安全重试
// 整批（下游按 (slot, signature, ix_idx) 幂等去重）。
type RecordWriter interface {
	WriteBatch(ctx context.Context, batch *core.RecordBatch) error
	Close()
}
