// Package blockfetch 负责按 slot 拉取确认区块：RPC 调用带线性退避重试，
// 结果（含"查不到"这一事实）写入缓存，保证同一 slot 不被反复拉取。
package blockfetch

import (
	"context"

	"github.com/blocto/solana-go-sdk/rpc"
)

// CachedBlock 是缓存条目，两种形态二选一：
// Block 非空表示成功拉取的完整区块；NotFound 非空表示该 slot 当前
// 拉不到（被跳过、尚未可用或持续出错），并携带已消耗的重试预算。
type CachedBlock struct {
	Block    *rpc.GetBlock `json:"block,omitempty"`
	NotFound *NotFoundMark `json:"not_found,omitempty"`
}

// NotFoundMark 记录负缓存状态。Retries 跨调用累计，达到全局预算后
// 该 slot 不再触发 RPC。
type NotFoundMark struct {
	Slot      uint64 `json:"slot"`
	Retries   int    `json:"retries"`
	LastFetch int64  `json:"last_fetch"`
	Error     string `json:"error,omitempty"`
}

// BlockCache 是区块缓存后端。Get 的第二个返回值表示条目是否存在。
// 实现不要求条目间的原子性：并发拉取同一 slot 最坏情况是重复的
// RPC 调用与一次覆盖写，结果等价。
type BlockCache interface {
	Get(ctx context.Context, slot uint64) (*CachedBlock, bool, error)
	Set(ctx context.Context, slot uint64, entry *CachedBlock) error
}
