package blockfetch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/rpc"

	"sol-block-etl/internal/pkg/logger"
)

// ErrNotAvailable 表示该 slot 无区块可取：被共识跳过，或重试预算耗尽。
// 调用方应跳到下一个 slot，而不是重试。
var ErrNotAvailable = errors.New("block not available")

// errSkipped 表示节点明确答复该 slot 被跳过，无需继续重试。
var errSkipped = errors.New("slot was skipped")

// 节点返回的已知错误码。
// 来源: https://github.com/solana-labs/solana/blob/master/rpc-client-api/src/custom_error.rs
const (
	codeBlockNotAvailable   = -32004
	codeSlotSkipped         = -32007
	codeLongTermSlotSkipped = -32009
)

// Config 控制拉取行为。重试分两层：MaxRetry 是单次调用内的 RPC 尝试
// 次数；MaxRetryGlobal 是跨调用的负缓存预算，耗尽后该 slot 直接按
// 不可用返回，不再打到节点。
type Config struct {
	Endpoint       string
	MaxRetry       int
	MaxRetryGlobal int
	SleepMs        int // 线性退避基数
	Concurrency    int
}

type Fetcher struct {
	source BlockSource
	cache  BlockCache
	cfg    Config
	pool   chan struct{} // 准入池：一次完整的重试回合占用一个名额
}

func New(source BlockSource, cache BlockCache, cfg Config) *Fetcher {
	if cfg.MaxRetry <= 0 {
		cfg.MaxRetry = 7
	}
	if cfg.MaxRetryGlobal <= 0 {
		cfg.MaxRetryGlobal = 3
	}
	if cfg.SleepMs <= 0 {
		cfg.SleepMs = 40
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	return &Fetcher{
		source: source,
		cache:  cache,
		cfg:    cfg,
		pool:   make(chan struct{}, cfg.Concurrency),
	}
}

// GetBlock 返回某 slot 的确认区块。
// 缓存命中（成功条目）不产生任何 RPC 调用；负缓存条目只有在重试预算
// 未耗尽时才会触发重新拉取，并把已消耗的预算带入本次结果。
func (f *Fetcher) GetBlock(ctx context.Context, slot uint64) (*rpc.GetBlock, error) {
	priorRetries := 0
	if entry, ok, err := f.cache.Get(ctx, slot); err != nil {
		logger.Warnf("[blockfetch] cache get failed, slot=%d: %v", slot, err)
	} else if ok {
		if entry.Block != nil {
			return entry.Block, nil
		}
		if entry.NotFound != nil {
			if entry.NotFound.Retries >= f.cfg.MaxRetryGlobal {
				return nil, ErrNotAvailable
			}
			priorRetries = entry.NotFound.Retries
		}
	}

	select {
	case f.pool <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-f.pool }()

	block, err := f.fetchWithRetries(ctx, slot)
	if err == nil {
		f.store(ctx, slot, &CachedBlock{Block: block})
		return block, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}

	f.store(ctx, slot, &CachedBlock{NotFound: &NotFoundMark{
		Slot:      slot,
		Retries:   priorRetries + 1,
		LastFetch: time.Now().Unix(),
		Error:     err.Error(),
	}})

	if errors.Is(err, errSkipped) {
		return nil, ErrNotAvailable
	}
	return nil, err
}

// fetchWithRetries 执行单次调用内的重试回合：每次尝试前线性退避等待
// (attempt+1)×SleepMs。"Block not available" 与其它临时错误继续重试，
// "skipped, or missing" 立即终止（该 slot 永远不会有区块）。
func (f *Fetcher) fetchWithRetries(ctx context.Context, slot uint64) (*rpc.GetBlock, error) {
	var lastErr error
	for attempt := 0; attempt < f.cfg.MaxRetry; attempt++ {
		backoff := time.Duration(attempt+1) * time.Duration(f.cfg.SleepMs) * time.Millisecond
		if err := sleepCtx(ctx, backoff); err != nil {
			return nil, err
		}

		resp, err := f.source.GetBlock(ctx, slot)
		if err != nil {
			lastErr = err
			logger.Warnf("[blockfetch] rpc transport error, slot=%d attempt=%d: %v", slot, attempt, err)
			continue
		}

		if resp.Error != nil {
			switch {
			case isSkipped(resp.Error):
				return nil, fmt.Errorf("slot %d: %s: %w", slot, resp.Error.Message, errSkipped)
			case isNotYetAvailable(resp.Error):
				lastErr = fmt.Errorf("slot %d not yet available: %s", slot, resp.Error.Message)
			default:
				lastErr = fmt.Errorf("slot %d rpc error %d: %s", slot, resp.Error.Code, resp.Error.Message)
				logger.Warnf("[blockfetch] %v, attempt=%d", lastErr, attempt)
			}
			continue
		}

		if resp.Result == nil {
			lastErr = fmt.Errorf("slot %d: empty result", slot)
			continue
		}
		return resp.Result, nil
	}
	return nil, fmt.Errorf("slot %d: retries exhausted: %w", slot, lastErr)
}

func (f *Fetcher) store(ctx context.Context, slot uint64, entry *CachedBlock) {
	if err := f.cache.Set(ctx, slot, entry); err != nil {
		logger.Warnf("[blockfetch] cache set failed, slot=%d: %v", slot, err)
	}
}

func isNotYetAvailable(e *rpc.JsonRpcError) bool {
	return e.Code == codeBlockNotAvailable || strings.Contains(e.Message, "Block not available")
}

func isSkipped(e *rpc.JsonRpcError) bool {
	return e.Code == codeSlotSkipped || e.Code == codeLongTermSlotSkipped ||
		strings.Contains(e.Message, "skipped, or missing")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
