package service

import (
	"context"
	"errors"
	"time"

	"sol-block-etl/internal/blockfetch"
	"sol-block-etl/internal/pkg/logger"
	"sol-block-etl/internal/svc"
)

// followPollInterval 追平链头后等待新 slot 的轮询间隔。
const followPollInterval = 400 * time.Millisecond

// IngestService 按 slot 顺序回填区块：拉取、解析、写出。
// EndSlot 为 0 时处理完起始区间后持续跟进新 slot。
type IngestService struct {
	svcCtx   *svc.IndexerServiceContext
	ctx      context.Context
	cancel   context.CancelFunc
	doneChan chan struct{}
}

func NewIngestService(svcCtx *svc.IndexerServiceContext) *IngestService {
	ctx, cancel := context.WithCancel(context.Background())
	return &IngestService{
		svcCtx:   svcCtx,
		ctx:      ctx,
		cancel:   cancel,
		doneChan: make(chan struct{}),
	}
}

func (s *IngestService) Start() {
	defer close(s.doneChan)

	cfg := s.svcCtx.Config.IngestConf
	slot := cfg.StartSlot
	logger.Infof("[ingest] 回填启动 start=%d end=%d", cfg.StartSlot, cfg.EndSlot)

	for {
		if cfg.EndSlot > 0 && slot > cfg.EndSlot {
			logger.Infof("[ingest] 回填完成，最后 slot=%d", cfg.EndSlot)
			return
		}
		select {
		case <-s.ctx.Done():
			return
		default:
		}

		if err := s.ingestOne(slot); err != nil {
			if s.ctx.Err() != nil {
				return
			}
			// 写出失败或硬错误：退避后重试同一 slot，不丢块
			logger.Errorf("[ingest] slot=%d 处理失败: %v", slot, err)
			if !s.sleep(followPollInterval) {
				return
			}
			continue
		}
		slot++
	}
}

func (s *IngestService) Stop() {
	s.cancel()
	<-s.doneChan
}

// ingestOne 处理单个 slot。跳过的 slot 视为成功。
func (s *IngestService) ingestOne(slot uint64) error {
	block, err := s.svcCtx.Fetcher.GetBlock(s.ctx, slot)
	if err != nil {
		if errors.Is(err, blockfetch.ErrNotAvailable) {
			logger.Infof("[ingest] slot=%d 无区块，跳过", slot)
			return nil
		}
		return err
	}

	batch, err := s.svcCtx.Processor.ProcessAndStore(s.ctx, block)
	if err != nil {
		return err
	}
	logger.Infof("[ingest] slot=%d 完成，交易=%d 记录=%d",
		batch.Block.Slot, len(batch.Transactions), batch.Size())
	return nil
}

func (s *IngestService) sleep(d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-s.ctx.Done():
		return false
	}
}
