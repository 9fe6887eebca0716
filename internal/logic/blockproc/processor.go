// Package blockproc 将一个完整区块转换为分桶后的落表批次。
// 处理是全有或全无的：任何一笔交易适配失败，整个区块报错，
// 不产出半个区块的数据。
package blockproc

import (
	"context"
	"fmt"

	"github.com/blocto/solana-go-sdk/rpc"

	"sol-block-etl/internal/consts"
	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/txparser"
	"sol-block-etl/internal/logic/txwrap"
	"sol-block-etl/internal/store"
	"sol-block-etl/internal/utils"
)

type Processor struct {
	writer      store.RecordWriter
	concurrency int
}

func New(writer store.RecordWriter, concurrency int) *Processor {
	if concurrency <= 0 {
		concurrency = consts.CpuCount
	}
	return &Processor{writer: writer, concurrency: concurrency}
}

// Process 分类区块内全部交易并分桶。
// getBlock 返回体不含自身 slot，按 parentSlot+1 推导。
func (p *Processor) Process(block *rpc.GetBlock) (*core.RecordBatch, error) {
	if block.BlockTime == nil {
		return nil, fmt.Errorf("block missing blockTime, parent_slot=%d", block.ParentSlot)
	}

	slot := block.ParentSlot + 1
	info := core.BlockInfo{Slot: slot, BlockTime: *block.BlockTime}

	type outcome struct {
		ptx *core.ProcessedTx
		err error
	}
	outcomes := utils.ParallelMap(block.Transactions, p.concurrency, func(raw rpc.GetBlockTransaction) outcome {
		tx, err := txwrap.New(raw)
		if err != nil {
			return outcome{err: err}
		}
		return outcome{ptx: txparser.Classify(tx, info)}
	})

	batch := &core.RecordBatch{
		Block: core.BlockRecord{
			Slot:             slot,
			BlockTime:        *block.BlockTime,
			ParentSlot:       block.ParentSlot,
			TransactionCount: uint32(len(block.Transactions)),
		},
	}

	builder := newBatchBuilder(batch)
	for i, o := range outcomes {
		if o.err != nil {
			return nil, fmt.Errorf("slot %d tx %d: %w", slot, i, o.err)
		}
		builder.add(o.ptx)
	}
	builder.finish()
	return batch, nil
}

// ProcessAndStore 处理区块并整批写出。
func (p *Processor) ProcessAndStore(ctx context.Context, block *rpc.GetBlock) (*core.RecordBatch, error) {
	batch, err := p.Process(block)
	if err != nil {
		return nil, err
	}
	if err := p.writer.WriteBatch(ctx, batch); err != nil {
		return nil, fmt.Errorf("write slot %d: %w", batch.Block.Slot, err)
	}
	return batch, nil
}
