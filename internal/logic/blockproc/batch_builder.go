package blockproc

import (
	"sol-block-etl/internal/logic/core"
)

// batchBuilder 将每笔交易的解析产物分桶进 RecordBatch。
// ComputeBudget 指令按签名聚合：一笔交易通常同时带 unit limit 与
// unit price 两条指令，合并为一条记录。
type batchBuilder struct {
	batch   *core.RecordBatch
	cbBySig map[string]*core.ComputeBudgetRecord
	cbOrder []string
}

func newBatchBuilder(batch *core.RecordBatch) *batchBuilder {
	return &batchBuilder{
		batch:   batch,
		cbBySig: make(map[string]*core.ComputeBudgetRecord),
	}
}

func (b *batchBuilder) add(ptx *core.ProcessedTx) {
	b.batch.Transactions = append(b.batch.Transactions, ptx.Tx)
	b.batch.ProgramIxs = append(b.batch.ProgramIxs, ptx.ProgramRecords...)

	for _, res := range ptx.Results {
		switch data := res.Data.(type) {
		case *core.SolTransfer:
			b.batch.SolTransfers = append(b.batch.SolTransfers, *data)
		case *core.TokenTransfer:
			b.batch.TokenTransfers = append(b.batch.TokenTransfers, *data)
		case *core.SwapInfo:
			b.batch.Swaps = append(b.batch.Swaps, *data)
		case *core.NewToken:
			b.batch.NewTokens = append(b.batch.NewTokens, *data)
		case *core.AccountRecord:
			b.batch.Accounts = append(b.batch.Accounts, *data)
		case *core.SupplyChange:
			b.batch.SupplyChanges = append(b.batch.SupplyChanges, *data)
		case *core.ComputeBudgetData:
			b.mergeComputeBudget(&ptx.Tx, data)
		}
	}
}

func (b *batchBuilder) mergeComputeBudget(tx *core.TxRecord, data *core.ComputeBudgetData) {
	if data.Kind != core.ComputeBudgetSetComputeUnitLimit && data.Kind != core.ComputeBudgetSetComputeUnitPrice {
		return
	}

	rec, ok := b.cbBySig[tx.Signature]
	if !ok {
		rec = &core.ComputeBudgetRecord{
			Slot:      tx.Slot,
			BlockTime: tx.BlockTime,
			Signature: tx.Signature,
		}
		b.cbBySig[tx.Signature] = rec
		b.cbOrder = append(b.cbOrder, tx.Signature)
	}

	switch data.Kind {
	case core.ComputeBudgetSetComputeUnitLimit:
		rec.UnitLimit = uint64(data.UnitLimit)
	case core.ComputeBudgetSetComputeUnitPrice:
		rec.Fee = data.UnitPrice
	}
}

// finish 按交易出现顺序落定 compute budget 聚合记录。
func (b *batchBuilder) finish() {
	for _, sig := range b.cbOrder {
		b.batch.ComputeBudgets = append(b.batch.ComputeBudgets, *b.cbBySig[sig])
	}
}
