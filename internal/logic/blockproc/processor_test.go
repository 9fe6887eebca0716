package blockproc

import (
	"context"
	"encoding/binary"
	"testing"

	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sol-block-etl/internal/consts"
	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/ixparser"
	"sol-block-etl/internal/logic/txwrap/txwraptest"
	"sol-block-etl/internal/store"
)

func init() {
	ixparser.Init()
}

func blockOf(txs ...rpc.GetBlockTransaction) *rpc.GetBlock {
	blockTime := int64(1700000400)
	return &rpc.GetBlock{
		ParentSlot:   999,
		BlockTime:    &blockTime,
		Transactions: txs,
	}
}

func transferTx(sig string, lamports uint64) rpc.GetBlockTransaction {
	data := binary.LittleEndian.AppendUint32(nil, 2)
	data = binary.LittleEndian.AppendUint64(data, lamports)
	return txwraptest.NewBuilder(sig).
		Accounts(txwraptest.Addr(1), txwraptest.Addr(2), consts.SystemProgramStr).
		Instruction(2, []int{0, 1}, data).
		RawTransaction()
}

func computeBudgetTx(sig string, limit uint32, priceMicro uint64) rpc.GetBlockTransaction {
	limitData := []byte{2}
	limitData = binary.LittleEndian.AppendUint32(limitData, limit)
	priceData := []byte{3}
	priceData = binary.LittleEndian.AppendUint64(priceData, priceMicro)

	return txwraptest.NewBuilder(sig).
		Accounts(txwraptest.Addr(1), txwraptest.Addr(2), consts.ComputeBudgetProgramStr, consts.SystemProgramStr).
		Instruction(2, nil, limitData).
		Instruction(2, nil, priceData).
		Instruction(3, []int{0, 1}, binary.LittleEndian.AppendUint64(binary.LittleEndian.AppendUint32(nil, 2), 1)).
		RawTransaction()
}

func TestProcessDerivesSlotFromParent(t *testing.T) {
	batch, err := New(store.NewMemoryWriter(), 1).Process(blockOf(transferTx("p1", 5)))
	require.NoError(t, err)

	assert.Equal(t, uint64(1000), batch.Block.Slot)
	assert.Equal(t, uint64(999), batch.Block.ParentSlot)
	assert.Equal(t, uint32(1), batch.Block.TransactionCount)
	require.Len(t, batch.Transactions, 1)
	assert.Equal(t, uint64(1000), batch.Transactions[0].Slot)
}

func TestProcessBucketsRecords(t *testing.T) {
	batch, err := New(store.NewMemoryWriter(), 2).Process(blockOf(
		transferTx("p1", 1_000_000_000),
		computeBudgetTx("p2", 500_000, 1_000_000),
	))
	require.NoError(t, err)

	require.Len(t, batch.SolTransfers, 2)
	require.Len(t, batch.ProgramIxs, 4)

	// 同一签名的 limit 与 price 合并为一条记录
	require.Len(t, batch.ComputeBudgets, 1)
	cb := batch.ComputeBudgets[0]
	assert.Equal(t, "p2", cb.Signature)
	assert.Equal(t, uint64(500_000), cb.UnitLimit)
	assert.Equal(t, 1.0, cb.Fee)
}

func TestProcessRequiresBlockTime(t *testing.T) {
	block := blockOf(transferTx("p1", 1))
	block.BlockTime = nil

	_, err := New(store.NewMemoryWriter(), 1).Process(block)
	assert.Error(t, err)
}

func TestProcessIsAllOrNothing(t *testing.T) {
	bad := transferTx("broken", 1)
	bad.Meta = nil

	_, err := New(store.NewMemoryWriter(), 2).Process(blockOf(transferTx("good", 1), bad))
	assert.Error(t, err)
}

func TestProcessAndStoreWritesBatch(t *testing.T) {
	writer := store.NewMemoryWriter()
	batch, err := New(writer, 1).ProcessAndStore(context.Background(), blockOf(transferTx("p1", 42)))
	require.NoError(t, err)

	written := writer.Batches()
	require.Len(t, written, 1)
	assert.Equal(t, batch, written[0])
}

func TestDiscardedTxKeepsStructuredRecordsOnly(t *testing.T) {
	batch, err := New(store.NewMemoryWriter(), 1).Process(blockOf(transferTx("p1", 10)))
	require.NoError(t, err)

	tx := batch.Transactions[0]
	assert.True(t, tx.Discarded)
	assert.Equal(t, string(core.DiscardProcessed), tx.DiscardReason)
	assert.Nil(t, tx.Raw)
	require.Len(t, batch.SolTransfers, 1)
	assert.Equal(t, uint64(10), batch.SolTransfers[0].Lamports)
}
