package computebudget

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sol-block-etl/internal/consts"
	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/ixparser/common"
	"sol-block-etl/internal/logic/txwrap/txwraptest"
	"sol-block-etl/internal/types"
)

func parse(t *testing.T, data []byte) core.ParsedIx {
	t.Helper()
	tx := txwraptest.NewBuilder("cbsig").
		Accounts(txwraptest.Addr(1), consts.ComputeBudgetProgramStr).
		Instruction(1, nil, data).
		Build()

	m := map[types.Pubkey]common.Handler{}
	RegisterHandlers(m)
	res, err := m[consts.ComputeBudgetProgram](&common.Context{Tx: tx}, tx.Instructions()[0])
	require.NoError(t, err)
	return res
}

func TestSetComputeUnitLimit(t *testing.T) {
	data := make([]byte, 5)
	data[0] = SetComputeUnitLimit
	binary.LittleEndian.PutUint32(data[1:], 500_000)

	res := parse(t, data)
	assert.True(t, res.Parsed)

	cb := res.Data.(*core.ComputeBudgetData)
	assert.Equal(t, core.ComputeBudgetSetComputeUnitLimit, cb.Kind)
	assert.Equal(t, uint32(500_000), cb.UnitLimit)
}

func TestSetComputeUnitPrice(t *testing.T) {
	data := make([]byte, 9)
	data[0] = SetComputeUnitPrice
	binary.LittleEndian.PutUint64(data[1:], 1_000_000) // 1e6 micro-lamports = 1 lamport

	res := parse(t, data)
	cb := res.Data.(*core.ComputeBudgetData)
	assert.Equal(t, core.ComputeBudgetSetComputeUnitPrice, cb.Kind)
	assert.Equal(t, 1.0, cb.UnitPrice)
}

func TestRequestHeapFrame(t *testing.T) {
	res := parse(t, []byte{RequestHeapFrame, 0, 0, 4, 0})
	cb := res.Data.(*core.ComputeBudgetData)
	assert.Equal(t, core.ComputeBudgetRequestHeapFrame, cb.Kind)
}

func TestUnknownDiscriminator(t *testing.T) {
	for _, data := range [][]byte{nil, {7}, {SetComputeUnitLimit, 1}} {
		res := parse(t, data)
		assert.True(t, res.Parsed)
		assert.Equal(t, core.ComputeBudgetUnknown, res.Data.(*core.ComputeBudgetData).Kind)
	}
}
