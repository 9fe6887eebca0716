package txwrap_test

import (
	"testing"

	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sol-block-etl/internal/logic/txwrap"
	"sol-block-etl/internal/logic/txwrap/txwraptest"
)

const testSig = "5j7s88SfoCWGKNGuGo7YTgQvPGvtiWt2ZdZxNgRDLTfTiRZyAUqFMdWOoIaDvyy1XEkVZHoJRnrCqBSLRoFtPy9x"

func TestAccountTableMergeOrder(t *testing.T) {
	static1 := txwraptest.Addr(1)
	static2 := txwraptest.Addr(2)
	writable := txwraptest.Addr(3)
	readonly := txwraptest.Addr(4)

	tx := txwraptest.NewBuilder(testSig).
		Accounts(static1, static2).
		LoadedAddresses([]string{writable}, []string{readonly}).
		Build()

	// 静态表 → loaded writable → loaded readonly，顺序不可变
	require.Equal(t, 4, tx.AccountCount())
	got := make([]string, 4)
	for i := range got {
		s, err := tx.AccountStr(i)
		require.NoError(t, err)
		got[i] = s
	}
	assert.Equal(t, []string{static1, static2, writable, readonly}, got)
	assert.Equal(t, static1, tx.Signer())
}

func TestAccountIndexOutOfRange(t *testing.T) {
	tx := txwraptest.NewBuilder(testSig).
		Accounts(txwraptest.Addr(1)).
		Build()

	_, err := tx.Account(5)
	assert.Error(t, err)
	_, err = tx.AccountStr(-1)
	assert.Error(t, err)
}

func TestInstructionTreeAndInnerCount(t *testing.T) {
	program := txwraptest.Addr(9)
	tx := txwraptest.NewBuilder(testSig).
		Accounts(txwraptest.Addr(1), txwraptest.Addr(2), program).
		Instruction(2, []int{0, 1}, []byte{1, 2, 3}).
		Inner(2, []int{1, 0}, []byte{4}).
		Inner(2, []int{0}, nil).
		Instruction(2, []int{0}, nil).
		Build()

	instrs := tx.Instructions()
	require.Len(t, instrs, 2)
	assert.Equal(t, 0, instrs[0].IxIndex)
	assert.Equal(t, program, instrs[0].ProgramID.String())
	assert.Equal(t, []byte{1, 2, 3}, instrs[0].Data)
	require.Len(t, instrs[0].Inner, 2)
	assert.Equal(t, []int{1, 0}, instrs[0].Inner[0].Accounts)
	assert.Empty(t, instrs[1].Inner)
	assert.Equal(t, uint16(2), tx.InnerIxCount())
}

func TestInnerInstructionsDecodeFromLooseJSON(t *testing.T) {
	// RPC 返回的内层指令经 SDK 解码后是 map 形态的松散结构，
	// 适配层必须能从这种形态还原指令，而不是依赖具体结构体类型
	program := txwraptest.Addr(9)
	raw := txwraptest.NewBuilder(testSig).
		Accounts(txwraptest.Addr(1), txwraptest.Addr(2), program).
		Instruction(2, []int{0}, []byte{7}).
		RawTransaction()
	raw.Meta.InnerInstructions = []rpc.TransactionMetaInnerInstruction{{
		Index: 0,
		Instructions: []any{
			map[string]any{
				"programIdIndex": float64(2),
				"accounts":       []any{float64(1), float64(0)},
				"data":           "3Bxs4h24hBtQy9rw", // base58
				"stackHeight":    float64(2),
			},
		},
	}}

	tx, err := txwrap.New(raw)
	require.NoError(t, err)
	require.Len(t, tx.Instructions(), 1)
	inner := tx.Instructions()[0].Inner
	require.Len(t, inner, 1)
	assert.Equal(t, program, inner[0].ProgramID.String())
	assert.Equal(t, []int{1, 0}, inner[0].Accounts)
	assert.NotEmpty(t, inner[0].Data)
	assert.Equal(t, 2, inner[0].StackHeight)
}

func TestEmptyInstructionData(t *testing.T) {
	// data 为空串的指令（如 ATA create）必须能构建，不报 base58 错
	tx := txwraptest.NewBuilder(testSig).
		Accounts(txwraptest.Addr(1), txwraptest.Addr(2)).
		Instruction(1, []int{0}, nil).
		Build()

	require.Len(t, tx.Instructions(), 1)
	assert.Nil(t, tx.Instructions()[0].Data)
}

func TestMetaMissing(t *testing.T) {
	raw := txwraptest.NewBuilder(testSig).
		Accounts(txwraptest.Addr(1)).
		RawTransaction()
	raw.Meta = nil

	_, err := txwrap.New(raw)
	assert.Error(t, err)
}

func TestVersionParsing(t *testing.T) {
	legacy := txwraptest.NewBuilder(testSig).
		Accounts(txwraptest.Addr(1)).
		LegacyVersion().
		Build()
	assert.Equal(t, int8(-1), legacy.Version())

	numbered := txwraptest.NewBuilder(testSig).
		Accounts(txwraptest.Addr(1)).
		Build()
	assert.Equal(t, int8(0), numbered.Version())

	raw := txwraptest.NewBuilder(testSig).
		Accounts(txwraptest.Addr(1)).
		RawTransaction()
	raw.Version = nil
	missing, err := txwrap.New(raw)
	require.NoError(t, err)
	assert.Equal(t, int8(-2), missing.Version())
}

func TestProgramDataLogs(t *testing.T) {
	tx := txwraptest.NewBuilder(testSig).
		Accounts(txwraptest.Addr(1)).
		Logs(
			"Program ComputeBudget111111111111111111111111111111 invoke [1]",
			"Program data: Zmlyc3Q=",
			"Program log: something",
			"Program data: c2Vjb25k",
		).
		Build()

	assert.Equal(t, []string{"Zmlyc3Q=", "c2Vjb25k"}, tx.ProgramDataLogs())
}

func TestLookupMergesPrePost(t *testing.T) {
	mint := txwraptest.Addr(7)
	owner := txwraptest.Addr(8)
	account := txwraptest.Addr(2)

	tx := txwraptest.NewBuilder(testSig).
		Accounts(txwraptest.Addr(1), account).
		TokenBalance(1, mint, owner, 6, 5_000_000, 8_500_000).
		Build()

	lookup := tx.Lookup()
	require.Contains(t, lookup, account)
	info := lookup[account]
	assert.Equal(t, mint, info.Mint)
	assert.Equal(t, owner, info.Owner)
	assert.Equal(t, uint8(6), info.Decimals)
	assert.True(t, info.Delta().Equal(decimal.RequireFromString("3.5")), "delta=%s", info.Delta())

	// 同一交易内重复调用返回同一张表
	assert.Equal(t, len(lookup), len(tx.Lookup()))
}

func TestLookupPostOnlyBalance(t *testing.T) {
	mint := txwraptest.Addr(7)
	account := txwraptest.Addr(2)

	tx := txwraptest.NewBuilder(testSig).
		Accounts(txwraptest.Addr(1), account).
		PostOnlyTokenBalance(1, mint, txwraptest.Addr(8), 9, 1_000_000_000).
		Build()

	info := tx.Lookup()[account]
	require.NotNil(t, info)
	assert.True(t, info.AmountPre.IsZero())
	assert.True(t, info.Delta().Equal(decimal.NewFromInt(1)))
}

func TestTokenDecimals(t *testing.T) {
	mint := txwraptest.Addr(7)
	tx := txwraptest.NewBuilder(testSig).
		Accounts(txwraptest.Addr(1), txwraptest.Addr(2)).
		TokenBalance(1, mint, txwraptest.Addr(8), 6, 0, 100).
		Build()

	dec, ok := tx.TokenDecimals(mint)
	require.True(t, ok)
	assert.Equal(t, uint8(6), dec)

	_, ok = tx.TokenDecimals(txwraptest.Addr(99))
	assert.False(t, ok)
}

func TestFeeAndErrorFlags(t *testing.T) {
	tx := txwraptest.NewBuilder(testSig).
		Accounts(txwraptest.Addr(1)).
		Fee(5000).
		ComputeUnits(412_000).
		Failed().
		Build()

	assert.Equal(t, uint64(5000), tx.Fee())
	assert.Equal(t, uint64(412_000), tx.ComputeUnitsConsumed())
	assert.True(t, tx.IsError())
	assert.Equal(t, testSig, tx.Signature())
	assert.NotEmpty(t, tx.Raw())
}
