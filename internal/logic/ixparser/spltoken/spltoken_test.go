package spltoken

import (
	"encoding/binary"
	"testing"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sol-block-etl/internal/consts"
	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/ixparser/common"
	"sol-block-etl/internal/logic/txwrap"
	"sol-block-etl/internal/logic/txwrap/txwraptest"
	"sol-block-etl/internal/types"
)

var (
	mintAddr  = txwraptest.Addr(9)
	ownerA    = txwraptest.Addr(1)
	ownerB    = txwraptest.Addr(2)
	tokenAccA = txwraptest.Addr(3)
	tokenAccB = txwraptest.Addr(4)
)

func run(t *testing.T, tx *txwrap.Tx) (core.ParsedIx, error) {
	t.Helper()
	m := map[types.Pubkey]common.Handler{}
	RegisterHandlers(m)
	return m[consts.TokenProgram](&common.Context{Tx: tx, Block: core.BlockInfo{Slot: 7, BlockTime: 1700000100}}, tx.Instructions()[0])
}

func ixData(disc sdktoken.Instruction, amount uint64) []byte {
	data := []byte{byte(disc)}
	return binary.LittleEndian.AppendUint64(data, amount)
}

func TestTransferEnrichedFromBalances(t *testing.T) {
	// 账户表: [ownerA, tokenAccA, tokenAccB, TokenProgram]
	tx := txwraptest.NewBuilder("t1").
		Accounts(ownerA, tokenAccA, tokenAccB, consts.TokenProgramStr).
		Instruction(3, []int{1, 2, 0}, ixData(sdktoken.InstructionTransfer, 250_000)).
		TokenBalance(1, mintAddr, ownerA, 6, 1_000_000, 750_000).
		TokenBalance(2, mintAddr, ownerB, 6, 0, 250_000).
		Build()

	res, err := run(t, tx)
	require.NoError(t, err)
	require.True(t, res.Parsed)
	assert.Equal(t, "transfer", res.Kind)

	tr := res.Data.(*core.TokenTransfer)
	assert.Equal(t, tokenAccA, tr.FromAccount)
	assert.Equal(t, tokenAccB, tr.ToAccount)
	assert.Equal(t, float64(250_000), tr.Amount)
	assert.Equal(t, ownerA, tr.Authority)
	assert.Equal(t, ownerA, tr.FromOwner)
	assert.Equal(t, ownerB, tr.ToOwner)
	assert.Equal(t, mintAddr, tr.Token)
	require.NotNil(t, tr.Decimals)
	assert.Equal(t, uint8(6), *tr.Decimals)
}

func TestTransferCheckedFallsBackToInstruction(t *testing.T) {
	// 余额快照为空，mint 和精度应取自指令本身
	data := append(ixData(sdktoken.InstructionTransferChecked, 42), 6)
	tx := txwraptest.NewBuilder("t2").
		Accounts(ownerA, tokenAccA, mintAddr, tokenAccB, consts.TokenProgramStr).
		Instruction(4, []int{1, 2, 3, 0}, data).
		Build()

	res, err := run(t, tx)
	require.NoError(t, err)
	assert.Equal(t, "transferChecked", res.Kind)

	tr := res.Data.(*core.TokenTransfer)
	assert.Equal(t, tokenAccA, tr.FromAccount)
	assert.Equal(t, tokenAccB, tr.ToAccount)
	assert.Equal(t, mintAddr, tr.Token)
	require.NotNil(t, tr.Decimals)
	assert.Equal(t, uint8(6), *tr.Decimals)
	assert.Empty(t, tr.FromOwner)
}

func TestInitializeAccountVariants(t *testing.T) {
	// variant 0: owner 来自账户表
	tx := txwraptest.NewBuilder("i0").
		Accounts(tokenAccA, mintAddr, ownerA, consts.TokenProgramStr).
		Instruction(3, []int{0, 1, 2}, []byte{byte(sdktoken.InstructionInitializeAccount)}).
		PostOnlyTokenBalance(0, mintAddr, ownerA, 6, 0).
		Build()

	res, err := run(t, tx)
	require.NoError(t, err)
	assert.Equal(t, "initializeAccount", res.Kind)
	acc := res.Data.(*core.AccountRecord)
	assert.Equal(t, tokenAccA, acc.Account)
	assert.Equal(t, ownerA, acc.Owner)
	assert.Equal(t, mintAddr, acc.Mint)
	assert.Equal(t, "i0", acc.InitTx)
	require.NotNil(t, acc.Decimals)
	assert.Equal(t, uint8(6), *acc.Decimals)

	// variant 3: owner 在指令 data 中
	ownerKey := types.PubkeyFromBase58(ownerB)
	data := append([]byte{byte(sdktoken.InstructionInitializeAccount3)}, ownerKey[:]...)
	tx = txwraptest.NewBuilder("i3").
		Accounts(tokenAccA, mintAddr, consts.TokenProgramStr).
		Instruction(2, []int{0, 1}, data).
		Build()

	res, err = run(t, tx)
	require.NoError(t, err)
	assert.Equal(t, "initializeAccount3", res.Kind)
	assert.Equal(t, ownerB, res.Data.(*core.AccountRecord).Owner)
}

func TestCloseAccount(t *testing.T) {
	tx := txwraptest.NewBuilder("c1").
		Accounts(tokenAccA, ownerA, consts.TokenProgramStr).
		Instruction(2, []int{0, 1, 1}, []byte{byte(sdktoken.InstructionCloseAccount)}).
		TokenBalance(0, mintAddr, ownerA, 6, 100, 0).
		Build()

	res, err := run(t, tx)
	require.NoError(t, err)

	acc := res.Data.(*core.AccountRecord)
	assert.Equal(t, tokenAccA, acc.Account)
	assert.Equal(t, ownerA, acc.Owner)
	assert.Equal(t, ownerA, acc.CloseDestination)
	assert.Equal(t, "c1", acc.CloseTx)
	assert.Equal(t, mintAddr, acc.Mint)
}

func TestMintToAndBurn(t *testing.T) {
	tx := txwraptest.NewBuilder("m1").
		Accounts(mintAddr, tokenAccA, ownerA, consts.TokenProgramStr).
		Instruction(3, []int{0, 1, 2}, ixData(sdktoken.InstructionMintTo, 5_000)).
		Build()

	res, err := run(t, tx)
	require.NoError(t, err)
	assert.Equal(t, "mintTo", res.Kind)

	sc := res.Data.(*core.SupplyChange)
	assert.Equal(t, mintAddr, sc.Mint)
	assert.Equal(t, tokenAccA, sc.Account)
	assert.Equal(t, ownerA, sc.Authority)
	assert.True(t, sc.Amount.Equal(decimal.NewFromInt(5_000)))

	tx = txwraptest.NewBuilder("b1").
		Accounts(tokenAccA, mintAddr, ownerA, consts.TokenProgramStr).
		Instruction(3, []int{0, 1, 2}, ixData(sdktoken.InstructionBurn, 5_000)).
		Build()

	res, err = run(t, tx)
	require.NoError(t, err)
	assert.Equal(t, "burn", res.Kind)
	assert.True(t, res.Data.(*core.SupplyChange).Amount.Equal(decimal.NewFromInt(-5_000)))
}

func TestSyncNativeIsParsedNoData(t *testing.T) {
	tx := txwraptest.NewBuilder("s1").
		Accounts(tokenAccA, consts.TokenProgramStr).
		Instruction(1, []int{0}, []byte{byte(sdktoken.InstructionSyncNative)}).
		Build()

	res, err := run(t, tx)
	require.NoError(t, err)
	assert.True(t, res.Parsed)
	assert.Equal(t, "syncNative", res.Kind)
	assert.Nil(t, res.Data)
}

func TestUnhandledKind(t *testing.T) {
	tx := txwraptest.NewBuilder("a1").
		Accounts(tokenAccA, ownerA, consts.TokenProgramStr).
		Instruction(2, []int{0, 1, 1}, ixData(sdktoken.InstructionApprove, 10)).
		Build()

	res, err := run(t, tx)
	require.NoError(t, err)
	assert.False(t, res.Parsed)
	assert.Equal(t, "approve", res.Kind)
}
