package pumpfun

import (
	"encoding/base64"
	"testing"

	"github.com/near/borsh-go"
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
	mint = types.PubkeyFromBase58(txwraptest.Addr(9))
	user = types.PubkeyFromBase58(txwraptest.Addr(1))
)

func eventLog(t *testing.T, disc []byte, ev any) string {
	t.Helper()
	payload, err := borsh.Serialize(ev)
	require.NoError(t, err)
	return "Program data: " + base64.StdEncoding.EncodeToString(append(append([]byte{}, disc...), payload...))
}

func run(t *testing.T, tx *txwrap.Tx, occurrence int) (core.ParsedIx, error) {
	t.Helper()
	m := map[types.Pubkey]common.Handler{}
	RegisterHandlers(m)
	ctx := &common.Context{Tx: tx, Block: core.BlockInfo{Slot: 42, BlockTime: 1700000200}, Occurrence: occurrence}
	return m[consts.PumpFunProgram](ctx, tx.Instructions()[occurrence])
}

func buildTx(t *testing.T, logs ...string) *txwrap.Tx {
	b := txwraptest.NewBuilder("pfsig").
		Accounts(user.String(), txwraptest.Addr(5), consts.PumpFunProgramStr).
		Logs(logs...).
		TokenBalance(1, mint.String(), user.String(), 6, 0, 1_428_217_952)
	for range logs {
		b.Instruction(2, []int{0, 1}, []byte{0xde, 0xad})
	}
	return b.Build()
}

func TestTradeBuy(t *testing.T) {
	log := eventLog(t, discTrade, tradeEvent{
		Mint:        mint,
		SolAmount:   2_000_000_000, // 2.0 SOL
		TokenAmount: 1_428_217_952, // 1428.217952 @ 6 位精度
		IsBuy:       true,
		User:        user,
		Timestamp:   1700000200,
	})

	res, err := run(t, buildTx(t, log), 0)
	require.NoError(t, err)
	require.True(t, res.Parsed)
	assert.Equal(t, "trade", res.Kind)

	swap := res.Data.(*core.SwapInfo)
	assert.Equal(t, core.SwapBuy, swap.SwapType)
	assert.Equal(t, core.DexPumpFun, swap.Dex)
	assert.Equal(t, consts.WSOLMintStr, swap.TokenIn)
	assert.Equal(t, 2.0, swap.AmountIn)
	assert.Equal(t, mint.String(), swap.TokenOut)
	assert.Equal(t, 1428.217952, swap.AmountOut)
	assert.Equal(t, user.String(), swap.Signer)
}

func TestTradeZeroMintRejected(t *testing.T) {
	log := eventLog(t, discTrade, tradeEvent{
		Mint:        types.Pubkey{},
		SolAmount:   1_000_000_000,
		TokenAmount: 1_000_000,
		IsBuy:       true,
		User:        user,
	})

	_, err := run(t, buildTx(t, log), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mint is zero")
}

func TestCreateZeroMintRejected(t *testing.T) {
	log := eventLog(t, discCreate, createEvent{
		Name:   "bad",
		Symbol: "BAD",
		User:   user,
	})

	_, err := run(t, buildTx(t, log), 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mint is zero")
}

func TestTradeSell(t *testing.T) {
	log := eventLog(t, discTrade, tradeEvent{
		Mint:        mint,
		SolAmount:   500_000_000,
		TokenAmount: 350_000_000,
		IsBuy:       false,
		User:        user,
	})

	res, err := run(t, buildTx(t, log), 0)
	require.NoError(t, err)

	swap := res.Data.(*core.SwapInfo)
	assert.Equal(t, core.SwapSell, swap.SwapType)
	assert.Equal(t, mint.String(), swap.TokenIn)
	assert.Equal(t, 350.0, swap.AmountIn)
	assert.Equal(t, consts.WSOLMintStr, swap.TokenOut)
	assert.Equal(t, 0.5, swap.AmountOut)
}

func TestOccurrenceAlignsNthLog(t *testing.T) {
	buyLog := eventLog(t, discTrade, tradeEvent{Mint: mint, SolAmount: 1_000_000_000, TokenAmount: 1_000_000, IsBuy: true, User: user})
	sellLog := eventLog(t, discTrade, tradeEvent{Mint: mint, SolAmount: 2_000_000_000, TokenAmount: 2_000_000, IsBuy: false, User: user})

	tx := buildTx(t, buyLog, sellLog)

	res, err := run(t, tx, 1)
	require.NoError(t, err)
	swap := res.Data.(*core.SwapInfo)
	assert.Equal(t, core.SwapSell, swap.SwapType)
	assert.Equal(t, 2.0, swap.AmountOut)
}

func TestCreate(t *testing.T) {
	log := eventLog(t, discCreate, createEvent{
		Name:         "Test Coin",
		Symbol:       "TEST",
		Uri:          "https://example.com/meta.json",
		Mint:         mint,
		BondingCurve: types.PubkeyFromBase58(txwraptest.Addr(7)),
		User:         user,
	})

	res, err := run(t, buildTx(t, log), 0)
	require.NoError(t, err)
	assert.Equal(t, "create", res.Kind)

	token := res.Data.(*core.NewToken)
	assert.Equal(t, mint.String(), token.Mint)
	assert.Equal(t, "Test Coin", token.Name)
	assert.Equal(t, "TEST", token.Symbol)
	assert.Equal(t, consts.PumpFunProgramStr, token.Factory)
	assert.Equal(t, uint8(6), token.Decimals)
	require.NotNil(t, token.InitialSupply)
	assert.Equal(t, uint64(1_000_000_000), *token.InitialSupply)
}

func TestCompleteIsParsedNoData(t *testing.T) {
	log := eventLog(t, discComplete, struct{}{})

	res, err := run(t, buildTx(t, log), 0)
	require.NoError(t, err)
	assert.True(t, res.Parsed)
	assert.Equal(t, "complete", res.Kind)
	assert.Nil(t, res.Data)
}

func TestMissingEventLog(t *testing.T) {
	tx := txwraptest.NewBuilder("nolog").
		Accounts(user.String(), consts.PumpFunProgramStr).
		Instruction(1, []int{0}, []byte{1}).
		Build()

	m := map[types.Pubkey]common.Handler{}
	RegisterHandlers(m)
	_, err := m[consts.PumpFunProgram](&common.Context{Tx: tx}, tx.Instructions()[0])
	assert.Error(t, err)
}
