package pumpfun

import (
	"fmt"

	"sol-block-etl/internal/consts"
	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/ixparser/common"
	"sol-block-etl/internal/logic/txwrap"
	"sol-block-etl/internal/types"
	"sol-block-etl/internal/utils"
)

// RegisterHandlers 注册 Pump.fun bonding curve 程序的指令解析逻辑
func RegisterHandlers(m map[types.Pubkey]common.Handler) {
	m[consts.PumpFunProgram] = handleInstruction
}

// handleInstruction 解析 Pump.fun 指令。
// 该程序的可靠数据源是事件日志而非指令参数：第 N 次顶层调用对应
// 交易日志中第 N 条 "Program data: " 事件，由 Occurrence 对齐。
func handleInstruction(ctx *common.Context, ix *txwrap.Instruction) (core.ParsedIx, error) {
	logs := ctx.Tx.ProgramDataLogs()
	if ctx.Occurrence >= len(logs) {
		return core.ParsedIx{}, fmt.Errorf("pumpfun event log missing: occurrence %d, %d data logs", ctx.Occurrence, len(logs))
	}

	event, err := decodeEvent(logs[ctx.Occurrence])
	if err != nil {
		return core.ParsedIx{}, err
	}

	switch ev := event.(type) {
	case *tradeEvent:
		return extractTrade(ctx, ev)
	case *createEvent:
		return extractCreate(ctx, ev)
	case noDataEvent:
		return common.ParsedNoData(string(ev))
	default:
		// 未知事件判别符：程序已识别但无法提取，保留原始负载
		return common.Unparsed("unknown")
	}
}

func extractTrade(ctx *common.Context, ev *tradeEvent) (core.ParsedIx, error) {
	if ev.Mint.IsZero() {
		return core.ParsedIx{}, fmt.Errorf("pumpfun trade: event mint is zero")
	}
	mint := ev.Mint.String()
	decimals, ok := common.MintDecimals(ctx.Tx, mint)
	if !ok {
		return core.ParsedIx{}, fmt.Errorf("pumpfun trade: decimals for mint %s not in balance snapshot", mint)
	}

	swap := &core.SwapInfo{
		Slot:      ctx.Block.Slot,
		BlockTime: ctx.Block.BlockTime,
		Signer:    ev.User.String(),
		Signature: ctx.Tx.Signature(),
		Dex:       core.DexPumpFun,
	}
	if ev.IsBuy {
		swap.SwapType = core.SwapBuy
		swap.TokenIn = consts.WSOLMintStr
		swap.AmountIn = utils.ToHuman(ev.SolAmount, consts.SOLDecimals)
		swap.TokenOut = mint
		swap.AmountOut = utils.ToHuman(ev.TokenAmount, decimals)
	} else {
		swap.SwapType = core.SwapSell
		swap.TokenIn = mint
		swap.AmountIn = utils.ToHuman(ev.TokenAmount, decimals)
		swap.TokenOut = consts.WSOLMintStr
		swap.AmountOut = utils.ToHuman(ev.SolAmount, consts.SOLDecimals)
	}
	return common.ParsedData("trade", swap)
}

// Pump.fun 新代币固定 6 位精度，初始供应 10 亿枚。
const (
	tokenDecimals = 6
	initialSupply = 1_000_000_000
)

func extractCreate(ctx *common.Context, ev *createEvent) (core.ParsedIx, error) {
	if ev.Mint.IsZero() {
		return core.ParsedIx{}, fmt.Errorf("pumpfun create: event mint is zero")
	}
	supply := uint64(initialSupply)
	return common.ParsedData("create", &core.NewToken{
		Slot:          ctx.Block.Slot,
		BlockTime:     ctx.Block.BlockTime,
		Signature:     ctx.Tx.Signature(),
		Signer:        ev.User.String(),
		Factory:       consts.PumpFunProgramStr,
		Mint:          ev.Mint.String(),
		Decimals:      tokenDecimals,
		Name:          ev.Name,
		Symbol:        ev.Symbol,
		URI:           ev.Uri,
		InitialSupply: &supply,
	})
}
