package jupiter

import (
	"bytes"
	"fmt"

	"github.com/near/borsh-go"
	"github.com/shopspring/decimal"

	"sol-block-etl/internal/consts"
	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/ixparser/common"
	"sol-block-etl/internal/logic/txwrap"
	"sol-block-etl/internal/types"
)

// Jupiter v6 通过 Anchor 的 self-CPI 机制发射事件：路由指令名下会出现
// 发往 Jupiter 自身的内层指令，data = event CPI 判别符(8) + SwapEvent
// 判别符(8) + borsh 载荷。事件只从这里取，不依赖日志文本。
var (
	discEventCPI  = []byte{228, 69, 165, 46, 81, 203, 154, 29}
	discSwapEvent = []byte{64, 198, 205, 232, 38, 8, 113, 226}
)

// swapEvent 是 SwapEvent 的 borsh 布局，每跳一条。
type swapEvent struct {
	Amm          types.Pubkey
	InputMint    types.Pubkey
	InputAmount  uint64
	OutputMint   types.Pubkey
	OutputAmount uint64
}

// RegisterHandlers 注册 Jupiter v6 聚合器的指令解析逻辑
func RegisterHandlers(m map[types.Pubkey]common.Handler) {
	m[consts.JupiterV6Program] = handleInstruction
}

func handleInstruction(ctx *common.Context, ix *txwrap.Instruction) (core.ParsedIx, error) {
	events, err := collectSwapEvents(ix)
	if err != nil {
		return core.ParsedIx{}, err
	}
	if len(events) == 0 {
		// 路由指令未产出任何 swap 事件（如纯建仓辅助指令）
		return common.Unparsed("route")
	}
	return mergeRoute(ctx, events)
}

func collectSwapEvents(ix *txwrap.Instruction) ([]*swapEvent, error) {
	var events []*swapEvent
	for _, inner := range ix.Inner {
		if !inner.ProgramID.Equals(consts.JupiterV6Program) || len(inner.Data) < 16 {
			continue
		}
		if !bytes.Equal(inner.Data[:8], discEventCPI) || !bytes.Equal(inner.Data[8:16], discSwapEvent) {
			continue
		}
		var ev swapEvent
		if err := borsh.Deserialize(&ev, inner.Data[16:]); err != nil {
			return nil, fmt.Errorf("decode jupiter SwapEvent: %w", err)
		}
		events = append(events, &ev)
	}
	return events, nil
}

// routeLeg 聚合同一 (inputMint, outputMint) 对的多条事件（同一跳可能
// 因拆单出现多次）。legs 保持首次出现顺序。
type routeLeg struct {
	inputMint    string
	outputMint   string
	inputAmount  decimal.Decimal
	outputAmount decimal.Decimal
}

// mergeRoute 将多跳路由合并为一笔净 swap：
// 输入取首腿的 mint 与总输入，输出取末腿的 mint 与总输出，中间跳不落表。
func mergeRoute(ctx *common.Context, events []*swapEvent) (core.ParsedIx, error) {
	type pair struct{ in, out string }
	index := make(map[pair]*routeLeg)
	var legs []*routeLeg

	for _, ev := range events {
		key := pair{ev.InputMint.String(), ev.OutputMint.String()}
		leg, ok := index[key]
		if !ok {
			leg = &routeLeg{inputMint: key.in, outputMint: key.out}
			index[key] = leg
			legs = append(legs, leg)
		}
		leg.inputAmount = leg.inputAmount.Add(decimal.NewFromUint64(ev.InputAmount))
		leg.outputAmount = leg.outputAmount.Add(decimal.NewFromUint64(ev.OutputAmount))
	}

	first, last := legs[0], legs[len(legs)-1]

	inDecimals, ok := common.MintDecimals(ctx.Tx, first.inputMint)
	if !ok {
		return core.ParsedIx{}, fmt.Errorf("jupiter route: decimals for input mint %s not in balance snapshot", first.inputMint)
	}
	outDecimals, ok := common.MintDecimals(ctx.Tx, last.outputMint)
	if !ok {
		return core.ParsedIx{}, fmt.Errorf("jupiter route: decimals for output mint %s not in balance snapshot", last.outputMint)
	}

	swap := &core.SwapInfo{
		Slot:      ctx.Block.Slot,
		BlockTime: ctx.Block.BlockTime,
		Signer:    ctx.Tx.Signer(),
		Signature: ctx.Tx.Signature(),
		Dex:       core.DexJupiterV6,
		SwapType:  common.SwapDirection(first.inputMint, last.outputMint),
		TokenIn:   first.inputMint,
		AmountIn:  first.inputAmount.Shift(-int32(inDecimals)).InexactFloat64(),
		TokenOut:  last.outputMint,
		AmountOut: last.outputAmount.Shift(-int32(outDecimals)).InexactFloat64(),
	}
	return common.ParsedData("route", swap)
}
