package raydiumv4

import (
	"encoding/binary"
	"fmt"

	"sol-block-etl/internal/consts"
	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/ixparser/common"
	"sol-block-etl/internal/logic/txwrap"
	"sol-block-etl/internal/types"
	"sol-block-etl/internal/utils"
)

// 来源: https://github.com/raydium-io/raydium-amm/blob/master/program/src/instruction.rs
const (
	Initialize2 = 1
	Deposit     = 3
	Withdraw    = 4
	SwapBaseIn  = 9
	SwapBaseOut = 11
)

// RegisterHandlers 注册 RaydiumV4 AMM 程序的指令解析逻辑
func RegisterHandlers(m map[types.Pubkey]common.Handler) {
	m[consts.RaydiumV4Program] = handleInstruction
}

func handleInstruction(ctx *common.Context, ix *txwrap.Instruction) (core.ParsedIx, error) {
	if len(ix.Data) == 0 {
		return core.ParsedIx{}, fmt.Errorf("raydium instruction has no data")
	}

	switch ix.Data[0] {
	case SwapBaseIn, SwapBaseOut:
		return extractSwap(ctx, ix)
	case Initialize2:
		return common.Unparsed("initialize2")
	case Deposit:
		return common.Unparsed("deposit")
	case Withdraw:
		return common.Unparsed("withdraw")
	default:
		return common.Unparsed("unknown")
	}
}

// extractSwap 解析 swapBaseIn / swapBaseOut。
//
// 指令参数只带一侧的确定金额（baseIn 带输入、baseOut 带输出），且都不带
// mint。两条腿从余额快照核算：扫描池子 authority 名下的 token 账户，
// delta > 0 的是用户付入侧、delta < 0 的是用户收到侧。指令自带金额仅在
// 对应侧未被快照观测到时作为 WSOL 兜底（原生 SOL 腿不产生 token 余额）；
// 两侧都无法确定时报错，不做猜测。
func extractSwap(ctx *common.Context, ix *txwrap.Instruction) (core.ParsedIx, error) {
	baseIn := ix.Data[0] == SwapBaseIn
	kind := "swapBaseIn"
	need := 9
	if !baseIn {
		kind = "swapBaseOut"
		need = 17
	}
	if len(ix.Data) < need {
		return core.ParsedIx{}, fmt.Errorf("raydium %s data too short: %d bytes", kind, len(ix.Data))
	}

	// 每个方向取 |delta| 最大的账户，避免 map 遍历顺序引入不确定性
	var inLeg, outLeg *txwrap.TokenAccountInfo
	for _, info := range ctx.Tx.Lookup() {
		if info.Owner != consts.RaydiumV4AuthorityStr {
			continue
		}
		d := info.Delta()
		switch {
		case d.IsPositive():
			if inLeg == nil || d.GreaterThan(inLeg.Delta()) {
				inLeg = info
			}
		case d.IsNegative():
			if outLeg == nil || d.LessThan(outLeg.Delta()) {
				outLeg = info
			}
		}
	}

	swap := &core.SwapInfo{
		Slot:      ctx.Block.Slot,
		BlockTime: ctx.Block.BlockTime,
		Signer:    ctx.Tx.Signer(),
		Signature: ctx.Tx.Signature(),
		Dex:       core.DexRaydiumAmm,
	}

	switch {
	case inLeg != nil:
		swap.TokenIn = inLeg.Mint
		swap.AmountIn = inLeg.Delta().InexactFloat64()
	case baseIn:
		// 输入是原生 SOL，池子 WSOL 账户未出现在快照中
		swap.TokenIn = consts.WSOLMintStr
		swap.AmountIn = utils.ToHuman(binary.LittleEndian.Uint64(ix.Data[1:9]), consts.SOLDecimals)
	default:
		return core.ParsedIx{}, fmt.Errorf("raydium %s: input leg unresolved, tx=%s", kind, ctx.Tx.Signature())
	}

	switch {
	case outLeg != nil:
		swap.TokenOut = outLeg.Mint
		swap.AmountOut = outLeg.Delta().Neg().InexactFloat64()
	case !baseIn:
		swap.TokenOut = consts.WSOLMintStr
		swap.AmountOut = utils.ToHuman(binary.LittleEndian.Uint64(ix.Data[9:17]), consts.SOLDecimals)
	default:
		return core.ParsedIx{}, fmt.Errorf("raydium %s: output leg unresolved, tx=%s", kind, ctx.Tx.Signature())
	}

	swap.SwapType = common.SwapDirection(swap.TokenIn, swap.TokenOut)
	return common.ParsedData(kind, swap)
}
