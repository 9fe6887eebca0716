package common

import (
	"sol-block-etl/internal/consts"
	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/txwrap"
)

// Context 是单条主指令解析时的上下文。
// Occurrence 表示当前 Program 在本交易顶层的第几次出现（0 起），
// 依赖日志顺序的协议（如 Pump.fun）用它对齐第 N 条事件日志。
type Context struct {
	Tx         *txwrap.Tx
	Block      core.BlockInfo
	Occurrence int
}

// Handler 解析一条主指令并返回分类结果。
// error 表示该指令本应解析但数据不符合预期（布局损坏、账户缺失等），
// 调用方会将其标记为解析出错并保留原始负载，绝不猜测补全。
type Handler func(ctx *Context, ix *txwrap.Instruction) (core.ParsedIx, error)

// Unparsed 构造"程序已识别、该指令形态未产出数据"的结果。
func Unparsed(kind string) (core.ParsedIx, error) {
	return core.ParsedIx{Parsed: false, Kind: kind}, nil
}

// ParsedNoData 构造"已解析但无需落数据"的结果（如 syncNative）。
func ParsedNoData(kind string) (core.ParsedIx, error) {
	return core.ParsedIx{Parsed: true, Kind: kind}, nil
}

// ParsedData 构造携带解析载荷的结果。
func ParsedData(kind string, data core.IxData) (core.ParsedIx, error) {
	return core.ParsedIx{Parsed: true, Kind: kind, Data: data}, nil
}

// MintDecimals 查询某 mint 的精度：WSOL 恒为 9（native SOL 封装，
// 不一定出现在余额快照里），其余从交易的 token 余额快照取。
func MintDecimals(tx *txwrap.Tx, mint string) (uint8, bool) {
	if mint == consts.WSOLMintStr {
		return consts.SOLDecimals, true
	}
	return tx.TokenDecimals(mint)
}

// SwapDirection 按 WSOL 基准判定 swap 方向：
// 付出 WSOL 为 Buy，收到 WSOL 为 Sell，两侧均为或均非 WSOL 记为 Token。
func SwapDirection(tokenIn, tokenOut string) core.SwapType {
	inWSOL := tokenIn == consts.WSOLMintStr
	outWSOL := tokenOut == consts.WSOLMintStr
	switch {
	case inWSOL && !outWSOL:
		return core.SwapBuy
	case outWSOL && !inWSOL:
		return core.SwapSell
	default:
		return core.SwapToken
	}
}

// NoopHandler 为已识别但暂不提取语义的 Program（Memo、Openbook 等）
// 提供统一注册入口。结果 Parsed=false，与未知程序一样会保留原始负载；
// 区别仅在落表记录带上 "NoOp" 类别而不是 no_parser。
func NoopHandler(ctx *Context, ix *txwrap.Instruction) (core.ParsedIx, error) {
	return Unparsed("NoOp")
}
