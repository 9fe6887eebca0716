// Package inert 注册一批"已识别、暂不提取语义"的 Program。
// 这些指令与未知程序一样会保留原始负载（Parsed=false），注册的意义
// 在于落表记录能区分"认识但没解析"与"完全不认识"两种情况。
// 例外是 sequence enforcer：确认无业务数据，按已解析 NoData 处理。
package inert

import (
	"sol-block-etl/internal/consts"
	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/ixparser/common"
	"sol-block-etl/internal/logic/txwrap"
	"sol-block-etl/internal/types"
)

// RegisterHandlers 注册所有 NoOp 程序与 sequence enforcer
func RegisterHandlers(m map[types.Pubkey]common.Handler) {
	for _, p := range []types.Pubkey{
		consts.MemoProgramV1,
		consts.MemoProgram,
		consts.OpenbookV2Program,
		consts.PhoenixProgram,
		consts.OKXRouterProgram,
		consts.DriftProgram,
		consts.ZetaProgram,
		consts.JitoTipProgram,
		consts.RaydiumRouter,
		consts.JupiterV4Program,
	} {
		m[p] = common.NoopHandler
	}

	m[consts.SequenceEnforcer] = handleSequenceEnforcer
}

// sequence enforcer 仅做交易排序约束，无业务数据，按已解析 NoData
// 处理，使只含排序保护的交易可以瘦身。
func handleSequenceEnforcer(ctx *common.Context, ix *txwrap.Instruction) (core.ParsedIx, error) {
	return common.ParsedNoData("sequence_enforcer")
}
