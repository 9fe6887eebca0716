package computebudget

import (
	"encoding/binary"

	"sol-block-etl/internal/consts"
	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/ixparser/common"
	"sol-block-etl/internal/logic/txwrap"
	"sol-block-etl/internal/types"
	"sol-block-etl/internal/utils"
)

// 来源: https://github.com/solana-program/compute-budget
const (
	RequestHeapFrame    = 1
	SetComputeUnitLimit = 2
	SetComputeUnitPrice = 3
)

// RegisterHandlers 注册 ComputeBudget 程序的指令解析逻辑
func RegisterHandlers(m map[types.Pubkey]common.Handler) {
	m[consts.ComputeBudgetProgram] = handleInstruction
}

// handleInstruction 解析 ComputeBudget 指令。该程序指令稀少且无账户语义，
// 未识别的判别字节归入 Unknown 而非报错，始终视为已解析。
func handleInstruction(ctx *common.Context, ix *txwrap.Instruction) (core.ParsedIx, error) {
	data := &core.ComputeBudgetData{Kind: core.ComputeBudgetUnknown}

	if len(ix.Data) > 0 {
		switch ix.Data[0] {
		case RequestHeapFrame:
			data.Kind = core.ComputeBudgetRequestHeapFrame

		case SetComputeUnitLimit:
			if len(ix.Data) < 5 {
				break
			}
			data.Kind = core.ComputeBudgetSetComputeUnitLimit
			data.UnitLimit = binary.LittleEndian.Uint32(ix.Data[1:5])

		case SetComputeUnitPrice:
			if len(ix.Data) < 9 {
				break
			}
			// 单价以 micro-lamports/CU 计，换算为 lamports/CU
			data.Kind = core.ComputeBudgetSetComputeUnitPrice
			data.UnitPrice = utils.MicroLamportsToLamports(binary.LittleEndian.Uint64(ix.Data[1:9]))
		}
	}

	return common.ParsedData(string(data.Kind), data)
}
