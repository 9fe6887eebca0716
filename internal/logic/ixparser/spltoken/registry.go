package spltoken

import (
	"fmt"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"

	"sol-block-etl/internal/consts"
	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/ixparser/common"
	"sol-block-etl/internal/logic/txwrap"
	"sol-block-etl/internal/types"
)

// 已识别但不提取数据的 Token 指令名（jsonParsed 风格）。
var kindNames = map[sdktoken.Instruction]string{
	sdktoken.InstructionInitializeMint:      "initializeMint",
	sdktoken.InstructionInitializeMultisig:  "initializeMultisig",
	sdktoken.InstructionApprove:             "approve",
	sdktoken.InstructionRevoke:              "revoke",
	sdktoken.InstructionSetAuthority:        "setAuthority",
	sdktoken.InstructionFreezeAccount:       "freezeAccount",
	sdktoken.InstructionThawAccount:         "thawAccount",
	sdktoken.InstructionApproveChecked:      "approveChecked",
	sdktoken.InstructionInitializeMultisig2: "initializeMultisig2",
	sdktoken.InstructionInitializeMint2:     "initializeMint2",
}

// RegisterHandlers 注册 Token / Token-2022 的所有指令处理逻辑
func RegisterHandlers(m map[types.Pubkey]common.Handler) {
	m[consts.TokenProgram] = handleTokenInstruction
	m[consts.TokenProgram2022] = handleTokenInstruction
}

// handleTokenInstruction 按首字节判别符分发 Token 指令。
func handleTokenInstruction(ctx *common.Context, ix *txwrap.Instruction) (core.ParsedIx, error) {
	if len(ix.Data) == 0 {
		return core.ParsedIx{}, fmt.Errorf("token instruction has no data")
	}

	switch sdktoken.Instruction(ix.Data[0]) {
	case sdktoken.InstructionTransfer:
		return extractTransfer(ctx, ix, false)
	case sdktoken.InstructionTransferChecked:
		return extractTransfer(ctx, ix, true)

	case sdktoken.InstructionInitializeAccount:
		return extractInitAccount(ctx, ix, 0)
	case sdktoken.InstructionInitializeAccount2:
		return extractInitAccount(ctx, ix, 2)
	case sdktoken.InstructionInitializeAccount3:
		return extractInitAccount(ctx, ix, 3)
	case sdktoken.InstructionCloseAccount:
		return extractCloseAccount(ctx, ix)

	case sdktoken.InstructionMintTo, sdktoken.InstructionMintToChecked:
		return extractSupplyChange(ctx, ix, false)
	case sdktoken.InstructionBurn, sdktoken.InstructionBurnChecked:
		return extractSupplyChange(ctx, ix, true)

	case sdktoken.InstructionSyncNative:
		// 仅同步账户 lamports 与 token 余额，无可提取数据；
		// 属于可丢弃的 NoData 指令。
		return common.ParsedNoData("syncNative")
	}

	kind, ok := kindNames[sdktoken.Instruction(ix.Data[0])]
	if !ok {
		kind = "unknown"
	}
	return common.Unparsed(kind)
}
