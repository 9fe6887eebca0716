package systemprog

import (
	"encoding/binary"
	"fmt"

	sdksystem "github.com/blocto/solana-go-sdk/program/system"

	"sol-block-etl/internal/consts"
	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/ixparser/common"
	"sol-block-etl/internal/logic/txwrap"
	"sol-block-etl/internal/types"
	"sol-block-etl/internal/utils"
)

// System Program 指令以小端 u32 作判别符。
// 来源: https://github.com/solana-labs/solana/blob/master/sdk/program/src/system_instruction.rs
var kindNames = map[sdksystem.Instruction]string{
	sdksystem.InstructionCreateAccount:          "createAccount",
	sdksystem.InstructionAssign:                 "assign",
	sdksystem.InstructionTransfer:               "transfer",
	sdksystem.InstructionCreateAccountWithSeed:  "createAccountWithSeed",
	sdksystem.InstructionAdvanceNonceAccount:    "advanceNonce",
	sdksystem.InstructionWithdrawNonceAccount:   "withdrawFromNonce",
	sdksystem.InstructionInitializeNonceAccount: "initializeNonce",
	sdksystem.InstructionAuthorizeNonceAccount:  "authorizeNonce",
	sdksystem.InstructionAllocate:               "allocate",
	sdksystem.InstructionAllocateWithSeed:       "allocateWithSeed",
	sdksystem.InstructionAssignWithSeed:         "assignWithSeed",
	sdksystem.InstructionTransferWithSeed:       "transferWithSeed",
	sdksystem.InstructionUpgradeNonceAccount:    "upgradeNonce",
}

// RegisterHandlers 注册 System Program 的指令解析逻辑
func RegisterHandlers(m map[types.Pubkey]common.Handler) {
	m[consts.SystemProgram] = handleInstruction
}

func handleInstruction(ctx *common.Context, ix *txwrap.Instruction) (core.ParsedIx, error) {
	if len(ix.Data) < 4 {
		return core.ParsedIx{}, fmt.Errorf("system instruction data too short: %d bytes", len(ix.Data))
	}

	disc := sdksystem.Instruction(binary.LittleEndian.Uint32(ix.Data[:4]))
	switch disc {
	case sdksystem.InstructionTransfer:
		return extractTransfer(ctx, ix)
	case sdksystem.InstructionCreateAccountWithSeed:
		return extractCreateAccountWithSeed(ctx, ix)
	}

	kind, ok := kindNames[disc]
	if !ok {
		kind = "unknown"
	}
	return common.Unparsed(kind)
}

// extractTransfer 解析原生 SOL 转账：data = disc(4) + lamports(u64 LE)，
// accounts = [from, to]。
func extractTransfer(ctx *common.Context, ix *txwrap.Instruction) (core.ParsedIx, error) {
	if len(ix.Data) < 12 {
		return core.ParsedIx{}, fmt.Errorf("system transfer data too short: %d bytes", len(ix.Data))
	}
	if len(ix.Accounts) < 2 {
		return core.ParsedIx{}, fmt.Errorf("system transfer needs 2 accounts, got %d", len(ix.Accounts))
	}

	from, err := ctx.Tx.AccountStr(ix.Accounts[0])
	if err != nil {
		return core.ParsedIx{}, err
	}
	to, err := ctx.Tx.AccountStr(ix.Accounts[1])
	if err != nil {
		return core.ParsedIx{}, err
	}

	lamports := binary.LittleEndian.Uint64(ix.Data[4:12])
	return common.ParsedData("transfer", &core.SolTransfer{
		Slot:      ctx.Block.Slot,
		BlockTime: ctx.Block.BlockTime,
		Signature: ctx.Tx.Signature(),
		From:      from,
		To:        to,
		Lamports:  lamports,
		SOL:       utils.LamportsToSOL(lamports),
	})
}

// extractCreateAccountWithSeed 提取新账户及其属主 Program：
// data = disc(4) + base(32) + seed(u64 len + bytes) + lamports(8) + space(8) + owner(32)，
// accounts = [funder, newAccount, ...]。owner 固定位于 data 末尾 32 字节。
func extractCreateAccountWithSeed(ctx *common.Context, ix *txwrap.Instruction) (core.ParsedIx, error) {
	// disc + base + seedLen + lamports + space + owner 的最小长度
	if len(ix.Data) < 4+32+8+8+8+32 {
		return core.ParsedIx{}, fmt.Errorf("createAccountWithSeed data too short: %d bytes", len(ix.Data))
	}
	if len(ix.Accounts) < 2 {
		return core.ParsedIx{}, fmt.Errorf("createAccountWithSeed needs 2 accounts, got %d", len(ix.Accounts))
	}

	account, err := ctx.Tx.AccountStr(ix.Accounts[1])
	if err != nil {
		return core.ParsedIx{}, err
	}

	var owner types.Pubkey
	copy(owner[:], ix.Data[len(ix.Data)-32:])

	return common.ParsedData("createAccountWithSeed", &core.AccountRecord{
		Account: account,
		Owner:   owner.String(),
		OpenTx:  ctx.Tx.Signature(),
	})
}
