package atoken

import (
	"fmt"

	"sol-block-etl/internal/consts"
	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/ixparser/common"
	"sol-block-etl/internal/logic/txwrap"
	"sol-block-etl/internal/types"
)

// ATA 程序判别符：data 为空等价于 create（历史形态）。
// 来源: https://github.com/solana-program/associated-token-account
const (
	Create           = 0
	CreateIdempotent = 1
	RecoverNested    = 2
)

// RegisterHandlers 注册 Associated Token Account 程序的指令解析逻辑
func RegisterHandlers(m map[types.Pubkey]common.Handler) {
	m[consts.AssociatedTokenProgram] = handleInstruction
}

// handleInstruction 解析 ATA 指令。
// create / createIdempotent: accounts = [funder, ata, wallet, mint, systemProgram, tokenProgram]
func handleInstruction(ctx *common.Context, ix *txwrap.Instruction) (core.ParsedIx, error) {
	disc := byte(Create)
	if len(ix.Data) > 0 {
		disc = ix.Data[0]
	}

	switch disc {
	case Create, CreateIdempotent:
		kind := "create"
		if disc == CreateIdempotent {
			kind = "createIdempotent"
		}
		return extractCreate(ctx, ix, kind)

	case RecoverNested:
		return common.Unparsed("recoverNested")

	default:
		return common.Unparsed("unknown")
	}
}

func extractCreate(ctx *common.Context, ix *txwrap.Instruction, kind string) (core.ParsedIx, error) {
	if len(ix.Accounts) < 4 {
		return core.ParsedIx{}, fmt.Errorf("ata %s needs 4 accounts, got %d", kind, len(ix.Accounts))
	}

	ata, err := ctx.Tx.AccountStr(ix.Accounts[1])
	if err != nil {
		return core.ParsedIx{}, err
	}
	wallet, err := ctx.Tx.AccountStr(ix.Accounts[2])
	if err != nil {
		return core.ParsedIx{}, err
	}
	mint, err := ctx.Tx.AccountStr(ix.Accounts[3])
	if err != nil {
		return core.ParsedIx{}, err
	}

	record := &core.AccountRecord{
		Account: ata,
		Owner:   wallet,
		OpenTx:  ctx.Tx.Signature(),
		InitTx:  ctx.Tx.Signature(),
		Mint:    mint,
	}
	if d, ok := common.MintDecimals(ctx.Tx, mint); ok {
		record.Decimals = &d
	}
	return common.ParsedData(kind, record)
}
