package spltoken

import (
	"fmt"

	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/ixparser/common"
	"sol-block-etl/internal/logic/txwrap"
	"sol-block-etl/internal/types"
)

// extractInitAccount 解析三种 initializeAccount 变体，产出账户生命周期记录。
//
//	initializeAccount  (variant 0): accounts = [account, mint, owner, rent]
//	initializeAccount2 (variant 2): accounts = [account, mint, rent]，owner 在 data[1:33]
//	initializeAccount3 (variant 3): accounts = [account, mint]，owner 在 data[1:33]
func extractInitAccount(ctx *common.Context, ix *txwrap.Instruction, variant int) (core.ParsedIx, error) {
	if len(ix.Accounts) < 2 {
		return core.ParsedIx{}, fmt.Errorf("initializeAccount needs 2 accounts, got %d", len(ix.Accounts))
	}

	account, err := ctx.Tx.AccountStr(ix.Accounts[0])
	if err != nil {
		return core.ParsedIx{}, err
	}
	mint, err := ctx.Tx.AccountStr(ix.Accounts[1])
	if err != nil {
		return core.ParsedIx{}, err
	}

	kind := "initializeAccount"
	var owner string
	switch variant {
	case 0:
		if len(ix.Accounts) < 3 {
			return core.ParsedIx{}, fmt.Errorf("initializeAccount needs owner account, got %d accounts", len(ix.Accounts))
		}
		owner, err = ctx.Tx.AccountStr(ix.Accounts[2])
		if err != nil {
			return core.ParsedIx{}, err
		}
	default:
		kind = fmt.Sprintf("initializeAccount%d", variant)
		if len(ix.Data) < 33 {
			return core.ParsedIx{}, fmt.Errorf("%s data too short: %d bytes", kind, len(ix.Data))
		}
		var p types.Pubkey
		copy(p[:], ix.Data[1:33])
		owner = p.String()
	}

	record := &core.AccountRecord{
		Account: account,
		Owner:   owner,
		InitTx:  ctx.Tx.Signature(),
		Mint:    mint,
	}
	if d, ok := common.MintDecimals(ctx.Tx, mint); ok {
		record.Decimals = &d
	}
	return common.ParsedData(kind, record)
}

// extractCloseAccount 解析 closeAccount：accounts = [account, destination, owner, ...]，
// 剩余 lamports 打给 destination。mint / decimals 从余额快照补全。
func extractCloseAccount(ctx *common.Context, ix *txwrap.Instruction) (core.ParsedIx, error) {
	if len(ix.Accounts) < 3 {
		return core.ParsedIx{}, fmt.Errorf("closeAccount needs 3 accounts, got %d", len(ix.Accounts))
	}

	account, err := ctx.Tx.AccountStr(ix.Accounts[0])
	if err != nil {
		return core.ParsedIx{}, err
	}
	destination, err := ctx.Tx.AccountStr(ix.Accounts[1])
	if err != nil {
		return core.ParsedIx{}, err
	}
	owner, err := ctx.Tx.AccountStr(ix.Accounts[2])
	if err != nil {
		return core.ParsedIx{}, err
	}

	record := &core.AccountRecord{
		Account:          account,
		Owner:            owner,
		CloseTx:          ctx.Tx.Signature(),
		CloseDestination: destination,
	}
	if info, ok := ctx.Tx.Lookup()[account]; ok {
		record.Mint = info.Mint
		d := info.Decimals
		record.Decimals = &d
	}
	return common.ParsedData("closeAccount", record)
}
