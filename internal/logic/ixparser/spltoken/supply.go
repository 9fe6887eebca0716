package spltoken

import (
	"encoding/binary"
	"fmt"

	sdktoken "github.com/blocto/solana-go-sdk/program/token"

	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/ixparser/common"
	"sol-block-etl/internal/logic/txwrap"
	"sol-block-etl/internal/utils"
)

// extractSupplyChange 解析 mintTo / burn（含 checked 变体），产出带符号供应量变动。
//
//	mintTo: accounts = [mint, account, authority, ...]
//	burn:   accounts = [account, mint, authority, ...]
//
// 金额保持基础单位整数精确（mint 为正、burn 为负）。
func extractSupplyChange(ctx *common.Context, ix *txwrap.Instruction, burn bool) (core.ParsedIx, error) {
	kind := "mintTo"
	mintIdx, accIdx := 0, 1
	if burn {
		kind = "burn"
		mintIdx, accIdx = 1, 0
	}
	if sdktoken.Instruction(ix.Data[0]) == sdktoken.InstructionMintToChecked ||
		sdktoken.Instruction(ix.Data[0]) == sdktoken.InstructionBurnChecked {
		kind += "Checked"
	}

	if len(ix.Data) < 9 {
		return core.ParsedIx{}, fmt.Errorf("token %s data too short: %d bytes", kind, len(ix.Data))
	}
	if len(ix.Accounts) < 3 {
		return core.ParsedIx{}, fmt.Errorf("token %s needs 3 accounts, got %d", kind, len(ix.Accounts))
	}

	mint, err := ctx.Tx.AccountStr(ix.Accounts[mintIdx])
	if err != nil {
		return core.ParsedIx{}, err
	}
	account, err := ctx.Tx.AccountStr(ix.Accounts[accIdx])
	if err != nil {
		return core.ParsedIx{}, err
	}
	authority, err := ctx.Tx.AccountStr(ix.Accounts[2])
	if err != nil {
		return core.ParsedIx{}, err
	}

	amount := binary.LittleEndian.Uint64(ix.Data[1:9])
	return common.ParsedData(kind, &core.SupplyChange{
		Signature: ctx.Tx.Signature(),
		IxIndex:   ix.IxIndex,
		Account:   account,
		Mint:      mint,
		Authority: authority,
		Amount:    utils.SignedSupplyDelta(amount, burn),
	})
}
