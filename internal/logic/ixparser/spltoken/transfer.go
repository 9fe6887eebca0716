package spltoken

import (
	"encoding/binary"
	"fmt"

	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/ixparser/common"
	"sol-block-etl/internal/logic/txwrap"
)

// extractTransfer 解析 transfer / transferChecked，统一产出 TokenTransfer。
//
//	transfer:        data = disc(1) + amount(u64 LE)，accounts = [source, dest, authority, ...]
//	transferChecked: data = disc(1) + amount(u64 LE) + decimals(u8)，accounts = [source, mint, dest, authority, ...]
//
// owner / mint / decimals 从余额快照补全；快照缺失时留空，不做猜测。
func extractTransfer(ctx *common.Context, ix *txwrap.Instruction, checked bool) (core.ParsedIx, error) {
	if len(ix.Data) < 9 {
		return core.ParsedIx{}, fmt.Errorf("token transfer data too short: %d bytes", len(ix.Data))
	}

	kind := "transfer"
	srcIdx, dstIdx, authIdx := 0, 1, 2
	if checked {
		kind = "transferChecked"
		dstIdx, authIdx = 2, 3
	}
	if len(ix.Accounts) <= authIdx {
		return core.ParsedIx{}, fmt.Errorf("token %s needs %d accounts, got %d", kind, authIdx+1, len(ix.Accounts))
	}

	source, err := ctx.Tx.AccountStr(ix.Accounts[srcIdx])
	if err != nil {
		return core.ParsedIx{}, err
	}
	dest, err := ctx.Tx.AccountStr(ix.Accounts[dstIdx])
	if err != nil {
		return core.ParsedIx{}, err
	}
	authority, err := ctx.Tx.AccountStr(ix.Accounts[authIdx])
	if err != nil {
		return core.ParsedIx{}, err
	}

	transfer := &core.TokenTransfer{
		Slot:        ctx.Block.Slot,
		BlockTime:   ctx.Block.BlockTime,
		Signature:   ctx.Tx.Signature(),
		FromAccount: source,
		ToAccount:   dest,
		Amount:      float64(binary.LittleEndian.Uint64(ix.Data[1:9])),
		Authority:   authority,
	}

	lookup := ctx.Tx.Lookup()
	if info, ok := lookup[source]; ok {
		transfer.FromOwner = info.Owner
		transfer.Token = info.Mint
		d := info.Decimals
		transfer.Decimals = &d
	}
	if info, ok := lookup[dest]; ok {
		transfer.ToOwner = info.Owner
		if transfer.Token == "" {
			transfer.Token = info.Mint
		}
		if transfer.Decimals == nil {
			d := info.Decimals
			transfer.Decimals = &d
		}
	}

	// transferChecked 自带 mint 账户与精度，可在快照缺失时兜底
	if checked {
		if transfer.Token == "" {
			if mint, err := ctx.Tx.AccountStr(ix.Accounts[1]); err == nil {
				transfer.Token = mint
			}
		}
		if transfer.Decimals == nil && len(ix.Data) >= 10 {
			d := ix.Data[9]
			transfer.Decimals = &d
		}
	}

	return common.ParsedData(kind, transfer)
}
