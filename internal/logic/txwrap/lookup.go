package txwrap

import (
	"strconv"

	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/shopspring/decimal"

	"sol-block-etl/internal/pkg/logger"
	"sol-block-etl/internal/utils"
)

// TokenAccountInfo 合并某 token 账户交易前后的余额快照。
// 金额为按 decimals 展开后的精确 decimal，直接可做差值比对。
type TokenAccountInfo struct {
	Address    string
	Mint       string
	Owner      string
	Decimals   uint8
	AmountPre  decimal.Decimal
	AmountPost decimal.Decimal
}

// Delta 返回交易前后余额变化（post - pre）。
func (a *TokenAccountInfo) Delta() decimal.Decimal {
	return a.AmountPost.Sub(a.AmountPre)
}

// Lookup 返回 tokenAccount 地址 → 余额快照 的查找表。
// 首次调用时由 pre/post token balances 构建一次，之后复用；
// 多个解析器（transfer 补全、AMM 余额差值核算）共享同一张表。
func (tx *Tx) Lookup() map[string]*TokenAccountInfo {
	if tx.lookup != nil {
		return tx.lookup
	}

	lookup := make(map[string]*TokenAccountInfo,
		len(tx.meta.PreTokenBalances)+len(tx.meta.PostTokenBalances))

	tx.mergeBalances(lookup, tx.meta.PreTokenBalances, false)
	tx.mergeBalances(lookup, tx.meta.PostTokenBalances, true)

	tx.lookup = lookup
	return lookup
}

func (tx *Tx) mergeBalances(lookup map[string]*TokenAccountInfo, balances []rpc.TransactionMetaTokenBalance, post bool) {
	for _, b := range balances {
		idx := int(b.AccountIndex)
		if idx >= len(tx.accountStrs) {
			logger.Warnf("[txwrap] token balance account index %d out of range, tx=%s", idx, tx.Signature())
			continue
		}
		address := tx.accountStrs[idx]

		raw, err := strconv.ParseUint(b.UITokenAmount.Amount, 10, 64)
		if err != nil {
			logger.Warnf("[txwrap] bad token balance amount %q, account=%s, tx=%s",
				b.UITokenAmount.Amount, address, tx.Signature())
			continue
		}
		amount := utils.ToHumanDecimal(raw, b.UITokenAmount.Decimals)

		entry, ok := lookup[address]
		if !ok {
			entry = &TokenAccountInfo{
				Address:  address,
				Mint:     b.Mint,
				Owner:    b.Owner,
				Decimals: b.UITokenAmount.Decimals,
			}
			lookup[address] = entry
		} else {
			entry.Mint = b.Mint
			entry.Decimals = b.UITokenAmount.Decimals
			if b.Owner != "" {
				entry.Owner = b.Owner
			}
		}
		if post {
			entry.AmountPost = amount
		} else {
			entry.AmountPre = amount
		}
	}
}

// TokenDecimals 在余额快照中查找某 mint 的精度。
func (tx *Tx) TokenDecimals(mint string) (uint8, bool) {
	for _, b := range tx.meta.PreTokenBalances {
		if b.Mint == mint {
			return b.UITokenAmount.Decimals, true
		}
	}
	for _, b := range tx.meta.PostTokenBalances {
		if b.Mint == mint {
			return b.UITokenAmount.Decimals, true
		}
	}
	return 0, false
}
