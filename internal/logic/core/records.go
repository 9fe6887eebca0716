package core

import (
	"github.com/shopspring/decimal"
)

// SwapType 表示 swap 相对 WSOL 的方向。
type SwapType string

const (
	SwapBuy   SwapType = "Buy"   // 以 WSOL 买入 token
	SwapSell  SwapType = "Sell"  // 卖出 token 换取 WSOL
	SwapToken SwapType = "Token" // token 对 token，两侧均非 WSOL（或两侧均为 WSOL 的套利环）
)

// DexType 表示 swap 事件来源的协议。
type DexType string

const (
	DexJupiterV6  DexType = "Jupiterv6"
	DexPumpFun    DexType = "Pumpfun"
	DexRaydiumAmm DexType = "RaydiumAmm"
	DexUnknown    DexType = "Unknown"
)

// BlockInfo 是传入各指令解析器的区块级上下文。
type BlockInfo struct {
	Slot      uint64
	BlockTime int64
}

// BlockRecord 区块落表记录，一个 slot 一条。
type BlockRecord struct {
	Slot             uint64 `json:"slot"`
	BlockTime        int64  `json:"block_time"`
	ParentSlot       uint64 `json:"parent_slot"`
	TransactionCount uint32 `json:"transaction_count"`
}

// SwapInfo 表示一笔净 swap（聚合器多跳已合并）。
type SwapInfo struct {
	Slot      uint64   `json:"slot"`
	BlockTime int64    `json:"block_time"`
	Signer    string   `json:"signer"`
	Signature string   `json:"signature"`
	Dex       DexType  `json:"dex"`
	SwapType  SwapType `json:"swap_type"`
	AmountIn  float64  `json:"amount_in"`
	TokenIn   string   `json:"token_in"`
	AmountOut float64  `json:"amount_out"`
	TokenOut  string   `json:"token_out"`
}

// NewToken 表示新代币创建事件（工厂类协议，如 Pump.fun）。
type NewToken struct {
	Slot          uint64  `json:"slot"`
	BlockTime     int64   `json:"block_time"`
	Signature     string  `json:"signature"`
	Signer        string  `json:"signer"`
	Factory       string  `json:"factory"` // 创建该代币的工厂 program id
	Mint          string  `json:"mint"`
	Decimals      uint8   `json:"decimals"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	URI           string  `json:"uri"`
	InitialSupply *uint64 `json:"initial_supply,omitempty"`
	Supply        *uint64 `json:"supply,omitempty"`
}

// SolTransfer 表示一笔原生 SOL 转账。
type SolTransfer struct {
	Slot      uint64  `json:"slot"`
	BlockTime int64   `json:"block_time"`
	Signature string  `json:"signature"`
	From      string  `json:"from"`
	To        string  `json:"to"`
	Lamports  uint64  `json:"lamports"`
	SOL       float64 `json:"sol"` // 由 lamports 按 9 位精度换算
}

// TokenTransfer 表示一笔 SPL token 转账。Amount 为基础单位数值，
// 精度单独记录；owner / mint / decimals 由余额快照补全，缺失时为空。
type TokenTransfer struct {
	Slot      uint64 `json:"slot"`
	BlockTime int64  `json:"block_time"`
	Signature string `json:"signature"`

	FromAccount string  `json:"from_acc"`
	ToAccount   string  `json:"to_acc"`
	Amount      float64 `json:"amount"`
	Authority   string  `json:"authority,omitempty"`

	FromOwner string `json:"from,omitempty"`
	ToOwner   string `json:"to,omitempty"`
	Decimals  *uint8 `json:"decimals,omitempty"`
	Token     string `json:"token,omitempty"`
}

// AccountRecord 表示 token 账户生命周期事件（创建 / 初始化 / 关闭）。
// 后续用于为仅携带 token account 的转账补全钱包归属。
type AccountRecord struct {
	Account          string `json:"account"`
	Owner            string `json:"owner"`
	OpenTx           string `json:"open_tx,omitempty"`
	InitTx           string `json:"init_tx,omitempty"`
	CloseTx          string `json:"close_tx,omitempty"`
	CloseDestination string `json:"close_destination,omitempty"`
	Mint             string `json:"mint,omitempty"`
	Decimals         *uint8 `json:"decimals,omitempty"`
}

// SupplyChange 表示 mint/burn 引起的供应量变动。
// Amount 为带符号的基础单位精确值（mint 为正、burn 为负），不经 float64。
type SupplyChange struct {
	Signature string          `json:"signature"`
	IxIndex   int             `json:"ix_index"`
	Account   string          `json:"account"`
	Mint      string          `json:"mint"`
	Authority string          `json:"authority,omitempty"`
	Amount    decimal.Decimal `json:"amount"`
}

// ComputeBudgetRecord 表示单笔交易聚合后的 compute budget 设置。
type ComputeBudgetRecord struct {
	Slot      uint64  `json:"slot"`
	BlockTime int64   `json:"block_time"`
	Signature string  `json:"signature"`
	UnitLimit uint64  `json:"c_unit_limit"`
	Fee       float64 `json:"fee"` // 单价（micro-lamports / 1e6）
}

// ProgramIxRecord 记录每条主指令的分类结果。
// Parsed=false 且 Error=false 且 Kind="no_parser" 表示该程序未注册解析器。
type ProgramIxRecord struct {
	Signature string `json:"signature"`
	IxIndex   uint8  `json:"ix_idx"`
	ProgramID string `json:"program_id"`
	Kind      string `json:"ix_type"`
	Parsed    bool   `json:"parsed"`
	Error     bool   `json:"error"`
}

// TxRecord 交易落表记录。Raw 仅在交易不可丢弃时保留原始 JSON。
type TxRecord struct {
	Slot      uint64 `json:"slot"`
	BlockTime int64  `json:"block_time"`
	Signature string `json:"signature"`
	Signer    string `json:"signer"`
	HasError  bool   `json:"has_error"`

	TopLevelIxCount      uint8  `json:"top_level_ix_count"`
	InnerIxCount         uint16 `json:"inner_ix_count"`
	ComputeUnitsConsumed uint64 `json:"compute_units_consumed"`
	Fee                  uint64 `json:"fee"`
	Version              int8   `json:"version"` // legacy=-1，缺失=-2

	Discarded     bool   `json:"is_discarded"`
	DiscardReason string `json:"discard_reason,omitempty"`
	Raw           []byte `json:"data,omitempty"`
}
