package core

// DiscardReason 表示交易被丢弃（仅保留结构化记录、去掉原始负载）的原因。
type DiscardReason string

const (
	DiscardVote      DiscardReason = "Vote"      // 投票交易，无经济语义
	DiscardProcessed DiscardReason = "Processed" // 所有指令均已解析，信息已完整提取
	DiscardError     DiscardReason = "Error"     // 链上执行失败，状态变更未生效
	DiscardUnknown   DiscardReason = "Unknown"   // 存在未识别指令，必须保留原始负载
)

// ComputeBudgetKind 区分 ComputeBudget 程序的子指令。
type ComputeBudgetKind string

const (
	ComputeBudgetRequestHeapFrame    ComputeBudgetKind = "RequestHeapFrame"
	ComputeBudgetSetComputeUnitLimit ComputeBudgetKind = "SetComputeUnitLimit"
	ComputeBudgetSetComputeUnitPrice ComputeBudgetKind = "SetComputeUnitPrice"
	ComputeBudgetUnknown             ComputeBudgetKind = "Unknown"
)

// ComputeBudgetData 为 ComputeBudget 指令的解析载荷，按 Kind 取用对应字段。
type ComputeBudgetData struct {
	Kind      ComputeBudgetKind
	UnitLimit uint32  // Kind == SetComputeUnitLimit 时有效
	UnitPrice float64 // Kind == SetComputeUnitPrice 时有效，单位 lamports/CU
}

// IxData 是指令解析载荷的封闭变体集合，每个 ParsedIx 至多携带一种。
// nil 表示 NoData（程序已识别但该指令形态没有可提取的数据）。
type IxData interface{ isIxData() }

func (*ComputeBudgetData) isIxData() {}
func (*SolTransfer) isIxData()       {}
func (*TokenTransfer) isIxData()     {}
func (*SwapInfo) isIxData()          {}
func (*NewToken) isIxData()          {}
func (*AccountRecord) isIxData()     {}
func (*SupplyChange) isIxData()      {}

// ParsedIx 表示一条主指令的解析结果。
// Parsed=false 表示程序已识别但该指令形态未产出可用数据，
// 与"未注册解析器"（见 ProgramIxRecord）是两种不同状态。
type ParsedIx struct {
	Parsed bool
	Kind   string
	Data   IxData
}

// ProcessedTx 是单笔交易分类的完整产物，分类器返回后不再修改。
type ProcessedTx struct {
	Tx             TxRecord
	ProgramRecords []ProgramIxRecord // 每条主指令恰好一条
	Results        []ParsedIx        // 仅含注册了解析器且未出错的指令结果
}
