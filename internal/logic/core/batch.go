package core

// RecordBatch 是一个区块处理后按类别分桶的全部落表记录。
// 同一区块的记录要么整批写出、要么整批失败，不做部分提交。
type RecordBatch struct {
	Block          BlockRecord
	Transactions   []TxRecord
	ProgramIxs     []ProgramIxRecord
	SolTransfers   []SolTransfer
	TokenTransfers []TokenTransfer
	Swaps          []SwapInfo
	NewTokens      []NewToken
	Accounts       []AccountRecord
	SupplyChanges  []SupplyChange
	ComputeBudgets []ComputeBudgetRecord
}

// Size 返回除区块记录外的记录总条数。
func (b *RecordBatch) Size() int {
	return len(b.Transactions) + len(b.ProgramIxs) + len(b.SolTransfers) +
		len(b.TokenTransfers) + len(b.Swaps) + len(b.NewTokens) +
		len(b.Accounts) + len(b.SupplyChanges) + len(b.ComputeBudgets)
}
