package txwrap

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/mr-tron/base58"

	"sol-block-etl/internal/types"
)

// InnerInstruction 表示 CPI 产生的内层指令，归属于某条主指令。
type InnerInstruction struct {
	ProgramID   types.Pubkey
	Accounts    []int
	Data        []byte
	StackHeight int
}

// Instruction 表示一条主指令，Inner 为其名下按执行顺序排列的 CPI 指令。
// Accounts 为账户表下标，需经 Tx 的账户表解析；下标顺序与链上一致，
// 任何偏差都会导致后续所有解码错位。
type Instruction struct {
	IxIndex     int
	ProgramID   types.Pubkey
	Accounts    []int
	Data        []byte
	StackHeight int
	Inner       []InnerInstruction
}

// Tx 是对 RPC 原始交易的只读封装：合并账户表、展开指令树、
// 惰性构建 token 余额查找表。构造后不可变。
type Tx struct {
	meta        *rpc.TransactionMeta
	signatures  []string
	accountStrs []string // 静态账户 + loaded writable + loaded readonly，顺序固定
	accounts    []types.Pubkey
	instrs      []*Instruction
	version     int8
	rawJSON     []byte

	lookup map[string]*TokenAccountInfo // 惰性构建，见 Lookup()
}

// New 将一条 RPC 交易适配为解析用结构。
// 元数据缺失或账户表无法解析属于结构性错误，整块处理应随之失败。
func New(raw rpc.GetBlockTransaction) (*Tx, error) {
	if raw.Meta == nil {
		return nil, fmt.Errorf("transaction meta missing")
	}

	body, err := json.Marshal(raw.Transaction)
	if err != nil {
		return nil, fmt.Errorf("re-encode transaction body: %w", err)
	}
	var rtx rawTransaction
	if err := json.Unmarshal(body, &rtx); err != nil {
		return nil, fmt.Errorf("decode transaction body: %w", err)
	}
	if len(rtx.Signatures) == 0 {
		return nil, fmt.Errorf("transaction has no signatures")
	}
	if len(rtx.Message.AccountKeys) == 0 {
		return nil, fmt.Errorf("transaction has no account keys")
	}

	// 账户表合并顺序：静态表 → loaded writable → loaded readonly
	accountStrs := make([]string, 0,
		len(rtx.Message.AccountKeys)+len(raw.Meta.LoadedAddresses.Writable)+len(raw.Meta.LoadedAddresses.Readonly))
	accountStrs = append(accountStrs, rtx.Message.AccountKeys...)
	accountStrs = append(accountStrs, raw.Meta.LoadedAddresses.Writable...)
	accountStrs = append(accountStrs, raw.Meta.LoadedAddresses.Readonly...)

	accounts := make([]types.Pubkey, len(accountStrs))
	for i, s := range accountStrs {
		p, err := types.TryPubkeyFromBase58(s)
		if err != nil {
			return nil, fmt.Errorf("account key %d: %w", i, err)
		}
		accounts[i] = p
	}

	instrs, err := buildInstructions(rtx.Message.Instructions, raw.Meta.InnerInstructions, accounts)
	if err != nil {
		return nil, err
	}

	rawJSON, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode raw transaction: %w", err)
	}

	return &Tx{
		meta:        raw.Meta,
		signatures:  rtx.Signatures,
		accountStrs: accountStrs,
		accounts:    accounts,
		instrs:      instrs,
		version:     parseVersion(raw.Version),
		rawJSON:     rawJSON,
	}, nil
}

func buildInstructions(
	raws []rawInstruction,
	innerGroups []rpc.TransactionMetaInnerInstruction,
	accounts []types.Pubkey,
) ([]*Instruction, error) {
	instrs := make([]*Instruction, 0, len(raws))
	for i, rix := range raws {
		if rix.ProgramIDIndex < 0 || rix.ProgramIDIndex >= len(accounts) {
			return nil, fmt.Errorf("instruction %d: program index %d out of range", i, rix.ProgramIDIndex)
		}
		data, err := decodeIxData(rix.Data)
		if err != nil {
			return nil, fmt.Errorf("instruction %d: decode data: %w", i, err)
		}
		ix := &Instruction{
			IxIndex:   i,
			ProgramID: accounts[rix.ProgramIDIndex],
			Accounts:  rix.Accounts,
			Data:      data,
		}
		if rix.StackHeight != nil {
			ix.StackHeight = *rix.StackHeight
		}
		instrs = append(instrs, ix)
	}

	for _, group := range innerGroups {
		idx := int(group.Index)
		if idx >= len(instrs) {
			return nil, fmt.Errorf("inner instruction group index %d out of range", idx)
		}
		// SDK 侧内层指令是松散结构（[]any，元素为 map），必须走与外层
		// 交易体相同的 JSON 映射重新解码；直接断言具体类型在真实数据上
		// 会得到空结果。
		body, err := json.Marshal(group.Instructions)
		if err != nil {
			return nil, fmt.Errorf("inner instruction group %d: re-encode: %w", idx, err)
		}
		var rixs []rawInstruction
		if err := json.Unmarshal(body, &rixs); err != nil {
			return nil, fmt.Errorf("inner instruction group %d: decode: %w", idx, err)
		}
		inner := make([]InnerInstruction, 0, len(rixs))
		for j, rix := range rixs {
			if rix.ProgramIDIndex < 0 || rix.ProgramIDIndex >= len(accounts) {
				return nil, fmt.Errorf("inner instruction %d.%d: program index %d out of range", idx, j, rix.ProgramIDIndex)
			}
			data, err := decodeIxData(rix.Data)
			if err != nil {
				return nil, fmt.Errorf("inner instruction %d.%d: decode data: %w", idx, j, err)
			}
			in := InnerInstruction{
				ProgramID: accounts[rix.ProgramIDIndex],
				Accounts:  rix.Accounts,
				Data:      data,
			}
			if rix.StackHeight != nil {
				in.StackHeight = *rix.StackHeight
			}
			inner = append(inner, in)
		}
		instrs[idx].Inner = inner
	}
	return instrs, nil
}

// decodeIxData 解码指令 data 字段。空串是合法形态（如 ATA create），
// 直接返回 nil 而非交给 base58 库报错。
func decodeIxData(s string) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	return base58.Decode(s)
}

func parseVersion(v any) int8 {
	switch val := v.(type) {
	case string:
		// "legacy"
		return -1
	case float64:
		return int8(val)
	case nil:
		return -2
	default:
		_ = val
		return -2
	}
}

// Signature 返回首个签名（交易唯一标识）。
func (tx *Tx) Signature() string {
	return tx.signatures[0]
}

func (tx *Tx) Signatures() []string {
	return tx.signatures
}

// Signer 返回费用支付者（账户表第 0 位）。
func (tx *Tx) Signer() string {
	return tx.accountStrs[0]
}

func (tx *Tx) IsError() bool {
	return tx.meta.Err != nil
}

func (tx *Tx) Fee() uint64 {
	return tx.meta.Fee
}

func (tx *Tx) ComputeUnitsConsumed() uint64 {
	if tx.meta.ComputeUnitsConsumed == nil {
		return 0
	}
	return *tx.meta.ComputeUnitsConsumed
}

// Version 返回交易版本：legacy 为 -1，字段缺失为 -2。
func (tx *Tx) Version() int8 {
	return tx.version
}

func (tx *Tx) Instructions() []*Instruction {
	return tx.instrs
}

// InnerIxCount 返回全部 CPI 指令条数。
func (tx *Tx) InnerIxCount() uint16 {
	n := 0
	for _, ix := range tx.instrs {
		n += len(ix.Inner)
	}
	return uint16(n)
}

func (tx *Tx) AccountCount() int {
	return len(tx.accounts)
}

// Account 按账户表下标解析地址，越界返回 error（下标来自不可信指令数据）。
func (tx *Tx) Account(i int) (types.Pubkey, error) {
	if i < 0 || i >= len(tx.accounts) {
		return types.Pubkey{}, fmt.Errorf("account index %d out of range (table size %d)", i, len(tx.accounts))
	}
	return tx.accounts[i], nil
}

func (tx *Tx) AccountStr(i int) (string, error) {
	if i < 0 || i >= len(tx.accountStrs) {
		return "", fmt.Errorf("account index %d out of range (table size %d)", i, len(tx.accountStrs))
	}
	return tx.accountStrs[i], nil
}

func (tx *Tx) LogMessages() []string {
	return tx.meta.LogMessages
}

// ProgramDataLogs 返回所有 "Program data: " 事件日志的 base64 体，保持发射顺序。
func (tx *Tx) ProgramDataLogs() []string {
	const prefix = "Program data: "
	var out []string
	for _, line := range tx.meta.LogMessages {
		if rest, ok := strings.CutPrefix(line, prefix); ok {
			out = append(out, rest)
		}
	}
	return out
}

// Raw 返回原始交易（含元数据）的 JSON 编码，用于不可丢弃交易的留存。
func (tx *Tx) Raw() []byte {
	return tx.rawJSON
}
