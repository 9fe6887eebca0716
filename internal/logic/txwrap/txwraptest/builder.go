// Package txwraptest 提供测试用的交易构造器：用与 RPC 返回一致的
// 松散 JSON 结构拼装交易，再走正式的适配路径生成 *txwrap.Tx，
// 保证测试覆盖与线上相同的解码链路。
package txwraptest

import (
	"fmt"
	"strconv"

	"github.com/blocto/solana-go-sdk/rpc"
	"github.com/mr-tron/base58"

	"sol-block-etl/internal/logic/txwrap"
)

type innerIx struct {
	programIndex int
	accounts     []int
	data         []byte
}

type topIx struct {
	programIndex int
	accounts     []int
	data         []byte
	inner        []innerIx
}

// Builder 按链上布局拼装一条交易。账户表顺序即最终下标顺序。
type Builder struct {
	signature string
	accounts  []string
	loadedW   []string
	loadedR   []string
	instrs    []topIx
	logs      []string
	pre       []rpc.TransactionMetaTokenBalance
	post      []rpc.TransactionMetaTokenBalance
	err       any
	fee       uint64
	cu        *uint64
	version   any
}

func NewBuilder(signature string) *Builder {
	return &Builder{signature: signature, version: float64(0)}
}

// Accounts 设置静态账户表（base58 地址，首位为 fee payer）。
func (b *Builder) Accounts(addrs ...string) *Builder {
	b.accounts = addrs
	return b
}

// LoadedAddresses 追加地址表加载的账户（先 writable 后 readonly）。
func (b *Builder) LoadedAddresses(writable, readonly []string) *Builder {
	b.loadedW = writable
	b.loadedR = readonly
	return b
}

// Instruction 追加一条主指令，account 参数为账户表下标。
func (b *Builder) Instruction(programIndex int, accounts []int, data []byte) *Builder {
	b.instrs = append(b.instrs, topIx{programIndex: programIndex, accounts: accounts, data: data})
	return b
}

// Inner 向最近一条主指令追加一条 CPI 指令。
func (b *Builder) Inner(programIndex int, accounts []int, data []byte) *Builder {
	if len(b.instrs) == 0 {
		panic("txwraptest: Inner called before Instruction")
	}
	last := &b.instrs[len(b.instrs)-1]
	last.inner = append(last.inner, innerIx{programIndex: programIndex, accounts: accounts, data: data})
	return b
}

// Logs 设置交易日志（完整行，含 "Program data: " 前缀等）。
func (b *Builder) Logs(lines ...string) *Builder {
	b.logs = lines
	return b
}

// TokenBalance 登记某账户下标的 pre/post token 余额（基础单位）。
func (b *Builder) TokenBalance(accountIndex int, mint, owner string, decimals uint8, pre, post uint64) *Builder {
	b.pre = append(b.pre, tokenBalance(accountIndex, mint, owner, decimals, pre))
	b.post = append(b.post, tokenBalance(accountIndex, mint, owner, decimals, post))
	return b
}

// PostOnlyTokenBalance 仅登记 post 余额（账户在交易中新建的场景）。
func (b *Builder) PostOnlyTokenBalance(accountIndex int, mint, owner string, decimals uint8, post uint64) *Builder {
	b.post = append(b.post, tokenBalance(accountIndex, mint, owner, decimals, post))
	return b
}

// Failed 将交易标记为链上执行失败。
func (b *Builder) Failed() *Builder {
	b.err = map[string]any{"InstructionError": []any{float64(0), "Custom"}}
	return b
}

func (b *Builder) Fee(fee uint64) *Builder {
	b.fee = fee
	return b
}

func (b *Builder) ComputeUnits(cu uint64) *Builder {
	b.cu = &cu
	return b
}

// LegacyVersion 将交易版本设为 "legacy"。
func (b *Builder) LegacyVersion() *Builder {
	b.version = "legacy"
	return b
}

// RawTransaction 输出 RPC 形态的交易，供走完整适配路径。
func (b *Builder) RawTransaction() rpc.GetBlockTransaction {
	ixJSON := make([]any, 0, len(b.instrs))
	var innerGroups []rpc.TransactionMetaInnerInstruction
	for i, ix := range b.instrs {
		ixJSON = append(ixJSON, map[string]any{
			"programIdIndex": ix.programIndex,
			"accounts":       ix.accounts,
			"data":           base58.Encode(ix.data),
		})
		if len(ix.inner) == 0 {
			continue
		}
		// 内层与外层一样用松散 JSON 结构，和 RPC 返回形态保持一致
		group := rpc.TransactionMetaInnerInstruction{Index: uint64(i)}
		for _, in := range ix.inner {
			group.Instructions = append(group.Instructions, map[string]any{
				"programIdIndex": in.programIndex,
				"accounts":       in.accounts,
				"data":           base58.Encode(in.data),
			})
		}
		innerGroups = append(innerGroups, group)
	}

	return rpc.GetBlockTransaction{
		Meta: &rpc.TransactionMeta{
			Err:                  b.err,
			Fee:                  b.fee,
			LogMessages:          b.logs,
			PreTokenBalances:     b.pre,
			PostTokenBalances:    b.post,
			InnerInstructions:    innerGroups,
			ComputeUnitsConsumed: b.cu,
			LoadedAddresses: rpc.TransactionLoadedAddresses{
				Writable: b.loadedW,
				Readonly: b.loadedR,
			},
		},
		Transaction: map[string]any{
			"signatures": []any{b.signature},
			"message": map[string]any{
				"accountKeys":  b.accounts,
				"instructions": ixJSON,
			},
		},
		Version: b.version,
	}
}

// Build 构造只读交易封装，失败直接 panic（fixture 本身应当合法）。
func (b *Builder) Build() *txwrap.Tx {
	tx, err := txwrap.New(b.RawTransaction())
	if err != nil {
		panic(fmt.Sprintf("txwraptest: build fixture: %v", err))
	}
	return tx
}

// Addr 生成确定性的测试地址：32 字节全部填充 seed 后做 base58 编码。
func Addr(seed byte) string {
	var raw [32]byte
	for i := range raw {
		raw[i] = seed
	}
	return base58.Encode(raw[:])
}

func tokenBalance(accountIndex int, mint, owner string, decimals uint8, amount uint64) rpc.TransactionMetaTokenBalance {
	return rpc.TransactionMetaTokenBalance{
		AccountIndex: uint64(accountIndex),
		Mint:         mint,
		Owner:        owner,
		UITokenAmount: rpc.TokenAccountBalance{
			Amount:   strconv.FormatUint(amount, 10),
			Decimals: decimals,
		},
	}
}
