// Package txparser 将单笔交易分类为结构化记录：逐条主指令路由到对应
// 解析器，并给出整笔交易的瘦身判定（是否可以丢弃原始负载）。
package txparser

import (
	"runtime/debug"

	"sol-block-etl/internal/consts"
	"sol-block-etl/internal/logic/core"
	"sol-block-etl/internal/logic/ixparser"
	"sol-block-etl/internal/logic/ixparser/common"
	"sol-block-etl/internal/logic/txwrap"
	"sol-block-etl/internal/pkg/logger"
	"sol-block-etl/internal/types"
)

// noDataDiscardable 列出解析成功但无数据时仍可视为"信息已穷尽"的指令。
// 其余 NoData 指令一律保守处理，保留原始负载。
var noDataDiscardable = map[string]bool{
	"syncNative":        true,
	"sequence_enforcer": true,
}

// Classify 对一笔交易做完整分类。
//
// 判定顺序：
//  1. 执行失败的交易直接按 Error 丢弃，不解析任何指令（状态变更未生效，
//     解析产物只会是噪音）；
//  2. 含投票指令的交易无条件按 Vote 丢弃；
//  3. 其余交易逐条主指令解析，全部指令的信息都已提取时按 Processed
//     丢弃，否则标记 Unknown 并保留原始负载。
func Classify(tx *txwrap.Tx, block core.BlockInfo) *core.ProcessedTx {
	result := &core.ProcessedTx{
		Tx: core.TxRecord{
			Slot:                 block.Slot,
			BlockTime:            block.BlockTime,
			Signature:            tx.Signature(),
			Signer:               tx.Signer(),
			HasError:             tx.IsError(),
			ComputeUnitsConsumed: tx.ComputeUnitsConsumed(),
			Fee:                  tx.Fee(),
			Version:              tx.Version(),
		},
	}

	instrs := tx.Instructions()
	result.Tx.TopLevelIxCount = uint8(len(instrs))
	result.Tx.InnerIxCount = tx.InnerIxCount()

	if tx.IsError() {
		result.Tx.Discarded = true
		result.Tx.DiscardReason = string(core.DiscardError)
		return result
	}

	canDiscard := true
	voteSeen := false
	occurrences := make(map[types.Pubkey]int)

	for _, ix := range instrs {
		if ix.ProgramID == consts.VoteProgram {
			voteSeen = true
			continue
		}

		occ := occurrences[ix.ProgramID]
		occurrences[ix.ProgramID] = occ + 1

		record := core.ProgramIxRecord{
			Signature: tx.Signature(),
			IxIndex:   uint8(ix.IxIndex),
			ProgramID: ix.ProgramID.String(),
		}

		handler, ok := ixparser.Lookup(ix.ProgramID)
		if !ok {
			record.Kind = "no_parser"
			result.ProgramRecords = append(result.ProgramRecords, record)
			canDiscard = false
			continue
		}

		res, err := parseOne(handler, &common.Context{Tx: tx, Block: block, Occurrence: occ}, ix)
		if err != nil {
			logger.Debugf("[txparser] parse failed: program=%s ix=%d tx=%s err=%v",
				record.ProgramID, ix.IxIndex, tx.Signature(), err)
			record.Kind = "unknown"
			record.Error = true
			result.ProgramRecords = append(result.ProgramRecords, record)
			canDiscard = false
			continue
		}

		record.Kind = res.Kind
		record.Parsed = res.Parsed
		result.ProgramRecords = append(result.ProgramRecords, record)
		result.Results = append(result.Results, res)

		if !discardable(res) {
			canDiscard = false
		}
	}

	switch {
	case voteSeen:
		// 投票交易无条件丢弃，即使混入了其它指令
		result.Tx.Discarded = true
		result.Tx.DiscardReason = string(core.DiscardVote)
	case canDiscard:
		result.Tx.Discarded = true
		result.Tx.DiscardReason = string(core.DiscardProcessed)
	default:
		result.Tx.DiscardReason = string(core.DiscardUnknown)
		result.Tx.Raw = tx.Raw()
	}
	return result
}

// parseOne 调用单个解析器并吸收 panic：单条指令的解析崩溃降级为解析
// 错误，不拖垮整块处理。
func parseOne(handler common.Handler, ctx *common.Context, ix *txwrap.Instruction) (res core.ParsedIx, err error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[txparser] parser panic: program=%s tx=%s: %+v\nstack: %s",
				ix.ProgramID, ctx.Tx.Signature(), r, debug.Stack())
			res = core.ParsedIx{}
			err = errParserPanic
		}
	}()
	return handler(ctx, ix)
}

var errParserPanic = panicError{}

type panicError struct{}

func (panicError) Error() string { return "parser panic" }

// discardable 判定单条指令的信息是否已穷尽。
func discardable(res core.ParsedIx) bool {
	if !res.Parsed {
		return false
	}
	if res.Data == nil {
		return noDataDiscardable[res.Kind]
	}
	return true
}
