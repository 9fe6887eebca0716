package ixparser

import (
	"sync"

	"sol-block-etl/internal/logic/ixparser/atoken"
	"sol-block-etl/internal/logic/ixparser/common"
	"sol-block-etl/internal/logic/ixparser/computebudget"
	"sol-block-etl/internal/logic/ixparser/inert"
	"sol-block-etl/internal/logic/ixparser/jupiter"
	"sol-block-etl/internal/logic/ixparser/pumpfun"
	"sol-block-etl/internal/logic/ixparser/raydiumv4"
	"sol-block-etl/internal/logic/ixparser/spltoken"
	"sol-block-etl/internal/logic/ixparser/systemprog"
	"sol-block-etl/internal/types"
)

// handlers 是 Solana ProgramID → 指令解析 handler 的路由表。
// 所有协议模块通过 RegisterHandlers 注册进该表；表中不存在的程序
// 一律按未知处理，没有兜底解析器。
var handlers = map[types.Pubkey]common.Handler{}

var initOnce sync.Once

// Init 注册全部协议解析器，进程内幂等。
func Init() {
	initOnce.Do(func() {
		systemprog.RegisterHandlers(handlers)
		computebudget.RegisterHandlers(handlers)
		spltoken.RegisterHandlers(handlers)
		atoken.RegisterHandlers(handlers)
		pumpfun.RegisterHandlers(handlers)
		raydiumv4.RegisterHandlers(handlers)
		jupiter.RegisterHandlers(handlers)
		inert.RegisterHandlers(handlers)
	})
}

// Lookup 返回某 Program 的解析器，未注册时 ok 为 false。
func Lookup(programID types.Pubkey) (common.Handler, bool) {
	h, ok := handlers[programID]
	return h, ok
}
