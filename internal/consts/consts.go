package consts

import "runtime"

const (
	// SOLDecimals 表示原生 SOL 精度（lamports → SOL）
	SOLDecimals uint8 = 9

	// MicroLamportsPerLamport：ComputeBudget 单价以 micro-lamports 计
	MicroLamportsPerLamport = 1_000_000
)

// CpuCount 表示逻辑 CPU 核心数，用于控制并发任务调度上限
var CpuCount = runtime.NumCPU()
