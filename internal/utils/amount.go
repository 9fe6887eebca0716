package utils

import (
	"math/big"

	"github.com/shopspring/decimal"

	"sol-block-etl/internal/consts"
)

// 金额换算统一走本文件，基础单位（u64/i128 级别整数）到人类可读单位的
// 精度策略集中在一处：中间计算使用 decimal 精确展开，仅在落表字段要求
// float64 时做最后一次有损转换。超过 float64 53 位尾数的金额会损失
// 低位精度，这是输出格式的限制，不是换算过程的限制。

// ToHuman 将基础单位金额按 decimals 缩放为人类可读数值。
func ToHuman(raw uint64, decimals uint8) float64 {
	return decimal.NewFromUint64(raw).Shift(-int32(decimals)).InexactFloat64()
}

// ToHumanDecimal 同 ToHuman，但保留精确的 decimal 表示，不经过 float64。
func ToHumanDecimal(raw uint64, decimals uint8) decimal.Decimal {
	return decimal.NewFromUint64(raw).Shift(-int32(decimals))
}

// LamportsToSOL 将 lamports 转换为 SOL（9 位精度）。
func LamportsToSOL(lamports uint64) float64 {
	return decimal.NewFromUint64(lamports).Shift(-9).InexactFloat64()
}

// MicroLamportsToLamports 将 micro-lamports 单价换算为 lamports。
func MicroLamportsToLamports(microLamports uint64) float64 {
	return decimal.NewFromUint64(microLamports).
		Div(decimal.NewFromInt(consts.MicroLamportsPerLamport)).
		InexactFloat64()
}

// SignedSupplyDelta 构造带符号的供应量变动（mint 为正、burn 为负），
// 保持基础单位整数精确，u64 金额取负不会溢出。
func SignedSupplyDelta(raw uint64, burn bool) decimal.Decimal {
	d := decimal.NewFromBigInt(new(big.Int).SetUint64(raw), 0)
	if burn {
		return d.Neg()
	}
	return d
}
