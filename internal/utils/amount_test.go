package utils

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToHuman(t *testing.T) {
	assert.Equal(t, 1.5, ToHuman(1_500_000_000, 9))
	assert.Equal(t, 2.0, ToHuman(2_000_000, 6))
	assert.Equal(t, 123.0, ToHuman(123, 0))
	assert.Equal(t, 0.0, ToHuman(0, 9))
}

func TestToHumanDecimalExact(t *testing.T) {
	// float64 表示不了的金额在 decimal 路径必须无损
	raw := uint64(math.MaxUint64)
	d := ToHumanDecimal(raw, 6)
	assert.Equal(t, "18446744073709.551615", d.String())
}

func TestLamportsToSOL(t *testing.T) {
	assert.Equal(t, 0.000005, LamportsToSOL(5000))
	assert.Equal(t, 1.0, LamportsToSOL(1_000_000_000))
}

func TestMicroLamportsToLamports(t *testing.T) {
	assert.Equal(t, 1.0, MicroLamportsToLamports(1_000_000))
	assert.Equal(t, 0.25, MicroLamportsToLamports(250_000))
	assert.Equal(t, 0.0, MicroLamportsToLamports(0))
}

func TestSignedSupplyDelta(t *testing.T) {
	mint := SignedSupplyDelta(1000, false)
	assert.True(t, mint.Equal(decimal.NewFromInt(1000)))

	burn := SignedSupplyDelta(1000, true)
	assert.True(t, burn.Equal(decimal.NewFromInt(-1000)))

	// u64 最大值取负不溢出
	big := SignedSupplyDelta(math.MaxUint64, true)
	assert.Equal(t, "-18446744073709551615", big.String())
}
