package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPartitionHashBytes(t *testing.T) {
	sig := make([]byte, 64)
	for i := range sig {
		sig[i] = byte(i)
	}

	// 快速路径：2 的幂取低位掩码
	assert.Equal(t, uint32(27)&3, PartitionHashBytes(sig, 4))
	assert.Equal(t, uint32(27)&7, PartitionHashBytes(sig, 8))

	// fallback 路径：组合字节后取模，结果必须落在 [0, mod)
	got := PartitionHashBytes(sig, 5)
	assert.Less(t, got, uint32(5))

	// 输入过短或 mod 无意义时固定落 0 分区
	assert.Equal(t, uint32(0), PartitionHashBytes(sig[:10], 4))
	assert.Equal(t, uint32(0), PartitionHashBytes(sig, 1))
}

func TestPartitionHashBytesStable(t *testing.T) {
	sig := make([]byte, 64)
	for i := range sig {
		sig[i] = byte(200 - i)
	}
	first := PartitionHashBytes(sig, 7)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, PartitionHashBytes(sig, 7))
	}
}
