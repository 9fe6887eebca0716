package pumpfun

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"github.com/near/borsh-go"

	"sol-block-etl/internal/types"
)

// Anchor 事件判别符（sha256("event:<Name>") 前 8 字节）。
// 来源: https://github.com/pump-fun/pump-public-docs
var (
	discTrade     = []byte{189, 219, 127, 211, 78, 230, 97, 238}
	discCreate    = []byte{27, 114, 169, 77, 222, 235, 99, 118}
	discComplete  = []byte{95, 114, 97, 156, 212, 46, 152, 8}
	discSetParams = []byte{223, 195, 159, 246, 62, 48, 143, 131}
)

// tradeEvent 是 TradeEvent 的 borsh 布局，字段顺序即序列化顺序。
type tradeEvent struct {
	Mint                 types.Pubkey
	SolAmount            uint64
	TokenAmount          uint64
	IsBuy                bool
	User                 types.Pubkey
	Timestamp            int64
	VirtualSolReserves   uint64
	VirtualTokenReserves uint64
	RealSolReserves      uint64
	RealTokenReserves    uint64
}

// createEvent 是 CreateEvent 的 borsh 布局。
type createEvent struct {
	Name         string
	Symbol       string
	Uri          string
	Mint         types.Pubkey
	BondingCurve types.Pubkey
	User         types.Pubkey
}

// noDataEvent 表示已识别但无需提取数据的事件，值为事件名。
type noDataEvent string

// decodeEvent 解码一条 "Program data: " 日志体（base64）。
// 返回 nil 表示判别符未识别。
func decodeEvent(b64 string) (any, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("pumpfun event log not base64: %w", err)
	}
	if len(raw) < 8 {
		return nil, fmt.Errorf("pumpfun event log too short: %d bytes", len(raw))
	}

	disc, payload := raw[:8], raw[8:]
	switch {
	case bytes.Equal(disc, discTrade):
		var ev tradeEvent
		if err := borsh.Deserialize(&ev, payload); err != nil {
			return nil, fmt.Errorf("decode pumpfun TradeEvent: %w", err)
		}
		return &ev, nil

	case bytes.Equal(disc, discCreate):
		var ev createEvent
		if err := borsh.Deserialize(&ev, payload); err != nil {
			return nil, fmt.Errorf("decode pumpfun CreateEvent: %w", err)
		}
		return &ev, nil

	case bytes.Equal(disc, discComplete):
		return noDataEvent("complete"), nil
	case bytes.Equal(disc, discSetParams):
		return noDataEvent("setParams"), nil

	default:
		return nil, nil
	}
}
