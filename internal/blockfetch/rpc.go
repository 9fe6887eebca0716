package blockfetch

import (
	"context"

	"github.com/blocto/solana-go-sdk/client"
	"github.com/blocto/solana-go-sdk/rpc"
)

// BlockSource 抽象 getBlock 的 RPC 调用，测试中用假实现替换。
type BlockSource interface {
	GetBlock(ctx context.Context, slot uint64) (rpc.JsonRpcResponse[*rpc.GetBlock], error)
}

var _ BlockSource = (*RPCSource)(nil)

// RPCSource 基于 JSON-RPC 节点的区块来源。
// encoding=json + transactionDetails=full + commitment=confirmed 是
// 解析管线的固定约定，改动会破坏下游的交易适配。
type RPCSource struct {
	client *rpc.RpcClient
}

func NewRPCSource(endpoint string) *RPCSource {
	c := rpc.NewRpcClient(endpoint)
	return &RPCSource{client: &c}
}

func (s *RPCSource) GetBlock(ctx context.Context, slot uint64) (rpc.JsonRpcResponse[*rpc.GetBlock], error) {
	v := uint8(0)
	return s.client.GetBlockWithConfig(ctx, slot, rpc.GetBlockConfig{
		Encoding:                       rpc.GetBlockConfigEncodingJson,
		TransactionDetails:             rpc.GetBlockConfigTransactionDetailsFull,
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &v,
	})
}

// TxSource 按签名拉取单笔交易，供补数工具与人工排查使用。
type TxSource struct {
	client *client.Client
}

func NewTxSource(endpoint string) *TxSource {
	return &TxSource{client: client.NewClient(endpoint)}
}

func (s *TxSource) GetTransaction(ctx context.Context, signature string) (*client.Transaction, error) {
	tx, err := s.client.GetTransaction(ctx, signature)
	if err != nil {
		return nil, err
	}
	if tx == nil {
		return nil, ErrNotAvailable
	}
	return tx, nil
}
