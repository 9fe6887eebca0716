package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/mr-tron/base58"

	"sol-block-etl/internal/logic/core"
	pkgutils "sol-block-etl/internal/pkg/utils"
)

// 每类记录一个 topic，名称为 <prefix>.<kind>。
const (
	topicBlocks         = "blocks"
	topicTransactions   = "transactions"
	topicProgramIxs     = "program_instructions"
	topicSolTransfers   = "sol_transfers"
	topicTokenTransfers = "token_transfers"
	topicSwaps          = "swaps"
	topicNewTokens      = "new_tokens"
	topicAccounts       = "token_accounts"
	topicSupplyChanges  = "supply_changes"
	topicComputeBudgets = "compute_budgets"
)

var allTopics = []string{
	topicBlocks, topicTransactions, topicProgramIxs, topicSolTransfers,
	topicTokenTransfers, topicSwaps, topicNewTokens, topicAccounts,
	topicSupplyChanges, topicComputeBudgets,
}

const deliveryTimeout = 30 * time.Second

// KafkaWriter 将记录批量写入 Kafka，同一签名的记录固定落同一分区，
// 保证下游按签名消费时的有序性。
type KafkaWriter struct {
	producer   *kafka.Producer
	prefix     string
	partitions uint32
}

func NewKafkaWriter(cfg KafkaOption) (*KafkaWriter, error) {
	if cfg.Partitions <= 0 {
		cfg.Partitions = 4
	}
	topics := make([]string, 0, len(allTopics))
	for _, t := range allTopics {
		topics = append(topics, cfg.TopicPrefix+"."+t)
	}

	producer, err := newKafkaProducer(cfg, topics)
	if err != nil {
		return nil, err
	}
	return &KafkaWriter{
		producer:   producer,
		prefix:     cfg.TopicPrefix,
		partitions: uint32(cfg.Partitions),
	}, nil
}

func (w *KafkaWriter) WriteBatch(ctx context.Context, batch *core.RecordBatch) error {
	jobs := make([]*kafkaJob, 0, batch.Size()+1)

	add := func(topic, signature string, record any) error {
		value, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode %s record: %w", topic, err)
		}
		jobs = append(jobs, &kafkaJob{
			topic:     w.prefix + "." + topic,
			partition: w.partitionFor(signature),
			key:       []byte(signature),
			value:     value,
		})
		return nil
	}

	// 区块记录按 slot 取模分区，signature 维度的记录按签名哈希分区
	blockValue, err := json.Marshal(batch.Block)
	if err != nil {
		return fmt.Errorf("encode block record: %w", err)
	}
	jobs = append(jobs, &kafkaJob{
		topic:     w.prefix + "." + topicBlocks,
		partition: int32(batch.Block.Slot % uint64(w.partitions)),
		value:     blockValue,
	})

	for _, r := range batch.Transactions {
		if err := add(topicTransactions, r.Signature, r); err != nil {
			return err
		}
	}
	for _, r := range batch.ProgramIxs {
		if err := add(topicProgramIxs, r.Signature, r); err != nil {
			return err
		}
	}
	for _, r := range batch.SolTransfers {
		if err := add(topicSolTransfers, r.Signature, r); err != nil {
			return err
		}
	}
	for _, r := range batch.TokenTransfers {
		if err := add(topicTokenTransfers, r.Signature, r); err != nil {
			return err
		}
	}
	for _, r := range batch.Swaps {
		if err := add(topicSwaps, r.Signature, r); err != nil {
			return err
		}
	}
	for _, r := range batch.NewTokens {
		if err := add(topicNewTokens, r.Signature, r); err != nil {
			return err
		}
	}
	for _, r := range batch.Accounts {
		if err := add(topicAccounts, r.Account, r); err != nil {
			return err
		}
	}
	for _, r := range batch.SupplyChanges {
		if err := add(topicSupplyChanges, r.Signature, r); err != nil {
			return err
		}
	}
	for _, r := range batch.ComputeBudgets {
		if err := add(topicComputeBudgets, r.Signature, r); err != nil {
			return err
		}
	}

	return sendJobs(ctx, w.producer, jobs, deliveryTimeout)
}

// partitionFor 将签名（或账户地址）映射到固定分区。
func (w *KafkaWriter) partitionFor(key string) int32 {
	raw, err := base58.Decode(key)
	if err != nil {
		return 0
	}
	return int32(pkgutils.PartitionHashBytes(raw, w.partitions))
}

func (w *KafkaWriter) Close() {
	w.producer.Flush(int(deliveryTimeout / time.Millisecond))
	w.producer.Close()
}
