package store

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"sol-block-etl/internal/pkg/logger"
)

const (
	defaultBatchSize = 32 * 1024
	defaultLingerMs  = 5
)

// KafkaOption 为 Kafka 写出端配置。
type KafkaOption struct {
	Brokers     string // 多个 broker 用英文逗号分隔
	Partitions  int    // 每个 topic 的分区数
	BatchSize   int    // 批处理大小（字节）
	LingerMs    int    // 批处理最大延迟（毫秒）
	TopicPrefix string // topic 前缀，完整名为 <prefix>.<kind>
}

// newKafkaProducer 创建生产者，并确保所需 topic 存在。
func newKafkaProducer(cfg KafkaOption, topics []string) (*kafka.Producer, error) {
	adminClient, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": cfg.Brokers,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create admin client: %w", err)
	}
	defer adminClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	meta, err := adminClient.GetMetadata(nil, true, 10000)
	if err != nil {
		return nil, fmt.Errorf("failed to get metadata: %w", err)
	}

	replicationFactor := 1
	if len(meta.Brokers) > 1 {
		replicationFactor = 2
	}
	logger.Infof("[store] kafka broker count = %d, replication factor = %d", len(meta.Brokers), replicationFactor)

	existing := make(map[string]bool, len(meta.Topics))
	for _, t := range meta.Topics {
		existing[t.Topic] = true
	}

	var toCreate []kafka.TopicSpecification
	for _, topic := range topics {
		if !existing[topic] {
			toCreate = append(toCreate, kafka.TopicSpecification{
				Topic:             topic,
				NumPartitions:     cfg.Partitions,
				ReplicationFactor: replicationFactor,
			})
		}
	}
	if len(toCreate) > 0 {
		results, err := adminClient.CreateTopics(ctx, toCreate)
		if err != nil {
			return nil, fmt.Errorf("failed to create topics: %w", err)
		}
		for _, result := range results {
			if result.Error.Code() != kafka.ErrNoError {
				return nil, fmt.Errorf("failed to create topic %s: %w", result.Topic, result.Error)
			}
		}
	}

	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	lingerMs := cfg.LingerMs
	if lingerMs <= 0 {
		lingerMs = defaultLingerMs
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": cfg.Brokers,
		"client.id":         fmt.Sprintf("sol-block-etl-%s", hostname),

		// 可靠性保障
		"acks":                                  "all",
		"enable.idempotence":                    true,
		"max.in.flight.requests.per.connection": 5,

		// 超时与重试
		"delivery.timeout.ms": 30000,
		"request.timeout.ms":  30000,
		"retries":             5,
		"retry.backoff.ms":    100,

		// 性能
		"batch.size":       batchSize,
		"linger.ms":        lingerMs,
		"compression.type": "none",

		"message.max.bytes": 2 * 1024 * 1024,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create producer: %w", err)
	}
	return producer, nil
}
