package config

import (
	"sol-block-etl/internal/blockfetch"
	"sol-block-etl/internal/pkg/logger"
	"sol-block-etl/internal/store"
)

type LogConfig struct {
	Format   string `yaml:"format"`   // 日志格式，支持 "console" 或 "json"
	LogDir   string `yaml:"log_dir"`  // 日志目录（可为相对路径或绝对路径）
	Level    string `yaml:"level"`    // 日志级别：debug / info / warn / error
	Compress bool   `yaml:"compress"` // 是否压缩旧日志文件
}

func (c *LogConfig) ToLogOption() logger.LogOption {
	return logger.LogOption{
		Format:   c.Format,
		LogDir:   c.LogDir,
		Level:    c.Level,
		Compress: c.Compress,
	}
}

// RPCConfig 表示 Solana RPC 拉块相关配置
type RPCConfig struct {
	Endpoint       string `yaml:"endpoint"`         // RPC 节点地址
	MaxRetry       int    `yaml:"max_retry"`        // 单次调用内的最大尝试次数
	MaxRetryGlobal int    `yaml:"max_retry_global"` // 跨调用的负缓存重试预算
	SleepMs        int    `yaml:"sleep_ms"`         // 线性退避基数（毫秒）
	Concurrency    int    `yaml:"concurrency"`      // 同时在途的拉块请求数
}

func (c *RPCConfig) ToFetchConfig() blockfetch.Config {
	return blockfetch.Config{
		Endpoint:       c.Endpoint,
		MaxRetry:       c.MaxRetry,
		MaxRetryGlobal: c.MaxRetryGlobal,
		SleepMs:        c.SleepMs,
		Concurrency:    c.Concurrency,
	}
}

// RedisConfig 表示区块缓存的 Redis 配置。Addr 为空时退化为进程内缓存。
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
	TTLHours  int    `yaml:"ttl_hours"` // 0 表示不过期
}

func (c *RedisConfig) ToRedisOption() blockfetch.RedisOption {
	return blockfetch.RedisOption{
		Addr:      c.Addr,
		Password:  c.Password,
		DB:        c.DB,
		KeyPrefix: c.KeyPrefix,
		TTLHours:  c.TTLHours,
	}
}

// KafkaProducerConfig 表示 Kafka 生产者相关配置
type KafkaProducerConfig struct {
	Brokers     string `yaml:"brokers"`      // Kafka broker 地址，多个用英文逗号分隔
	Partitions  int    `yaml:"partitions"`   // 每个 topic 的分区数
	BatchSize   int    `yaml:"batch_size"`   // 批处理大小（单位字节）
	LingerMs    int    `yaml:"linger_ms"`    // 批处理最大延迟（毫秒）
	TopicPrefix string `yaml:"topic_prefix"` // topic 前缀
}

func (c *KafkaProducerConfig) ToKafkaOption() store.KafkaOption {
	return store.KafkaOption{
		Brokers:     c.Brokers,
		Partitions:  c.Partitions,
		BatchSize:   c.BatchSize,
		LingerMs:    c.LingerMs,
		TopicPrefix: c.TopicPrefix,
	}
}

// IngestConfig 表示回填的 slot 区间与处理并发
type IngestConfig struct {
	StartSlot   uint64 `yaml:"start_slot"`  // 起始 slot（含）
	EndSlot     uint64 `yaml:"end_slot"`    // 结束 slot（含），0 表示持续跟进
	Concurrency int    `yaml:"concurrency"` // 块内交易解析并发数，0 表示按 CPU 核数
}

// IndexerConfig 是主配置结构体，用于驱动回填服务
type IndexerConfig struct {
	LogConf           LogConfig           `yaml:"logger"`         // 日志配置
	RPCConf           RPCConfig           `yaml:"rpc"`            // RPC 拉块配置
	RedisConf         RedisConfig         `yaml:"redis"`          // Redis 缓存配置
	KafkaProducerConf KafkaProducerConfig `yaml:"kafka_producer"` // Kafka 生产者配置
	IngestConf        IngestConfig        `yaml:"ingest"`         // 回填区间配置
}
