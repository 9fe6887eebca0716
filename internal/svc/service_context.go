package svc

import (
	"sol-block-etl/internal/blockfetch"
	"sol-block-etl/internal/config"
	"sol-block-etl/internal/logic/blockproc"
	"sol-block-etl/internal/logic/ixparser"
	"sol-block-etl/internal/pkg/logger"
	"sol-block-etl/internal/store"
)

// IndexerServiceContext 包含回填服务资源
type IndexerServiceContext struct {
	Config    config.IndexerConfig
	Writer    store.RecordWriter
	Cache     blockfetch.BlockCache
	Fetcher   *blockfetch.Fetcher
	Processor *blockproc.Processor
}

// NewIndexerServiceContext 创建一个新的回填服务上下文
func NewIndexerServiceContext(c config.IndexerConfig) (*IndexerServiceContext, error) {
	// 1. 注册指令解析器
	ixparser.Init()

	// 2. 初始化 Kafka 写出端
	writer, err := store.NewKafkaWriter(c.KafkaProducerConf.ToKafkaOption())
	if err != nil {
		logger.Errorf("Kafka producer 初始化失败: %v", err)
		return nil, err
	}

	// 3. 初始化区块缓存：配置了 Redis 走共享缓存，否则进程内缓存
	var cache blockfetch.BlockCache
	if c.RedisConf.Addr != "" {
		rc, err := blockfetch.NewRedisCache(c.RedisConf.ToRedisOption())
		if err != nil {
			logger.Errorf("Redis 缓存初始化失败: %v", err)
			writer.Close()
			return nil, err
		}
		cache = rc
	} else {
		cache = blockfetch.NewMemoryCache()
	}

	// 4. 初始化拉块器与块处理器
	source := blockfetch.NewRPCSource(c.RPCConf.Endpoint)
	fetcher := blockfetch.New(source, cache, c.RPCConf.ToFetchConfig())
	processor := blockproc.New(writer, c.IngestConf.Concurrency)

	ctx := &IndexerServiceContext{
		Config:    c,
		Writer:    writer,
		Cache:     cache,
		Fetcher:   fetcher,
		Processor: processor,
	}

	logger.Infof("回填服务上下文初始化完成")
	return ctx, nil
}

// Close 关闭服务上下文中的资源
func (ctx *IndexerServiceContext) Close() {
	if ctx.Writer != nil {
		ctx.Writer.Close()
	}
	if rc, ok := ctx.Cache.(*blockfetch.RedisCache); ok {
		rc.Close()
	}
}
