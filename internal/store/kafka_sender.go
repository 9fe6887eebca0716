package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// kafkaJob 表示一条待发送的消息。
type kafkaJob struct {
	topic     string
	partition int32
	key       []byte
	value     []byte
}

// sendJobs 并发发送全部消息并等待 delivery 回执，返回首个失败原因。
// 只要有一条失败，整批视为失败，由调用方整批重试。
func sendJobs(ctx context.Context, producer *kafka.Producer, jobs []*kafkaJob, perMessageTimeout time.Duration) error {
	if len(jobs) == 0 {
		return nil
	}

	var wg sync.WaitGroup
	errCh := make(chan error, len(jobs))

	for _, job := range jobs {
		wg.Add(1)
		go func(job *kafkaJob) {
			defer wg.Done()

			deliveryChan := make(chan kafka.Event, 1)
			err := producer.Produce(&kafka.Message{
				TopicPartition: kafka.TopicPartition{
					Topic:     &job.topic,
					Partition: job.partition,
				},
				Key:   job.key,
				Value: job.value,
			}, deliveryChan)
			if err != nil {
				errCh <- fmt.Errorf("produce %s: %w", job.topic, err)
				return
			}

			select {
			case e, ok := <-deliveryChan:
				if !ok {
					errCh <- fmt.Errorf("delivery channel closed unexpectedly, topic=%s", job.topic)
					return
				}
				msg, ok := e.(*kafka.Message)
				if !ok {
					errCh <- fmt.Errorf("invalid delivery event type %T, topic=%s", e, job.topic)
					return
				}
				if msg.TopicPartition.Error != nil {
					errCh <- fmt.Errorf("deliver %s: %w", job.topic, msg.TopicPartition.Error)
				}
			case <-time.After(perMessageTimeout):
				go safeDrain(deliveryChan)
				errCh <- fmt.Errorf("delivery timeout (>%v), topic=%s", perMessageTimeout, job.topic)
			case <-ctx.Done():
				go safeDrain(deliveryChan)
				errCh <- fmt.Errorf("ctx cancelled: %w", ctx.Err())
			}
		}(job)
	}

	wg.Wait()
	close(errCh)

	return <-errCh
}

// safeDrain 确保超时后 deliveryChan 仍被消费，避免 Kafka 回调阻塞。
func safeDrain(ch <-chan kafka.Event) {
	defer func() {
		_ = recover()
	}()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
	}
}
