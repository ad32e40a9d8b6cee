// Package kafka 提供了与 Kafka 消息队列交互的功能。
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"mall-admin-go/internal/config"
	"mall-admin-go/pkg/database"
	"mall-admin-go/pkg/log"
	"mall-admin-go/pkg/tasks"
)

// maxAttempts 是单条事件的最大处理次数，超过后提交 offset 放弃该事件。
const maxAttempts = 3

// EventProcessor 处理一条商品目录事件。消费者只依赖这个接口，不关心具体的索引实现。
type EventProcessor interface {
	Process(ctx context.Context, event tasks.CatalogEvent) error
}

// Publisher 把商品目录事件写入 Kafka。
type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher 创建 Kafka 生产者。
func NewPublisher(cfg config.KafkaConfig) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers(cfg)...),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	log.Info("Kafka 生产者初始化成功")
	return &Publisher{writer: w}
}

// Publish 发送一条事件，以实体键作为消息 key。
func (p *Publisher) Publish(ctx context.Context, event tasks.CatalogEvent) error {
	b, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.Key()),
		Value: b,
	})
}

// Close 关闭生产者。
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// StartConsumer 启动消费者，直到 ctx 被取消。处理失败时不提交 offset，
// 借助 Redis 计数，同一事件失败达到 maxAttempts 次后提交 offset 终止重试。
func StartConsumer(ctx context.Context, cfg config.KafkaConfig, processor EventProcessor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers(cfg),
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6, // 10MB
	})
	defer func() {
		if err := r.Close(); err != nil {
			log.Errorf("关闭 Kafka 消费者失败: %v", err)
		}
	}()

	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				log.Info("Kafka 消费者已停止")
				return
			}
			log.Error("从 Kafka 读取消息失败", err)
			return
		}

		var event tasks.CatalogEvent
		if err := json.Unmarshal(m.Value, &event); err != nil {
			log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(m.Value))
			// 消息格式错误，直接提交，避免阻塞队列
			commit(ctx, r, m)
			continue
		}

		attemptsKey := fmt.Sprintf("kafka:attempts:%d:%d", m.Partition, m.Offset)
		if err := processor.Process(ctx, event); err != nil {
			log.Errorf("处理目录事件失败: type=%s key=%s, Error: %v", event.Type, event.Key(), err)
			attempts, incErr := database.RDB.Incr(ctx, attemptsKey).Result()
			if incErr != nil {
				// Redis 异常时保守处理：不提交 offset，让 Kafka 重试
				continue
			}
			_ = database.RDB.Expire(ctx, attemptsKey, 24*time.Hour).Err()
			if attempts >= maxAttempts {
				log.Errorf("目录事件多次失败(>=%d)，提交 offset 终止重试: key=%s", maxAttempts, event.Key())
				commit(ctx, r, m)
			}
			continue
		}

		_ = database.RDB.Del(ctx, attemptsKey).Err()
		commit(ctx, r, m)
	}
}

func commit(ctx context.Context, r *kafka.Reader, m kafka.Message) {
	if err := r.CommitMessages(ctx, m); err != nil {
		log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
	}
}

func brokers(cfg config.KafkaConfig) []string {
	var out []string
	for _, b := range strings.Split(cfg.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
