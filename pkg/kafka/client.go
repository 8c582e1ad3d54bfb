// Package kafka 提供了 OCR 任务队列的生产者与消费者。
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"gongu-report-go/internal/config"
	"gongu-report-go/pkg/database"
	"gongu-report-go/pkg/log"
	"gongu-report-go/pkg/tasks"
)

// TaskProcessor 定义了消费侧处理 OCR 任务的接口。
// 它使消费者与具体的 pipeline 实现解耦。
type TaskProcessor interface {
	Process(ctx context.Context, task tasks.OCRTask) error
}

// Producer 定义了投递 OCR 任务的接口，便于业务层与测试注入。
type Producer interface {
	ProduceOCRTask(ctx context.Context, task tasks.OCRTask) error
}

type kafkaProducer struct {
	writer *kafka.Writer
}

// NewProducer 初始化 Kafka 生产者。
func NewProducer(cfg config.KafkaConfig) Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers),
		Topic:    cfg.Topic,
		Balancer: &kafka.LeastBytes{},
	}
	log.Info("Kafka 生产者初始化成功")
	return &kafkaProducer{writer: writer}
}

// ProduceOCRTask 发送一个 OCR 识别任务到 Kafka。
func (p *kafkaProducer) ProduceOCRTask(ctx context.Context, task tasks.OCRTask) error {
	taskBytes, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{Value: taskBytes})
}

// StartConsumer 启动 Kafka 消费者循环处理 OCR 任务。
// 单条任务失败不会传播给上传请求：失败计数记录在 Redis，
// 连续失败 3 次后提交 offset 终止重试。
func StartConsumer(cfg config.KafkaConfig, processor TaskProcessor) {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  []string{cfg.Brokers},
		Topic:    cfg.Topic,
		GroupID:  "gongu-report-ocr-consumer",
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
	})

	log.Infof("Kafka 消费者已启动，正在监听主题 '%s'", cfg.Topic)

	for {
		m, err := r.FetchMessage(context.Background())
		if err != nil {
			log.Error("从 Kafka 读取消息失败", err)
			break
		}

		var task tasks.OCRTask
		if err := json.Unmarshal(m.Value, &task); err != nil {
			log.Errorf("无法解析 Kafka 消息: %v, value: %s", err, string(m.Value))
			// 消息格式错误，直接提交，避免阻塞队列
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("提交错误消息失败: %v", err)
			}
			continue
		}

		log.Infof("开始处理 OCR 任务: fileID=%d, filename=%s", task.FileID, task.Filename)
		if err := processor.Process(context.Background(), task); err != nil {
			log.Errorf("OCR 任务处理失败: fileID=%d, error: %v", task.FileID, err)
			attemptsKey := fmt.Sprintf("ocr:attempts:%d", task.FileID)
			attempts, incErr := database.RDB.Incr(context.Background(), attemptsKey).Result()
			if incErr == nil {
				_ = database.RDB.Expire(context.Background(), attemptsKey, 24*time.Hour).Err()
			} else {
				// Redis 异常时保守处理：不提交 offset，让 Kafka 重试
				continue
			}
			if attempts >= 3 {
				log.Errorf("OCR 任务多次失败(>=3)，提交 offset 终止重试: fileID=%d", task.FileID)
				if err := r.CommitMessages(context.Background(), m); err != nil {
					log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
				}
			}
		} else {
			log.Infof("OCR 任务处理成功: fileID=%d", task.FileID)
			_ = database.RDB.Del(context.Background(), fmt.Sprintf("ocr:attempts:%d", task.FileID)).Err()
			if err := r.CommitMessages(context.Background(), m); err != nil {
				log.Errorf("提交 Kafka 消息 offset 失败: %v", err)
			}
		}
	}

	if err := r.Close(); err != nil {
		log.Fatalf("关闭 Kafka 消费者失败: %v", err)
	}
}
