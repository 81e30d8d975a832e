package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/jimlawless/whereami"
	jsoniter "github.com/json-iterator/go"
	"github.com/probagno/go-backend/internal/cfg"
	"github.com/probagno/go-backend/internal/domain"
	"github.com/probagno/go-backend/pkg/e"
	"github.com/probagno/go-backend/pkg/logger"
	"github.com/segmentio/kafka-go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MessageWriter — часть kafka.Writer, которую использует Producer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer публикует события изменения каталога. Запись асинхронная:
// Notify не ждёт подтверждения брокера, ошибки доставки только логируются.
type Producer struct {
	writer MessageWriter
	logger logger.Logger
	cfg    *cfg.KafkaCfg
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %d catalog events lost: %s", len(messages), err.Error())
			}
		},
	}

	return NewProducerWithWriter(writer, logger, cfg)
}

// NewProducerWithWriter позволяет подменить writer (в тестах).
func NewProducerWithWriter(writer MessageWriter, logger logger.Logger, cfg *cfg.KafkaCfg) *Producer {
	return &Producer{
		writer: writer,
		logger: logger,
		cfg:    cfg,
	}
}

// Notify публикует событие с ключом entityID (или типом события для событий всего каталога).
func (p *Producer) Notify(ctx context.Context, event domain.CatalogEvent) {
	msg, err := EncodeEvent(event)
	if err != nil {
		p.logger.Warnf("Failed to encode catalog event %s: %v", event.Type, e.Wrap(whereami.WhereAmI(), err))
		return
	}

	// отмена запроса не должна отменять публикацию
	if err := p.writer.WriteMessages(context.WithoutCancel(ctx), msg); err != nil {
		p.logger.Warnf("Failed to publish catalog event %s: %v", event.Type, e.Wrap(whereami.WhereAmI(), err))
	}
}

// EncodeEvent сериализует событие в сообщение Kafka.
func EncodeEvent(event domain.CatalogEvent) (kafka.Message, error) {
	value, err := json.Marshal(event)
	if err != nil {
		return kafka.Message{}, err
	}

	key := event.EntityID
	if key == "" {
		key = string(event.Type)
	}

	return kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}, nil
}

func (p *Producer) EnsureTopic(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.Topic,
			NumPartitions:     p.cfg.Partitions,
			ReplicationFactor: p.cfg.ReplicationFactor,
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
