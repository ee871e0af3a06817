package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/qeelushop-ui/Qeelu-sub001/internal/abandoned"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/config"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/metrics"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/model"
)

// Reader - минимальный интерфейс kafka.Reader, выделен для подмены в тестах.
type Reader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer читает события захвата брошенных корзин из Kafka и проводит их
// через тот же валидационный шлюз, что и HTTP-захват.
type Consumer struct {
	reader    Reader
	dlqWriter *kafka.Writer // Продюсер для отправки "битых" сообщений в DLQ
	tracker   *abandoned.Tracker
	tracer    trace.Tracer // Для трассировки
}

// NewConsumer создает новый экземпляр Consumer.
func NewConsumer(cfg config.KafkaConfig, tracker *abandoned.Tracker) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
		// Коммиты будут выполняться вручную после успешной обработки.
	})

	// Продюсер для DLQ
	dlqWriter := &kafka.Writer{
		Addr:     kafka.TCP(cfg.Brokers...),
		Topic:    cfg.DLQTopic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Consumer{
		reader:    reader,
		dlqWriter: dlqWriter,
		tracker:   tracker,
		tracer:    otel.Tracer("kafka-consumer"),
	}
}

// Run запускает цикл чтения сообщений из Kafka.
func (c *Consumer) Run(ctx context.Context) {
	log.Println("Kafka-консюмер запущен...")
	defer func() {
		if err := c.reader.Close(); err != nil {
			log.Printf("Ошибка закрытия Kafka-ридера: %v", err)
		}
		if err := c.dlqWriter.Close(); err != nil {
			log.Printf("Ошибка закрытия Kafka (DLQ) writer: %v", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Println("Kafka-консюмер останавливается.")
			return
		default:
			// FetchMessage используется для ручного контроля коммитов
			msg, err := c.reader.FetchMessage(ctx)
			if err != nil {
				log.Printf("Ошибка чтения сообщения из Kafka: %v", err)
				continue
			}

			// Захват - best-effort путь: processMessage всегда завершает
			// обработку (в т.ч. отправкой в DLQ), поэтому коммитим всегда.
			c.processMessage(ctx, msg)

			if err := c.reader.CommitMessages(ctx, msg); err != nil {
				log.Printf("Ошибка коммита сообщения: %v", err)
			}
		}
	}
}

// processMessage выполняет десериализацию события и проводит его через
// валидационный шлюз трекера. Ошибки хранилища трекер проглатывает сам -
// с точки зрения консюмера сообщение обработано в любом случае (повторная
// доставка захвата ценности не добавляет, последний захват все равно
// победит при следующем событии).
func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	ctx, span := c.tracer.Start(ctx, "Consumer.processMessage")
	defer span.End()

	var capture model.AbandonedCapture
	if err := json.Unmarshal(msg.Value, &capture); err != nil {
		log.Printf("Невалидное JSON-сообщение, отправка в DLQ: %v", err)
		c.sendToDLQ(ctx, msg, "json_unmarshal_error", err)
		metrics.KafkaMessagesProcessed.WithLabelValues("dlq_validation").Inc()
		return
	}

	if ok := c.tracker.Capture(ctx, capture); !ok {
		// Не прошло шлюз (или хранилище недоступно) - фиксируем и едем дальше.
		log.Printf("Захват отклонен (ключ: %s, %s).", capture.Phone, capture.Name)
		metrics.KafkaMessagesProcessed.WithLabelValues("rejected").Inc()
		return
	}

	log.Printf("Брошенная корзина (%s, %s) сохранена.", capture.Phone, capture.Name)
	metrics.KafkaMessagesProcessed.WithLabelValues("success").Inc()
}

// sendToDLQ отправляет "битое" сообщение в DLQ топик.
func (c *Consumer) sendToDLQ(ctx context.Context, originalMsg kafka.Message, reason string, procErr error) {
	_, span := c.tracer.Start(ctx, "Consumer.sendToDLQ")
	defer span.End()

	// Отправляем сообщение в DLQ с доп. заголовками об ошибке
	err := c.dlqWriter.WriteMessages(ctx, kafka.Message{
		Key:   originalMsg.Key,
		Value: originalMsg.Value,
		Headers: []kafka.Header{
			{Key: "X-Original-Topic", Value: []byte(originalMsg.Topic)},
			{Key: "X-Error-Reason", Value: []byte(reason)},
			{Key: "X-Error-Details", Value: []byte(procErr.Error())},
		},
	})

	if err != nil {
		log.Printf("КРИТИЧНО: Не удалось отправить сообщение %s в DLQ: %v", string(originalMsg.Key), err)
		metrics.KafkaMessagesProcessed.WithLabelValues("dlq_failed_write").Inc()
	} else {
		log.Printf("Сообщение %s отправлено в DLQ (Причина: %s)", string(originalMsg.Key), reason)
	}
}
