package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/qeelushop-ui/Qeelu-sub001/internal/config"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/model"
)

// Producer отвечает за генерацию и отправку событий захвата в Kafka.
// Используется для демонстрации и нагрузочных прогонов: имитирует
// покупателей, бросающих форму оформления на разной степени готовности.
type Producer struct {
	writer *kafka.Writer
}

// NewProducer создает и настраивает новый экземпляр продюсера.
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{writer: writer}
}

// generateCapture создает случайное событие захвата. Часть полей
// намеренно оставляется пустой, чтобы прогнать оба исхода
// валидационного шлюза (порог 4 из 6 полей).
func (p *Producer) generateCapture() model.AbandonedCapture {
	capture := model.AbandonedCapture{
		Name:  gofakeit.Name(),
		Phone: gofakeit.Phone(),
	}

	// Каждое необязательное поле заполняется с вероятностью ~70%.
	if gofakeit.Number(1, 10) <= 7 {
		capture.City = gofakeit.City()
	}
	if gofakeit.Number(1, 10) <= 7 {
		capture.Address = gofakeit.Street()
	}
	if gofakeit.Number(1, 10) <= 7 {
		capture.Quantity = strconv.Itoa(gofakeit.Number(1, 5))
	}
	if gofakeit.Number(1, 10) <= 7 {
		capture.ProductID = fmt.Sprintf("qe-prod-%d", gofakeit.Number(1, 50))
	}

	return capture
}

// Run запускает бесконечный цикл отправки событий.
func (p *Producer) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Продюсер останавливается.")
			return
		case <-ticker.C:
			capture := p.generateCapture()
			value, err := json.Marshal(capture)
			if err != nil {
				log.Printf("Ошибка сериализации события: %v", err)
				continue
			}

			msg := kafka.Message{
				Key:   []byte(uuid.New().String()),
				Value: value,
			}
			if err := p.writer.WriteMessages(ctx, msg); err != nil {
				log.Printf("Ошибка отправки события: %v", err)
				continue
			}
			log.Printf("Событие захвата отправлено (ключ: %s, %s).", capture.Phone, capture.Name)
		}
	}
}

func main() {
	cfg := config.Get()
	gofakeit.Seed(0)

	producer := NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
	defer func() {
		if err := producer.writer.Close(); err != nil {
			log.Printf("Ошибка закрытия Kafka writer: %v", err)
		}
	}()

	log.Println("Продюсер событий захвата запущен...")
	producer.Run(context.Background(), 2*time.Second)
}
