package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/qeelushop-ui/Qeelu-sub001/internal/abandoned"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/api"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/cache"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/config"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/database"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/kafka"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/metrics"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/pricing"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/service"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/tracing"
)

func main() {
	cfg := config.Get()

	metrics.Init()
	shutdownTracer := tracing.InitTracerProvider("qeelu-order-service")
	defer shutdownTracer()

	// Инициализация хранилища
	storage, err := database.New(cfg.Postgres.URL, "./internal/database/migrations")
	if err != nil {
		log.Fatalf("Ошибка инициализации хранилища: %v", err)
	}
	defer storage.Close()

	// Бэкфилл ступеней цен для легаси-товаров. Идемпотентен:
	// повторный запуск при рестарте сервиса ничего не меняет.
	if _, err := pricing.Backfill(context.Background(), storage); err != nil {
		log.Printf("Ошибка бэкфилла ступеней цен: %v", err)
	}

	// Инициализация кэша каталога
	catalogCache := cache.NewLRUCache(cfg.Cache.Size)
	if err := cache.WarmUp(context.Background(), storage, catalogCache); err != nil {
		log.Printf("Ошибка при прогреве кэша: %v", err)
	}

	tracker := abandoned.NewTracker(storage)
	orderService := service.NewOrderService(storage, tracker, cfg.Allocator.MaxRetries)

	// Запуск Kafka Consumer (события захвата брошенных корзин)
	ctx, cancel := context.WithCancel(context.Background())
	consumer := kafka.NewConsumer(cfg.Kafka, tracker)
	go consumer.Run(ctx)

	// Запуск HTTP-сервера
	server := api.NewServer(cfg.HTTP.Port, orderService, tracker, storage, catalogCache)
	go func() {
		if err := server.Run(); err != nil {
			log.Fatalf("Ошибка запуска HTTP-сервера: %v", err)
		}
	}()

	// Ожидание сигнала для корректного завершения работы
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	log.Println("Сервис останавливается...")
	cancel()
	log.Println("Сервис успешно остановлен.")
}
