package metrics

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HttpRequestsTotal - Счетчик HTTP-запросов
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Количество HTTP запросов",
		},
		[]string{"handler", "status"}, // Метки: хэндлер и http-статус
	)

	// HttpRequestDuration - Гистограмма длительности HTTP-запросов
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "http_request_duration_seconds",
			Help: "Длительность HTTP запросов",
		},
		[]string{"handler"}, // Метки: хэндлер
	)

	// OrdersSubmitted - Счетчик попыток оформления заказа
	OrdersSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_submitted_total",
			Help: "Количество попыток оформления заказа",
		},
		[]string{"result"}, // Метки: "success", "validation_error", "conflict_exhausted", "storage_error"
	)

	// IDAllocationRetries - Счетчик повторов аллокации ID после конфликта
	IDAllocationRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "order_id_allocation_retries_total",
			Help: "Количество повторов аллокации ID заказа после конфликта уникальности",
		},
	)

	// AbandonedCaptures - Счетчик обработанных событий захвата корзин
	AbandonedCaptures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abandoned_captures_total",
			Help: "Количество обработанных событий захвата брошенных корзин",
		},
		[]string{"result"}, // Метки: "saved", "rejected", "storage_error"
	)

	// AbandonedReconciles - Счетчик сверок после успешного оформления
	AbandonedReconciles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "abandoned_reconciles_total",
			Help: "Количество удалений брошенных корзин после оформления заказа",
		},
		[]string{"result"}, // Метки: "deleted", "error"
	)

	// TiersBackfilled - Счетчик товаров, получивших ступени по умолчанию
	TiersBackfilled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_tiers_backfilled_total",
			Help: "Количество товаров, которым бэкфилл записал ступени по умолчанию",
		},
	)

	// KafkaMessagesProcessed - Счетчик обработанных Kafka-сообщений
	KafkaMessagesProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kafka_messages_processed_total",
			Help: "Количество обработанных сообщений Kafka",
		},
		[]string{"status"}, // Метки: "success", "rejected", "dlq_validation", "dlq_failed_write"
	)

	// DBErrors - Счетчик ошибок базы данных
	DBErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "db_errors_total",
			Help: "Количество ошибок при работе с БД",
		},
		[]string{"operation"}, // Метки: "create_order", "get_order", "get_products", "upsert_abandoned", "get_abandoned", "delete_abandoned", "backfill_tiers"
	)

	// CacheHits - Счетчик попаданий в кэш каталога
	CacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Количество попаданий в кэш каталога",
		},
	)

	// CacheMisses - Счетчик промахов кэша каталога
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Количество промахов кэша каталога",
		},
	)

	// CacheSize - Датчик (Gauge) текущего размера кэша
	CacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cache_size_items",
			Help: "Текущий размер кэша в элементах",
		},
	)

	// CacheEvictions - Счетчик вытеснений из кэша (LRU)
	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Количество вытесненных из кэша элементов",
		},
	)
)

// Init используется для регистрации метрик.
// promauto регистрирует их автоматически при создании.
func Init() {
	log.Println("Prometheus метрики инициализированы.")
}
