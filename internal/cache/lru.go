package cache

import (
	"container/list"
	"context"
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/qeelushop-ui/Qeelu-sub001/internal/database"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/metrics"
)

//go:generate mockgen -source=lru.go -destination=./mocks/cache_mock.go -package=mocks Cache

// CatalogKey - ключ, под которым кэшируется полный список товаров.
const CatalogKey = "catalog"

// Cache определяет интерфейс для кэширования каталога.
// Кэш обслуживает только путь чтения витрины; оформление заказа и
// трекер брошенных корзин всегда читают хранилище напрямую.
// Контекст добавлен для поддержки сквозной трассировки.
type Cache interface {
	Set(ctx context.Context, key string, value interface{})
	Get(ctx context.Context, key string) (interface{}, bool)
	Invalidate(ctx context.Context, key string)
}

// lruCache реализует LRU (Least Recently Used) кэш.
type lruCache struct {
	mu       sync.RWMutex
	capacity int
	items    map[string]*list.Element
	queue    *list.List
	tracer   trace.Tracer // Для трассировки
}

type cacheItem struct {
	key   string
	value interface{}
}

// NewLRUCache создает новый LRU-кэш с заданной емкостью.
func NewLRUCache(capacity int) Cache {
	return &lruCache{
		capacity: capacity,
		items:    make(map[string]*list.Element),
		queue:    list.New(),
		tracer:   otel.Tracer("lru-cache"), // Инициализация трейсера
	}
}

func (c *lruCache) Set(ctx context.Context, key string, value interface{}) {
	// Создаем span для трассировки
	_, span := c.tracer.Start(ctx, "Cache.Set")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.capacity <= 0 {
		return
	}

	if element, exists := c.items[key]; exists {
		c.queue.MoveToFront(element)
		element.Value.(*cacheItem).value = value
		return
	}

	if c.queue.Len() >= c.capacity && c.capacity > 0 {
		c.removeOldest()
	}

	item := &cacheItem{key: key, value: value}
	element := c.queue.PushFront(item)
	c.items[key] = element

	// Обновляем метрику размера кэша
	metrics.CacheSize.Set(float64(c.queue.Len()))
}

func (c *lruCache) Get(ctx context.Context, key string) (interface{}, bool) {
	// Создаем span для трассировки
	_, span := c.tracer.Start(ctx, "Cache.Get")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.items[key]; exists {
		c.queue.MoveToFront(element)
		return element.Value.(*cacheItem).value, true
	}

	return nil, false
}

// Invalidate удаляет элемент из кэша, не трогая остальные записи.
// Следующий Get по этому ключу вернет промах и перечитает БД.
func (c *lruCache) Invalidate(ctx context.Context, key string) {
	_, span := c.tracer.Start(ctx, "Cache.Invalidate")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	if element, exists := c.items[key]; exists {
		item := c.queue.Remove(element).(*cacheItem)
		delete(c.items, item.key)
		metrics.CacheSize.Set(float64(c.queue.Len()))
	}
}

// removeOldest удаляет самый старый элемент (внутренняя функция, мьютекс уже захвачен).
func (c *lruCache) removeOldest() {
	element := c.queue.Back()
	if element != nil {
		item := c.queue.Remove(element).(*cacheItem)
		delete(c.items, item.key)

		// Обновляем метрики
		metrics.CacheEvictions.Inc()
		metrics.CacheSize.Set(float64(c.queue.Len()))
	}
}

// WarmUp загружает каталог из БД в кэш.
func WarmUp(ctx context.Context, storage database.Storage, cache Cache) error {
	log.Println("Выполняется прогрев кэша каталога...")
	products, err := storage.GetAllProducts(ctx)
	if err != nil {
		return err
	}

	cache.Set(ctx, CatalogKey, products)

	log.Printf("Кэш прогрет. Загружено товаров: %d.", len(products))
	return nil
}
