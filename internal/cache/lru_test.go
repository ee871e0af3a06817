package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	db_mocks "github.com/qeelushop-ui/Qeelu-sub001/internal/database/mocks"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/model"
)

func TestLRUCache_SetAndGet(t *testing.T) {
	cache := NewLRUCache(2)
	assertions := assert.New(t)
	ctx := context.Background()

	// 1. Добавить первый элемент
	cache.Set(ctx, "key1", "value1")
	val, found := cache.Get(ctx, "key1")
	assertions.True(found)
	assertions.Equal("value1", val)

	// 2. Добавить второй элемент
	cache.Set(ctx, "key2", "value2")
	val, found = cache.Get(ctx, "key2")
	assertions.True(found)
	assertions.Equal("value2", val)

	// 3. Проверить, что оба на месте
	val, found = cache.Get(ctx, "key1")
	assertions.True(found)
	assertions.Equal("value1", val)
}

func TestLRUCache_Eviction(t *testing.T) {
	cache := NewLRUCache(2)
	assertions := assert.New(t)
	ctx := context.Background()

	cache.Set(ctx, "key1", "value1")
	cache.Set(ctx, "key2", "value2")

	// Добавить третий элемент, "key1" (самый старый) должен вытесниться
	cache.Set(ctx, "key3", "value3")

	// "key1" должен быть удален
	_, found := cache.Get(ctx, "key1")
	assertions.False(found, "key1 should be evicted")

	// "key2" и "key3" должны быть на месте
	val, found := cache.Get(ctx, "key2")
	assertions.True(found)
	assertions.Equal("value2", val)

	val, found = cache.Get(ctx, "key3")
	assertions.True(found)
	assertions.Equal("value3", val)
}

func TestLRUCache_UsageUpdatesOrder(t *testing.T) {
	cache := NewLRUCache(2)
	assertions := assert.New(t)
	ctx := context.Background()

	cache.Set(ctx, "key1", "value1")
	cache.Set(ctx, "key2", "value2") // "key1" - старый, "key2" - новый

	// 1. Используем "key1", он должен стать самым новым
	cache.Get(ctx, "key1")

	// 2. Добавляем "key3". Теперь "key2" (как самый старый) должен вытесниться
	cache.Set(ctx, "key3", "value3")

	// "key2" должен быть удален
	_, found := cache.Get(ctx, "key2")
	assertions.False(found, "key2 should be evicted")

	// "key1" и "key3" на месте
	_, found = cache.Get(ctx, "key1")
	assertions.True(found)
	_, found = cache.Get(ctx, "key3")
	assertions.True(found)
}

func TestLRUCache_UpdateValue(t *testing.T) {
	cache := NewLRUCache(2)
	assertions := assert.New(t)
	ctx := context.Background()

	cache.Set(ctx, "key1", "value1")
	val, found := cache.Get(ctx, "key1")
	assertions.True(found)
	assertions.Equal("value1", val)

	// Обновляем значение
	cache.Set(ctx, "key1", "value_new")
	val, found = cache.Get(ctx, "key1")
	assertions.True(found)
	assertions.Equal("value_new", val)
}

func TestLRUCache_Invalidate(t *testing.T) {
	cache := NewLRUCache(2)
	assertions := assert.New(t)
	ctx := context.Background()

	cache.Set(ctx, CatalogKey, "stale-catalog")
	cache.Invalidate(ctx, CatalogKey)

	_, found := cache.Get(ctx, CatalogKey)
	assertions.False(found)

	// Инвалидация отсутствующего ключа безопасна
	cache.Invalidate(ctx, "no-such-key")
}

func TestLRUCache_ZeroCapacity(t *testing.T) {
	// Кэш с 0 емкостью не должен ничего хранить
	cache := NewLRUCache(0)
	assertions := assert.New(t)
	ctx := context.Background()

	cache.Set(ctx, "key1", "value1")
	_, found := cache.Get(ctx, "key1")
	assertions.False(found)
}

func TestWarmUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockStorage := db_mocks.NewMockStorage(ctrl)
	cache := NewLRUCache(2)
	ctx := context.Background()

	products := []model.Product{
		{ID: "qe-prod-1", Name: "Халва", Price: 4.90},
		{ID: "qe-prod-2", Name: "Финики", Price: 10.00},
	}
	mockStorage.EXPECT().GetAllProducts(gomock.Any()).Return(products, nil)

	err := WarmUp(ctx, mockStorage, cache)
	assert.NoError(t, err)

	val, found := cache.Get(ctx, CatalogKey)
	assert.True(t, found)
	assert.Len(t, val.([]model.Product), 2)
}

func TestWarmUp_StorageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockStorage := db_mocks.NewMockStorage(ctrl)
	cache := NewLRUCache(2)

	mockErr := errors.New("connection refused")
	mockStorage.EXPECT().GetAllProducts(gomock.Any()).Return(nil, mockErr)

	err := WarmUp(context.Background(), mockStorage, cache)
	assert.Error(t, err)
}
