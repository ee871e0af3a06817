package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/qeelushop-ui/Qeelu-sub001/internal/abandoned"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/cache"
	cache_mocks "github.com/qeelushop-ui/Qeelu-sub001/internal/cache/mocks"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/database"
	db_mocks "github.com/qeelushop-ui/Qeelu-sub001/internal/database/mocks"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/model"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/service"
)

// setupHandlerAndMocks - хелпер для инициализации хендлера и моков
func setupHandlerAndMocks(t *testing.T) (*gomock.Controller, *OrderHandler, *cache_mocks.MockCache, *db_mocks.MockStorage) {
	ctrl := gomock.NewController(t)
	mockCache := cache_mocks.NewMockCache(ctrl)
	mockStorage := db_mocks.NewMockStorage(ctrl)

	tracker := abandoned.NewTracker(mockStorage)
	svc := service.NewOrderService(mockStorage, tracker, 3)
	handler := NewOrderHandler(svc, tracker, mockStorage, mockCache)
	return ctrl, handler, mockCache, mockStorage
}

// createGetOrderRequest - хелпер для создания HTTP-запроса с URL-параметром
func createGetOrderRequest(t *testing.T, orderID string) *http.Request {
	req := httptest.NewRequest("GET", "/api/order/"+orderID, nil)

	// Контекст chi для URL-параметров
	chiCtx := chi.NewRouteContext()
	chiCtx.URLParams.Add("orderID", orderID)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, chiCtx))

	return req
}

func TestOrderHandler_SubmitOrder_Success(t *testing.T) {
	ctrl, handler, _, mockStorage := setupHandlerAndMocks(t)
	defer ctrl.Finish()

	body := `{"name":"Ahmed","phone":"9123","city":"Muscat","address":"Al Khuwair 33","items":[{"product_id":"qe-prod-1","quantity":2}]}`
	req := httptest.NewRequest("POST", "/api/order", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().GetProductByID(gomock.Any(), "qe-prod-1").
		Return(&model.Product{ID: "qe-prod-1", Price: 5.00, Tiers: model.Tiers{{Quantity: 2, Price: 9.00}}}, nil)
	mockStorage.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, order *model.Order) error {
			order.ID = "#QE0001"
			return nil
		})
	mockStorage.EXPECT().DeleteAbandoned(gomock.Any(), "9123", "Ahmed").Return(nil)

	handler.SubmitOrder(rr, req)

	assert.Equal(t, http.StatusCreated, rr.Code)

	var order model.Order
	err := json.Unmarshal(rr.Body.Bytes(), &order)
	assert.NoError(t, err)
	assert.Equal(t, "#QE0001", order.ID)
	assert.InDelta(t, 9.00, order.Total, 0.0001)
}

func TestOrderHandler_SubmitOrder_ValidationError(t *testing.T) {
	ctrl, handler, _, mockStorage := setupHandlerAndMocks(t)
	defer ctrl.Finish()

	// Телефон отсутствует
	body := `{"name":"Ahmed","city":"Muscat","address":"X","items":[{"product_id":"qe-prod-1","quantity":2}]}`
	req := httptest.NewRequest("POST", "/api/order", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().CreateOrder(gomock.Any(), gomock.Any()).Times(0)

	handler.SubmitOrder(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)

	var resp map[string]string
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.Contains(t, resp, "error")
}

func TestOrderHandler_SubmitOrder_BadJSON(t *testing.T) {
	ctrl, handler, _, _ := setupHandlerAndMocks(t)
	defer ctrl.Finish()

	req := httptest.NewRequest("POST", "/api/order", bytes.NewBufferString("not json"))
	rr := httptest.NewRecorder()

	handler.SubmitOrder(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOrderHandler_GetOrder_NotFound(t *testing.T) {
	ctrl, handler, _, mockStorage := setupHandlerAndMocks(t)
	defer ctrl.Finish()

	rr := httptest.NewRecorder()
	req := createGetOrderRequest(t, "#QE9999")

	mockStorage.EXPECT().GetOrderByID(gomock.Any(), "#QE9999").Return(nil, database.ErrNotFound)

	handler.GetOrder(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOrderHandler_GetOrder_Success(t *testing.T) {
	ctrl, handler, _, mockStorage := setupHandlerAndMocks(t)
	defer ctrl.Finish()

	rr := httptest.NewRecorder()
	req := createGetOrderRequest(t, "#QE0001")

	mockStorage.EXPECT().GetOrderByID(gomock.Any(), "#QE0001").
		Return(&model.Order{ID: "#QE0001", Name: "Ahmed"}, nil)

	handler.GetOrder(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var order model.Order
	err := json.Unmarshal(rr.Body.Bytes(), &order)
	assert.NoError(t, err)
	assert.Equal(t, "#QE0001", order.ID)
}

func TestOrderHandler_CaptureAbandoned_Success(t *testing.T) {
	ctrl, handler, _, mockStorage := setupHandlerAndMocks(t)
	defer ctrl.Finish()

	body := `{"name":"Ahmed","phone":"9123","city":"Muscat","address":"X","quantity":"2","product_id":""}`
	req := httptest.NewRequest("POST", "/api/abandoned", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().UpsertAbandoned(gomock.Any(), gomock.Any()).Return(nil)

	handler.CaptureAbandoned(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]bool
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp["success"])
}

func TestOrderHandler_CaptureAbandoned_RejectedStill200(t *testing.T) {
	ctrl, handler, _, mockStorage := setupHandlerAndMocks(t)
	defer ctrl.Finish()

	// Пустой телефон: шлюз отклоняет, но ответ всегда 200
	body := `{"name":"Ahmed","phone":"","city":"Muscat"}`
	req := httptest.NewRequest("POST", "/api/abandoned", bytes.NewBufferString(body))
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().UpsertAbandoned(gomock.Any(), gomock.Any()).Times(0)

	handler.CaptureAbandoned(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp map[string]bool
	err := json.Unmarshal(rr.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.False(t, resp["success"])
}

func TestOrderHandler_GetAbandoned_Success(t *testing.T) {
	ctrl, handler, _, mockStorage := setupHandlerAndMocks(t)
	defer ctrl.Finish()

	req := httptest.NewRequest("GET", "/api/abandoned?phone=9123&name=Ahmed", nil)
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().GetAbandonedByKey(gomock.Any(), "9123", "Ahmed").
		Return(&model.AbandonedOrder{Name: "Ahmed", Phone: "9123", City: "Muscat", Status: model.AbandonedStatus}, nil)

	handler.GetAbandoned(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var rec model.AbandonedOrder
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &rec))
	assert.Equal(t, "Muscat", rec.City)
	assert.Equal(t, model.AbandonedStatus, rec.Status)
}

func TestOrderHandler_GetAbandoned_NotFound(t *testing.T) {
	ctrl, handler, _, mockStorage := setupHandlerAndMocks(t)
	defer ctrl.Finish()

	req := httptest.NewRequest("GET", "/api/abandoned?phone=0000&name=Nobody", nil)
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().GetAbandonedByKey(gomock.Any(), "0000", "Nobody").
		Return(nil, database.ErrNotFound)

	handler.GetAbandoned(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOrderHandler_GetAbandoned_MissingParams(t *testing.T) {
	ctrl, handler, _, mockStorage := setupHandlerAndMocks(t)
	defer ctrl.Finish()

	req := httptest.NewRequest("GET", "/api/abandoned?name=Ahmed", nil)
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().GetAbandonedByKey(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	handler.GetAbandoned(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOrderHandler_DeleteAbandoned(t *testing.T) {
	ctrl, handler, _, mockStorage := setupHandlerAndMocks(t)
	defer ctrl.Finish()

	req := httptest.NewRequest("DELETE", "/api/abandoned?phone=9123&name=Ahmed", nil)
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().DeleteAbandoned(gomock.Any(), "9123", "Ahmed").Return(nil)

	handler.DeleteAbandoned(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestOrderHandler_DeleteAbandoned_MissingParams(t *testing.T) {
	ctrl, handler, _, mockStorage := setupHandlerAndMocks(t)
	defer ctrl.Finish()

	req := httptest.NewRequest("DELETE", "/api/abandoned?phone=9123", nil)
	rr := httptest.NewRecorder()

	mockStorage.EXPECT().DeleteAbandoned(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	handler.DeleteAbandoned(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOrderHandler_ListProducts_CacheHit(t *testing.T) {
	ctrl, handler, mockCache, mockStorage := setupHandlerAndMocks(t)
	defer ctrl.Finish()

	req := httptest.NewRequest("GET", "/api/products", nil)
	rr := httptest.NewRecorder()

	products := []model.Product{{ID: "qe-prod-1", Name: "Халва", Price: 4.90}}

	// Ожидаем вызов кэша
	mockCache.EXPECT().Get(gomock.Any(), cache.CatalogKey).Return(products, true)
	// Не ожидаем вызова БД
	mockStorage.EXPECT().GetAllProducts(gomock.Any()).Times(0)

	handler.ListProducts(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestOrderHandler_ListProducts_CacheMiss_DBHit(t *testing.T) {
	ctrl, handler, mockCache, mockStorage := setupHandlerAndMocks(t)
	defer ctrl.Finish()

	req := httptest.NewRequest("GET", "/api/products", nil)
	rr := httptest.NewRecorder()

	products := []model.Product{{ID: "qe-prod-1", Name: "Халва", Price: 4.90}}

	// 1. Ожидаем промах кэша
	mockCache.EXPECT().Get(gomock.Any(), cache.CatalogKey).Return(nil, false)
	// 2. Ожидаем запрос к БД
	mockStorage.EXPECT().GetAllProducts(gomock.Any()).Return(products, nil)
	// 3. Ожидаем сохранение в кэш
	mockCache.EXPECT().Set(gomock.Any(), cache.CatalogKey, products).Times(1)

	handler.ListProducts(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got []model.Product
	err := json.Unmarshal(rr.Body.Bytes(), &got)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
}
