package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/qeelushop-ui/Qeelu-sub001/internal/abandoned"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/cache"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/database"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/metrics"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/model"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/service"
)

// OrderHandler обрабатывает HTTP-запросы оформления заказов, захвата
// брошенных корзин и чтения каталога.
type OrderHandler struct {
	service *service.OrderService
	tracker *abandoned.Tracker
	storage database.Storage // Используем интерфейс
	cache   cache.Cache      // Используем интерфейс
}

// NewOrderHandler создает новый экземпляр OrderHandler.
func NewOrderHandler(svc *service.OrderService, tracker *abandoned.Tracker, storage database.Storage, cache cache.Cache) *OrderHandler {
	return &OrderHandler{service: svc, tracker: tracker, storage: storage, cache: cache}
}

// SubmitOrder принимает оформленный заказ и возвращает его с выделенным ID.
// Неудача оформления всегда явная и блокирующая: покупатель видит ошибку
// и может повторить запрос.
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	handlerName := "SubmitOrder"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration() // Замеряем длительность запроса

	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "некорректный JSON", handlerName)
		return
	}

	order, err := h.service.Submit(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			respondWithError(w, http.StatusBadRequest, err.Error(), handlerName)
		case errors.Is(err, service.ErrAllocationExhausted):
			// Временная ошибка: повтор запроса уместен.
			respondWithError(w, http.StatusServiceUnavailable, err.Error(), handlerName)
		default:
			log.Printf("Ошибка оформления заказа: %v", err)
			respondWithError(w, http.StatusInternalServerError, "ошибка сохранения заказа", handlerName)
		}
		return
	}

	metrics.HttpRequestsTotal.WithLabelValues(handlerName, "201").Inc()
	respondWithJSON(w, http.StatusCreated, order)
}

// GetOrder ищет заказ по его ID.
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	handlerName := "GetOrder"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	orderID := chi.URLParam(r, "orderID")
	if orderID == "" {
		respondWithError(w, http.StatusBadRequest, "ID заказа не указан", handlerName)
		return
	}

	order, err := h.storage.GetOrderByID(r.Context(), orderID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "заказ не найден", handlerName)
			return
		}
		log.Printf("Ошибка получения заказа из БД: %v", err)
		respondWithError(w, http.StatusInternalServerError, "ошибка чтения заказа", handlerName)
		return
	}

	metrics.HttpRequestsTotal.WithLabelValues(handlerName, "200").Inc()
	respondWithJSON(w, http.StatusOK, order)
}

// CaptureAbandoned принимает событие захвата с формы оформления.
// Ответ всегда 200 с булевым success: неудачи захвата не должны быть
// видны покупателю (некритичный фоновый путь).
func (h *OrderHandler) CaptureAbandoned(w http.ResponseWriter, r *http.Request) {
	handlerName := "CaptureAbandoned"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	var capture model.AbandonedCapture
	if err := json.NewDecoder(r.Body).Decode(&capture); err != nil {
		metrics.HttpRequestsTotal.WithLabelValues(handlerName, "200").Inc()
		respondWithJSON(w, http.StatusOK, map[string]bool{"success": false})
		return
	}

	ok := h.tracker.Capture(r.Context(), capture)

	metrics.HttpRequestsTotal.WithLabelValues(handlerName, "200").Inc()
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": ok})
}

// GetAbandoned возвращает брошенную корзину по натуральному ключу
// (phone, name) из query-параметров. Используется формой оформления для
// восстановления наполовину заполненной корзины.
func (h *OrderHandler) GetAbandoned(w http.ResponseWriter, r *http.Request) {
	handlerName := "GetAbandoned"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	phone := r.URL.Query().Get("phone")
	name := r.URL.Query().Get("name")
	if phone == "" || name == "" {
		respondWithError(w, http.StatusBadRequest, "параметры phone и name обязательны", handlerName)
		return
	}

	rec, err := h.tracker.Lookup(r.Context(), phone, name)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "брошенная корзина не найдена", handlerName)
			return
		}
		log.Printf("Ошибка получения брошенной корзины из БД: %v", err)
		respondWithError(w, http.StatusInternalServerError, "ошибка чтения брошенной корзины", handlerName)
		return
	}

	metrics.HttpRequestsTotal.WithLabelValues(handlerName, "200").Inc()
	respondWithJSON(w, http.StatusOK, rec)
}

// DeleteAbandoned удаляет брошенную корзину по натуральному ключу
// (phone, name) из query-параметров.
func (h *OrderHandler) DeleteAbandoned(w http.ResponseWriter, r *http.Request) {
	handlerName := "DeleteAbandoned"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	phone := r.URL.Query().Get("phone")
	name := r.URL.Query().Get("name")
	if phone == "" || name == "" {
		respondWithError(w, http.StatusBadRequest, "параметры phone и name обязательны", handlerName)
		return
	}

	// Best-effort: отсутствие совпадения не ошибка.
	h.tracker.ReconcileOnSubmit(r.Context(), phone, name)

	metrics.HttpRequestsTotal.WithLabelValues(handlerName, "200").Inc()
	respondWithJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// ListProducts отдает каталог со ступенями цен: сначала из кэша, при
// промахе - из БД. Путь оформления заказа этим кэшем не пользуется.
func (h *OrderHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	handlerName := "ListProducts"
	timer := prometheus.NewTimer(metrics.HttpRequestDuration.WithLabelValues(handlerName))
	defer timer.ObserveDuration()

	// Поиск в кэше. Передаем контекст (r.Context()) для трейсинга.
	if products, found := h.cache.Get(r.Context(), cache.CatalogKey); found {
		metrics.CacheHits.Inc()
		metrics.HttpRequestsTotal.WithLabelValues(handlerName, "200").Inc()
		respondWithJSON(w, http.StatusOK, products)
		return
	}
	metrics.CacheMisses.Inc()

	products, err := h.storage.GetAllProducts(r.Context())
	if err != nil {
		log.Printf("Ошибка получения каталога из БД: %v", err)
		respondWithError(w, http.StatusInternalServerError, "ошибка чтения каталога", handlerName)
		return
	}

	// Сохранение в кэш. Передаем контекст.
	h.cache.Set(r.Context(), cache.CatalogKey, products)

	metrics.HttpRequestsTotal.WithLabelValues(handlerName, "200").Inc()
	respondWithJSON(w, http.StatusOK, products)
}

// respondWithJSON вспомогательная функция для отправки JSON-ответов.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithError отправляет структурированную ошибку и учитывает метрику.
func respondWithError(w http.ResponseWriter, code int, message string, handlerName string) {
	metrics.HttpRequestsTotal.WithLabelValues(handlerName, strconv.Itoa(code)).Inc()
	respondWithJSON(w, code, map[string]string{"error": message})
}
