package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/qeelushop-ui/Qeelu-sub001/internal/abandoned"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/allocator"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/database"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/metrics"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/model"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/pricing"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/validator"
)

// ErrValidation - входные данные заказа не прошли проверку.
// Запрос отклонен до каких-либо записей в хранилище и не ретраится.
var ErrValidation = errors.New("ошибка валидации заказа")

// ErrAllocationExhausted - повторы аллокации ID исчерпаны.
// Для вызывающей стороны это временная ошибка: запрос можно повторить.
var ErrAllocationExhausted = errors.New("исчерпаны повторы аллокации ID заказа")

// OrderService - оркестратор оформления заказа: валидация, расчет цен по
// каталогу, аллокация ID с повтором при конфликте, сохранение и сверка
// брошенных корзин.
type OrderService struct {
	storage    database.Storage
	tracker    *abandoned.Tracker
	maxRetries int // Число повторов CreateOrder при конфликте ID
	tracer     trace.Tracer
}

// NewOrderService создает новый экземпляр OrderService.
func NewOrderService(storage database.Storage, tracker *abandoned.Tracker, maxRetries int) *OrderService {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &OrderService{
		storage:    storage,
		tracker:    tracker,
		maxRetries: maxRetries,
		tracer:     otel.Tracer("order-service"),
	}
}

// Submit проводит заказ через полный цикл оформления. Гарантии по порядку:
// до успешной валидации ни одной записи в хранилище не происходит; цены
// берутся из каталога (свежим чтением), а не из запроса; сверка брошенной
// корзины выполняется только после успешного сохранения заказа, и ее
// неудача оформления не отменяет.
func (s *OrderService) Submit(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Submit")
	defer span.End()

	// 1. Валидация - до любых побочных эффектов.
	if err := validator.ValidateStruct(req); err != nil {
		metrics.OrdersSubmitted.WithLabelValues("validation_error").Inc()
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	// 2. Расчет позиций по каталожным ценам.
	order := &model.Order{
		Name:    req.Name,
		Phone:   req.Phone,
		City:    req.City,
		Address: req.Address,
		Status:  model.StatusPending,
	}
	for _, item := range req.Items {
		product, err := s.storage.GetProductByID(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				metrics.OrdersSubmitted.WithLabelValues("validation_error").Inc()
				return nil, fmt.Errorf("%w: товар %s не найден", ErrValidation, item.ProductID)
			}
			metrics.OrdersSubmitted.WithLabelValues("storage_error").Inc()
			return nil, fmt.Errorf("ошибка чтения товара %s: %w", item.ProductID, err)
		}

		unitPrice, lineTotal := pricing.Resolve(product, item.Quantity)
		order.Items = append(order.Items, model.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
		})
		order.Total += lineTotal
	}

	// 3. Сохранение с повтором при конфликте аллокации ID.
	var err error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		err = s.storage.CreateOrder(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, allocator.ErrConflict) {
			metrics.OrdersSubmitted.WithLabelValues("storage_error").Inc()
			return nil, fmt.Errorf("ошибка сохранения заказа: %w", err)
		}
		metrics.IDAllocationRetries.Inc()
		log.Printf("Конфликт аллокации ID (попытка %d/%d): %v", attempt, s.maxRetries, err)
	}
	if err != nil {
		metrics.OrdersSubmitted.WithLabelValues("conflict_exhausted").Inc()
		return nil, fmt.Errorf("%w: %v", ErrAllocationExhausted, err)
	}

	// 4. Сверка брошенной корзины - только после успешного сохранения.
	// Best-effort: неудача не откатывает и не фейлит оформление.
	s.tracker.ReconcileOnSubmit(ctx, order.Phone, order.Name)

	log.Printf("Заказ %s успешно оформлен (сумма: %.2f).", order.ID, order.Total)
	metrics.OrdersSubmitted.WithLabelValues("success").Inc()
	return order, nil
}
