package abandoned

import (
	"context"
	"log"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/qeelushop-ui/Qeelu-sub001/internal/database"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/metrics"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/model"
)

// minFilledFields - порог захвата: из шести отслеживаемых полей должно
// быть заполнено не меньше четырех. Порог отсекает почти пустой шум
// (одно случайное нажатие), но сохраняет реально брошенные попытки -
// задача трекера аналитика восстановления корзин, а не транзакционная
// строгость.
const minFilledFields = 4

// Tracker валидирует и сохраняет брошенные корзины. Все операции -
// best-effort: ошибки хранилища логируются и учитываются в метриках, но
// никогда не доходят до покупателя и не блокируют оформление заказа.
type Tracker struct {
	storage database.Storage
	tracer  trace.Tracer // Для трассировки
}

// NewTracker создает новый экземпляр Tracker.
func NewTracker(storage database.Storage) *Tracker {
	return &Tracker{
		storage: storage,
		tracer:  otel.Tracer("abandoned-tracker"),
	}
}

// CountFilledFields считает непустые (после обрезки пробелов) поля из
// шести отслеживаемых: name, phone, city, address, quantity, product_id.
// Чистая функция без побочных эффектов.
func CountFilledFields(c model.AbandonedCapture) int {
	fields := []string{c.Name, c.Phone, c.City, c.Address, c.Quantity, c.ProductID}
	count := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			count++
		}
	}
	return count
}

// Capture пропускает событие через валидационный шлюз и сохраняет его по
// натуральному ключу (phone, name). Возвращает false без записи, если
// нет имени или телефона либо заполнено меньше четырех полей; false при
// ошибке хранилища (ошибка проглатывается - вызывающая сторона видит
// только булев результат); true при успешном сохранении.
func (t *Tracker) Capture(ctx context.Context, c model.AbandonedCapture) bool {
	ctx, span := t.tracer.Start(ctx, "Tracker.Capture")
	defer span.End()

	if strings.TrimSpace(c.Name) == "" || strings.TrimSpace(c.Phone) == "" {
		metrics.AbandonedCaptures.WithLabelValues("rejected").Inc()
		return false
	}
	if CountFilledFields(c) < minFilledFields {
		metrics.AbandonedCaptures.WithLabelValues("rejected").Inc()
		return false
	}

	rec := &model.AbandonedOrder{
		Name:      c.Name,
		Phone:     c.Phone,
		City:      c.City,
		Address:   c.Address,
		Quantity:  c.Quantity,
		ProductID: c.ProductID,
		Status:    model.AbandonedStatus,
		CreatedAt: time.Now(),
	}

	if err := t.storage.UpsertAbandoned(ctx, rec); err != nil {
		// Некритичный путь: ошибку не пробрасываем.
		log.Printf("Ошибка сохранения брошенной корзины (%s, %s): %v", c.Phone, c.Name, err)
		metrics.AbandonedCaptures.WithLabelValues("storage_error").Inc()
		return false
	}

	metrics.AbandonedCaptures.WithLabelValues("saved").Inc()
	return true
}

// Lookup возвращает брошенную корзину по натуральному ключу (phone, name).
// Единственная читающая операция трекера, и единственная не best-effort:
// это явный запрос данных для восстановления корзины, поэтому ошибка
// хранилища (включая database.ErrNotFound) пробрасывается вызывающему.
func (t *Tracker) Lookup(ctx context.Context, phone, name string) (*model.AbandonedOrder, error) {
	ctx, span := t.tracer.Start(ctx, "Tracker.Lookup")
	defer span.End()

	return t.storage.GetAbandonedByKey(ctx, phone, name)
}

// ReconcileOnSubmit удаляет брошенную корзину после успешного оформления
// заказа с тем же натуральным ключом. Best-effort: неудача логируется и
// не всплывает - заказ уже сохранен и является источником истины, запись
// о корзине лишь фоновая телеметрия. Отсутствие совпадения не ошибка.
func (t *Tracker) ReconcileOnSubmit(ctx context.Context, phone, name string) {
	ctx, span := t.tracer.Start(ctx, "Tracker.ReconcileOnSubmit")
	defer span.End()

	if err := t.storage.DeleteAbandoned(ctx, phone, name); err != nil {
		log.Printf("Ошибка удаления брошенной корзины (%s, %s): %v", phone, name, err)
		metrics.AbandonedReconciles.WithLabelValues("error").Inc()
		return
	}
	metrics.AbandonedReconciles.WithLabelValues("deleted").Inc()
}
