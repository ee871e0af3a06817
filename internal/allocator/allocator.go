package allocator

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Prefix - префикс человекочитаемых идентификаторов заказов Qeelu.
const Prefix = "#QE"

// minDigits - минимальная ширина числового суффикса. Номера >= 10000
// не усекаются: паддинг задает минимум, а не максимум.
const minDigits = 4

// ErrConflict возвращается, когда вставка заказа натыкается на уже занятый
// ID (два конкурентных вызова прочитали один и тот же максимум). Вызывающая
// сторона обязана повторить аллокацию в новой транзакции; молча вернуть
// дубликат аллокатор не может.
var ErrConflict = errors.New("конфликт аллокации ID заказа")

// idPattern описывает корректный ID. Строки, не подходящие под шаблон
// (нечисловой суффикс), при поиске максимума пропускаются, а не роняют
// аллокацию.
var idPattern = regexp.MustCompile(`^#QE([0-9]+)$`)

// maxSuffixQuery ищет наибольший числовой суффикс среди существующих ID.
// Сравнение - числовое через CAST, а не лексикографическое: на границе
// разрядности строки '#QE0099' и '#QE0100' сортируются неверно.
const maxSuffixQuery = `
	SELECT COALESCE(MAX(CAST(SUBSTRING(id FROM 4) AS INTEGER)), 0)
	FROM orders
	WHERE id ~ '^#QE[0-9]+$'`

// FormatOrderID форматирует номер в ID вида #QE0001.
func FormatOrderID(n int) string {
	return fmt.Sprintf("%s%0*d", Prefix, minDigits, n)
}

// ParseSuffix извлекает числовой суффикс из ID. Возвращает false для
// строк, не являющихся корректным ID заказа.
func ParseSuffix(id string) (int, bool) {
	m := idPattern.FindStringSubmatch(id)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		// Суффикс длиннее разрядности int - трактуем как некорректный ID.
		return 0, false
	}
	return n, true
}

// NextID вычисляет следующий свободный ID внутри транзакции вызывающей
// стороны. Сама по себе выборка максимума гонку не закрывает: защитой
// служит ограничение уникальности на orders.id, конфликт по которому
// вызывающая сторона превращает в ErrConflict и повторяет аллокацию.
func NextID(ctx context.Context, tx *sqlx.Tx) (string, error) {
	var maxSuffix int
	if err := tx.GetContext(ctx, &maxSuffix, maxSuffixQuery); err != nil {
		return "", fmt.Errorf("ошибка поиска максимального ID заказа: %w", err)
	}
	return FormatOrderID(maxSuffix + 1), nil
}

// IsUniqueViolation распознает нарушение уникальности Postgres (код 23505).
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
