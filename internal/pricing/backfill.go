package pricing

import (
	"context"
	"fmt"
	"log"

	"github.com/qeelushop-ui/Qeelu-sub001/internal/database"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/metrics"
)

// Backfill записывает ступени по умолчанию всем товарам с отсутствующими
// или пустыми ценовыми данными. Товары с непустыми ступенями в выборку не
// попадают, поэтому повторный запуск - no-op (идемпотентность).
// Возвращает число обновленных товаров.
func Backfill(ctx context.Context, storage database.Storage) (int, error) {
	products, err := storage.GetProductsWithoutTiers(ctx)
	if err != nil {
		return 0, fmt.Errorf("ошибка выборки товаров без ступеней: %w", err)
	}

	updated := 0
	for _, product := range products {
		tiers := SynthesizeDefaultTiers(product.Price)
		if err := storage.SaveProductTiers(ctx, product.ID, tiers); err != nil {
			return updated, fmt.Errorf("ошибка записи ступеней для товара %s: %w", product.ID, err)
		}
		updated++
		metrics.TiersBackfilled.Inc()
	}

	if updated > 0 {
		log.Printf("Бэкфилл ступеней: обновлено товаров - %d.", updated)
	}
	return updated, nil
}
