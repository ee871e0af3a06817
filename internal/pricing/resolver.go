package pricing

import (
	"github.com/qeelushop-ui/Qeelu-sub001/internal/model"
)

// Resolve вычисляет цену позиции по каталожным данным товара.
// Ступень с точно совпадающим количеством задает ИТОГ строки (Price в
// ступени - суммарная цена за Quantity штук), цена за единицу выводится
// делением. Без точного совпадения действует плоская цена товара:
// unitPrice = Price, lineTotal = Price * quantity.
//
// Интерполяция по ближайшей ступени для промежуточных количеств
// сознательно не выполняется - см. DESIGN.md.
func Resolve(product *model.Product, quantity int) (unitPrice, lineTotal float64) {
	for _, tier := range product.Tiers {
		if tier.Quantity == quantity {
			return tier.Price / float64(quantity), tier.Price
		}
	}
	unitPrice = product.Price
	return unitPrice, unitPrice * float64(quantity)
}

// SynthesizeDefaultTiers строит ступени по умолчанию для легаси-товаров
// без ценовых данных: количества 1-3 с линейной ценой и нулевой скидкой.
// Чистая функция одного аргумента, без состояния и кэширования.
func SynthesizeDefaultTiers(currentPrice float64) model.Tiers {
	return model.Tiers{
		{Quantity: 1, Price: currentPrice, Discount: 0},
		{Quantity: 2, Price: currentPrice * 2, Discount: 0},
		{Quantity: 3, Price: currentPrice * 3, Discount: 0},
	}
}
