package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
)

// PricingTier - ценовая ступень товара. Price - ИТОГОВАЯ цена за Quantity
// штук, а не цена за единицу. Discount хранится как передан вызывающей
// стороной (семантика процента/абсолюта фиксируется на её стороне).
type PricingTier struct {
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
	Discount float64 `json:"discount"`
}

// Tiers - список ступеней, хранится в колонке JSONB таблицы products.
type Tiers []PricingTier

// Value сериализует список ступеней для записи в JSONB.
func (t Tiers) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// Scan читает JSONB-колонку. NULL и пустой объект ('{}' у легаси-записей)
// трактуются как отсутствие ступеней. Непустой объект - второй легаси-формат:
// ключ - количество, значение - итоговая цена ступени.
func (t *Tiers) Scan(src interface{}) error {
	if src == nil {
		*t = nil
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("неожиданный тип колонки tiers: %T", src)
	}
	if len(b) == 0 || string(b) == "null" || string(b) == "{}" {
		*t = nil
		return nil
	}
	if b[0] == '{' {
		tiers, err := tiersFromLegacyObject(b)
		if err != nil {
			// Нечитаемый легаси-объект не должен ронять чтение товара.
			log.Printf("Нечитаемый легаси-формат ступеней (%s), ступени пропущены: %v", string(b), err)
			*t = nil
			return nil
		}
		*t = tiers
		return nil
	}
	return json.Unmarshal(b, t)
}

// tiersFromLegacyObject разбирает объектную форму {"2": 9.00, "3": 12.00}
// в упорядоченный по количеству список ступеней.
func tiersFromLegacyObject(b []byte) (Tiers, error) {
	var raw map[string]float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	tiers := make(Tiers, 0, len(raw))
	for key, price := range raw {
		quantity, err := strconv.Atoi(key)
		if err != nil {
			return nil, fmt.Errorf("нечисловой ключ количества %q: %w", key, err)
		}
		tiers = append(tiers, PricingTier{Quantity: quantity, Price: price})
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Quantity < tiers[j].Quantity })
	return tiers, nil
}

// Empty сообщает, есть ли у товара хотя бы одна ступень.
func (t Tiers) Empty() bool {
	return len(t) == 0
}

// Product - товар каталога. Price - плоская цена за единицу, действует
// при отсутствии подходящей ступени.
type Product struct {
	ID    string  `json:"id" db:"id"`
	Name  string  `json:"name" db:"name"`
	Price float64 `json:"price" db:"price"`
	Tiers Tiers   `json:"tiers" db:"tiers"`
}
