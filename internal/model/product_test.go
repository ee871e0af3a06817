package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTiers_Scan_LegacyValues(t *testing.T) {
	assertions := assert.New(t)

	// NULL, пустой массив и пустой объект у легаси-записей означают
	// отсутствие ступеней - именно их подбирает бэкфилл
	var tiers Tiers
	assertions.NoError(tiers.Scan(nil))
	assertions.True(tiers.Empty())

	assertions.NoError(tiers.Scan([]byte(`[]`)))
	assertions.True(tiers.Empty())

	assertions.NoError(tiers.Scan([]byte(`{}`)))
	assertions.True(tiers.Empty())

	assertions.NoError(tiers.Scan([]byte(`null`)))
	assertions.True(tiers.Empty())
}

func TestTiers_Scan_LegacyObject(t *testing.T) {
	assertions := assert.New(t)

	// Объектная форма легаси-данных: ключ - количество, значение - итоговая
	// цена ступени. Такие записи бэкфилл не трогает, но читаться они обязаны
	var tiers Tiers
	err := tiers.Scan([]byte(`{"2": 9.00, "3": 12.00}`))
	assertions.NoError(err)
	assertions.False(tiers.Empty())
	assertions.Len(tiers, 2)
	assertions.Equal(2, tiers[0].Quantity)
	assertions.InDelta(9.00, tiers[0].Price, 0.0001)
	assertions.Equal(3, tiers[1].Quantity)
	assertions.InDelta(12.00, tiers[1].Price, 0.0001)
}

func TestTiers_Scan_UnreadableLegacyObject(t *testing.T) {
	assertions := assert.New(t)

	// Нечисловой ключ количества - запись нечитаема, но чтение товара
	// не падает: ступени просто отбрасываются
	var tiers Tiers
	err := tiers.Scan([]byte(`{"wholesale": 9.00}`))
	assertions.NoError(err)
	assertions.True(tiers.Empty())
}

func TestTiers_Scan_Populated(t *testing.T) {
	assertions := assert.New(t)

	var tiers Tiers
	err := tiers.Scan([]byte(`[{"quantity":2,"price":9.00,"discount":0}]`))
	assertions.NoError(err)
	assertions.False(tiers.Empty())
	assertions.Equal(2, tiers[0].Quantity)
	assertions.InDelta(9.00, tiers[0].Price, 0.0001)
}
