package model

import "time"

// AbandonedStatus - единственный статус брошенной корзины.
const AbandonedStatus = "unsubmitted"

// AbandonedOrder - частично заполненная, неотправленная попытка оформления.
// Натуральный ключ - пара (phone, name): по ней выполняются upsert и удаление.
// Первичный ключ хранилища (ID) используется только внутри БД.
type AbandonedOrder struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	City      string    `json:"city" db:"city"`
	Address   string    `json:"address" db:"address"`
	Quantity  string    `json:"quantity" db:"quantity"`
	ProductID string    `json:"product_id" db:"product_id"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AbandonedCapture - событие захвата с формы оформления. Все поля строковые:
// данные приходят из наполовину заполненной формы и служат для аналитики
// восстановления корзин, а не для арифметики.
type AbandonedCapture struct {
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	City      string `json:"city"`
	Address   string `json:"address"`
	Quantity  string `json:"quantity"`
	ProductID string `json:"product_id"`
}
