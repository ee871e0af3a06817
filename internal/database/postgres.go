package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/qeelushop-ui/Qeelu-sub001/internal/allocator"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/metrics"
	"github.com/qeelushop-ui/Qeelu-sub001/internal/model"
)

//go:generate mockgen -source=postgres.go -destination=./mocks/storage_mock.go -package=mocks Storage

// ErrNotFound возвращается, когда запрошенная запись отсутствует.
var ErrNotFound = errors.New("запись не найдена")

// Storage определяет интерфейс для работы с хранилищем заказов и каталога.
type Storage interface {
	// CreateOrder выделяет ID и сохраняет заказ с позициями в одной
	// транзакции. При конкурентном занятии ID возвращает allocator.ErrConflict.
	CreateOrder(ctx context.Context, order *model.Order) error
	GetOrderByID(ctx context.Context, id string) (*model.Order, error)

	GetAllProducts(ctx context.Context) ([]model.Product, error)
	GetProductByID(ctx context.Context, id string) (*model.Product, error)
	GetProductsWithoutTiers(ctx context.Context) ([]model.Product, error)
	SaveProductTiers(ctx context.Context, productID string, tiers model.Tiers) error

	UpsertAbandoned(ctx context.Context, rec *model.AbandonedOrder) error
	DeleteAbandoned(ctx context.Context, phone, name string) error
	GetAbandonedByKey(ctx context.Context, phone, name string) (*model.AbandonedOrder, error)

	Close() error
}

// postgresStorage обеспечивает взаимодействие с базой данных PostgreSQL.
// Это конкретная реализация интерфейса Storage.
type postgresStorage struct {
	db     *sqlx.DB
	tracer trace.Tracer // Для трассировки
}

// New создает подключение к БД, применяет миграции и возвращает
// экземпляр, реализующий интерфейс Storage.
func New(dbURL, migrationsPath string) (Storage, error) {
	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к БД: %w", err)
	}

	// Запуск миграций
	if err := runMigrations(dbURL, migrationsPath); err != nil {
		return nil, fmt.Errorf("ошибка применения миграций: %w", err)
	}

	return &postgresStorage{
		db:     db,
		tracer: otel.Tracer("postgres-storage"), // Инициализация трейсера
	}, nil
}

// runMigrations выполняет миграции БД до последней версии.
func runMigrations(dbURL, migrationsPath string) error {
	log.Println("Поиск и применение миграций...")

	// Важно: 'file://' префикс
	m, err := migrate.New(fmt.Sprintf("file://%s", migrationsPath), dbURL)
	if err != nil {
		return fmt.Errorf("не удалось создать экземпляр миграции: %w", err)
	}

	// Применяем миграции "вверх"
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("не удалось выполнить миграции: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return fmt.Errorf("не удалось получить версию миграции: %w", err)
	}

	if dirty {
		log.Printf("БД в 'грязном' состоянии (dirty). Версия: %d. Рекомендуется проверка.", version)
	}

	log.Printf("Миграции успешно применены. Текущая версия БД: %d", version)
	return nil
}

// CreateOrder выделяет следующий свободный ID и сохраняет заказ со всеми
// позициями в одной транзакции. Чтение максимума и вставка не атомарны
// сами по себе: гонку закрывает первичный ключ orders.id - конкурентная
// вставка того же ID завершается нарушением уникальности, которое
// транслируется в allocator.ErrConflict для повтора на уровне сервиса.
func (s *postgresStorage) CreateOrder(ctx context.Context, order *model.Order) (err error) {
	// Создаем span для трассировки
	ctx, span := s.tracer.Start(ctx, "DB.CreateOrder")
	defer span.End()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		metrics.DBErrors.WithLabelValues("create_order").Inc() // Метрика ошибки
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}

	// Используем defer с функцией, чтобы корректно обработать panic и ошибки
	defer func() {
		if p := recover(); p != nil {
			// Если была паника, откатываем
			_ = tx.Rollback()
			panic(p) // Восстанавливаем панику
		} else if err != nil {
			// Если функция завершилась с ошибкой, откатываем
			// Логгируем ошибку отката, если она не sql.ErrTxDone
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Printf("Ошибка отката транзакции (после ошибки: %v): %v", err, rbErr)
			}
		}
	}()

	// Аллокация ID внутри транзакции вставки
	orderID, err := allocator.NextID(ctx, tx)
	if err != nil {
		metrics.DBErrors.WithLabelValues("create_order").Inc() // Метрика ошибки
		return err
	}

	if order.Status == "" {
		order.Status = model.StatusPending
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}

	orderQuery := `INSERT INTO orders (id, name, phone, city, address, total, status, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err = tx.ExecContext(ctx, orderQuery, orderID, order.Name, order.Phone, order.City, order.Address, order.Total, order.Status, order.CreatedAt); err != nil {
		if allocator.IsUniqueViolation(err) {
			// Конкурент успел занять этот ID - сигнализируем повтор.
			// Ожидаемый исход гонки, в db_errors_total не учитывается.
			err = fmt.Errorf("ID %s уже занят: %w", orderID, allocator.ErrConflict)
			return err
		}
		metrics.DBErrors.WithLabelValues("create_order").Inc() // Метрика ошибки
		return fmt.Errorf("ошибка сохранения заказа: %w", err)
	}

	for _, item := range order.Items {
		itemQuery := `INSERT INTO order_items (order_id, product_id, quantity, unit_price, line_total) VALUES ($1, $2, $3, $4, $5)`
		if _, err = tx.ExecContext(ctx, itemQuery, orderID, item.ProductID, item.Quantity, item.UnitPrice, item.LineTotal); err != nil {
			metrics.DBErrors.WithLabelValues("create_order").Inc() // Метрика ошибки
			return fmt.Errorf("ошибка сохранения позиции заказа: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		metrics.DBErrors.WithLabelValues("create_order").Inc() // Метрика ошибки
		return err
	}

	// ID присваиваем только после успешного коммита
	order.ID = orderID
	for i := range order.Items {
		order.Items[i].OrderID = orderID
	}
	return nil
}

// GetOrderByID извлекает заказ с позициями по его ID.
func (s *postgresStorage) GetOrderByID(ctx context.Context, id string) (*model.Order, error) {
	// Создаем span для трассировки
	ctx, span := s.tracer.Start(ctx, "DB.GetOrderByID")
	defer span.End()

	var order model.Order
	query := `SELECT id, name, phone, city, address, total, status, created_at FROM orders WHERE id = $1`
	if err := s.db.GetContext(ctx, &order, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		metrics.DBErrors.WithLabelValues("get_order").Inc() // Метрика ошибки
		return nil, fmt.Errorf("не удалось получить заказ: %w", err)
	}

	if err := s.db.SelectContext(ctx, &order.Items, `SELECT * FROM order_items WHERE order_id = $1 ORDER BY id`, id); err != nil {
		metrics.DBErrors.WithLabelValues("get_order").Inc() // Метрика ошибки
		return nil, fmt.Errorf("не удалось получить позиции заказа: %w", err)
	}

	return &order, nil
}

// GetAllProducts извлекает весь каталог со ступенями цен.
func (s *postgresStorage) GetAllProducts(ctx context.Context) ([]model.Product, error) {
	ctx, span := s.tracer.Start(ctx, "DB.GetAllProducts")
	defer span.End()

	var products []model.Product
	query := `SELECT id, name, price, tiers FROM products ORDER BY id`
	if err := s.db.SelectContext(ctx, &products, query); err != nil {
		metrics.DBErrors.WithLabelValues("get_products").Inc() // Метрика ошибки
		return nil, fmt.Errorf("ошибка получения каталога: %w", err)
	}
	return products, nil
}

// GetProductByID извлекает товар со ступенями цен.
func (s *postgresStorage) GetProductByID(ctx context.Context, id string) (*model.Product, error) {
	ctx, span := s.tracer.Start(ctx, "DB.GetProductByID")
	defer span.End()

	var product model.Product
	query := `SELECT id, name, price, tiers FROM products WHERE id = $1`
	if err := s.db.GetContext(ctx, &product, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		metrics.DBErrors.WithLabelValues("get_products").Inc() // Метрика ошибки
		return nil, fmt.Errorf("не удалось получить товар: %w", err)
	}
	return &product, nil
}

// GetProductsWithoutTiers выбирает легаси-товары без ценовых ступеней:
// NULL, пустой массив или пустой объект в колонке tiers. Товары с
// непустыми ступенями выборке невидимы - на этом держится
// идемпотентность бэкфилла.
func (s *postgresStorage) GetProductsWithoutTiers(ctx context.Context) ([]model.Product, error) {
	ctx, span := s.tracer.Start(ctx, "DB.GetProductsWithoutTiers")
	defer span.End()

	var products []model.Product
	query := `SELECT id, name, price, tiers FROM products WHERE tiers IS NULL OR tiers::text IN ('[]', '{}', 'null')`
	if err := s.db.SelectContext(ctx, &products, query); err != nil {
		metrics.DBErrors.WithLabelValues("backfill_tiers").Inc() // Метрика ошибки
		return nil, fmt.Errorf("ошибка выборки товаров без ступеней: %w", err)
	}
	return products, nil
}

// SaveProductTiers записывает ступени цен товара.
func (s *postgresStorage) SaveProductTiers(ctx context.Context, productID string, tiers model.Tiers) error {
	ctx, span := s.tracer.Start(ctx, "DB.SaveProductTiers")
	defer span.End()

	res, err := s.db.ExecContext(ctx, `UPDATE products SET tiers = $1 WHERE id = $2`, tiers, productID)
	if err != nil {
		metrics.DBErrors.WithLabelValues("backfill_tiers").Inc() // Метрика ошибки
		return fmt.Errorf("ошибка записи ступеней: %w", err)
	}
	affected, err := res.RowsAffected()
	if err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpsertAbandoned сохраняет брошенную корзину по натуральному ключу
// (phone, name). Повторный захват перезаписывает поля (последняя запись
// побеждает), но created_at остается от первого захвата. Конкурентные
// захваты одного ключа разруливает сам Postgres через ON CONFLICT -
// клиентских блокировок не требуется.
func (s *postgresStorage) UpsertAbandoned(ctx context.Context, rec *model.AbandonedOrder) error {
	ctx, span := s.tracer.Start(ctx, "DB.UpsertAbandoned")
	defer span.End()

	query := `
		INSERT INTO abandoned_orders (name, phone, city, address, quantity, product_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (phone, name) DO UPDATE SET
			city = EXCLUDED.city,
			address = EXCLUDED.address,
			quantity = EXCLUDED.quantity,
			product_id = EXCLUDED.product_id,
			status = EXCLUDED.status`
	if _, err := s.db.ExecContext(ctx, query, rec.Name, rec.Phone, rec.City, rec.Address, rec.Quantity, rec.ProductID, rec.Status, rec.CreatedAt); err != nil {
		metrics.DBErrors.WithLabelValues("upsert_abandoned").Inc() // Метрика ошибки
		return fmt.Errorf("ошибка сохранения брошенной корзины: %w", err)
	}
	return nil
}

// DeleteAbandoned удаляет брошенную корзину по натуральному ключу.
// Отсутствие совпадения не является ошибкой.
func (s *postgresStorage) DeleteAbandoned(ctx context.Context, phone, name string) error {
	ctx, span := s.tracer.Start(ctx, "DB.DeleteAbandoned")
	defer span.End()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM abandoned_orders WHERE phone = $1 AND name = $2`, phone, name); err != nil {
		metrics.DBErrors.WithLabelValues("delete_abandoned").Inc() // Метрика ошибки
		return fmt.Errorf("ошибка удаления брошенной корзины: %w", err)
	}
	return nil
}

// GetAbandonedByKey извлекает брошенную корзину по натуральному ключу.
func (s *postgresStorage) GetAbandonedByKey(ctx context.Context, phone, name string) (*model.AbandonedOrder, error) {
	ctx, span := s.tracer.Start(ctx, "DB.GetAbandonedByKey")
	defer span.End()

	var rec model.AbandonedOrder
	query := `SELECT id, name, phone, city, address, quantity, product_id, status, created_at FROM abandoned_orders WHERE phone = $1 AND name = $2`
	if err := s.db.GetContext(ctx, &rec, query, phone, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		metrics.DBErrors.WithLabelValues("get_abandoned").Inc() // Метрика ошибки
		return nil, fmt.Errorf("не удалось получить брошенную корзину: %w", err)
	}
	return &rec, nil
}

// Close закрывает соединение с БД.
func (s *postgresStorage) Close() error {
	return s.db.Close()
}
