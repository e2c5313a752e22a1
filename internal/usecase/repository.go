//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

package usecase

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
)

// ProductRepository: хранилище записей товаров (PostgreSQL или in-memory).
// Get, Update и Delete возвращают e.ErrProductNotFound, если записи нет.
type ProductRepository interface {
	List(ctx context.Context, status domain.Status) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	Update(ctx context.Context, id int64, patch *domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// CacheRepository кэширует точечные чтения товаров. GetProduct возвращает nil, nil при промахе.
type CacheRepository interface {
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	SetProduct(ctx context.Context, product *domain.Product) error
	DeleteProducts(ctx context.Context, ids []int64) error
}

// OutboxRepository хранит события изменений товаров до их публикации.
type OutboxRepository interface {
	Create(ctx context.Context, event *OutboxEvent) (*OutboxEvent, error)
	GetAndMarkAsProcessing(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkAsProcessed(ctx context.Context, id int64) error
	// MarkAsPending возвращает событие в очередь после неудачной публикации.
	MarkAsPending(ctx context.Context, id int64) error
}

// Transactor выполняет функцию атомарно относительно хранилища.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
