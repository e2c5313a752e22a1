package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// ProductRepo: in-memory хранилище товаров для демо-режима.
// Активные и архивные товары лежат в разных коллекциях, признак IsArchived выводится из коллекции.
type ProductRepo struct {
	mu       sync.RWMutex
	active   []domain.Product
	archived []domain.Product
	now      func() time.Time
}

func NewProductRepo() *ProductRepo {
	return &ProductRepo{now: time.Now}
}

// NewSeededProductRepo создаёт хранилище с демонстрационными товарами.
func NewSeededProductRepo() *ProductRepo {
	repo := NewProductRepo()
	repo.active = SeedProducts()
	return repo
}

// SeedProducts возвращает демонстрационный набор товаров.
func SeedProducts() []domain.Product {
	day := func(s string) time.Time {
		t, _ := time.Parse(time.DateOnly, s)
		return t
	}

	return []domain.Product{
		{ID: 1, Name: "Wireless Headphones", Category: "Electronics", Price: decimal.RequireFromString("129.99"), Date: day("2024-01-15")},
		{ID: 2, Name: "Office Chair", Category: "Furniture", Price: decimal.RequireFromString("199.50"), Date: day("2024-02-20")},
		{ID: 3, Name: "Coffee Maker", Category: "Appliances", Price: decimal.RequireFromString("89.99"), Date: day("2024-03-10")},
	}
}

// List возвращает копии товаров с указанным статусом, упорядоченные по ID.
func (r *ProductRepo) List(ctx context.Context, status domain.Status) ([]domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, e.Store("memory.ProductRepo.List", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []domain.Product
	switch status {
	case domain.StatusActive:
		result = slices.Clone(r.active)
	case domain.StatusArchived:
		result = slices.Clone(r.archived)
	default:
		result = append(slices.Clone(r.active), r.archived...)
	}

	slices.SortFunc(result, func(a, b domain.Product) int {
		return cmp.Compare(a.ID, b.ID)
	})

	if result == nil {
		result = []domain.Product{}
	}
	return result, nil
}

func (r *ProductRepo) Get(ctx context.Context, id int64) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, e.Store("memory.ProductRepo.Get", err)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, _, ok := r.find(id)
	if !ok {
		return nil, e.ErrProductNotFound
	}

	return &product, nil
}

// Create назначает ID (максимальный по обеим коллекциям + 1) и дату создания.
func (r *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, e.Store("memory.ProductRepo.Create", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := *product
	created.ID = r.nextID()
	created.Date = r.now().UTC()
	created.IsArchived = false
	r.active = append(r.active, created)

	return &created, nil
}

// Update применяет патч; при смене IsArchived запись переносится в другую коллекцию.
func (r *ProductRepo) Update(ctx context.Context, id int64, patch *domain.ProductPatch) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, e.Store("memory.ProductRepo.Update", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product, wasArchived, ok := r.find(id)
	if !ok {
		return nil, e.ErrProductNotFound
	}

	patch.Apply(&product)
	r.remove(id, wasArchived)
	if product.IsArchived {
		r.archived = append(r.archived, product)
	} else {
		r.active = append(r.active, product)
	}

	return &product, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return e.Store("memory.ProductRepo.Delete", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, archived, ok := r.find(id)
	if !ok {
		return e.ErrProductNotFound
	}

	r.remove(id, archived)
	return nil
}

// find ищет товар в обеих коллекциях и проставляет IsArchived по коллекции.
func (r *ProductRepo) find(id int64) (domain.Product, bool, bool) {
	for _, p := range r.active {
		if p.ID == id {
			p.IsArchived = false
			return p, false, true
		}
	}
	for _, p := range r.archived {
		if p.ID == id {
			p.IsArchived = true
			return p, true, true
		}
	}

	return domain.Product{}, false, false
}

func (r *ProductRepo) remove(id int64, archived bool) {
	match := func(p domain.Product) bool { return p.ID == id }
	if archived {
		r.archived = slices.DeleteFunc(r.archived, match)
		return
	}
	r.active = slices.DeleteFunc(r.active, match)
}

func (r *ProductRepo) nextID() int64 {
	var maxID int64
	for _, p := range r.active {
		maxID = max(maxID, p.ID)
	}
	for _, p := range r.archived {
		maxID = max(maxID, p.ID)
	}

	return maxID + 1
}
