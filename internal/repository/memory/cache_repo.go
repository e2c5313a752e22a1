package memory

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
)

// NopCache отключает кэширование для демо-режима.
type NopCache struct{}

func (NopCache) GetProduct(context.Context, int64) (*domain.Product, error) { return nil, nil }

func (NopCache) SetProduct(context.Context, *domain.Product) error { return nil }

func (NopCache) DeleteProducts(context.Context, []int64) error { return nil }
