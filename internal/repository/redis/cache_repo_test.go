package redis

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

func TestBuildProductCacheKeys(t *testing.T) {
	got := buildProductCacheKeys([]int64{1, 42})
	want := []string{"inventory:product:1", "inventory:product:42"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("keys = %v, want %v", got, want)
	}
}

func TestCacheRepo_Decode(t *testing.T) {
	repo := NewCacheRepo(nil, converter.ProductConverter{}, nil, logger.Nop())

	product := &domain.Product{
		ID:       3,
		Name:     "Coffee Maker",
		Category: "Appliances",
		Price:    decimal.RequireFromString("89.99"),
		Date:     time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(converter.ProductConverter{}.ToRedisModel(product))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := repo.decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.ID != 3 || !decoded.Price.Equal(product.Price) || !decoded.Date.Equal(product.Date) {
		t.Errorf("decoded = %+v", decoded)
	}

	if _, err := repo.decode([]byte(`{"id":3,"price":"cheap"}`)); err == nil {
		t.Error("expected error for corrupted price")
	}
}
