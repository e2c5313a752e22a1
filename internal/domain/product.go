package domain

import (
	"strings"
	"time"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// maxPrice: верхняя граница цены товара.
var maxPrice = decimal.NewFromInt(1_000_000_000)

// Product описывает товар инвентаря
type Product struct {
	ID         int64 // назначается хранилищем
	Name       string
	Category   string
	Price      decimal.Decimal
	Date       time.Time // дата создания, назначается хранилищем
	IsArchived bool
}

func NewProduct(name string, category string, price decimal.Decimal) *Product {
	return &Product{
		Name:     strings.TrimSpace(name),
		Category: strings.TrimSpace(category),
		Price:    price,
	}
}

// Status возвращает состояние товара в жизненном цикле.
func (p *Product) Status() Status {
	if p.IsArchived {
		return StatusArchived
	}
	return StatusActive
}

// ProductPatch: частичное обновление товара. nil-поля не изменяются.
// ID и Date не входят в патч: они неизменяемы.
type ProductPatch struct {
	Name       *string
	Category   *string
	Price      *decimal.Decimal
	IsArchived *bool
}

// IsEmpty сообщает, что патч ничего не меняет.
func (p *ProductPatch) IsEmpty() bool {
	return p == nil || (p.Name == nil && p.Category == nil && p.Price == nil && p.IsArchived == nil)
}

// Apply применяет патч к товару.
func (p *ProductPatch) Apply(product *Product) {
	if p == nil {
		return
	}
	if p.Name != nil {
		product.Name = strings.TrimSpace(*p.Name)
	}
	if p.Category != nil {
		product.Category = strings.TrimSpace(*p.Category)
	}
	if p.Price != nil {
		product.Price = *p.Price
	}
	if p.IsArchived != nil {
		product.IsArchived = *p.IsArchived
	}
}

// ValidateName проверяет, что название товара не пустое.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return e.ErrProductNameRequired
	}
	return nil
}

// ValidatePrice проверяет, что цена неотрицательна, не больше maxPrice и содержит не более двух знаков после запятой.
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() || price.GreaterThan(maxPrice) {
		return e.ErrInvalidPrice
	}

	if price.Exponent() < -2 && !price.Equal(price.Round(2)) {
		return e.ErrPricePrecision
	}

	return nil
}

// ParsePrice разбирает строку вида "599.99" или "600".
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, e.ErrPriceRequired
	}

	price, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, e.ErrInvalidPrice
	}

	if err := ValidatePrice(price); err != nil {
		return decimal.Zero, err
	}

	return price, nil
}
