package converter

import (
	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует товар между domain и моделью кэша.
type ProductConverter struct{}

func (ProductConverter) ToRedisModel(entity *domain.Product) *ProductRedisModel {
	return &ProductRedisModel{
		ID:         entity.ID,
		Name:       entity.Name,
		Category:   entity.Category,
		Price:      entity.Price.String(),
		Date:       entity.Date,
		IsArchived: entity.IsArchived,
	}
}

func (ProductConverter) ToEntity(model *ProductRedisModel) (*domain.Product, error) {
	price, err := decimal.NewFromString(model.Price)
	if err != nil {
		return nil, err
	}

	return &domain.Product{
		ID:         model.ID,
		Name:       model.Name,
		Category:   model.Category,
		Price:      price,
		Date:       model.Date,
		IsArchived: model.IsArchived,
	}, nil
}
