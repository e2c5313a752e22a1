package converter

import (
	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/shopspring/decimal"
)

// ProductConverter преобразует Product между domain и моделью PostgreSQL.
type ProductConverter struct{}

func (ProductConverter) ToEntity(model *ProductModel) (*domain.Product, error) {
	price, err := decimal.NewFromString(model.Price)
	if err != nil {
		return nil, e.Wrap("ProductConverter.ToEntity", err)
	}

	return &domain.Product{
		ID:         model.ID,
		Name:       model.Name,
		Category:   model.Category,
		Price:      price,
		Date:       model.CreatedAt.UTC(),
		IsArchived: model.IsArchived,
	}, nil
}

func (c ProductConverter) ToArrEntity(models []*ProductModel) ([]domain.Product, error) {
	result := make([]domain.Product, 0, len(models))
	for _, m := range models {
		p, err := c.ToEntity(m)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, nil
}

// OutboxEventConverter преобразует OutboxEvent между usecase и моделью PostgreSQL.
type OutboxEventConverter struct{}

func (OutboxEventConverter) ToModel(entity *usecase.OutboxEvent) *OutboxEventModel {
	return &OutboxEventModel{
		ID:          entity.ID,
		EventID:     entity.EventID,
		EventType:   string(entity.EventType),
		ProductID:   entity.ProductID,
		Payload:     entity.Payload,
		Status:      string(entity.Status),
		CreatedAt:   entity.CreatedAt,
		ProcessedAt: entity.ProcessedAt,
	}
}

func (OutboxEventConverter) ToEntity(model *OutboxEventModel) *usecase.OutboxEvent {
	return &usecase.OutboxEvent{
		ID:          model.ID,
		EventID:     model.EventID,
		EventType:   usecase.OutboxEventType(model.EventType),
		ProductID:   model.ProductID,
		Payload:     model.Payload,
		Status:      usecase.OutboxStatus(model.Status),
		CreatedAt:   model.CreatedAt,
		ProcessedAt: model.ProcessedAt,
	}
}

func (c OutboxEventConverter) ToArrEntity(models []*OutboxEventModel) []*usecase.OutboxEvent {
	result := make([]*usecase.OutboxEvent, 0, len(models))
	for _, m := range models {
		result = append(result, c.ToEntity(m))
	}
	return result
}
