package converter

import (
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
)

func TestProductConverter_ToEntity(t *testing.T) {
	created := time.Date(2024, 1, 15, 10, 0, 0, 0, time.FixedZone("MSK", 3*3600))

	product, err := ProductConverter{}.ToEntity(&ProductModel{
		ID: 1, Name: "Desk", Category: "Furniture", Price: "150.00", CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if product.Price.StringFixed(2) != "150.00" || product.Date.Location() != time.UTC || !product.Date.Equal(created) {
		t.Errorf("product = %+v", product)
	}

	if _, err := (ProductConverter{}).ToEntity(&ProductModel{Price: "n/a"}); err == nil {
		t.Error("expected price parse error")
	}
}

func TestOutboxEventConverter(t *testing.T) {
	conv := OutboxEventConverter{}
	event := &usecase.OutboxEvent{
		ID:        7,
		EventID:   "0b8a4f8e-5a43-4c1e-9f1e-5d8d2f6a0c11",
		EventType: usecase.EventProductArchived,
		ProductID: 3,
		Payload:   []byte(`{"event_type":"product.archived"}`),
		Status:    usecase.Pending,
	}

	model := conv.ToModel(event)
	if model.EventType != "product.archived" || model.Status != "pending" {
		t.Fatalf("model = %+v", model)
	}

	back := conv.ToArrEntity([]*OutboxEventModel{model})
	if len(back) != 1 || back[0].EventType != usecase.EventProductArchived || back[0].ProductID != 3 {
		t.Errorf("entity = %+v", back)
	}
}
