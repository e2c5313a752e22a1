package usecase

import (
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// PRODUCT USECASE

// CreateProductReq: черновик нового товара из формы добавления.
type CreateProductReq struct {
	Name     string
	Category string
	Price    decimal.Decimal
}

// UpdateProductReq: частичное изменение товара. nil-поля не изменяются.
type UpdateProductReq struct {
	ID       int64
	Name     *string
	Category *string
	Price    *decimal.Decimal
}

// TransitionRes: результат подтверждаемого действия жизненного цикла.
// Applied=false означает, что пользователь отказался и хранилище не вызывалось.
type TransitionRes struct {
	Applied bool
	Product *domain.Product // состояние после действия; для удаления последнее известное
}

type ExportCatalogReq struct {
	Status domain.Status
}

type ExportCatalogRes struct {
	Key   string
	Count int
}

// OUTBOX

type OutboxStatus string

const (
	Pending    OutboxStatus = "pending"
	Processing OutboxStatus = "processing"
	Processed  OutboxStatus = "processed"
)

type OutboxEventType string

const (
	EventProductCreated  OutboxEventType = "product.created"
	EventProductUpdated  OutboxEventType = "product.updated"
	EventProductArchived OutboxEventType = "product.archived"
	EventProductRestored OutboxEventType = "product.restored"
	EventProductDeleted  OutboxEventType = "product.deleted"
)

// OutboxEvent: событие изменения товара, записанное в одной транзакции с изменением.
type OutboxEvent struct {
	ID          int64
	EventID     string
	EventType   OutboxEventType
	ProductID   int64
	Payload     []byte
	Status      OutboxStatus
	CreatedAt   time.Time
	ProcessedAt *time.Time
}

// ProductEventPayload: JSON-тело события, которое уходит в Kafka.
type ProductEventPayload struct {
	EventID    string          `json:"event_id"`
	EventType  OutboxEventType `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Product    ProductSnapshot `json:"product"`
}

type ProductSnapshot struct {
	ID         int64           `json:"id"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Price      decimal.Decimal `json:"price"`
	Date       time.Time       `json:"date"`
	IsArchived bool            `json:"is_archived"`
}

// INFRASTRUCTURE

type WriteRawMessageReq struct {
	ProductID int64
	Payload   []byte
}

type UploadSnapshotReq struct {
	Name        string
	ContentType string
	Data        []byte
}

// MAPPERS

func NewTransitionRes(applied bool, product *domain.Product) *TransitionRes {
	return &TransitionRes{
		Applied: applied,
		Product: product,
	}
}

func NewExportCatalogRes(key string, count int) *ExportCatalogRes {
	return &ExportCatalogRes{
		Key:   key,
		Count: count,
	}
}

func NewWriteRawMessageReq(productID int64, payload []byte) *WriteRawMessageReq {
	return &WriteRawMessageReq{
		ProductID: productID,
		Payload:   payload,
	}
}

func NewUploadSnapshotReq(name string, contentType string, data []byte) *UploadSnapshotReq {
	return &UploadSnapshotReq{
		Name:        name,
		ContentType: contentType,
		Data:        data,
	}
}

func NewProductSnapshot(p *domain.Product) ProductSnapshot {
	return ProductSnapshot{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		Price:      p.Price,
		Date:       p.Date,
		IsArchived: p.IsArchived,
	}
}
