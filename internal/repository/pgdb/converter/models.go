package converter

import "time"

// ProductModel представляет запись таблицы products в PostgreSQL.
// Цена читается как текст (price::text), чтобы не терять точность NUMERIC.
type ProductModel struct {
	ID         int64      `db:"id"`
	Name       string     `db:"name"`
	Category   string     `db:"category"`
	Price      string     `db:"price"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  *time.Time `db:"updated_at"`
	IsArchived bool       `db:"is_archived"`
}

// OutboxEventModel представляет запись таблицы outbox_events в PostgreSQL.
type OutboxEventModel struct {
	ID          int64      `db:"id"`
	EventID     string     `db:"event_id"`
	EventType   string     `db:"event_type"`
	ProductID   int64      `db:"product_id"`
	Payload     []byte     `db:"payload"`
	Status      string     `db:"status"`
	CreatedAt   time.Time  `db:"created_at"`
	ProcessedAt *time.Time `db:"processed_at"`
}
