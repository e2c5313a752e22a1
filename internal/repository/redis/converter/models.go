package converter

import "time"

// ProductRedisModel: JSON-представление товара в кэше.
type ProductRedisModel struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Price      string    `json:"price"`
	Date       time.Time `json:"date"`
	IsArchived bool      `json:"is_archived"`
}
