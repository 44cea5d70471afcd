package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductImage is one persisted image row. Position is the 1-based display
// order within the owning product's image set; it is dense and unique per
// product, exactly as submitted by the form.
type ProductImage struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UUID      string    `json:"uuid" db:"uuid"`
	URL       string    `json:"url" db:"url"`
	ProductID uuid.UUID `json:"product_id" db:"product_id"`
	Position  int       `json:"order_index" db:"order_index"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
