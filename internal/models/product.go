package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductSearchFilter holds search and filter criteria for product list queries
type ProductSearchFilter struct {
	Query         string     `json:"query,omitempty"`          // Matches name, description
	CreatedAfter  *time.Time `json:"created_after,omitempty"`  // created_at >= this
	CreatedBefore *time.Time `json:"created_before,omitempty"` // created_at <= this
	Limit         int        `json:"limit,omitempty"`          // Page size (default: 20)
	Offset        int        `json:"offset,omitempty"`         // Page offset
}

type Product struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	Name        string          `json:"name" db:"name"`
	Description *string         `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`

	// Images is populated on single-product reads, ordered by position.
	Images []*ProductImage `json:"images,omitempty" db:"-"`
}
