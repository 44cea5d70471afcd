package models

import (
	"time"

	"github.com/google/uuid"
)

// ClientSearchFilter holds search and filter criteria for client list queries
type ClientSearchFilter struct {
	Query         string     `json:"query,omitempty"`          // Matches name, email, company
	CreatedAfter  *time.Time `json:"created_after,omitempty"`  // created_at >= this
	CreatedBefore *time.Time `json:"created_before,omitempty"` // created_at <= this
	Limit         int        `json:"limit,omitempty"`          // Page size (default: 20)
	Offset        int        `json:"offset,omitempty"`         // Page offset
}

type Client struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Phone     *string   `json:"phone" db:"phone"`
	Company   *string   `json:"company" db:"company"`
	Notes     *string   `json:"notes" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
