package product

import "time"

// Product is a catalog entry. Price is in the smallest currency unit.
// Products are never hard-deleted, only deactivated.
type Product struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Price     int       `json:"price"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
