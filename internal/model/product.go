package model

import (
	"time"

	"github.com/google/uuid"
)

// Product is the local, flattened copy of a remote catalog product.
type Product struct {
	ID          uuid.UUID `json:"id"`
	ProductID   string    `json:"product_id"`
	Title       string    `json:"title"`
	Vendor      string    `json:"vendor"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}
