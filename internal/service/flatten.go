package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/shopify"
)

func flattenProduct(node shopify.ProductNode, now time.Time) (model.Product, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return model.Product{}, fmt.Errorf("generate uuid v7: %w", err)
	}

	var image *string
	if img, ok := node.FirstImage(); ok {
		image = img.Src
	}

	var price *string
	if variant, ok := node.FirstVariant(); ok {
		price = variant.Price
	}

	return model.Product{
		ID:          id,
		ProductID:   node.ID,
		Title:       node.Title,
		Vendor:      node.Vendor,
		Description: node.Description,
		Image:       image,
		Price:       normalizePrice(price),
		CreatedAt:   now,
	}, nil
}

func flattenProducts(nodes []shopify.ProductNode, now time.Time) ([]model.Product, error) {
	products := make([]model.Product, 0, len(nodes))
	for _, node := range nodes {
		p, err := flattenProduct(node, now)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}
