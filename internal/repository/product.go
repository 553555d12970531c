package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tuanvumaihuynh/storefront-catalog/internal/model"
	"github.com/tuanvumaihuynh/storefront-catalog/internal/storage/db"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository interface {
	WithDB(db db.DB) ProductRepository
	// CreateProducts inserts all products in one COPY; either every row lands or none does.
	CreateProducts(ctx context.Context, products []model.Product) (int64, error)
	ListProducts(ctx context.Context, limit int32) ([]model.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) (model.Product, error)
}

type productRepository struct {
	db db.DB
}

func NewProductRepository(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

func (r productRepository) WithDB(db db.DB) ProductRepository {
	return &productRepository{
		db: db,
	}
}

var productColumns = []string{
	"id",
	"product_id",
	"title",
	"vendor",
	"description",
	"image",
	"price",
	"created_at",
}

const selectProductColumns = `id, product_id, title, vendor, description, image, price, created_at`

func (r productRepository) CreateProducts(ctx context.Context, products []model.Product) (int64, error) {
	if len(products) == 0 {
		return 0, nil
	}

	n, err := r.db.CopyFrom(ctx,
		pgx.Identifier{"products"},
		productColumns,
		pgx.CopyFromSlice(len(products), func(i int) ([]any, error) {
			p := products[i]

			price, err := priceToNumeric(p.Price)
			if err != nil {
				return nil, fmt.Errorf("product %s: %w", p.ProductID, err)
			}

			return []any{
				p.ID,
				p.ProductID,
				p.Title,
				p.Vendor,
				p.Description,
				p.Image,
				price,
				p.CreatedAt,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy products: %w", err)
	}

	return n, nil
}

func (r productRepository) ListProducts(ctx context.Context, limit int32) ([]model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+selectProductColumns+`
		FROM products
		ORDER BY id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}

	products, err := pgx.CollectRows(rows, scanProduct)
	if err != nil {
		return nil, fmt.Errorf("collect products: %w", err)
	}

	return products, nil
}

func (r productRepository) GetProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+selectProductColumns+`
		FROM products
		WHERE id = $1
	`, id)
	if err != nil {
		return model.Product{}, fmt.Errorf("query product: %w", err)
	}

	product, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if db.IsNoRows(err) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("collect product: %w", err)
	}

	return product, nil
}

func (r productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) (model.Product, error) {
	rows, err := r.db.Query(ctx, `
		DELETE FROM products
		WHERE id = $1
		RETURNING `+selectProductColumns,
		id,
	)
	if err != nil {
		return model.Product{}, fmt.Errorf("delete product: %w", err)
	}

	product, err := pgx.CollectExactlyOneRow(rows, scanProduct)
	if err != nil {
		if db.IsNoRows(err) {
			return model.Product{}, ErrProductNotFound
		}
		return model.Product{}, fmt.Errorf("collect deleted product: %w", err)
	}

	return product, nil
}

func scanProduct(row pgx.CollectableRow) (model.Product, error) {
	var (
		p     model.Product
		price pgtype.Numeric
	)

	if err := row.Scan(
		&p.ID,
		&p.ProductID,
		&p.Title,
		&p.Vendor,
		&p.Description,
		&p.Image,
		&price,
		&p.CreatedAt,
	); err != nil {
		return model.Product{}, err
	}

	f, err := price.Float64Value()
	if err != nil {
		return model.Product{}, fmt.Errorf("convert price to float64: %w", err)
	}
	p.Price = f.Float64

	return p, nil
}

func priceToNumeric(price float64) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(strconv.FormatFloat(price, 'f', 2, 64)); err != nil {
		return pgtype.Numeric{}, fmt.Errorf("scan price: %w", err)
	}
	return n, nil
}
