package sink

import (
	"context"
	"fmt"

	"sephora/crawler/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresSink upserts products and SKU records as JSONB rows. Upsert gives
// the same last-write-wins merge semantics as the file sink.
type PostgresSink struct {
	db *pgxpool.Pool
}

func NewPostgresSink(db *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{db: db}
}

func (s *PostgresSink) WriteProducts(ctx context.Context, category string, products []domain.Product) error {
	query := `
	INSERT INTO catalog_products (id, category, data)
	VALUES ($1, $2, $3)
	ON CONFLICT (id)
	DO UPDATE SET category = $2, data = $3`

	for _, product := range products {
		if _, err := s.db.Exec(ctx, query, product.ID, fileKey(category), product); err != nil {
			return fmt.Errorf("failed to save product %s: %w", product.ID, err)
		}
	}
	return nil
}

func (s *PostgresSink) WriteSkus(ctx context.Context, category string, skus domain.SkuCollection) error {
	query := `
	INSERT INTO catalog_skus (sku_number, category, data)
	VALUES ($1, $2, $3)
	ON CONFLICT (sku_number)
	DO UPDATE SET category = $2, data = $3`

	for number, record := range skus {
		if _, err := s.db.Exec(ctx, query, number, fileKey(category), record); err != nil {
			return fmt.Errorf("failed to save sku %s: %w", number, err)
		}
	}
	return nil
}
