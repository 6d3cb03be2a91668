// Package sink persists per-category product and SKU documents.
package sink

import (
	"context"
	"strings"

	"sephora/crawler/internal/domain"
)

type Sink interface {
	WriteProducts(ctx context.Context, category string, products []domain.Product) error
	// WriteSkus merges the collection into whatever is already persisted for
	// the category: new SKU numbers are added, existing ones overwritten.
	WriteSkus(ctx context.Context, category string, skus domain.SkuCollection) error
}

func fileKey(category string) string {
	return strings.ReplaceAll(category, " ", "_")
}
