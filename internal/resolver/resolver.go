// Package resolver turns a category's enriched products into a SkuCollection
// by issuing one batched SKU lookup and mapping every returned record back to
// its owning product.
package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"

	"sephora/crawler/internal/client"
	"sephora/crawler/internal/domain"

	log "github.com/sirupsen/logrus"
)

// ErrorContext captures everything a later run needs to replay a failed
// batch: the failing endpoint, the raw response if one was decoded, the
// SKU -> owning product mapping, and the category.
type ErrorContext struct {
	SkusEndpoint string                    `json:"skus_endpoint"`
	Data         json.RawMessage           `json:"data,omitempty"`
	Mapping      map[string]domain.Product `json:"mapping"`
	Category     string                    `json:"category"`
}

type Resolver struct {
	client client.SephoraClient
}

func New(client client.SephoraClient) *Resolver {
	return &Resolver{client: client}
}

// BuildMapping derives the batch request from a category's products: the
// ordered SKU identifier list and the identifier -> owning product mapping.
// A product with no SKU identifiers contributes nothing.
func BuildMapping(products []domain.Product) ([]string, map[string]domain.Product) {
	skuIDs := make([]string, 0)
	mapping := make(map[string]domain.Product)

	for _, product := range products {
		for _, skuID := range product.SkuIDs {
			if skuID == "" {
				continue
			}
			mapping[skuID] = product
			skuIDs = append(skuIDs, skuID)
		}
	}

	return skuIDs, mapping
}

// Resolve issues one batched SKU lookup for the whole category. On success it
// returns the merged SkuCollection; on any failure it returns a nil
// collection and the ErrorContext to persist for replay.
func (r *Resolver) Resolve(ctx context.Context, products []domain.Product, category string) (domain.SkuCollection, *ErrorContext) {
	skuIDs, mapping := BuildMapping(products)
	if len(skuIDs) == 0 {
		return domain.SkuCollection{}, nil
	}
	return r.resolveIDs(ctx, skuIDs, mapping, category)
}

// ResolveMapping re-resolves a batch from a previously recorded mapping. The
// identifier list is rebuilt from the mapping keys in sorted order so replays
// are deterministic.
func (r *Resolver) ResolveMapping(ctx context.Context, mapping map[string]domain.Product, category string) (domain.SkuCollection, *ErrorContext) {
	skuIDs := make([]string, 0, len(mapping))
	for skuID := range mapping {
		skuIDs = append(skuIDs, skuID)
	}
	sort.Strings(skuIDs)

	if len(skuIDs) == 0 {
		return domain.SkuCollection{}, nil
	}
	return r.resolveIDs(ctx, skuIDs, mapping, category)
}

func (r *Resolver) resolveIDs(ctx context.Context, skuIDs []string, mapping map[string]domain.Product, category string) (domain.SkuCollection, *ErrorContext) {
	resp, err := r.client.GetSkuBatch(ctx, skuIDs)
	if err != nil {
		log.Errorf("❌ Batch SKU fetch failed for %s: %v", category, err)
		return nil, &ErrorContext{
			SkusEndpoint: resp.Endpoint,
			Mapping:      mapping,
			Category:     category,
		}
	}

	records, err := decodeSkuBatch(resp.Body)
	if err != nil {
		log.Errorf("❌ Batch SKU decode failed for %s: %v", category, err)
		return nil, &ErrorContext{
			SkusEndpoint: resp.Endpoint,
			Mapping:      mapping,
			Category:     category,
		}
	}

	collection := make(domain.SkuCollection, len(records))
	for _, record := range records {
		owner, ok := mapping[record.SkuNumber]
		if !ok {
			// The upstream batch response is all-or-nothing with respect to
			// local consistency: an unowned SKU fails the whole batch.
			err := domain.BatchMappingError{SkuNumber: record.SkuNumber}
			log.Errorf("❌ Batch SKU mapping inconsistent for %s: %v", category, err)
			return nil, &ErrorContext{
				SkusEndpoint: resp.Endpoint,
				Data:         json.RawMessage(resp.Body),
				Mapping:      mapping,
				Category:     category,
			}
		}

		record.VariationType = variationType(record, owner)
		record.QuickLookDesc = owner.QuickLookDesc
		record.Category = owner.Category
		collection[record.SkuNumber] = record
	}

	return collection, nil
}

// decodeSkuBatch normalizes the shape-polymorphic batch response: the
// upstream returns a single SKU object for one identifier and a list
// otherwise. Both are valid; business logic only ever sees a slice.
func decodeSkuBatch(body []byte) ([]domain.SkuRecord, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []domain.SkuRecord
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, err
		}
		return records, nil
	}

	var record domain.SkuRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, err
	}
	return []domain.SkuRecord{record}, nil
}

// variationType resolves the merged variation type: the SKU's own nested
// primary-product value wins, then the owning product's, else empty.
func variationType(record domain.SkuRecord, owner domain.Product) string {
	if record.PrimaryProduct != nil && record.PrimaryProduct.VariationType != "" {
		return record.PrimaryProduct.VariationType
	}
	return owner.VariationType
}
