package sink

import (
	"context"
	"fmt"

	"sephora/crawler/internal/domain"
)

// MultiSink fans writes out to every configured sink.
type MultiSink struct {
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) WriteProducts(ctx context.Context, category string, products []domain.Product) error {
	for _, s := range m.sinks {
		if err := s.WriteProducts(ctx, category, products); err != nil {
			return fmt.Errorf("products write failed: %w", err)
		}
	}
	return nil
}

func (m *MultiSink) WriteSkus(ctx context.Context, category string, skus domain.SkuCollection) error {
	for _, s := range m.sinks {
		if err := s.WriteSkus(ctx, category, skus); err != nil {
			return fmt.Errorf("skus write failed: %w", err)
		}
	}
	return nil
}
