package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"sephora/crawler/internal/domain"
)

const (
	productsDir = "products_new"
	skusDir     = "skus_new"
)

// FileSink writes one JSON document per category: an array of enriched
// products and an object keyed by SKU number. Writes go through a temp file
// and rename so a concurrent reader never observes partial JSON.
type FileSink struct {
	dataDir string
	mu      sync.Mutex
}

func NewFileSink(dataDir string) (*FileSink, error) {
	for _, sub := range []string{productsDir, skusDir} {
		if err := os.MkdirAll(filepath.Join(dataDir, sub), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory %s: %w", sub, err)
		}
	}
	return &FileSink{dataDir: dataDir}, nil
}

func (s *FileSink) WriteProducts(ctx context.Context, category string, products []domain.Product) error {
	return s.writeJSON(s.productsPath(category), products)
}

func (s *FileSink) WriteSkus(ctx context.Context, category string, skus domain.SkuCollection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.readSkus(category)
	if err != nil {
		return err
	}

	existing.Merge(skus)
	return s.writeJSON(s.skusPath(category), existing)
}

// ReadSkus returns the persisted SKU collection for a category, empty if none
// has been written yet.
func (s *FileSink) ReadSkus(category string) (domain.SkuCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readSkus(category)
}

// ListSkuCategories enumerates the categories with a persisted SKU
// collection, by file key.
func (s *FileSink) ListSkuCategories() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.dataDir, skusDir))
	if err != nil {
		return nil, fmt.Errorf("list sku collections: %w", err)
	}

	categories := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		categories = append(categories, strings.TrimSuffix(entry.Name(), ".json"))
	}
	sort.Strings(categories)
	return categories, nil
}

func (s *FileSink) readSkus(category string) (domain.SkuCollection, error) {
	data, err := os.ReadFile(s.skusPath(category))
	if err != nil {
		if os.IsNotExist(err) {
			return domain.SkuCollection{}, nil
		}
		return nil, fmt.Errorf("read sku collection for %s: %w", category, err)
	}

	var skus domain.SkuCollection
	if err := json.Unmarshal(data, &skus); err != nil {
		return nil, fmt.Errorf("decode sku collection for %s: %w", category, err)
	}
	return skus, nil
}

func (s *FileSink) writeJSON(path string, document any) error {
	data, err := json.MarshalIndent(document, "", "    ")
	if err != nil {
		return fmt.Errorf("serialize document %s: %w", filepath.Base(path), err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write document %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write document %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *FileSink) productsPath(category string) string {
	return filepath.Join(s.dataDir, productsDir, fileKey(category)+".json")
}

func (s *FileSink) skusPath(category string) string {
	return filepath.Join(s.dataDir, skusDir, fileKey(category)+".json")
}
