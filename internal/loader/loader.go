// Package loader pushes persisted SKU collections to the downstream catalog
// API as transformed product documents.
package loader

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"sephora/crawler/internal/config"
	"sephora/crawler/internal/sink"

	log "github.com/sirupsen/logrus"
	"resty.dev/v3"
)

type Loader struct {
	store      *sink.FileSink
	httpClient *resty.Client
	apiURL     string
	siteURL    string
}

func New(cfg config.LoaderConfig, siteURL string, store *sink.FileSink) *Loader {
	client := resty.New().
		SetTimeout(60*time.Second).
		SetHeader("Content-Type", "application/json").
		SetBasicAuth(cfg.Username, cfg.Password)

	return &Loader{
		store:      store,
		httpClient: client,
		apiURL:     cfg.APIURL,
		siteURL:    siteURL,
	}
}

// LoadAll transforms and pushes every persisted SKU collection. Per-record
// failures are logged and skipped; a duplicate (409) is not a failure.
func (l *Loader) LoadAll(ctx context.Context) error {
	categories, err := l.store.ListSkuCategories()
	if err != nil {
		return fmt.Errorf("enumerate sku collections: %w", err)
	}

	for _, category := range categories {
		skus, err := l.store.ReadSkus(category)
		if err != nil {
			log.Errorf("❌ Failed to read sku collection %s: %v", category, err)
			continue
		}

		log.Infof("🔄 Loading %d SKUs from %s", len(skus), category)

		for number, record := range skus {
			product := TransformSkuRecord(record, l.siteURL)
			if product == nil {
				log.Debugf("Skipping sku %s: not loadable", number)
				continue
			}
			if err := l.push(ctx, product); err != nil {
				log.Errorf("❌ Failed to push sku %s: %v", number, err)
			}
		}
	}

	return nil
}

func (l *Loader) push(ctx context.Context, product *PushProduct) error {
	resp, err := l.httpClient.R().
		SetContext(ctx).
		SetBody(product).
		Post(l.apiURL + "/products/")

	if err != nil {
		return fmt.Errorf("post product: %w", err)
	}

	switch resp.StatusCode() {
	case http.StatusCreated:
		return nil
	case http.StatusConflict:
		log.Debugf("Product %s/%s already exists", product.Brand, product.Item)
		return nil
	default:
		return fmt.Errorf("post product: unexpected status %d", resp.StatusCode())
	}
}
