package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sephora/crawler/internal/config"
	"sephora/crawler/internal/domain"
	"sephora/crawler/internal/observability"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

type SephoraClient interface {
	GetProductPage(ctx context.Context, category domain.Category, pageNumber int) (*domain.ProductPage, error)
	GetAllProductPages(ctx context.Context, category domain.Category) (*domain.ProductCollection, error)
	GetProductDetail(ctx context.Context, productID string) (*ProductDetail, error)
	GetSkuBatch(ctx context.Context, skuIDs []string) (*SkuBatchResponse, error)
}

// ProductDetail is the per-product lookup result used for enrichment.
type ProductDetail struct {
	SkuIDs        []string
	QuickLookDesc string
}

// SkuBatchResponse carries the raw batch SKU body together with the endpoint
// that produced it. The body is decoded by the resolver, not here; on failure
// the endpoint identifies the batch in the error record.
type SkuBatchResponse struct {
	Endpoint string
	Body     []byte
}

type sephoraClient struct {
	rl         ratelimit.Limiter
	config     config.SephoraConfig
	baseURL    string
	httpClient *resty.Client
}

func NewSephoraClient(cfg config.SephoraConfig) SephoraClient {
	client := resty.New().
		SetTimeout(time.Duration(cfg.Timeout)*time.Second).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(2*time.Second).
		SetRetryMaxWaitTime(10*time.Second).
		SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36").
		SetHeader("Accept", "application/json")

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	return &sephoraClient{
		rl:         rl,
		config:     cfg,
		baseURL:    cfg.BaseURL,
		httpClient: client,
	}
}

func (c *sephoraClient) GetProductPage(ctx context.Context, category domain.Category, pageNumber int) (*domain.ProductPage, error) {
	endpoint := fmt.Sprintf("%s&currentPage=%d", c.listingEndpoint(category), pageNumber)

	body, err := c.fetchJSON(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var listing struct {
		TotalProducts int              `json:"total_products"`
		Products      []domain.Product `json:"products"`
	}
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, domain.ParseError{Endpoint: endpoint, Err: err}
	}

	log.Debugf("Fetched page %d for %s with %d products", pageNumber, category.Name, len(listing.Products))
	observability.PagesFetched.Inc()

	return &domain.ProductPage{
		PageNumber:    pageNumber,
		TotalProducts: listing.TotalProducts,
		PageSize:      c.config.PageSize,
		Products:      listing.Products,
	}, nil
}

// GetAllProductPages fetches every listing page for a category. Page 1
// reports the product total; pages 2..N are fetched sequentially and
// concatenated in page order. Any page failure aborts the whole category.
func (c *sephoraClient) GetAllProductPages(ctx context.Context, category domain.Category) (*domain.ProductCollection, error) {
	firstPage, err := c.GetProductPage(ctx, category, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch first page: %w", err)
	}

	collection := &domain.ProductCollection{
		Category:      category,
		TotalProducts: firstPage.TotalProducts,
		Products:      firstPage.Products,
	}

	totalPages := (firstPage.TotalProducts + c.config.PageSize - 1) / c.config.PageSize

	for pageNumber := 2; pageNumber <= totalPages; pageNumber++ {
		page, err := c.GetProductPage(ctx, category, pageNumber)
		if err != nil {
			return nil, domain.PageFetchError{
				Page:     pageNumber,
				Endpoint: c.listingEndpoint(category),
				Err:      err,
			}
		}
		collection.Products = append(collection.Products, page.Products...)
	}

	return collection, nil
}

func (c *sephoraClient) GetProductDetail(ctx context.Context, productID string) (*ProductDetail, error) {
	endpoint := fmt.Sprintf("%s/rest/products/%s", c.baseURL, productID)

	body, err := c.fetchJSON(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	var detail struct {
		SkuIDs        string `json:"sku_ids"`
		QuickLookDesc string `json:"quick_look_desc"`
	}
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, domain.ParseError{Endpoint: endpoint, Err: err}
	}

	return &ProductDetail{
		SkuIDs:        splitSkuIDs(detail.SkuIDs),
		QuickLookDesc: detail.QuickLookDesc,
	}, nil
}

func (c *sephoraClient) GetSkuBatch(ctx context.Context, skuIDs []string) (*SkuBatchResponse, error) {
	endpoint := fmt.Sprintf("%s/global/json/getSkuJson.jsp?skuId=%s&include_product=true",
		c.baseURL, strings.Join(skuIDs, ","))

	body, err := c.fetchJSON(ctx, endpoint)
	if err != nil {
		return &SkuBatchResponse{Endpoint: endpoint}, err
	}

	return &SkuBatchResponse{Endpoint: endpoint, Body: body}, nil
}

func (c *sephoraClient) listingEndpoint(category domain.Category) string {
	return fmt.Sprintf("%s/rest/products/?categoryName=%s&include_categories=true&includeAll&pageSize=%d",
		c.baseURL, category.SeoPath, c.config.PageSize)
}

func (c *sephoraClient) fetchJSON(ctx context.Context, endpoint string) ([]byte, error) {
	c.rl.Take()

	resp, err := c.httpClient.R().
		SetContext(ctx).
		Get(endpoint)

	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("failed to fetch URL: %w", err)
	}

	if resp.IsError() {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
	}

	body := resp.String()
	if len(body) == 0 {
		return nil, domain.EmptyResponseError{Endpoint: endpoint}
	}

	return []byte(body), nil
}

// splitSkuIDs splits the comma-separated SKU id field. An empty field yields
// an empty slice, not a one-element slice containing "".
func splitSkuIDs(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return strings.Split(raw, ",")
}
