package domain

type Product struct {
	ID            string  `json:"id"`
	DisplayName   string  `json:"display_name,omitempty"`
	BrandName     string  `json:"brand_name,omitempty"`
	VariationType string  `json:"variation_type,omitempty"`
	ListPrice     string  `json:"list_price,omitempty"`
	Rating        float64 `json:"rating,omitempty"`
	TargetURL     string  `json:"targetUrl,omitempty"`

	// Set by enrichment, empty until then.
	SkuIDs        []string `json:"sku_ids,omitempty"`
	QuickLookDesc string   `json:"quick_look_desc,omitempty"`

	// Set by the orchestrator once the owning category is known.
	Category string `json:"category,omitempty"`
}

// WithEnrichment returns a copy carrying the per-product lookup results.
func (p Product) WithEnrichment(skuIDs []string, quickLookDesc string) Product {
	p.SkuIDs = skuIDs
	p.QuickLookDesc = quickLookDesc
	return p
}

// WithCategory returns a copy tagged with the owning category's name.
func (p Product) WithCategory(category string) Product {
	p.Category = category
	return p
}

type ProductPage struct {
	PageNumber    int       `json:"page_number"`
	TotalProducts int       `json:"total_products"`
	PageSize      int       `json:"page_size"`
	Products      []Product `json:"products"`
}

type ProductCollection struct {
	Category      Category  `json:"category"`
	TotalProducts int       `json:"total_products"`
	Products      []Product `json:"products"`
}
