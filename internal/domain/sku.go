package domain

// PrimaryProduct is the nested product summary the batch SKU API attaches to
// each SKU when include_product=true.
type PrimaryProduct struct {
	BrandName     string `json:"brand_name,omitempty"`
	DisplayName   string `json:"display_name,omitempty"`
	VariationType string `json:"variation_type,omitempty"`
}

type SkuRecord struct {
	SkuNumber         string          `json:"sku_number"`
	VariationType     string          `json:"variation_type,omitempty"`
	VariationValue    string          `json:"variation_value,omitempty"`
	SkuSize           string          `json:"sku_size,omitempty"`
	ListPrice         string          `json:"list_price,omitempty"`
	Ingredients       string          `json:"ingredients,omitempty"`
	AdditionalSkuDesc string          `json:"additional_sku_desc,omitempty"`
	SwatchImage       string          `json:"swatch_image,omitempty"`
	GridImages        string          `json:"grid_images,omitempty"`
	ThumbImages       string          `json:"thumb_images,omitempty"`
	LargeImages       string          `json:"large_images,omitempty"`
	HeroImages        string          `json:"hero_images,omitempty"`
	PrimaryProduct    *PrimaryProduct `json:"primary_product,omitempty"`

	// Copied from the owning product, never from the SKU response.
	QuickLookDesc string `json:"quick_look_desc,omitempty"`
	Category      string `json:"category,omitempty"`
}

// SkuCollection maps SKU number -> record, persisted per category.
type SkuCollection map[string]SkuRecord

// Merge folds other into the collection, overwriting existing SKU numbers.
func (c SkuCollection) Merge(other SkuCollection) {
	for number, record := range other {
		c[number] = record
	}
}
