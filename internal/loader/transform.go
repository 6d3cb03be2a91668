package loader

import (
	"strings"

	"sephora/crawler/internal/domain"
)

// PushProduct is the document shape the downstream catalog API accepts.
type PushProduct struct {
	Brand    string            `json:"brand"`
	Item     string            `json:"item"`
	Shade    string            `json:"shade"`
	Category string            `json:"category"`
	Specs    map[string]string `json:"specs"`
	Skus     map[string]string `json:"skus"`
	Size     domain.SkuSize    `json:"size"`
	Products []string          `json:"products"`
	Images   []Image           `json:"images"`
}

type Image struct {
	URL  string `json:"url"`
	Type string `json:"type"`
	Size string `json:"size"`
}

// TransformSkuRecord reshapes a persisted SKU record into a push-API product.
// Records without a SKU number or category are not loadable and yield nil.
func TransformSkuRecord(record domain.SkuRecord, siteURL string) *PushProduct {
	if record.SkuNumber == "" || record.Category == "" {
		return nil
	}

	product := &PushProduct{
		Shade:    shade(record),
		Category: record.Category,
		Specs:    specs(record),
		Skus:     map[string]string{"sephora": record.SkuNumber},
		Size:     domain.ParseSkuSize(record.SkuSize),
		Products: []string{},
		Images:   images(record, siteURL),
	}

	if record.PrimaryProduct != nil {
		product.Brand = record.PrimaryProduct.BrandName
		product.Item = record.PrimaryProduct.DisplayName
	}

	return product
}

// shade is the variation value, but only for color variations.
func shade(record domain.SkuRecord) string {
	if strings.EqualFold(record.VariationType, "color") {
		return record.VariationValue
	}
	return ""
}

func specs(record domain.SkuRecord) map[string]string {
	result := make(map[string]string)

	if ingredients := cleanText(record.Ingredients); ingredients != "" {
		result["ingredients"] = ingredients
	}
	if summary := cleanText(record.QuickLookDesc); summary != "" {
		result["summary"] = summary
	}
	if description := cleanText(record.AdditionalSkuDesc); description != "" {
		result["description"] = description
	}

	return result
}

// images assembles the image set: the swatch plus every grid/thumb/large/hero
// image whose path names it a "main" image.
func images(record domain.SkuRecord, siteURL string) []Image {
	result := make([]Image, 0)

	if record.SwatchImage != "" {
		result = append(result, Image{
			URL:  siteURL + record.SwatchImage,
			Type: "swatch",
			Size: "small",
		})
	}

	for _, group := range []struct {
		paths string
		size  string
	}{
		{record.GridImages, "medium"},
		{record.ThumbImages, "small"},
		{record.LargeImages, "xlarge"},
		{record.HeroImages, "large"},
	} {
		for _, path := range strings.Fields(group.paths) {
			if !strings.Contains(strings.ToLower(path), "main") {
				continue
			}
			result = append(result, Image{
				URL:  siteURL + path,
				Type: "product",
				Size: group.size,
			})
		}
	}

	return result
}

func cleanText(value string) string {
	return strings.TrimSpace(removeEscapeCharacters(stripHTML(value)))
}
