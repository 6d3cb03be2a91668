package domain

import (
	"sort"
	"strings"
)

type Category struct {
	Name    string `json:"name"`     // Display name, identity of the category
	SeoPath string `json:"seo_path"` // Path segment used by the listing API
}

// FileKey is the storage key for this category's documents.
func (c Category) FileKey() string {
	return strings.ReplaceAll(c.Name, " ", "_")
}

// CategoriesFromMap builds the category list from a raw key -> display name
// mapping. Entries with an empty display name are excluded. The result is
// sorted by name so runs process categories in a stable order.
func CategoriesFromMap(raw map[string]string) []Category {
	categories := make([]Category, 0, len(raw))
	for key, name := range raw {
		if name == "" {
			continue
		}
		categories = append(categories, Category{
			Name:    name,
			SeoPath: strings.TrimSuffix(key, ".json"),
		})
	}

	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Name < categories[j].Name
	})

	return categories
}
