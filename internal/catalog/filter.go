package catalog

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

type productSource []Product

func (s productSource) String(i int) string {
	p := s[i]
	return p.Name + " " + p.SKU + " " + p.Category
}

func (s productSource) Len() int {
	return len(s)
}

// Filter returns the products matching query, best matches first. An empty
// query returns products unchanged.
func Filter(products []Product, query string) []Product {
	query = strings.TrimSpace(query)
	if query == "" {
		return products
	}
	matches := fuzzy.FindFrom(query, productSource(products))
	out := make([]Product, 0, len(matches))
	for _, m := range matches {
		out = append(out, products[m.Index])
	}
	return out
}
