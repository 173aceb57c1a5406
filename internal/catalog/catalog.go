// Package catalog loads and filters the products shown by shelf.
package catalog

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

var ErrEmptyCatalog = errors.New("catalog has no products")

type Product struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	SKU       string  `json:"sku,omitempty"`
	Category  string  `json:"category,omitempty"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency,omitempty"`
	Thumbnail string  `json:"thumbnail,omitempty"`
}

// FormatPrice renders the price with its currency, e.g. "12.50 USD".
func (p Product) FormatPrice() string {
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}
	return strconv.FormatFloat(p.Price, 'f', 2, 64) + " " + currency
}

type Catalog struct {
	Source   string
	Products []Product
}

// Load reads a catalog file. The file holds either a JSON array of products
// or an object with a "products" array. Relative thumbnail paths are resolved
// against the catalog's directory.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	products, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	slog.Debug("Loaded catalog", "path", path, "products", len(products))
	return &Catalog{Source: path, Products: products}, nil
}

// Parse decodes catalog JSON. baseDir is used to resolve relative thumbnails.
// Product ids are unique in the result: a missing or repeated id is replaced
// with a random one.
func Parse(data []byte, baseDir string) ([]Product, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	list := root
	if root.IsObject() {
		list = root.Get("products")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("expected an array of products")
	}

	var products []Product
	var parseErr error
	seen := make(map[string]struct{})
	list.ForEach(func(key, value gjson.Result) bool {
		p := Product{
			ID:        value.Get("id").String(),
			Name:      strings.TrimSpace(value.Get("name").String()),
			SKU:       value.Get("sku").String(),
			Category:  value.Get("category").String(),
			Price:     value.Get("price").Float(),
			Currency:  value.Get("currency").String(),
			Thumbnail: value.Get("thumbnail").String(),
		}
		if p.Name == "" {
			parseErr = fmt.Errorf("product %d has no name", key.Int())
			return false
		}
		if _, dup := seen[p.ID]; dup {
			slog.Warn("Product id already taken, assigning a new one", "id", p.ID, "name", p.Name)
			p.ID = ""
		}
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		seen[p.ID] = struct{}{}
		if p.Thumbnail != "" && !filepath.IsAbs(p.Thumbnail) && baseDir != "" {
			p.Thumbnail = filepath.Join(baseDir, p.Thumbnail)
		}
		products = append(products, p)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	if len(products) == 0 {
		return nil, ErrEmptyCatalog
	}
	return products, nil
}

var (
	adjectives = []string{"Classic", "Organic", "Vintage", "Handmade", "Everyday", "Premium", "Minimal", "Rugged"}
	nouns      = []string{"Hoodie", "Mug", "Sneakers", "Backpack", "Notebook", "Beanie", "Tote", "Poster", "Juice"}
	categories = []string{"apparel", "accessories", "homewares", "groceries", "stationery"}
)

// Generate builds a synthetic catalog of n products. Thumbnails are assigned
// round-robin from images, which may be empty.
func Generate(n int, images []string) *Catalog {
	products := make([]Product, n)
	for i := range products {
		adj := adjectives[i%len(adjectives)]
		noun := nouns[(i/len(adjectives))%len(nouns)]
		p := Product{
			ID:       uuid.NewString(),
			Name:     fmt.Sprintf("%s %s #%d", adj, noun, i+1),
			SKU:      fmt.Sprintf("SKU-%06d", i+1),
			Category: categories[i%len(categories)],
			Price:    float64(500+(i*137)%9500) / 100,
			Currency: "USD",
		}
		if len(images) > 0 {
			p.Thumbnail = images[i%len(images)]
		}
		products[i] = p
	}
	return &Catalog{Source: "generated", Products: products}
}
