package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/shelf/internal/catalog"
	"github.com/charmbracelet/shelf/internal/config"
	"github.com/charmbracelet/shelf/internal/window"
	"github.com/charmbracelet/x/exp/golden"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWindowCommand(t *testing.T) {
	t.Parallel()

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		err := runWindow(&buf, windowOptions{
			count:         10000,
			itemSize:      50,
			containerSize: 500,
			overscan:      window.DefaultOverscan,
			offset:        1000,
		}, "text")
		require.NoError(t, err)
		golden.RequireEqual(t, buf.Bytes())
	})

	t.Run("text with items", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		err := runWindow(&buf, windowOptions{
			count:         5,
			itemSize:      2,
			containerSize: 4,
			overscan:      1,
			offset:        2,
			items:         true,
		}, "text")
		require.NoError(t, err)
		golden.RequireEqual(t, buf.Bytes())
	})

	t.Run("should report clamped offsets as json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		err := runWindow(&buf, windowOptions{
			count:         100,
			itemSize:      1,
			containerSize: 10,
			offset:        1e6,
		}, "json")
		require.NoError(t, err)

		var report WindowReport
		require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
		assert.Equal(t, 90, report.Start)
		assert.Equal(t, 99, report.End)
		assert.Equal(t, 10, report.Rendered)
		assert.Equal(t, float64(90), report.MaxOffset)
	})

	t.Run("should write yaml", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		err := runWindow(&buf, windowOptions{count: 3, itemSize: 1, containerSize: 10}, "yaml")
		require.NoError(t, err)

		var report WindowReport
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &report))
		assert.Equal(t, 0, report.Start)
		assert.Equal(t, 2, report.End)
		assert.Equal(t, 3, report.Visible)
	})

	t.Run("should say when nothing renders", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, runWindow(&buf, windowOptions{itemSize: 1, containerSize: 10}, "text"))
		assert.Equal(t, "Nothing to render.\n", buf.String())
	})

	t.Run("should reject invalid input", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		err := runWindow(&buf, windowOptions{count: 10, itemSize: 0, containerSize: 10}, "text")
		require.ErrorIs(t, err, window.ErrPrecondition)
		assert.Empty(t, buf.String())
	})

	t.Run("should reject unknown formats", func(t *testing.T) {
		t.Parallel()
		err := runWindow(&bytes.Buffer{}, windowOptions{count: 1, itemSize: 1, containerSize: 1}, "xml")
		require.EqualError(t, err, "unsupported format: xml")
	})
}

func TestProductsOutput(t *testing.T) {
	t.Parallel()

	products := []catalog.Product{
		{ID: "1", Name: "Mug", SKU: "M-1", Category: "homewares", Price: 9.5},
		{ID: "2", Name: "Hoodie", SKU: "H-1", Category: "apparel", Price: 45, Currency: "EUR"},
		{ID: "3", Name: "Tea Towel", SKU: "T-1", Category: "homewares", Price: 7},
		{ID: "4", Name: "Gift Card", Price: 25},
	}
	groups := groupByCategory(products)

	t.Run("should group in catalog order", func(t *testing.T) {
		t.Parallel()
		require.Len(t, groups, 3)
		assert.Equal(t, "homewares", groups[0].Category)
		assert.Equal(t, []string{"1", "3"}, []string{groups[0].Products[0].ID, groups[0].Products[1].ID})
		assert.Equal(t, "apparel", groups[1].Category)
		assert.Equal(t, uncategorized, groups[2].Category)
	})

	t.Run("should align text", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, formatProducts(&buf, groups, "text"))
		want := strings.Join([]string{
			"• homewares (2)",
			"  • Mug        9.50 USD",
			"  • Tea Towel  7.00 USD",
			"• apparel (1)",
			"  • Hoodie     45.00 EUR",
			"• uncategorized (1)",
			"  • Gift Card  25.00 USD",
			"",
		}, "\n")
		assert.Equal(t, want, buf.String())
	})

	t.Run("should write markdown tables", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, formatProducts(&buf, groups, "md"))
		out := buf.String()
		assert.True(t, strings.HasPrefix(out, "# Products\n"))
		assert.Contains(t, out, "## apparel\n")
		assert.Contains(t, out, "| Hoodie | H-1 | 45.00 EUR |")
	})

	t.Run("should round trip json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, formatProducts(&buf, groups, "JSON"))
		var got []CategoryWithProducts
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, groups, got)
	})

	t.Run("should handle no products", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, formatProducts(&buf, nil, "text"))
		assert.Equal(t, "No products found.\n", buf.String())
	})
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	t.Run("should generate products", func(t *testing.T) {
		t.Parallel()
		cfg := config.Default(t.TempDir())
		cat, path, err := loadCatalog(cfg, nil, 12, "")
		require.NoError(t, err)
		assert.Empty(t, path)
		assert.Len(t, cat.Products, 12)
	})

	t.Run("should use generated thumbnails from the images dir", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("x"), 0o644))
		cfg := config.Default(dir)
		cat, _, err := loadCatalog(cfg, nil, 2, dir)
		require.NoError(t, err)
		for _, p := range cat.Products {
			assert.Equal(t, filepath.Join(dir, "a.png"), p.Thumbnail)
		}
	})

	t.Run("should resolve catalog args against the working dir", func(t *testing.T) {
		t.Parallel()
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "shop.json"), []byte(`[{"name": "Mug"}]`), 0o644))
		cfg := config.Default(dir)
		cat, path, err := loadCatalog(cfg, []string{"shop.json"}, 0, "")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "shop.json"), path)
		require.Len(t, cat.Products, 1)
		assert.Equal(t, "Mug", cat.Products[0].Name)
	})

	t.Run("should require a catalog", func(t *testing.T) {
		t.Parallel()
		cfg := config.Default(t.TempDir())
		_, _, err := loadCatalog(cfg, nil, 0, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no catalog given")
	})
}

func TestConfigSchema(t *testing.T) {
	t.Parallel()

	data, err := configSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "Shelf configuration", schema["title"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "catalog")
	assert.Contains(t, props, "options")
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	cfg := config.Default(t.TempDir())

	t.Run("should fail on unset keys", func(t *testing.T) {
		err := runConfigGet(&bytes.Buffer{}, cfg, "options.overscan")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "options.overscan is not set")
	})

	t.Run("should store json values typed", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, runConfigSet(&buf, cfg, "options.overscan", "8"))
		require.NoError(t, runConfigSet(&buf, cfg, "options.thumbnails", `{"threshold": [0, 0.5]}`))
		require.NoError(t, runConfigSet(&buf, cfg, "catalog", "shop/products.json"))
		assert.Contains(t, buf.String(), "Set catalog in "+cfg.DataConfigPath())

		data, err := os.ReadFile(cfg.DataConfigPath())
		require.NoError(t, err)
		var stored struct {
			Catalog string         `json:"catalog"`
			Options config.Options `json:"options"`
		}
		require.NoError(t, json.Unmarshal(data, &stored))
		assert.Equal(t, "shop/products.json", stored.Catalog)
		require.NotNil(t, stored.Options.Overscan)
		assert.Equal(t, 8, *stored.Options.Overscan)
		require.NotNil(t, stored.Options.Thumbnails)
		assert.Equal(t, []float64{0, 0.5}, stored.Options.Thumbnails.Threshold)
	})

	t.Run("should print stored values", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, runConfigGet(&buf, cfg, "options.overscan"))
		assert.Equal(t, "8\n", buf.String())
	})
}

func TestWindowItemsFollowRange(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := runWindow(&buf, windowOptions{
		count:         1 << 40,
		itemSize:      1,
		containerSize: 10,
		overscan:      2,
		offset:        1 << 30,
		items:         true,
	}, "json")
	require.NoError(t, err)

	var report WindowReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &report))
	require.Len(t, report.Materialized, report.Rendered)
	assert.Equal(t, 15, report.Rendered)
	assert.Equal(t, fmt.Sprintf("row %d @ %g", report.Start, float64(report.Start)), report.Materialized[0])
}
