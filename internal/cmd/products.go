package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/charmbracelet/shelf/internal/catalog"
	"github.com/rivo/uniseg"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// CategoryWithProducts is one category and the products filed under it, in
// catalog order.
type CategoryWithProducts struct {
	Category string            `json:"category" yaml:"category"`
	Products []catalog.Product `json:"products" yaml:"products"`
}

var productsCmd = &cobra.Command{
	Use:   "products [catalog.json]",
	Short: "Print the products of a catalog",
	Long:  "Print the products of a catalog grouped by category, without starting the interface.",
	Example: heredoc.Doc(`
		# List the configured catalog
		shelf products

		# Search a catalog file and print the matches as YAML
		shelf products products.json --filter hoodie -f yaml

		# Export a generated catalog as JSON
		shelf products --generate 100 -f json > products.json
	`),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setupConfig(cmd)
		if err != nil {
			return err
		}
		generate, _ := cmd.Flags().GetInt("generate")
		images, _ := cmd.Flags().GetString("images")
		query, _ := cmd.Flags().GetString("filter")
		format, _ := cmd.Flags().GetString("format")

		cat, _, err := loadCatalog(cfg, args, generate, images)
		if err != nil {
			return err
		}
		products := catalog.Filter(cat.Products, query)
		return formatProducts(cmd.OutOrStdout(), groupByCategory(products), format)
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.Flags().IntP("generate", "g", 0, "List N generated products instead of a catalog file")
	productsCmd.Flags().String("images", "", "Directory of images used as thumbnails for generated products")
	productsCmd.Flags().String("filter", "", "Only list products matching this fuzzy query")
	productsCmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml, markdown)")
}

const uncategorized = "uncategorized"

func groupByCategory(products []catalog.Product) []CategoryWithProducts {
	var result []CategoryWithProducts
	index := make(map[string]int)
	for _, p := range products {
		category := p.Category
		if category == "" {
			category = uncategorized
		}
		i, ok := index[category]
		if !ok {
			i = len(result)
			index[category] = i
			result = append(result, CategoryWithProducts{Category: category})
		}
		result[i].Products = append(result[i].Products, p)
	}
	return result
}

func formatProducts(w io.Writer, groups []CategoryWithProducts, format string) error {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(groups, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	case "yaml":
		data, err := yaml.Marshal(groups)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Fprint(w, string(data))
		return nil
	case "markdown", "md":
		return formatProductsMarkdown(w, groups)
	case "text":
		return formatProductsText(w, groups)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func formatProductsMarkdown(w io.Writer, groups []CategoryWithProducts) error {
	fmt.Fprintln(w, "# Products")
	fmt.Fprintln(w)

	if len(groups) == 0 {
		fmt.Fprintln(w, "No products found.")
		return nil
	}

	for _, group := range groups {
		fmt.Fprintf(w, "## %s\n\n", group.Category)
		fmt.Fprintln(w, "| Name | SKU | Price |")
		fmt.Fprintln(w, "| --- | --- | ---: |")
		for _, p := range group.Products {
			fmt.Fprintf(w, "| %s | %s | %s |\n", p.Name, p.SKU, p.FormatPrice())
		}
		fmt.Fprintln(w)
	}
	return nil
}

func formatProductsText(w io.Writer, groups []CategoryWithProducts) error {
	if len(groups) == 0 {
		fmt.Fprintln(w, "No products found.")
		return nil
	}

	nameWidth := 0
	for _, group := range groups {
		for _, p := range group.Products {
			nameWidth = max(nameWidth, uniseg.StringWidth(p.Name))
		}
	}

	for _, group := range groups {
		fmt.Fprintf(w, "• %s (%d)\n", group.Category, len(group.Products))
		for _, p := range group.Products {
			pad := strings.Repeat(" ", nameWidth-uniseg.StringWidth(p.Name))
			fmt.Fprintf(w, "  • %s%s  %s\n", p.Name, pad, p.FormatPrice())
		}
	}
	return nil
}
